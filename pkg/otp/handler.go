package otp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"startupconnect/pkg/response"
)

type OTPHandler struct {
	service OTPService
}

func NewOTPHandler(service OTPService) *OTPHandler {
	return &OTPHandler{service: service}
}

func (h *OTPHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/auth/otp", h.getOTP)
	router.POST("/api/auth/otp/verify", h.verifyOTP)
}

type getOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// @Summary      Generate and send OTP
// @Description  Generate a one-time password and send it to the provided email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body getOTPRequest true "Email to send OTP to"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /api/auth/otp [post]
func (h *OTPHandler) getOTP(c *gin.Context) {
	var req getOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	if err := h.service.GenerateAndSendOTP(c.Request.Context(), req.Email); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "OTP sent successfully to "+req.Email, nil)
}

// @Summary      Verify OTP
// @Description  Verify the one-time password for the provided email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body verifyOTPRequest true "Email and OTP code to verify"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/auth/otp/verify [post]
func (h *OTPHandler) verifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	if err := h.service.VerifyOTP(c.Request.Context(), req.Email, req.Code); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "OTP verified successfully", gin.H{"verified": true})
}
