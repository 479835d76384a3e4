package negotiations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/response"
)

type NegotiationHandler struct {
	service     NegotiationService
	requireAuth gin.HandlerFunc
}

func NewNegotiationHandler(service NegotiationService, requireAuth gin.HandlerFunc) *NegotiationHandler {
	return &NegotiationHandler{service: service, requireAuth: requireAuth}
}

func (h *NegotiationHandler) RegisterRoutes(router *gin.Engine) {
	g := router.Group("/api/negotiations", h.requireAuth)
	g.POST("", h.createNegotiation)
	g.GET("/:transactionId", h.getNegotiation)
	g.PUT("/:transactionId", h.updateNegotiation)
	g.POST("/:transactionId/accept", h.acceptNegotiation)
	g.POST("/:transactionId/reject", h.rejectNegotiation)
	g.GET("/startup/:startupId", h.listByStartup)
	g.GET("/investor/:investorId", h.listByInvestor)
}

type createNegotiationRequest struct {
	StartupID        int64           `json:"startup_id" binding:"required"`
	InvestorID       int64           `json:"investor_id"`
	ProposedAmount   decimal.Decimal `json:"proposed_amount" swaggertype:"string"`
	EquityPercentage decimal.Decimal `json:"equity_percentage" swaggertype:"string"`
	Notes            string          `json:"notes"`
}

type updateNegotiationRequest struct {
	ProposedAmount   decimal.Decimal `json:"proposed_amount" swaggertype:"string"`
	EquityPercentage decimal.Decimal `json:"equity_percentage" swaggertype:"string"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes"`
	RejectionReason  string          `json:"rejection_reason"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func transactionParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("transactionId"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid transaction id", nil)
		return 0, false
	}
	return id, true
}

// @Summary      Open a negotiation between a startup and an investor
// @Tags         negotiations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createNegotiationRequest true "Initial proposal"
// @Success      201 {object} response.APIResponse{data=View}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/negotiations [post]
func (h *NegotiationHandler) createNegotiation(c *gin.Context) {
	var req createNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	v, err := h.service.CreateNegotiationOffer(c.Request.Context(), auth.ActorFrom(c), req.StartupID, req.InvestorID, Proposal{
		ProposedAmount:   req.ProposedAmount,
		EquityPercentage: req.EquityPercentage,
		Notes:            req.Notes,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "negotiation created", v)
}

// @Summary      Get a negotiation
// @Tags         negotiations
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path int true "Transaction ID"
// @Success      200 {object} response.APIResponse{data=View}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/negotiations/{transactionId} [get]
func (h *NegotiationHandler) getNegotiation(c *gin.Context) {
	id, ok := transactionParam(c)
	if !ok {
		return
	}
	v, err := h.service.GetNegotiation(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "negotiation fetched", v)
}

// @Summary      Counter a negotiation with a new round
// @Tags         negotiations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path int true "Transaction ID"
// @Param        request body updateNegotiationRequest true "Counter proposal"
// @Success      200 {object} response.APIResponse{data=View}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /api/negotiations/{transactionId} [put]
func (h *NegotiationHandler) updateNegotiation(c *gin.Context) {
	id, ok := transactionParam(c)
	if !ok {
		return
	}
	var req updateNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	status, valid := ParseStatus(req.Status)
	if !valid {
		response.SendError(c, ErrInvalidStatus)
		return
	}

	v, err := h.service.UpdateNegotiationOffer(c.Request.Context(), auth.ActorFrom(c), id, CounterInput{
		Proposal: Proposal{
			ProposedAmount:   req.ProposedAmount,
			EquityPercentage: req.EquityPercentage,
			Notes:            req.Notes,
		},
		Status:          status,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "negotiation updated", v)
}

// @Summary      Accept a negotiation
// @Tags         negotiations
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path int true "Transaction ID"
// @Success      200 {object} response.APIResponse{data=View}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /api/negotiations/{transactionId}/accept [post]
func (h *NegotiationHandler) acceptNegotiation(c *gin.Context) {
	id, ok := transactionParam(c)
	if !ok {
		return
	}
	v, err := h.service.AcceptNegotiationOffer(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "negotiation accepted", v)
}

// @Summary      Reject a negotiation
// @Description  The reason is read from the reason query parameter or a JSON body.
// @Tags         negotiations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path int true "Transaction ID"
// @Param        reason query string false "Rejection reason"
// @Param        request body rejectRequest false "Rejection reason"
// @Success      200 {object} response.APIResponse{data=View}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /api/negotiations/{transactionId}/reject [post]
func (h *NegotiationHandler) rejectNegotiation(c *gin.Context) {
	id, ok := transactionParam(c)
	if !ok {
		return
	}
	reason := c.Query("reason")
	if reason == "" && c.Request.ContentLength != 0 {
		var req rejectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
			return
		}
		reason = req.Reason
	}

	v, err := h.service.RejectNegotiationOffer(c.Request.Context(), auth.ActorFrom(c), id, reason)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "negotiation rejected", v)
}

// @Summary      List the negotiations of a startup profile
// @Tags         negotiations
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Success      200 {object} response.APIResponse{data=[]View}
// @Failure      404 {object} response.APIResponse
// @Router       /api/negotiations/startup/{startupId} [get]
func (h *NegotiationHandler) listByStartup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("startupId"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return
	}
	list, err := h.service.ListByStartup(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "negotiations fetched", list)
}

// @Summary      List the negotiations of an investor profile
// @Tags         negotiations
// @Produce      json
// @Security     BearerAuth
// @Param        investorId path int true "Investor profile ID"
// @Success      200 {object} response.APIResponse{data=[]View}
// @Failure      404 {object} response.APIResponse
// @Router       /api/negotiations/investor/{investorId} [get]
func (h *NegotiationHandler) listByInvestor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("investorId"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid investor id", nil)
		return
	}
	list, err := h.service.ListByInvestor(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "negotiations fetched", list)
}
