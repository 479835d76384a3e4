package offers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/response"
)

type OfferHandler struct {
	service     OfferService
	requireAuth gin.HandlerFunc
}

func NewOfferHandler(service OfferService, requireAuth gin.HandlerFunc) *OfferHandler {
	return &OfferHandler{service: service, requireAuth: requireAuth}
}

func (h *OfferHandler) RegisterRoutes(router *gin.Engine) {
	byStartup := router.Group("/api/startups/:startupId/offers")
	byStartup.GET("", h.listOffers)
	byStartup.GET("/active", h.listActiveOffers)
	byStartup.POST("", h.requireAuth, h.createOffer)
	byStartup.PUT("/:offerId", h.requireAuth, h.updateOffer)
	byStartup.PUT("/:offerId/status", h.requireAuth, h.updateOfferStatus)
	byStartup.DELETE("/:offerId", h.requireAuth, h.deleteOffer)

	offers := router.Group("/api/investment-offers")
	offers.GET("/:offerId", h.getOffer)
	offers.POST("/:offerId/accept", h.requireAuth, h.acceptOffer)
	offers.POST("/:offerId/invest", h.requireAuth, h.invest)
}

type offerRequest struct {
	Amount           decimal.Decimal `json:"amount" swaggertype:"string"`
	EquityPercentage decimal.Decimal `json:"equity_percentage" swaggertype:"string"`
	Description      string          `json:"description"`
	Terms            string          `json:"terms"`
}

func (r offerRequest) toInput() OfferInput {
	return OfferInput{
		Amount:           r.Amount,
		EquityPercentage: r.EquityPercentage,
		Description:      r.Description,
		Terms:            r.Terms,
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type investRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
}

func startupParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("startupId"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return 0, false
	}
	return id, true
}

func offerParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("offerId"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid offer id", nil)
		return 0, false
	}
	return id, true
}

// @Summary      Create an investment offer for a startup
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Param        request body offerRequest true "Offer"
// @Success      201 {object} response.APIResponse{data=Offer}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/startups/{startupId}/offers [post]
func (h *OfferHandler) createOffer(c *gin.Context) {
	startupID, ok := startupParam(c)
	if !ok {
		return
	}
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	o, err := h.service.CreateOffer(c.Request.Context(), auth.ActorFrom(c), startupID, req.toInput())
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "investment offer created", o)
}

// @Summary      Update an investment offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Param        offerId path int true "Offer ID"
// @Param        request body offerRequest true "Offer"
// @Success      200 {object} response.APIResponse{data=Offer}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /api/startups/{startupId}/offers/{offerId} [put]
func (h *OfferHandler) updateOffer(c *gin.Context) {
	startupID, ok := startupParam(c)
	if !ok {
		return
	}
	offerID, ok := offerParam(c)
	if !ok {
		return
	}
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	o, err := h.service.UpdateOffer(c.Request.Context(), auth.ActorFrom(c), startupID, offerID, req.toInput())
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investment offer updated", o)
}

// @Summary      Change the status of an investment offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Param        offerId path int true "Offer ID"
// @Param        request body statusRequest true "Target status"
// @Success      200 {object} response.APIResponse{data=Offer}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /api/startups/{startupId}/offers/{offerId}/status [put]
func (h *OfferHandler) updateOfferStatus(c *gin.Context) {
	startupID, ok := startupParam(c)
	if !ok {
		return
	}
	offerID, ok := offerParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	status, valid := ParseStatus(req.Status)
	if !valid {
		response.SendError(c, ErrInvalidStatus)
		return
	}

	o, err := h.service.UpdateOfferStatus(c.Request.Context(), auth.ActorFrom(c), startupID, offerID, status)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investment offer status updated", o)
}

// @Summary      Delete an investment offer
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Param        offerId path int true "Offer ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/startups/{startupId}/offers/{offerId} [delete]
func (h *OfferHandler) deleteOffer(c *gin.Context) {
	startupID, ok := startupParam(c)
	if !ok {
		return
	}
	offerID, ok := offerParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOffer(c.Request.Context(), auth.ActorFrom(c), startupID, offerID); err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investment offer deleted", nil)
}

// @Summary      List every offer of a startup
// @Tags         offers
// @Produce      json
// @Param        startupId path int true "Startup profile ID"
// @Success      200 {object} response.APIResponse{data=[]OfferView}
// @Router       /api/startups/{startupId}/offers [get]
func (h *OfferHandler) listOffers(c *gin.Context) {
	startupID, ok := startupParam(c)
	if !ok {
		return
	}
	list, err := h.service.ListByStartup(c.Request.Context(), startupID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investment offers fetched", list)
}

// @Summary      List the active offers of a startup
// @Tags         offers
// @Produce      json
// @Param        startupId path int true "Startup profile ID"
// @Success      200 {object} response.APIResponse{data=[]OfferView}
// @Router       /api/startups/{startupId}/offers/active [get]
func (h *OfferHandler) listActiveOffers(c *gin.Context) {
	startupID, ok := startupParam(c)
	if !ok {
		return
	}
	list, err := h.service.ListActiveByStartup(c.Request.Context(), startupID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "active investment offers fetched", list)
}

// @Summary      Get an investment offer
// @Tags         offers
// @Produce      json
// @Param        offerId path int true "Offer ID"
// @Success      200 {object} response.APIResponse{data=OfferView}
// @Failure      404 {object} response.APIResponse
// @Router       /api/investment-offers/{offerId} [get]
func (h *OfferHandler) getOffer(c *gin.Context) {
	offerID, ok := offerParam(c)
	if !ok {
		return
	}
	o, err := h.service.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investment offer fetched", o)
}

// @Summary      Accept an investment offer as the current investor
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        offerId path int true "Offer ID"
// @Success      200 {object} response.APIResponse{data=Offer}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /api/investment-offers/{offerId}/accept [post]
func (h *OfferHandler) acceptOffer(c *gin.Context) {
	offerID, ok := offerParam(c)
	if !ok {
		return
	}
	o, err := h.service.AcceptOffer(c.Request.Context(), auth.ActorFrom(c), offerID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investment offer accepted", o)
}

// @Summary      Invest part of an offer's remaining amount
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        offerId path int true "Offer ID"
// @Param        request body investRequest true "Amount to invest"
// @Success      200 {object} response.APIResponse{data=Offer}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /api/investment-offers/{offerId}/invest [post]
func (h *OfferHandler) invest(c *gin.Context) {
	offerID, ok := offerParam(c)
	if !ok {
		return
	}
	var req investRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	o, err := h.service.UpdateRemainingAmount(c.Request.Context(), auth.ActorFrom(c), offerID, req.Amount)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investment recorded", o)
}
