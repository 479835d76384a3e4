package transactions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/response"
)

type TransactionHandler struct {
	service     TransactionService
	requireAuth gin.HandlerFunc
}

func NewTransactionHandler(service TransactionService, requireAuth gin.HandlerFunc) *TransactionHandler {
	return &TransactionHandler{service: service, requireAuth: requireAuth}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.Engine) {
	g := router.Group("/api/transactions")
	g.POST("", h.requireAuth, h.createTransaction)
	g.GET("", h.requireAuth, h.listTransactions)
	g.GET("/:id", h.requireAuth, h.getTransaction)
	g.GET("/investor/:investorId", h.requireAuth, h.listByInvestor)
	g.GET("/startup/:startupId", h.requireAuth, h.listByStartup)
}

type createTransactionRequest struct {
	StartupID       int64           `json:"startup_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string"`
	Status          string          `json:"status"`
	TransactionDate time.Time       `json:"transaction_date"`
	TransactionType string          `json:"transaction_type"`
	Description     string          `json:"description"`
}

// @Summary      Record an investment transaction for the current investor
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createTransactionRequest true "Transaction"
// @Success      201 {object} response.APIResponse{data=TransactionView}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	t, err := h.service.CreateTransaction(c.Request.Context(), auth.ActorFrom(c), CreateTransactionInput{
		StartupID:       req.StartupID,
		Amount:          req.Amount,
		Status:          req.Status,
		TransactionDate: req.TransactionDate,
		TransactionType: req.TransactionType,
		Description:     req.Description,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "transaction created", t)
}

// @Summary      List every transaction (admin)
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]TransactionView}
// @Failure      403 {object} response.APIResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) listTransactions(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "transactions fetched", list)
}

// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Transaction ID"
// @Success      200 {object} response.APIResponse{data=TransactionView}
// @Failure      404 {object} response.APIResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) getTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid transaction id", nil)
		return
	}

	t, err := h.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "transaction fetched", t)
}

// @Summary      List the transactions of an investor profile
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        investorId path int true "Investor profile ID"
// @Success      200 {object} response.APIResponse{data=[]TransactionView}
// @Failure      404 {object} response.APIResponse
// @Router       /api/transactions/investor/{investorId} [get]
func (h *TransactionHandler) listByInvestor(c *gin.Context) {
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
	response.SendAPIResponse(c, http.StatusOK, true, "transactions fetched", list)
}

// @Summary      List the transactions of a startup profile
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Success      200 {object} response.APIResponse{data=[]TransactionView}
// @Failure      404 {object} response.APIResponse
// @Router       /api/transactions/startup/{startupId} [get]
func (h *TransactionHandler) listByStartup(c *gin.Context) {
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
	response.SendAPIResponse(c, http.StatusOK, true, "transactions fetched", list)
}
