package notifications

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/response"
)

type NotificationHandler struct {
	service     NotificationService
	requireAuth gin.HandlerFunc
}

func NewNotificationHandler(service NotificationService, requireAuth gin.HandlerFunc) *NotificationHandler {
	return &NotificationHandler{service: service, requireAuth: requireAuth}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	g := router.Group("/api/notifications", h.requireAuth)
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/mark-as-read", h.markAsRead)
}

type createNotificationRequest struct {
	UserID      int64  `json:"user_id" binding:"required"`
	Type        string `json:"type"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type markAsReadRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// @Summary      List notifications (newest first)
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        user_id query int false "User ID (admins only; defaults to caller)"
// @Success      200 {object} response.APIResponse{data=[]Notification}
// @Failure      403 {object} response.APIResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) list(c *gin.Context) {
	actor := auth.ActorFrom(c)
	userID := actor.UserID
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid user id", nil)
			return
		}
		userID = id
	}

	items, err := h.service.ListForUser(c.Request.Context(), actor, userID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "notifications listed", items)
}

// @Summary      Create notification (admin)
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createNotificationRequest true "Notification"
// @Success      201 {object} response.APIResponse{data=Notification}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /api/notifications [post]
func (h *NotificationHandler) create(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	n, err := h.service.Create(c.Request.Context(), auth.ActorFrom(c), Notification{
		UserID:      req.UserID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "notification created", n)
}

// @Summary      Mark own notifications as read
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body markAsReadRequest true "Notification IDs"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /api/notifications/mark-as-read [put]
func (h *NotificationHandler) markAsRead(c *gin.Context) {
	var req markAsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	updated, err := h.service.MarkAsRead(c.Request.Context(), auth.ActorFrom(c), req.IDs)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "notifications marked as read", gin.H{"updated": updated})
}
