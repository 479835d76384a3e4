package messages

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/response"
)

type Handler struct {
	service     MessageService
	requireAuth gin.HandlerFunc
}

func NewHandler(service MessageService, requireAuth gin.HandlerFunc) *Handler {
	return &Handler{service: service, requireAuth: requireAuth}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	g := router.Group("/api/messages", h.requireAuth)
	g.POST("/send", h.SendMessageGin)
	g.GET("/conversation", h.GetConversationGin)
	g.GET("/conversation-users", h.GetConversationUsersGin)
}

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

// SendMessageGin godoc
// @Summary Send a direct message
// @Description Startups may only message investors and vice versa
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body sendMessageRequest true "Message"
// @Success 201 {object} response.APIResponse{data=Message}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/messages/send [post]
func (h *Handler) SendMessageGin(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	msg, err := h.service.Send(c.Request.Context(), auth.ActorFrom(c), req.ReceiverID, req.Content)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "message sent", msg)
}

// GetConversationGin godoc
// @Summary Get conversation history
// @Description Fetch messages between the current user and a peer, oldest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param peer_id query int true "Peer user ID"
// @Param limit query int false "Maximum messages to return (max 100)"
// @Param before query int false "Epoch seconds cursor for pagination"
// @Success 200 {object} response.APIResponse{data=ConversationPage}
// @Failure 400 {object} response.APIResponse
// @Router /api/messages/conversation [get]
func (h *Handler) GetConversationGin(c *gin.Context) {
	peerID, err := strconv.ParseInt(c.Query("peer_id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "peer_id is required", nil)
		return
	}

	limit := 0
	if ls := c.Query("limit"); ls != "" {
		if limit, err = strconv.Atoi(ls); err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid limit parameter", nil)
			return
		}
	}
	var before time.Time
	if bs := c.Query("before"); bs != "" {
		epoch, err := strconv.ParseInt(bs, 10, 64)
		if err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid before parameter", nil)
			return
		}
		before = time.Unix(epoch, 0).UTC()
	}

	page, err := h.service.Conversation(c.Request.Context(), auth.ActorFrom(c), peerID, limit, before)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "messages", page)
}

// GetConversationUsersGin godoc
// @Summary List conversation partners
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=[]Contact}
// @Router /api/messages/conversation-users [get]
func (h *Handler) GetConversationUsersGin(c *gin.Context) {
	contacts, err := h.service.ConversationUsers(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "conversation users", contacts)
}
