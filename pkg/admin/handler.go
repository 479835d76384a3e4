package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
	"startupconnect/pkg/response"
	"startupconnect/pkg/users"
)

type AdminHandler struct {
	service     AdminService
	requireAuth gin.HandlerFunc
}

func NewAdminHandler(service AdminService, requireAuth gin.HandlerFunc) *AdminHandler {
	return &AdminHandler{service: service, requireAuth: requireAuth}
}

func (h *AdminHandler) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/api/admin", h.requireAuth, auth.RequireRole(policy.RoleAdmin))
	admin.GET("/users", h.listUsers)
	admin.PUT("/users/:id", h.updateUser)
	admin.DELETE("/users/:id", h.deleteUser)
	admin.GET("/investors", h.listInvestors)
	admin.GET("/transactions", h.listTransactions)
}

type updateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func paging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func userParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid user id", nil)
		return 0, false
	}
	return id, true
}

// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} response.APIResponse{data=users.UserList}
// @Failure      403 {object} response.APIResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) listUsers(c *gin.Context) {
	page, limit := paging(c)
	items, total, err := h.service.ListUsers(c.Request.Context(), auth.ActorFrom(c), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "users fetched", users.UserList{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary      Update any user
// @Description  Admins may change name, email and role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body updateUserRequest true "Fields to change"
// @Success      200 {object} response.APIResponse{data=users.User}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) updateUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	in := users.UpdateUserInput{FullName: req.FullName, Email: req.Email}
	if req.Role != "" {
		role, ok := policy.ParseRole(req.Role)
		if !ok {
			response.SendError(c, users.ErrInvalidRole)
			return
		}
		in.Role = role
	}

	u, err := h.service.UpdateUser(c.Request.Context(), auth.ActorFrom(c), id, in)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user updated", u)
}

// @Summary      Delete a user account
// @Description  Removes the user together with profiles, offers, negotiations, pitch decks, messages and notifications
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) deleteUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), auth.ActorFrom(c), id); err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user deleted", nil)
}

// @Summary      List investor profiles
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} response.APIResponse{data=profiles.InvestorProfileList}
// @Failure      403 {object} response.APIResponse
// @Router       /api/admin/investors [get]
func (h *AdminHandler) listInvestors(c *gin.Context) {
	page, limit := paging(c)
	items, total, err := h.service.ListInvestors(c.Request.Context(), auth.ActorFrom(c), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investors fetched", profiles.InvestorProfileList{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary      List all transactions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]transactions.TransactionView}
// @Failure      403 {object} response.APIResponse
// @Router       /api/admin/transactions [get]
func (h *AdminHandler) listTransactions(c *gin.Context) {
	items, err := h.service.ListTransactions(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "transactions fetched", items)
}
