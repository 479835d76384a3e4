package profiles

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/response"
)

type ProfileHandler struct {
	service     ProfileService
	requireAuth gin.HandlerFunc
}

func NewProfileHandler(service ProfileService, requireAuth gin.HandlerFunc) *ProfileHandler {
	return &ProfileHandler{service: service, requireAuth: requireAuth}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.Engine) {
	startups := router.Group("/api/startup-profiles")
	startups.GET("", h.listStartupProfiles)
	startups.GET("/:id", h.getStartupProfile)
	startups.GET("/user/:userId", h.getStartupProfileByUser)
	startups.POST("", h.requireAuth, h.createStartupProfile)
	startups.PUT("/:id", h.requireAuth, h.updateStartupProfile)

	investors := router.Group("/api/investor-profiles")
	investors.GET("", h.listInvestorProfiles)
	investors.GET("/:id", h.getInvestorProfile)
	investors.GET("/user/:userId", h.getInvestorProfileByUser)
	investors.POST("", h.requireAuth, h.createInvestorProfile)
	investors.PUT("/:id", h.requireAuth, h.updateInvestorProfile)
}

type startupProfileRequest struct {
	StartupName  string `json:"startup_name" binding:"required"`
	Description  string `json:"description"`
	Industry     string `json:"industry"`
	FundingStage string `json:"funding_stage"`
	TeamSize     int    `json:"team_size"`
	Website      string `json:"website"`
}

func (r startupProfileRequest) toProfile() StartupProfile {
	return StartupProfile{
		StartupName:  r.StartupName,
		Description:  r.Description,
		Industry:     r.Industry,
		FundingStage: r.FundingStage,
		TeamSize:     r.TeamSize,
		Website:      r.Website,
	}
}

type investorProfileRequest struct {
	CompanyName            string          `json:"company_name"`
	Sector                 string          `json:"sector"`
	InvestmentRangeMin     decimal.Decimal `json:"investment_range_min" swaggertype:"string"`
	InvestmentRangeMax     decimal.Decimal `json:"investment_range_max" swaggertype:"string"`
	Location               string          `json:"location"`
	InvestmentFocus        string          `json:"investment_focus"`
	ActiveInvestmentsCount int             `json:"active_investments_count"`
	Description            string          `json:"description"`
}

func (r investorProfileRequest) toProfile() InvestorProfile {
	return InvestorProfile{
		CompanyName:            r.CompanyName,
		Sector:                 r.Sector,
		InvestmentRangeMin:     r.InvestmentRangeMin,
		InvestmentRangeMax:     r.InvestmentRangeMax,
		Location:               r.Location,
		InvestmentFocus:        r.InvestmentFocus,
		ActiveInvestmentsCount: r.ActiveInvestmentsCount,
		Description:            r.Description,
	}
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// @Summary      Create startup profile for the current user
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body startupProfileRequest true "Startup profile"
// @Success      201 {object} response.APIResponse{data=StartupProfile}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /api/startup-profiles [post]
func (h *ProfileHandler) createStartupProfile(c *gin.Context) {
	var req startupProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	p, err := h.service.CreateStartupProfile(c.Request.Context(), auth.ActorFrom(c), req.toProfile())
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "startup profile created", p)
}

// @Summary      Update startup profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Startup profile ID"
// @Param        request body startupProfileRequest true "Startup profile"
// @Success      200 {object} response.APIResponse{data=StartupProfile}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/startup-profiles/{id} [put]
func (h *ProfileHandler) updateStartupProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return
	}

	var req startupProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	p, err := h.service.UpdateStartupProfile(c.Request.Context(), auth.ActorFrom(c), id, req.toProfile())
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "startup profile updated", p)
}

// @Summary      Get startup profile
// @Tags         profiles
// @Produce      json
// @Param        id path int true "Startup profile ID"
// @Success      200 {object} response.APIResponse{data=StartupProfile}
// @Failure      404 {object} response.APIResponse
// @Router       /api/startup-profiles/{id} [get]
func (h *ProfileHandler) getStartupProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return
	}

	p, err := h.service.GetStartupProfile(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "startup profile fetched", p)
}

// @Summary      Get startup profile by user
// @Tags         profiles
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=StartupProfile}
// @Failure      404 {object} response.APIResponse
// @Router       /api/startup-profiles/user/{userId} [get]
func (h *ProfileHandler) getStartupProfileByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid user id", nil)
		return
	}

	p, err := h.service.GetStartupProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "startup profile fetched", p)
}

// @Summary      List startup profiles
// @Tags         profiles
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=StartupProfileList}
// @Router       /api/startup-profiles [get]
func (h *ProfileHandler) listStartupProfiles(c *gin.Context) {
	page, limit := pagination(c)

	items, total, err := h.service.ListStartupProfiles(c.Request.Context(), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}
	data := StartupProfileList{Items: items, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "startup profiles listed", data)
}

// @Summary      Create investor profile for the current user
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body investorProfileRequest true "Investor profile"
// @Success      201 {object} response.APIResponse{data=InvestorProfile}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /api/investor-profiles [post]
func (h *ProfileHandler) createInvestorProfile(c *gin.Context) {
	var req investorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	p, err := h.service.CreateInvestorProfile(c.Request.Context(), auth.ActorFrom(c), req.toProfile())
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "investor profile created", p)
}

// @Summary      Update investor profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Investor profile ID"
// @Param        request body investorProfileRequest true "Investor profile"
// @Success      200 {object} response.APIResponse{data=InvestorProfile}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /api/investor-profiles/{id} [put]
func (h *ProfileHandler) updateInvestorProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid investor id", nil)
		return
	}

	var req investorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	p, err := h.service.UpdateInvestorProfile(c.Request.Context(), auth.ActorFrom(c), id, req.toProfile())
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investor profile updated", p)
}

// @Summary      Get investor profile
// @Tags         profiles
// @Produce      json
// @Param        id path int true "Investor profile ID"
// @Success      200 {object} response.APIResponse{data=InvestorProfile}
// @Failure      404 {object} response.APIResponse
// @Router       /api/investor-profiles/{id} [get]
func (h *ProfileHandler) getInvestorProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid investor id", nil)
		return
	}

	p, err := h.service.GetInvestorProfile(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investor profile fetched", p)
}

// @Summary      Get investor profile by user
// @Tags         profiles
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=InvestorProfile}
// @Failure      404 {object} response.APIResponse
// @Router       /api/investor-profiles/user/{userId} [get]
func (h *ProfileHandler) getInvestorProfileByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid user id", nil)
		return
	}

	p, err := h.service.GetInvestorProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investor profile fetched", p)
}

// @Summary      List investor profiles
// @Tags         profiles
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=InvestorProfileList}
// @Router       /api/investor-profiles [get]
func (h *ProfileHandler) listInvestorProfiles(c *gin.Context) {
	page, limit := pagination(c)

	items, total, err := h.service.ListInvestorProfiles(c.Request.Context(), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}
	data := InvestorProfileList{Items: items, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "investor profiles listed", data)
}
