package pitchdecks

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/response"
)

type PitchDeckHandler struct {
	service     PitchDeckService
	requireAuth gin.HandlerFunc
}

func NewPitchDeckHandler(service PitchDeckService, requireAuth gin.HandlerFunc) *PitchDeckHandler {
	return &PitchDeckHandler{service: service, requireAuth: requireAuth}
}

func (h *PitchDeckHandler) RegisterRoutes(router *gin.Engine) {
	byStartup := router.Group("/api/startups/:startupId/pitch-decks", h.requireAuth)
	byStartup.GET("", h.listPitchDecks)
	byStartup.POST("", h.uploadPitchDeck)

	decks := router.Group("/api/pitch-decks", h.requireAuth)
	decks.GET("/:id", h.getPitchDeck)
	decks.GET("/:id/download", h.downloadPitchDeck)
	decks.PUT("/:id", h.updatePitchDeck)
	decks.DELETE("/:id", h.deletePitchDeck)
}

func idParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid "+label+" id", nil)
		return 0, false
	}
	return id, true
}

// @Summary      Upload a pitch deck
// @Description  Multipart upload; the file must be a PDF, PPT or PPTX
// @Tags         pitch-decks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Param        file formData file true "Deck file"
// @Param        title formData string true "Title"
// @Param        description formData string false "Description"
// @Param        is_public formData bool false "Visible to everyone"
// @Success      201 {object} response.APIResponse{data=PitchDeck}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /api/startups/{startupId}/pitch-decks [post]
func (h *PitchDeckHandler) uploadPitchDeck(c *gin.Context) {
	startupID, ok := idParam(c, "startupId", "startup")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "file is required", nil)
		return
	}
	defer file.Close()

	isPublic := false
	if v := c.PostForm("is_public"); v != "" {
		isPublic, err = strconv.ParseBool(v)
		if err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid is_public value", nil)
			return
		}
	}

	deck, err := h.service.Upload(c.Request.Context(), auth.ActorFrom(c), startupID, UploadInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		FileName:    filepath.Base(header.Filename),
		IsPublic:    isPublic,
	}, file)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "pitch deck uploaded", deck)
}

// @Summary      List a startup's pitch decks
// @Description  Owners and admins see private decks too
// @Tags         pitch-decks
// @Produce      json
// @Security     BearerAuth
// @Param        startupId path int true "Startup profile ID"
// @Success      200 {object} response.APIResponse{data=[]PitchDeck}
// @Failure      404 {object} response.APIResponse
// @Router       /api/startups/{startupId}/pitch-decks [get]
func (h *PitchDeckHandler) listPitchDecks(c *gin.Context) {
	startupID, ok := idParam(c, "startupId", "startup")
	if !ok {
		return
	}
	decks, err := h.service.ListByStartup(c.Request.Context(), auth.ActorFrom(c), startupID)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "pitch decks fetched", decks)
}

// @Summary      Get pitch deck metadata
// @Tags         pitch-decks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Pitch deck ID"
// @Success      200 {object} response.APIResponse{data=PitchDeck}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/pitch-decks/{id} [get]
func (h *PitchDeckHandler) getPitchDeck(c *gin.Context) {
	id, ok := idParam(c, "id", "pitch deck")
	if !ok {
		return
	}
	deck, err := h.service.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "pitch deck fetched", deck)
}

// @Summary      Download a pitch deck file
// @Tags         pitch-decks
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id path int true "Pitch deck ID"
// @Success      200 {file} file
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/pitch-decks/{id}/download [get]
func (h *PitchDeckHandler) downloadPitchDeck(c *gin.Context) {
	id, ok := idParam(c, "id", "pitch deck")
	if !ok {
		return
	}
	deck, rc, err := h.service.Open(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	defer rc.Close()

	extra := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", deck.FileName),
	}
	c.DataFromReader(http.StatusOK, deck.FileSize, deck.ContentType, rc, extra)
}

// @Summary      Update pitch deck metadata
// @Tags         pitch-decks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Pitch deck ID"
// @Param        request body UpdateInput true "Fields to change"
// @Success      200 {object} response.APIResponse{data=PitchDeck}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/pitch-decks/{id} [put]
func (h *PitchDeckHandler) updatePitchDeck(c *gin.Context) {
	id, ok := idParam(c, "id", "pitch deck")
	if !ok {
		return
	}
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	deck, err := h.service.Update(c.Request.Context(), auth.ActorFrom(c), id, req)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "pitch deck updated", deck)
}

// @Summary      Delete a pitch deck
// @Tags         pitch-decks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Pitch deck ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /api/pitch-decks/{id} [delete]
func (h *PitchDeckHandler) deletePitchDeck(c *gin.Context) {
	id, ok := idParam(c, "id", "pitch deck")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), auth.ActorFrom(c), id); err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "pitch deck deleted", nil)
}
