package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"story-server/internal/middleware"
	"story-server/internal/models"
	"story-server/internal/service"
)

// callerID достает идентичность, установленную auth middleware, и отвечает
// 401, если ее нет. Для обязательной аутентификации.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		errResp := models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Authentication required"}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errResp)
		return uuid.Nil, false
	}
	return userID, true
}

// optionalCallerID возвращает nil, когда запрос анонимный.
func optionalCallerID(c *gin.Context) *uuid.UUID {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return nil
	}
	return &userID
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func storyIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid story id"}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return uuid.Nil, false
	}
	return id, true
}

func (h *StoryHandler) createDraft(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	// Пустое тело допустимо: черновик создается как заготовка. Читаем тело
	// всегда (при chunked-запросе ContentLength равен -1) и трактуем как
	// пустое только EOF.
	var req createDraftRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
			c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
			return
		}
	}

	story, err := h.storyService.CreateDraft(c.Request.Context(), ownerID, req.Title, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (h *StoryHandler) saveDraft(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	story, err := h.storyService.SaveDraft(c.Request.Context(), storyID, ownerID, service.UpdateDraftParams{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) publish(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	story, err := h.storyService.Publish(c.Request.Context(), storyID, ownerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	storiesPublishedTotal.Inc()
	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) editPublished(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	draft, err := h.storyService.EditPublished(c.Request.Context(), storyID, ownerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *StoryHandler) republish(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	draftID, ok := storyIDParam(c)
	if !ok {
		return
	}

	story, err := h.storyService.Republish(c.Request.Context(), draftID, ownerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	storiesRepublishedTotal.Inc()
	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) archive(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	story, err := h.storyService.Archive(c.Request.Context(), storyID, ownerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) deleteStory(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	if err := h.storyService.Delete(c.Request.Context(), storyID, ownerID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": storyID})
}

func (h *StoryHandler) getStory(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	story, err := h.storyService.GetStory(c.Request.Context(), storyID, optionalCallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) listMyStories(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	var status *models.StoryStatus
	if raw := c.Query("status"); raw != "" {
		s := models.StoryStatus(raw)
		status = &s
	}
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	stories, err := h.storyService.ListMyStories(c.Request.Context(), ownerID, status, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (h *StoryHandler) resolveSlug(c *gin.Context) {
	username := c.Param("username")
	slugToken := c.Param("slug")

	story, err := h.storyService.ResolveSlug(c.Request.Context(), username, slugToken, optionalCallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}
