package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *StoryHandler) toggleLike(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	result, err := h.likeService.Toggle(c.Request.Context(), storyID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if result.Liked {
		likesToggledTotal.WithLabelValues("liked").Inc()
	} else {
		likesToggledTotal.WithLabelValues("unliked").Inc()
	}
	c.JSON(http.StatusOK, result)
}

func (h *StoryHandler) likeStatus(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	result, err := h.likeService.Status(c.Request.Context(), storyID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StoryHandler) likeCount(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	total, err := h.likeService.Count(c.Request.Context(), storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, likeCountResponse{TotalLikes: total})
}
