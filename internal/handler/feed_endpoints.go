package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *StoryHandler) recentAuthors(c *gin.Context) {
	limit := intQuery(c, "limit", 0)

	entries, err := h.feedService.RecentAuthors(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": entries})
}
