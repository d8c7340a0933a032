package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story-server/internal/middleware"
	"story-server/internal/service"
)

// StoryHandler exposes the story lifecycle and engagement API over HTTP.
type StoryHandler struct {
	storyService service.StoryService
	likeService  service.LikeService
	feedService  service.FeedService
	verifier     middleware.TokenVerifier
	logger       *zap.Logger
}

func NewStoryHandler(
	storyService service.StoryService,
	likeService service.LikeService,
	feedService service.FeedService,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		likeService:  likeService,
		feedService:  feedService,
		verifier:     verifier,
		logger:       logger.Named("StoryHandler"),
	}
}

func (h *StoryHandler) RegisterRoutes(router *gin.Engine) {
	auth := middleware.AuthMiddleware(h.verifier, h.logger)
	optionalAuth := middleware.OptionalAuthMiddleware(h.verifier, h.logger)

	stories := router.Group("/stories")
	{
		stories.POST("/drafts", auth, h.createDraft)
		stories.PUT("/drafts/:id", auth, h.saveDraft)
		stories.POST("/drafts/:id/publish", auth, h.publish)
		stories.POST("/drafts/:id/republish", auth, h.republish)

		stories.GET("", auth, h.listMyStories)
		stories.GET("/:id", optionalAuth, h.getStory)
		stories.POST("/:id/edit", auth, h.editPublished)
		stories.POST("/:id/archive", auth, h.archive)
		stories.DELETE("/:id", auth, h.deleteStory)

		stories.POST("/:id/like", auth, h.toggleLike)
		stories.GET("/:id/like-status", auth, h.likeStatus)
		stories.GET("/:id/likes/count", h.likeCount)
	}

	authors := router.Group("/authors")
	{
		authors.GET("/recent", h.recentAuthors)
		authors.GET("/:username/stories/:slug", optionalAuth, h.resolveSlug)
	}
}
