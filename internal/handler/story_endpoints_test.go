package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story-server/internal/middleware"
	"story-server/internal/models"
	"story-server/internal/service"
)

// createDraftRecorder подменяет только CreateDraft; остальные методы
// интерфейса берутся из встраивания и в тестах не вызываются.
type createDraftRecorder struct {
	service.StoryService
	ownerID uuid.UUID
	title   string
	content string
}

func (s *createDraftRecorder) CreateDraft(_ context.Context, ownerID uuid.UUID, title, content string) (*models.Story, error) {
	s.ownerID = ownerID
	s.title = title
	s.content = content
	return &models.Story{ID: uuid.New(), OwnerID: ownerID, Title: title, Content: content, Status: models.StatusDraft}, nil
}

func newCreateDraftContext(t *testing.T, svc service.StoryService, ownerID uuid.UUID, body io.Reader) (*StoryHandler, *gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/stories/drafts", body)
	c.Set(middleware.ContextUserIDKey, ownerID)

	h := &StoryHandler{storyService: svc}
	return h, c, w
}

func TestCreateDraft_ChunkedBodyIsBound(t *testing.T) {
	svc := &createDraftRecorder{}
	ownerID := uuid.New()

	// io.MultiReader не дает httptest выставить ContentLength, запрос
	// выглядит как chunked (ContentLength == -1), как от прокси
	body := io.MultiReader(strings.NewReader(`{"title":"Ночной дозор","content":"Первая глава"}`))
	h, c, w := newCreateDraftContext(t, svc, ownerID, body)
	require.Equal(t, int64(-1), c.Request.ContentLength)

	h.createDraft(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, ownerID, svc.ownerID)
	assert.Equal(t, "Ночной дозор", svc.title)
	assert.Equal(t, "Первая глава", svc.content)
}

func TestCreateDraft_EmptyBodyCreatesPlaceholder(t *testing.T) {
	svc := &createDraftRecorder{}
	ownerID := uuid.New()

	h, c, w := newCreateDraftContext(t, svc, ownerID, nil)

	h.createDraft(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, svc.title)
	assert.Empty(t, svc.content)
}

func TestCreateDraft_MalformedJSONRejected(t *testing.T) {
	svc := &createDraftRecorder{}
	h, c, w := newCreateDraftContext(t, svc, uuid.New(), strings.NewReader(`{"title":`))

	h.createDraft(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, uuid.Nil, svc.ownerID)
}
