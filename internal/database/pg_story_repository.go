package database

import (
	"errors"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Поля истории в порядке сканирования. Все запросы чтения используют этот список.
const storyFields = `
	s.id, s.owner_id, s.title, s.content, s.word_count, s.status,
	s.original_story_id, s.created_at, s.updated_at, s.published_at
`

// pgStoryRepository реализует интерфейс StoryRepository для PostgreSQL.
type pgStoryRepository struct {
	logger *zap.Logger
}

// Compile-time check
var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

// NewPgStoryRepository создает новый экземпляр репозитория историй.
func NewPgStoryRepository(logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		logger: logger.Named("PgStoryRepo"),
	}
}

// scanStory сканирует одну строку в модель Story.
func scanStory(row pgx.Row) (*models.Story, error) {
	var s models.Story
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Title,
		&s.Content,
		&s.WordCount,
		&s.Status,
		&s.OriginalStoryID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// scanStories сканирует все строки результата в срез историй.
func scanStories(rows pgx.Rows) ([]*models.Story, error) {
	defer rows.Close()
	var stories []*models.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stories, nil
}
