package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const userFields = `id, username, roles, created_at`

// pgUserRepository реализует интерфейс UserRepository для PostgreSQL.
type pgUserRepository struct {
	logger *zap.Logger
}

// Compile-time check
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

// NewPgUserRepository создает новый экземпляр репозитория пользователей.
func NewPgUserRepository(logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		logger: logger.Named("PgUserRepo"),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Roles, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create создает запись пользователя.
func (r *pgUserRepository) Create(ctx context.Context, querier interfaces.DBTX, user *models.User) error {
	query := `INSERT INTO users (id, username, roles, created_at) VALUES ($1, $2, $3, $4)`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Roles == nil {
		user.Roles = []string{"user"}
	}

	_, err := querier.Exec(ctx, query, user.ID, user.Username, user.Roles, user.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

// GetByID получает пользователя по ID.
func (r *pgUserRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userFields + ` FROM users WHERE id = $1`

	user, err := scanUser(querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			r.logger.Warn("User not found by ID", zap.String("userID", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by ID", zap.String("userID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пользователя %s: %w", id, err)
	}
	return user, nil
}

// GetByUsername получает пользователя по имени.
func (r *pgUserRepository) GetByUsername(ctx context.Context, querier interfaces.DBTX, username string) (*models.User, error) {
	query := `SELECT ` + userFields + ` FROM users WHERE username = $1`

	user, err := scanUser(querier.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			r.logger.Warn("User not found by username", zap.String("username", username))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пользователя %q: %w", username, err)
	}
	return user, nil
}
