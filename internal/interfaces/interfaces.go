package interfaces

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX абстрагирует исполнителя запросов: поверх него работают и
// *pgxpool.Pool, и pgx.Tx, поэтому репозитории можно вызывать как вне,
// так и внутри транзакции.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository-level sentinel errors.
var (
	// ErrLikeAlreadyExists возвращается, когда лайк от пользователя уже стоит.
	ErrLikeAlreadyExists = errors.New("like already exists")
	// ErrLikeNotFound возвращается, когда лайка, который пытаются снять, нет.
	ErrLikeNotFound = errors.New("like not found")
)
