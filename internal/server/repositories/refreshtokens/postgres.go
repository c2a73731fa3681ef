package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, userID string, token string) error {
	query :=
		`UPDATE users SET refresh_token = $2
		 WHERE id = $1
		 `

	return r.exec(ctx, query, userID, token)
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (string, error) {
	query :=
		`SELECT COALESCE(refresh_token, '') FROM users
		 WHERE id = $1
		 `

	return r.get(ctx, query, userID)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID string) (string, error) {
	query :=
		`SELECT COALESCE(refresh_token, '') FROM users
		 WHERE id = $1
		 FOR UPDATE
		 `

	return r.get(ctx, query, userID)
}

func (r *PostgresRepository) get(ctx context.Context, query string, userID string) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	query :=
		`UPDATE users SET refresh_token = NULL
		 WHERE id = $1
		 `

	return r.exec(ctx, query, userID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
