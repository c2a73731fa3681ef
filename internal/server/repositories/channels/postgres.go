package channels

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository runs the queries over a plain dbx.DBTX and maps rows
// onto the db-tagged models with sqlx.StructScan, so it works inside
// dbx.WithTx like the other repositories.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	query :=
		`SELECT u.fullname, u.username, u.email, u.avatar, u.cover_image,
		        (SELECT count(*) FROM subscriptions s WHERE s.channel = u.id) AS subscribers_count,
		        (SELECT count(*) FROM subscriptions s WHERE s.subscriber = u.id) AS channels_subscribed_to_count,
		        EXISTS (SELECT 1 FROM subscriptions s
		                WHERE s.channel = u.id AND s.subscriber::text = $2) AS is_subscribed
		 FROM users u
		 WHERE lower(u.username) = lower($1)
		 LIMIT 1
		 `

	rows, err := r.db.QueryContext(ctx, query, username, viewerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var profiles []models.ChannelProfile
	if err := sqlx.StructScan(rows, &profiles); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(profiles) == 0 {
		return nil, common.ErrorNotFound
	}

	return &profiles[0], nil
}

func (r *PostgresRepository) WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	query :=
		`SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration,
		        v.views, v.is_published, v.created_at, v.updated_at,
		        o.fullname AS "owner.fullname",
		        o.username AS "owner.username",
		        o.avatar AS "owner.avatar"
		 FROM watch_history h
		 JOIN videos v ON v.id = h.video_id
		 JOIN users o ON o.id = v.owner
		 WHERE h.user_id = $1
		 ORDER BY h.position
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	videos := []models.WatchedVideo{}
	if err := sqlx.StructScan(rows, &videos); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return videos, nil
}
