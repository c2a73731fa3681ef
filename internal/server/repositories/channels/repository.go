// Package channels holds the read-only aggregation queries behind channel
// profiles and watch history.
package channels

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

type Repository interface {
	// ChannelProfile looks up the channel by case-insensitive username and
	// reports whether viewerID subscribes to it. Returns common.ErrorNotFound
	// when no such user exists.
	ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)

	// WatchHistory returns the videos watched by userID in history order,
	// never nil.
	WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error)
}
