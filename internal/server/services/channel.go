package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

// ChannelService serves the read-only channel profile and watch history.
type ChannelService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewChannelService(db *sql.DB, m repomanager.RepositoryManager) *ChannelService {
	return &ChannelService{db: db, repomanager: m}
}

// ChannelProfile returns the channel of username as seen by viewerID.
func (s *ChannelService) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.BadRequest("username is missing")
	}

	profile, err := s.repomanager.Channels(s.db).ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("channel does not exist")
		}
		return nil, common.Internal("Something went wrong while fetching channel", err)
	}

	return profile, nil
}

// WatchHistory returns the ordered watch history of userID.
func (s *ChannelService) WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	videos, err := s.repomanager.Channels(s.db).WatchHistory(ctx, userID)
	if err != nil {
		return nil, common.Internal("Something went wrong while fetching watch history", err)
	}
	return videos, nil
}
