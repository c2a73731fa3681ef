// Package services contains server-side business logic. This file implements
// TokenService, which mints access/refresh JWT pairs and verifies them
// against the refresh token stored on the user record.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

const msgTokenGeneration = "Something went wrong while generating refresh and access token"

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:                           db,
		repomanager:                  m,
		accessSecret:                 []byte(cfg.AccessTokenSecret),
		refreshSecret:                []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// IssuePair mints a new pair for userID and stores the refresh token,
// replacing any previous one.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (*TokenPair, error) {
	return s.issuePair(ctx, s.db, userID)
}

func (s *TokenService) issuePair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	user, err := s.repomanager.Users(db).GetByID(ctx, userID)
	if err != nil {
		return nil, common.Internal(msgTokenGeneration, err)
	}

	access, err := auth.GenerateAccessToken(auth.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	}, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.Internal(msgTokenGeneration, err)
	}

	refresh, err := auth.GenerateRefreshToken(user.ID, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.Internal(msgTokenGeneration, err)
	}

	if err := s.repomanager.RefreshTokens(db).Save(ctx, user.ID, refresh); err != nil {
		return nil, common.Internal(msgTokenGeneration, err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess checks signature and expiry of an access token.
func (s *TokenService) VerifyAccess(token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, common.Unauthorized("Unauthorized request", nil)
	}

	id, err := auth.ParseAccessToken(token, s.accessSecret)
	if err != nil {
		return auth.Identity{}, common.Unauthorized(err.Error(), err)
	}

	return id, nil
}

// VerifyRefresh checks a refresh token and that it is the one currently
// stored for its user. It returns the user id.
func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (string, error) {
	return s.verifyRefresh(ctx, s.db, token, false)
}

// verifyRefresh with lock set holds the user's row until db commits, so
// concurrent rotations of the same token run one after the other.
func (s *TokenService) verifyRefresh(ctx context.Context, db dbx.DBTX, token string, lock bool) (string, error) {
	if token == "" {
		return "", common.Unauthorized("unauthorized request", nil)
	}

	userID, err := auth.ParseRefreshToken(token, s.refreshSecret)
	if err != nil {
		return "", common.Unauthorized("Invalid refresh token: "+err.Error(), err)
	}

	repo := s.repomanager.RefreshTokens(db)
	get := repo.Get
	if lock {
		get = repo.GetForUpdate
	}

	stored, err := get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.Unauthorized("Invalid refresh token", err)
		}
		return "", common.Internal("Something went wrong while verifying refresh token", err)
	}

	if stored != token {
		return "", common.Unauthorized("Refresh token is expired or used", nil)
	}

	return userID, nil
}

// Rotate verifies token and replaces it with a fresh pair in one transaction.
func (s *TokenService) Rotate(ctx context.Context, token string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := s.verifyRefresh(ctx, tx, token, true)
		if err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}
