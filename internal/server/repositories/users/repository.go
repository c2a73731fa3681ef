// Package users declares the repository contract for user accounts and its
// PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

// Repository stores user accounts. Lookups that match nothing return
// common.ErrorNotFound; unique violations on username or email return
// common.ErrorConflict.
type Repository interface {
	// Create inserts user and fills in its generated id and timestamps.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsernameOrEmail returns the first user whose username equals
	// username or whose email equals email. Empty arguments never match.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, url string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
