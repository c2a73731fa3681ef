// Package refreshtokens declares the repository contract for the single
// active refresh token kept on each user record.
package refreshtokens

import "context"

// Repository reads and writes the refresh token column of a user. Saving
// overwrites any previous token, so at most one is active per user.
type Repository interface {
	// Save stores token for userID. Missing users yield common.ErrorNotFound.
	Save(ctx context.Context, userID string, token string) error

	// Get returns the stored token, or "" when none is set. Missing users
	// yield common.ErrorNotFound.
	Get(ctx context.Context, userID string) (string, error)

	// GetForUpdate is Get that also row-locks the user until the enclosing
	// transaction ends. Outside a transaction it behaves like Get.
	GetForUpdate(ctx context.Context, userID string) (string, error)

	// Clear removes the stored token. Clearing a user without a token is not
	// an error.
	Clear(ctx context.Context, userID string) error
}
