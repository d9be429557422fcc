// Package users implements the credential store: it owns User records and
// is the only layer that ever sees password hashes.
package users

import (
	"context"
	"time"

	"github.com/messagely/messagely/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A taken username yields
	// common.ErrorDuplicateUsername.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the full credential record, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// ListAll returns profile summaries for every user. Password hashes are
	// never included.
	ListAll(ctx context.Context) ([]models.Profile, error)

	// TouchLogin sets last_login_at to the current time and returns the new
	// value, or common.ErrorNotFound.
	TouchLogin(ctx context.Context, username string) (time.Time, error)

	// Exists reports whether the username resolves to a user.
	Exists(ctx context.Context, username string) (bool, error)
}
