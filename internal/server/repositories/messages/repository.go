// Package messages implements the message store. Reads expand the
// participant profile summaries so callers never have to join against the
// credential store themselves.
package messages

import (
	"context"
	"time"

	"github.com/messagely/messagely/internal/server/models"
)

type Repository interface {
	// Create inserts a message from one user to another. sent_at is set by
	// the database; read_at starts null.
	Create(ctx context.Context, from, to, body string) (*models.Message, error)

	// GetByID returns the message expanded with sender and recipient
	// summaries, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Message, error)

	// ListSentBy returns messages sent by the user, each expanded with the
	// recipient summary, oldest first.
	ListSentBy(ctx context.Context, username string) ([]*models.Message, error)

	// ListReceivedBy returns messages received by the user, each expanded
	// with the sender summary, oldest first.
	ListReceivedBy(ctx context.Context, username string) ([]*models.Message, error)

	// MarkRead sets read_at exactly once and returns the new value.
	// common.ErrorNotFound means either the id is unknown or read_at was
	// already set; callers distinguish the two with GetByID.
	MarkRead(ctx context.Context, id int64) (time.Time, error)
}
