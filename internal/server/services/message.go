package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/authz"
	"github.com/messagely/messagely/internal/server/config"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/repositories/repomanager"
)

// MessageService implements the message lifecycle: send, read, mark-read,
// and per-user listings. Every operation takes the verified caller username
// from the transport layer; the guard decides access, this service never
// trusts request payloads for identity.
type MessageService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	guard        *authz.Guard
	storeTimeout time.Duration
}

// NewMessageService constructs a MessageService using repositories and
// server config.
func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, g *authz.Guard, cfg *config.Config) *MessageService {
	return &MessageService{
		db:           db,
		repomanager:  m,
		guard:        g,
		storeTimeout: cfg.StoreTimeout,
	}
}

// Send creates a message from caller to toUsername. The sender is always
// the verified caller. The recipient existence check and the insert run in
// one transaction so the recipient cannot vanish between them.
func (s *MessageService) Send(ctx context.Context, caller, toUsername, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("message body must not be empty: %w", common.ErrorInvalidInput)
	}
	if toUsername == "" {
		return nil, fmt.Errorf("recipient is required: %w", common.ErrorInvalidInput)
	}

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var msg *models.Message
	err := dbx.WithTx(sctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		exists, err := s.repomanager.Users(tx).Exists(ctx, toUsername)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("unknown recipient %q: %w", toUsername, common.ErrorInvalidInput)
		}

		msg, err = s.repomanager.Messages(tx).Create(ctx, caller, toUsername, body)
		return err
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return msg, nil
}

// Get returns a message by id. Only the sender or the recipient may read
// it; everyone else gets common.ErrorForbidden.
func (s *MessageService) Get(ctx context.Context, caller string, id int64) (*models.Message, error) {
	msg, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CanReadMessage(caller, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// MarkRead sets the message's read_at. Only the recipient may do this.
// read_at is set once: marking an already-read message returns it
// unchanged.
func (s *MessageService) MarkRead(ctx context.Context, caller string, id int64) (*models.Message, error) {
	msg, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CanMarkRead(caller, msg); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	readAt, err := s.repomanager.Messages(s.db).MarkRead(sctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) && msg.ReadAt != nil {
			// already read; set-once keeps the original timestamp
			return msg, nil
		}
		return nil, mapStoreErr(err)
	}

	msg.ReadAt = &readAt
	return msg, nil
}

// SentBy lists messages sent by username. Callers may only read their own
// outbox.
func (s *MessageService) SentBy(ctx context.Context, caller, username string) ([]*models.Message, error) {
	if err := s.guard.CanListMessages(caller, username); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	msgs, err := s.repomanager.Messages(s.db).ListSentBy(sctx, username)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return msgs, nil
}

// ReceivedBy lists messages received by username. Callers may only read
// their own inbox.
func (s *MessageService) ReceivedBy(ctx context.Context, caller, username string) ([]*models.Message, error) {
	if err := s.guard.CanListMessages(caller, username); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	msgs, err := s.repomanager.Messages(s.db).ListReceivedBy(sctx, username)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return msgs, nil
}

func (s *MessageService) fetch(ctx context.Context, id int64) (*models.Message, error) {
	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	msg, err := s.repomanager.Messages(s.db).GetByID(sctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return msg, nil
}
