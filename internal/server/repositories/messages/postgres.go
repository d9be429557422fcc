package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, from, to, body string) (*models.Message, error) {

	query :=
		`INSERT INTO messages (from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, now())
		 RETURNING id, sent_at
		 `

	msg := &models.Message{FromUsername: from, ToUsername: to, Body: body}
	err := r.db.QueryRowContext(ctx, query, from, to, body).Scan(&msg.ID, &msg.SentAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
		        f.first_name, f.last_name, f.phone,
		        t.first_name, t.last_name, t.phone
		 FROM messages m
		 JOIN users f ON m.from_username = f.username
		 JOIN users t ON m.to_username = t.username
		 WHERE m.id = $1
		 `

	msg := &models.Message{}
	from := &models.Profile{}
	to := &models.Profile{}
	var readAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt, &readAt,
		&from.FirstName, &from.LastName, &from.Phone,
		&to.FirstName, &to.LastName, &to.Phone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if readAt.Valid {
		msg.ReadAt = &readAt.Time
	}
	from.Username = msg.FromUsername
	to.Username = msg.ToUsername
	msg.From = from
	msg.To = to

	return msg, nil
}

func (r *PostgresRepository) ListSentBy(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT m.id, m.to_username, m.body, m.sent_at, m.read_at,
		        u.first_name, u.last_name, u.phone
		 FROM messages m
		 JOIN users u ON m.to_username = u.username
		 WHERE m.from_username = $1
		 ORDER BY m.sent_at
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		msg := &models.Message{FromUsername: username}
		to := &models.Profile{}
		var readAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.ToUsername, &msg.Body, &msg.SentAt, &readAt,
			&to.FirstName, &to.LastName, &to.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if readAt.Valid {
			msg.ReadAt = &readAt.Time
		}
		to.Username = msg.ToUsername
		msg.To = to
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msgs, nil
}

func (r *PostgresRepository) ListReceivedBy(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT m.id, m.from_username, m.body, m.sent_at, m.read_at,
		        u.first_name, u.last_name, u.phone
		 FROM messages m
		 JOIN users u ON m.from_username = u.username
		 WHERE m.to_username = $1
		 ORDER BY m.sent_at
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		msg := &models.Message{ToUsername: username}
		from := &models.Profile{}
		var readAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.FromUsername, &msg.Body, &msg.SentAt, &readAt,
			&from.FirstName, &from.LastName, &from.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if readAt.Valid {
			msg.ReadAt = &readAt.Time
		}
		from.Username = msg.FromUsername
		msg.From = from
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msgs, nil
}

// MarkRead is guarded with "read_at IS NULL" so a timestamp, once set, can
// never be overwritten.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) (time.Time, error) {
	query :=
		`UPDATE messages SET read_at = now()
		 WHERE id = $1 AND read_at IS NULL
		 RETURNING read_at
		 `

	var readAt time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&readAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrorNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return readAt, nil
}
