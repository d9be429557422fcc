package messages

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/messagely/messagely/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const createQ = `(?s)^INSERT\s+INTO\s+messages\s*\(from_username,\s*to_username,\s*body,\s*sent_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*now\(\)\)\s*RETURNING\s+id,\s*sent_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	sentAt := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "sent_at"}).AddRow(int64(7), sentAt)
	mock.ExpectQuery(createQ).WithArgs("alice", "bob", "hi").WillReturnRows(rows)

	got, err := repo.Create(context.Background(), "alice", "bob", "hi")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 || got.FromUsername != "alice" || got.ToUsername != "bob" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if !got.SentAt.Equal(sentAt) {
		t.Fatalf("unexpected sent_at: %v", got.SentAt)
	}
	if got.ReadAt != nil {
		t.Fatalf("new message must have nil read_at, got %v", got.ReadAt)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(createQ).WithArgs("alice", "bob", "hi").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "alice", "bob", "hi")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

const getQ = `(?s)^SELECT\s+m\.id,.*FROM\s+messages\s+m\s+JOIN\s+users\s+f\s+ON\s+m\.from_username\s*=\s*f\.username\s+JOIN\s+users\s+t\s+ON\s+m\.to_username\s*=\s*t\.username\s+WHERE\s+m\.id\s*=\s*\$1\s*$`

func getColumns() []string {
	return []string{
		"id", "from_username", "to_username", "body", "sent_at", "read_at",
		"f_first_name", "f_last_name", "f_phone",
		"t_first_name", "t_last_name", "t_phone",
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	sentAt := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows(getColumns()).
		AddRow(int64(7), "alice", "bob", "hi", sentAt, nil,
			"Alice", "Smith", "+15551234567",
			"Bob", "Jones", "+15557654321")
	mock.ExpectQuery(getQ).WithArgs(int64(7)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.From == nil || got.From.Username != "alice" || got.From.FirstName != "Alice" {
		t.Fatalf("unexpected from profile: %+v", got.From)
	}
	if got.To == nil || got.To.Username != "bob" || got.To.Phone != "+15557654321" {
		t.Fatalf("unexpected to profile: %+v", got.To)
	}
	if got.ReadAt != nil {
		t.Fatalf("expected unread message, got read_at=%v", got.ReadAt)
	}
}

func TestGetByID_ReadMessage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	sentAt := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	readAt := sentAt.Add(time.Hour)
	rows := sqlmock.NewRows(getColumns()).
		AddRow(int64(7), "alice", "bob", "hi", sentAt, readAt,
			"Alice", "Smith", "+15551234567",
			"Bob", "Jones", "+15557654321")
	mock.ExpectQuery(getQ).WithArgs(int64(7)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ReadAt == nil || !got.ReadAt.Equal(readAt) {
		t.Fatalf("unexpected read_at: %v", got.ReadAt)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListSentBy(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+m\.id,\s*m\.to_username,.*WHERE\s+m\.from_username\s*=\s*\$1\s+ORDER\s+BY\s+m\.sent_at\s*$`
	sentAt := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "to_username", "body", "sent_at", "read_at", "first_name", "last_name", "phone"}).
		AddRow(int64(1), "bob", "hi", sentAt, nil, "Bob", "Jones", "+15557654321").
		AddRow(int64(2), "carol", "yo", sentAt.Add(time.Minute), sentAt.Add(time.Hour), "Carol", "White", "+15550000000")
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(rows)

	got, err := repo.ListSentBy(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListSentBy error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].FromUsername != "alice" || got[0].To.Username != "bob" {
		t.Fatalf("unexpected first message: %+v", got[0])
	}
	if got[0].ReadAt != nil || got[1].ReadAt == nil {
		t.Fatalf("unexpected read flags: %v %v", got[0].ReadAt, got[1].ReadAt)
	}
}

func TestListReceivedBy(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+m\.id,\s*m\.from_username,.*WHERE\s+m\.to_username\s*=\s*\$1\s+ORDER\s+BY\s+m\.sent_at\s*$`
	sentAt := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "from_username", "body", "sent_at", "read_at", "first_name", "last_name", "phone"}).
		AddRow(int64(3), "alice", "hello bob", sentAt, nil, "Alice", "Smith", "+15551234567")
	mock.ExpectQuery(q).WithArgs("bob").WillReturnRows(rows)

	got, err := repo.ListReceivedBy(context.Background(), "bob")
	if err != nil {
		t.Fatalf("ListReceivedBy error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].ToUsername != "bob" || got[0].From.Username != "alice" {
		t.Fatalf("unexpected message: %+v", got[0])
	}
}

const markReadQ = `(?s)^UPDATE\s+messages\s+SET\s+read_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+read_at\s+IS\s+NULL\s+RETURNING\s+read_at\s*$`

func TestMarkRead_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows([]string{"read_at"}).AddRow(now)
	mock.ExpectQuery(markReadQ).WithArgs(int64(7)).WillReturnRows(rows)

	got, err := repo.MarkRead(context.Background(), 7)
	if err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("unexpected read_at: %v", got)
	}
}

func TestMarkRead_AlreadyReadOrMissing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// the set-once guard makes both cases look the same at this level
	mock.ExpectQuery(markReadQ).WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkRead(context.Background(), 7)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
