package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fernwell/contact-api/internal/domain"
	"github.com/fernwell/contact-api/internal/platform/postgres"
	"github.com/fernwell/contact-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*postgres.PostgresMessageStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return postgres.NewPostgresMessageStore(db, nil), mock, db
}

func testMessage(t *testing.T) *domain.Message {
	t.Helper()

	msg, err := domain.NewMessage("Ann", "ann@example.com", "Hi", "Hello")
	require.NoError(t, err)
	return msg
}

func TestMessageStoreCreate(t *testing.T) {
	s, mock, _ := newMockStore(t)
	msg := testMessage(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO messages`)).
		WithArgs(msg.ID, msg.Name, msg.Email, msg.Subject, msg.Body, msg.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Create(context.Background(), msg)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStoreCreateRejectsInvalidMessage(t *testing.T) {
	s, mock, _ := newMockStore(t)

	invalid := &domain.Message{
		ID:      uuid.New(),
		Name:    "Bob",
		Email:   "not-an-email",
		Subject: "x",
		Body:    "y",
	}

	err := s.Create(context.Background(), invalid)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	// No SQL should have been executed for an invalid entity.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStoreGetByID(t *testing.T) {
	s, mock, _ := newMockStore(t)

	id := uuid.New()
	createdAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "subject", "body", "created_at"}).
		AddRow(id.String(), "Ann", "ann@example.com", "Hi", "Hello", createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, subject, body, created_at`)).
		WithArgs(id).
		WillReturnRows(rows)

	msg, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, "ann@example.com", msg.Email)
	assert.WithinDuration(t, createdAt, msg.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStoreGetByIDNotFound(t *testing.T) {
	s, mock, _ := newMockStore(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, subject, body, created_at`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	msg, err := s.GetByID(context.Background(), id)
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, store.ErrMessageNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStoreList(t *testing.T) {
	s, mock, _ := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "subject", "body", "created_at"}).
		AddRow(uuid.New().String(), "Ann", "ann@example.com", "Hi", "Hello", time.Now().UTC()).
		AddRow(uuid.New().String(), "Bob", "bob@example.com", "Yo", "World", time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC`)).
		WithArgs(10, 0).
		WillReturnRows(rows)

	messages, err := s.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Ann", messages[0].Name)
	assert.Equal(t, "Bob", messages[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStoreListDefaultsLimit(t *testing.T) {
	s, mock, _ := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "subject", "body", "created_at"})

	// A non-positive limit falls back to the default page size.
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC`)).
		WithArgs(50, 0).
		WillReturnRows(rows)

	messages, err := s.List(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStoreCount(t *testing.T) {
	s, mock, _ := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM messages`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageStoreWithTx(t *testing.T) {
	s, mock, db := newMockStore(t)
	msg := testMessage(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO messages`)).
		WithArgs(msg.ID, msg.Name, msg.Email, msg.Subject, msg.Body, msg.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).Create(ctx, msg)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
