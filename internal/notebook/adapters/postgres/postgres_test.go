package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebook/internal/notebook/adapters/postgres"
	"notebook/internal/notebook/domain/entities"
	"notebook/pkg/logger"
)

var errDatabase = errors.New("database connection failed")

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestRepositoryFactory(t *testing.T) {
	factory := postgres.NewRepositoryFactory(newMock(t))

	assert.NotNil(t, factory.UserRepository())
	assert.NotNil(t, factory.NoteRepository())
	assert.NotNil(t, factory.ImageRepository())
}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)
	user := &entities.User{ID: "ALICE", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	query := regexp.QuoteMeta(`INSERT INTO users (id, password_hash, created_at) VALUES ($1, $2, $3)`)

	t.Run("success", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).
			WithArgs(user.ID, user.PasswordHash, user.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, postgres.NewUserRepository(mock).Create(ctx, user))
	})

	t.Run("unique violation maps to ErrUserExists", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).
			WithArgs(user.ID, user.PasswordHash, user.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := postgres.NewUserRepository(mock).Create(ctx, user)
		assert.ErrorIs(t, err, entities.ErrUserExists)
	})

	t.Run("database error is propagated", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).
			WithArgs(user.ID, user.PasswordHash, user.CreatedAt).
			WillReturnError(errDatabase)

		err := postgres.NewUserRepository(mock).Create(ctx, user)
		assert.ErrorIs(t, err, errDatabase)
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	ctx := testContext(t)
	query := regexp.QuoteMeta(`SELECT id, password_hash, created_at FROM users WHERE id = $1`)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("ALICE").
			WillReturnRows(pgxmock.NewRows([]string{"id", "password_hash", "created_at"}).
				AddRow("ALICE", "hash", created))

		user, err := postgres.NewUserRepository(mock).FindByID(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, &entities.User{ID: "ALICE", PasswordHash: "hash", CreatedAt: created}, user)
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("NOBODY").
			WillReturnRows(pgxmock.NewRows([]string{"id", "password_hash", "created_at"}))

		user, err := postgres.NewUserRepository(mock).FindByID(ctx, "NOBODY")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, password_hash, created_at FROM users ORDER BY created_at, id`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "password_hash", "created_at"}).
			AddRow("ADMIN", "h1", now).
			AddRow("ALICE", "h2", now))

	users, err := postgres.NewUserRepository(mock).List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ADMIN", users[0].ID)
	assert.Equal(t, "ALICE", users[1].ID)
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	ctx := testContext(t)
	query := regexp.QuoteMeta(`UPDATE users SET password_hash = $2 WHERE id = $1`)

	t.Run("updated", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).WithArgs("ALICE", "new").WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, postgres.NewUserRepository(mock).UpdatePasswordHash(ctx, "ALICE", "new"))
	})

	t.Run("missing user", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(query).WithArgs("GHOST", "new").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := postgres.NewUserRepository(mock).UpdatePasswordHash(ctx, "GHOST", "new")
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})
}

func TestUserRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs("GHOST").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, postgres.NewUserRepository(mock).Delete(ctx, "GHOST"))
}

func TestNoteRepository(t *testing.T) {
	ctx := testContext(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	note := &entities.Note{ID: "n1", Owner: "ALICE", Timestamp: ts, Content: "buy milk"}
	cols := []string{"note_id", "owner", "created_at", "content"}

	t.Run("create", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notes (note_id, owner, created_at, content) VALUES ($1, $2, $3, $4)`)).
			WithArgs(note.ID, note.Owner, note.Timestamp, note.Content).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, postgres.NewNoteRepository(mock).Create(ctx, note))
	})

	t.Run("create error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notes`)).
			WithArgs(note.ID, note.Owner, note.Timestamp, note.Content).
			WillReturnError(errDatabase)

		err := postgres.NewNoteRepository(mock).Create(ctx, note)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create note")
	})

	t.Run("find by id", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT note_id, owner, created_at, content FROM notes WHERE note_id = $1`)).
			WithArgs("n1").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(note.ID, note.Owner, note.Timestamp, note.Content))

		got, err := postgres.NewNoteRepository(mock).FindByID(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, note, got)
	})

	t.Run("find missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM notes WHERE note_id = $1`)).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows(cols))

		_, err := postgres.NewNoteRepository(mock).FindByID(ctx, "nope")
		assert.ErrorIs(t, err, entities.ErrNoteNotFound)
	})

	t.Run("list by owner", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM notes WHERE owner = $1 ORDER BY created_at`)).
			WithArgs("ALICE").
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow("n1", "ALICE", ts, "buy milk").
				AddRow("n2", "ALICE", ts.Add(time.Second), "call bob"))

		notes, err := postgres.NewNoteRepository(mock).ListByOwner(ctx, "ALICE")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "call bob", notes[1].Content)
	})

	t.Run("list query error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM notes WHERE owner = $1`)).
			WithArgs("ALICE").
			WillReturnError(errDatabase)

		notes, err := postgres.NewNoteRepository(mock).ListByOwner(ctx, "ALICE")
		assert.Nil(t, notes)
		assert.ErrorIs(t, err, errDatabase)
	})

	t.Run("delete", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notes WHERE note_id = $1`)).
			WithArgs("n1").WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, postgres.NewNoteRepository(mock).Delete(ctx, "n1"))
	})

	t.Run("delete by owner", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notes WHERE owner = $1`)).
			WithArgs("ALICE").WillReturnResult(pgxmock.NewResult("DELETE", 3))

		n, err := postgres.NewNoteRepository(mock).DeleteByOwner(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestImageRepository(t *testing.T) {
	ctx := testContext(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	image := &entities.Image{UID: "u1", Owner: "BOB", OriginalFilename: "cat.png", Timestamp: ts}
	cols := []string{"uid", "owner", "original_filename", "created_at"}

	t.Run("create", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO images (uid, owner, original_filename, created_at) VALUES ($1, $2, $3, $4)`)).
			WithArgs(image.UID, image.Owner, image.OriginalFilename, image.Timestamp).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, postgres.NewImageRepository(mock).Create(ctx, image))
	})

	t.Run("find by uid", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM images WHERE uid = $1`)).
			WithArgs("u1").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(image.UID, image.Owner, image.OriginalFilename, image.Timestamp))

		got, err := postgres.NewImageRepository(mock).FindByUID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, image, got)
	})

	t.Run("find missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM images WHERE uid = $1`)).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows(cols))

		_, err := postgres.NewImageRepository(mock).FindByUID(ctx, "nope")
		assert.ErrorIs(t, err, entities.ErrImageNotFound)
	})

	t.Run("list by owner", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM images WHERE owner = $1 ORDER BY created_at`)).
			WithArgs("BOB").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(image.UID, image.Owner, image.OriginalFilename, image.Timestamp))

		images, err := postgres.NewImageRepository(mock).ListByOwner(ctx, "BOB")
		require.NoError(t, err)
		assert.Equal(t, []*entities.Image{image}, images)
	})

	t.Run("delete error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM images WHERE uid = $1`)).
			WithArgs("u1").WillReturnError(errDatabase)

		err := postgres.NewImageRepository(mock).Delete(ctx, "u1")
		assert.ErrorIs(t, err, errDatabase)
	})

	t.Run("delete by owner", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM images WHERE owner = $1`)).
			WithArgs("BOB").WillReturnResult(pgxmock.NewResult("DELETE", 2))

		n, err := postgres.NewImageRepository(mock).DeleteByOwner(ctx, "BOB")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}
