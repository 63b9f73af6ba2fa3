package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"notebook/internal/notebook/adapters/filepool"
	adaptersvc "notebook/internal/notebook/adapters/services"
	"notebook/internal/notebook/adapters/session"
	"notebook/internal/notebook/adapters/sqlite"
	"notebook/internal/notebook/app"
	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/domain/services"
	"notebook/internal/notebook/ports/api"
	"notebook/internal/notebook/ports/repositories"
	svc "notebook/internal/notebook/ports/services"
)

// ScenarioSuite прогоняет сценарии на SQLite, локальном пуле и сессиях в miniredis.
type ScenarioSuite struct {
	suite.Suite

	ctx       context.Context
	uploadDir string
	store     *sqlite.Store
	auth      api.AuthUseCase
	notes     api.NoteUseCase
	images    api.ImageUseCase
	cascade   *app.CascadeCoordinator
	sessions  svc.SessionService
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

func (s *ScenarioSuite) SetupTest() {
	t := s.T()
	s.ctx = context.Background()

	store, err := sqlite.NewStore(s.ctx, filepath.Join(t.TempDir(), "notebook.db"))
	s.Require().NoError(err)
	s.Require().NoError(store.Migrate(s.ctx))
	s.store = store

	s.uploadDir = t.TempDir()
	pool, err := filepool.NewLocal(s.ctx, s.uploadDir)
	s.Require().NoError(err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.sessions, err = session.New(client, "scenario-secret", time.Hour)
	s.Require().NoError(err)

	factory := adaptersvc.NewServiceFactory(bcrypt.MinCost)
	owners := app.NewOwnershipResolver(store.NoteRepository(), store.ImageRepository())

	s.auth = app.NewAuthUseCase(store.UserRepository(), factory.PasswordService())
	s.notes = app.NewNoteUseCase(store.NoteRepository(), owners, factory.IdentityService(), nil)
	s.images = app.NewImageUseCase(store.ImageRepository(), pool, owners, factory.IdentityService(), nil)
	s.cascade = app.NewCascadeCoordinator(store.UserRepository(), store.NoteRepository(), store.ImageRepository(), pool, s.sessions)

	s.Require().NoError(s.auth.EnsureAdmin(s.ctx, "admin"))
	for _, id := range []string{"alice", "bob", "eve"} {
		s.Require().NoError(s.auth.CreateUser(s.ctx, entities.AdminID, id, id+"-pw"))
	}

	t.Cleanup(func() {
		_ = client.Close()
		_ = store.Close()
	})
}

func (s *ScenarioSuite) poolFiles() []string {
	entries, err := os.ReadDir(s.uploadDir)
	s.Require().NoError(err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (s *ScenarioSuite) TestAuthenticate() {
	ok, err := s.auth.Authenticate(s.ctx, "alice", "alice-pw")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.auth.Authenticate(s.ctx, "ALICE", "wrong")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.auth.Authenticate(s.ctx, "mallory", "x")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ScenarioSuite) TestCreateUserTwiceIsRejected() {
	err := s.auth.CreateUser(s.ctx, entities.AdminID, "carol", "pw")
	s.Require().NoError(err)

	err = s.auth.CreateUser(s.ctx, entities.AdminID, "CAROL", "other")
	s.ErrorIs(err, services.ErrDuplicateUser)

	users, err := s.auth.ListUsers(s.ctx, entities.AdminID)
	s.Require().NoError(err)
	count := 0
	for _, u := range users {
		if u.ID == "CAROL" {
			count++
		}
	}
	s.Equal(1, count)

	ok, err := s.auth.Authenticate(s.ctx, "carol", "pw")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ScenarioSuite) TestDeleteAdminIsForbidden() {
	_, err := s.notes.WriteNote(s.ctx, entities.AdminID, "admin note")
	s.Require().NoError(err)

	s.ErrorIs(s.cascade.DeleteUser(s.ctx, entities.AdminID, "ADMIN"), services.ErrForbidden)

	ok, err := s.auth.Authenticate(s.ctx, "ADMIN", "admin")
	s.Require().NoError(err)
	s.True(ok)

	notes, err := s.notes.ListNotes(s.ctx, entities.AdminID)
	s.Require().NoError(err)
	s.Len(notes, 1)
}

func (s *ScenarioSuite) TestWriteAndListNote() {
	id, err := s.notes.WriteNote(s.ctx, "alice", "buy milk")
	s.Require().NoError(err)

	notes, err := s.notes.ListNotes(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Equal(id, notes[0].ID)
	s.Equal("buy milk", notes[0].Content)
	s.Equal("ALICE", notes[0].Owner)
}

func (s *ScenarioSuite) TestNonOwnerCannotDeleteNote() {
	id, err := s.notes.WriteNote(s.ctx, "alice", "buy milk")
	s.Require().NoError(err)

	s.ErrorIs(s.notes.DeleteNote(s.ctx, "EVE", id), services.ErrUnauthorized)

	notes, err := s.notes.ListNotes(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Equal(id, notes[0].ID)

	s.Require().NoError(s.notes.DeleteNote(s.ctx, "alice", id))
	s.Require().NoError(s.notes.DeleteNote(s.ctx, "alice", id))
	notes, err = s.notes.ListNotes(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Empty(notes)
}

func (s *ScenarioSuite) TestUploadAndDeleteImage() {
	uid, err := s.images.UploadImage(s.ctx, "BOB", "cat.png", []byte("meow"))
	s.Require().NoError(err)

	s.Equal([]string{uid + "-cat.png"}, s.poolFiles())

	images, err := s.images.ListImages(s.ctx, "BOB")
	s.Require().NoError(err)
	s.Require().Len(images, 1)
	s.Equal(uid, images[0].UID)

	_, rc, err := s.images.OpenImage(s.ctx, "bob", uid)
	s.Require().NoError(err)
	rc.Close()

	s.ErrorIs(s.images.DeleteImage(s.ctx, "EVE", uid), services.ErrUnauthorized)
	s.Len(s.poolFiles(), 1)

	s.Require().NoError(s.images.DeleteImage(s.ctx, "BOB", uid))
	s.Empty(s.poolFiles())

	images, err = s.images.ListImages(s.ctx, "BOB")
	s.Require().NoError(err)
	s.Empty(images)
}

func (s *ScenarioSuite) TestDeleteUserCascades() {
	var uids []string
	for _, name := range []string{"cat.png", "dog.jpg"} {
		uid, err := s.images.UploadImage(s.ctx, "bob", name, []byte(name))
		s.Require().NoError(err)
		uids = append(uids, uid)
	}
	_, err := s.notes.WriteNote(s.ctx, "bob", "feed cat")
	s.Require().NoError(err)
	aliceNote, err := s.notes.WriteNote(s.ctx, "alice", "buy milk")
	s.Require().NoError(err)

	sess, err := s.sessions.Create(s.ctx, "BOB")
	s.Require().NoError(err)

	s.ErrorIs(s.cascade.DeleteUser(s.ctx, "ALICE", "BOB"), services.ErrUnauthorized)
	s.Require().NoError(s.cascade.DeleteUser(s.ctx, entities.AdminID, "bob"))

	notes, err := s.notes.ListNotes(s.ctx, "BOB")
	s.Require().NoError(err)
	s.Empty(notes)

	images, err := s.images.ListImages(s.ctx, "BOB")
	s.Require().NoError(err)
	s.Empty(images)

	for _, f := range s.poolFiles() {
		for _, uid := range uids {
			s.False(strings.HasPrefix(f, entities.StoredFilePrefix(uid)), f)
		}
	}

	_, err = s.sessions.Resolve(s.ctx, sess.Token)
	s.ErrorIs(err, services.ErrInvalidSession)

	ok, err := s.auth.Authenticate(s.ctx, "bob", "bob-pw")
	s.Require().NoError(err)
	s.False(ok)

	notes, err = s.notes.ListNotes(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Equal(aliceNote, notes[0].ID)

	s.Require().NoError(s.cascade.DeleteUser(s.ctx, entities.AdminID, "bob"))
}

func TestLegacyPasswordUpgrade(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.NewStore(ctx, filepath.Join(t.TempDir(), "legacy.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })

	// sha256("admin")
	legacy := "8c6976e5b5410415bde908bd4dee15dfa167a9c873fc4bb8a81f6f2ab448a918"
	users := store.UserRepository()
	require.NoError(t, users.Create(ctx, &entities.User{ID: "ADMIN", PasswordHash: legacy, CreatedAt: start}))

	passwords := adaptersvc.NewBcrypt(bcrypt.MinCost)
	auth := app.NewAuthUseCase(users, passwords)

	ok, err := auth.Authenticate(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	user, err := users.FindByID(ctx, "ADMIN")
	require.NoError(t, err)
	assert.NotEqual(t, legacy, user.PasswordHash)
	assert.False(t, passwords.NeedsRehash(user.PasswordHash))

	ok, err = auth.Authenticate(ctx, "ADMIN", "admin")
	require.NoError(t, err)
	assert.True(t, ok)
}

// failingNoteRepository отказывает в DeleteByOwner заданное число раз.
type failingNoteRepository struct {
	repositories.NoteRepository
	failures int
}

func (r *failingNoteRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	if r.failures > 0 {
		r.failures--
		return 0, errStore
	}
	return r.NoteRepository.DeleteByOwner(ctx, owner)
}

func (s *ScenarioSuite) TestInterruptedCascadeCanBeRerun() {
	_, err := s.notes.WriteNote(s.ctx, "alice", "first")
	s.Require().NoError(err)
	_, err = s.notes.WriteNote(s.ctx, "alice", "second")
	s.Require().NoError(err)
	_, err = s.images.UploadImage(s.ctx, "alice", "a.png", []byte("a"))
	s.Require().NoError(err)
	_, err = s.images.UploadImage(s.ctx, "alice", "b.gif", []byte("b"))
	s.Require().NoError(err)
	bobImage, err := s.images.UploadImage(s.ctx, "bob", "c.jpg", []byte("c"))
	s.Require().NoError(err)

	pool, err := filepool.NewLocal(s.ctx, s.uploadDir)
	s.Require().NoError(err)
	notes := &failingNoteRepository{NoteRepository: s.store.NoteRepository(), failures: 1}
	cascade := app.NewCascadeCoordinator(s.store.UserRepository(), notes, s.store.ImageRepository(), pool, s.sessions)

	err = cascade.DeleteUser(s.ctx, entities.AdminID, "alice")
	var stepErr *app.StepError
	s.Require().ErrorAs(err, &stepErr)
	s.Equal(app.StepDeleteNoteRecords, stepErr.Step)

	// Файлы и записи изображений уже удалены, заметки и пользователь еще на месте.
	s.Equal([]string{bobImage + "-c.jpg"}, s.poolFiles())
	images, err := s.images.ListImages(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(images)
	left, err := s.notes.ListNotes(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(left, 2)
	ok, err := s.auth.Authenticate(s.ctx, "alice", "alice-pw")
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(cascade.DeleteUser(s.ctx, entities.AdminID, "alice"))

	left, err = s.notes.ListNotes(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(left)
	images, err = s.images.ListImages(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(images)
	s.Equal([]string{bobImage + "-c.jpg"}, s.poolFiles())

	ok, err = s.auth.Authenticate(s.ctx, "alice", "alice-pw")
	s.Require().NoError(err)
	s.False(ok)

	users, err := s.auth.ListUsers(s.ctx, entities.AdminID)
	s.Require().NoError(err)
	for _, u := range users {
		s.NotEqual("ALICE", u.ID)
	}

	s.Require().NoError(cascade.DeleteUser(s.ctx, entities.AdminID, "alice"))
}
