package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// single connection so the in-memory database is shared
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Message{}, &model.Follow{}, &model.Like{}))
	return db
}

func newUserService(db *gorm.DB) UserService {
	return NewUserService(db,
		repository.NewUserRepository(db),
		repository.NewMessageRepository(db),
		repository.NewFollowRepository(db),
		repository.NewLikeRepository(db),
		nil)
}

// signupFixture signs a user up and pins its id, matching the seeded fixtures
// the view tests use (1111, 2222, ...).
func signupFixture(t *testing.T, db *gorm.DB, users UserService, id int64, username, email string) *model.User {
	t.Helper()
	u, err := users.Signup(context.Background(), username, email, "password", "")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", u.ID).Update("id", id).Error)
	u.ID = id
	return u
}

func TestSignupDefaults(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	ctx := context.Background()

	u, err := users.Signup(ctx, "test9", "email9@email.com", "password", "")
	require.NoError(t, err)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "test9", got.Username)
	assert.Equal(t, "email9@email.com", got.Email)
	assert.Equal(t, model.DefaultImageURL, got.ImageURL)
	// stored password must be a hash, never the plaintext
	assert.NotEqual(t, "password", got.Password)
}

func TestSignupEmptyPassword(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	ctx := context.Background()

	_, err := users.Signup(ctx, "testtest", "email@email.com", "", "")
	require.ErrorIs(t, err, ErrPasswordRequired)

	// eager validation: nothing persisted
	var cnt int64
	require.NoError(t, db.Model(&model.User{}).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestSignupDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	ctx := context.Background()

	_, err := users.Signup(ctx, "test1", "email1@email.com", "password", "")
	require.NoError(t, err)

	_, err = users.Signup(ctx, "test1", "other@email.com", "password", "")
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityError(err), "want integrity error, got %v", err)

	var cnt int64
	require.NoError(t, db.Model(&model.User{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	ctx := context.Background()

	_, err := users.Signup(ctx, "test1", "email1@email.com", "password", "")
	require.NoError(t, err)

	_, err = users.Signup(ctx, "test2", "email1@email.com", "password", "")
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityError(err))
}

func TestCreateUserNullColumns(t *testing.T) {
	db := setupTestDB(t)

	// the non-null constraints live in the schema, so exercise them directly
	err := db.Exec(`INSERT INTO users (username, email, password) VALUES (NULL, 'e@e.com', 'x')`).Error
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityError(err))

	err = db.Exec(`INSERT INTO users (username, email, password) VALUES ('nullmail', NULL, 'x')`).Error
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityError(err))
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	ctx := context.Background()
	u1 := signupFixture(t, db, users, 1111, "test1", "email1@email.com")

	got, ok, err := users.Authenticate(ctx, "test1", "password")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u1.ID, got.ID)

	// unknown username: a normal outcome, not an error
	_, ok, err = users.Authenticate(ctx, "badusername", "password")
	require.NoError(t, err)
	assert.False(t, ok)

	// wrong password
	_, ok, err = users.Authenticate(ctx, "test1", "notpass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserStatsCounts(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	rels := NewRelationshipService(repository.NewFollowRepository(db), nil)
	msgs := NewMessageService(db, repository.NewMessageRepository(db), repository.NewFollowRepository(db), nil)
	ctx := context.Background()

	u1 := signupFixture(t, db, users, 1111, "test1", "email1@email.com")
	u2 := signupFixture(t, db, users, 2222, "test2", "email2@email.com")

	_, err := msgs.Post(ctx, u1.ID, "first")
	require.NoError(t, err)
	_, err = msgs.Post(ctx, u1.ID, "second")
	require.NoError(t, err)
	require.NoError(t, rels.Follow(ctx, u1.ID, u2.ID))

	st, err := users.Stats(ctx, u1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Messages)
	assert.EqualValues(t, 1, st.Following)
	assert.EqualValues(t, 0, st.Followers)
	assert.EqualValues(t, 0, st.Likes)

	st2, err := users.Stats(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, st2.Following)
	assert.EqualValues(t, 1, st2.Followers)
}

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	msgs := NewMessageService(db, repository.NewMessageRepository(db), repository.NewFollowRepository(db), nil)
	ctx := context.Background()

	u1 := signupFixture(t, db, users, 1111, "test1", "email1@email.com")
	_, err := msgs.Post(ctx, u1.ID, "test")
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, u1.ID))

	var cnt int64
	require.NoError(t, db.Model(&model.Message{}).Where("user_id = ?", u1.ID).Count(&cnt).Error)
	assert.Zero(t, cnt, "messages must be destroyed with their owner")
}
