package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

func TestPostMessage(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	msgs := NewMessageService(db, repository.NewMessageRepository(db), repository.NewFollowRepository(db), nil)
	ctx := context.Background()

	u1 := signupFixture(t, db, users, 1111, "test1", "email1@email.com")

	m, err := msgs.Post(ctx, u1.ID, "test")
	require.NoError(t, err)

	got, err := msgs.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, "test", got.Text)
	assert.Equal(t, u1.ID, got.UserID)
	assert.False(t, got.Timestamp.IsZero())
}

func TestPostMessageDanglingUser(t *testing.T) {
	db := setupTestDB(t)
	msgs := NewMessageService(db, repository.NewMessageRepository(db), repository.NewFollowRepository(db), nil)
	ctx := context.Background()

	// no user with id 3 exists
	_, err := msgs.Post(ctx, 3, "test mssg")
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityError(err), "dangling user_id must fail the foreign key, got %v", err)

	var cnt int64
	require.NoError(t, db.Model(&model.Message{}).Count(&cnt).Error)
	assert.Zero(t, cnt, "rollback must leave no partial row")
}

func TestPostMessageEmptyText(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	msgs := NewMessageService(db, repository.NewMessageRepository(db), repository.NewFollowRepository(db), nil)
	ctx := context.Background()

	u1 := signupFixture(t, db, users, 1111, "test1", "email1@email.com")

	_, err := msgs.Post(ctx, u1.ID, "")
	require.ErrorIs(t, err, ErrTextRequired)

	_, err = msgs.Post(ctx, u1.ID, strings.Repeat("x", model.MaxMessageLen+1))
	require.ErrorIs(t, err, ErrTextTooLong)
}

func TestNullTextConstraint(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	signupFixture(t, db, users, 1111, "test1", "email1@email.com")

	err := db.Exec(`INSERT INTO messages (text, timestamp, user_id) VALUES (NULL, CURRENT_TIMESTAMP, 1111)`).Error
	require.Error(t, err)
	assert.True(t, repository.IsIntegrityError(err))
}

func TestTimeline(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	rels := NewRelationshipService(repository.NewFollowRepository(db), nil)
	msgs := NewMessageService(db, repository.NewMessageRepository(db), repository.NewFollowRepository(db), nil)
	ctx := context.Background()

	u1 := signupFixture(t, db, users, 1111, "test1", "email1@email.com")
	u2 := signupFixture(t, db, users, 2222, "test2", "email2@email.com")
	u3 := signupFixture(t, db, users, 3333, "test3", "email3@email.com")

	_, err := msgs.Post(ctx, u1.ID, "mine")
	require.NoError(t, err)
	_, err = msgs.Post(ctx, u2.ID, "followed")
	require.NoError(t, err)
	_, err = msgs.Post(ctx, u3.ID, "stranger")
	require.NoError(t, err)

	require.NoError(t, rels.Follow(ctx, u1.ID, u2.ID))

	tl, err := msgs.Timeline(ctx, u1.ID, 100)
	require.NoError(t, err)
	require.Len(t, tl, 2)
	texts := []string{tl[0].Text, tl[1].Text}
	assert.ElementsMatch(t, []string{"mine", "followed"}, texts)
}

func TestDeleteMessage(t *testing.T) {
	db := setupTestDB(t)
	users := newUserService(db)
	msgs := NewMessageService(db, repository.NewMessageRepository(db), repository.NewFollowRepository(db), nil)
	ctx := context.Background()

	u1 := signupFixture(t, db, users, 1111, "test1", "email1@email.com")
	m, err := msgs.Post(ctx, u1.ID, "to delete")
	require.NoError(t, err)

	require.NoError(t, msgs.Delete(ctx, m.ID))

	_, err = msgs.Get(ctx, m.ID)
	require.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
}
