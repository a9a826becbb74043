package repository

import (
	"context"
	"testing"
	"time"

	"pulseboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{
		Content:  "first comment",
		Nickname: "visitor",
		IP:       "203.0.113.1",
		Country:  "Japan",
		City:     "Tokyo",
		Votes:    models.VoteSnapshot{"q1": "save"},
	}
	require.NoError(t, repo.Create(ctx, comment))
	assert.NotZero(t, comment.ID)

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "first comment", got.Content)
	assert.Equal(t, models.VoteSnapshot{"q1": "save"}, got.Votes)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		comment := &models.Comment{
			Content:   "comment",
			Nickname:  "visitor",
			IP:        "203.0.113.1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, comment))
	}

	page, err := repo.List(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))
	assert.True(t, page[1].CreatedAt.After(page[2].CreatedAt))

	rest, err := repo.List(ctx, 3, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestCommentRepository_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Content: "likeable", IP: "203.0.113.1"}
	require.NoError(t, repo.Create(ctx, comment))

	t.Run("Like", func(t *testing.T) {
		likes, nowLiked, err := repo.ToggleLike(ctx, comment.ID, "203.0.113.2")
		require.NoError(t, err)
		assert.True(t, nowLiked)
		assert.Equal(t, int64(1), likes)

		hasLiked, err := repo.HasLiked(ctx, comment.ID, "203.0.113.2")
		require.NoError(t, err)
		assert.True(t, hasLiked)
	})

	t.Run("SecondLiker", func(t *testing.T) {
		likes, nowLiked, err := repo.ToggleLike(ctx, comment.ID, "203.0.113.3")
		require.NoError(t, err)
		assert.True(t, nowLiked)
		assert.Equal(t, int64(2), likes)
	})

	t.Run("Unlike", func(t *testing.T) {
		likes, nowLiked, err := repo.ToggleLike(ctx, comment.ID, "203.0.113.2")
		require.NoError(t, err)
		assert.False(t, nowLiked)
		assert.Equal(t, int64(1), likes)

		hasLiked, err := repo.HasLiked(ctx, comment.ID, "203.0.113.2")
		require.NoError(t, err)
		assert.False(t, hasLiked)
	})

	t.Run("CounterMatchesLikeRows", func(t *testing.T) {
		var rows int64
		require.NoError(t, db.Model(&models.CommentLike{}).
			Where("comment_id = ?", comment.ID).Count(&rows).Error)

		got, err := repo.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, rows, got.Likes)
	})

	t.Run("UnknownComment", func(t *testing.T) {
		_, _, err := repo.ToggleLike(ctx, 9999, "203.0.113.2")
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}

func TestCommentRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Content: "doomed", IP: "203.0.113.1"}
	require.NoError(t, repo.Create(ctx, comment))

	_, _, err := repo.ToggleLike(ctx, comment.ID, "203.0.113.2")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, comment.ID))

	_, err = repo.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	// Like rows go with the comment.
	var likeRows int64
	require.NoError(t, db.Model(&models.CommentLike{}).
		Where("comment_id = ?", comment.ID).Count(&likeRows).Error)
	assert.Zero(t, likeRows)

	assert.ErrorIs(t, repo.Delete(ctx, comment.ID), ErrCommentNotFound)
}
