package repository

import (
	"context"
	"testing"

	"pulseboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Vote{},
		&models.Comment{},
		&models.CommentLike{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func TestVoteRepository_ReplaceForIP(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	t.Run("FirstSubmission", func(t *testing.T) {
		err := repo.ReplaceForIP(ctx, "203.0.113.1", []*models.Vote{
			{Question: "q1", Option: "arrival", IP: "203.0.113.1"},
			{Question: "q2", Option: "live", IP: "203.0.113.1"},
		})
		assert.NoError(t, err)

		votes, err := repo.ListByIP(ctx, "203.0.113.1")
		assert.NoError(t, err)
		assert.Len(t, votes, 2)
	})

	t.Run("ResubmissionReplacesAllRows", func(t *testing.T) {
		err := repo.ReplaceForIP(ctx, "203.0.113.1", []*models.Vote{
			{Question: "q1", Option: "save", IP: "203.0.113.1"},
		})
		assert.NoError(t, err)

		votes, err := repo.ListByIP(ctx, "203.0.113.1")
		require.NoError(t, err)
		require.Len(t, votes, 1)
		assert.Equal(t, "q1", votes[0].Question)
		assert.Equal(t, "save", votes[0].Option)
	})

	t.Run("DoesNotTouchOtherIPs", func(t *testing.T) {
		err := repo.ReplaceForIP(ctx, "203.0.113.2", []*models.Vote{
			{Question: "q1", Option: "arrival", IP: "203.0.113.2"},
		})
		require.NoError(t, err)

		err = repo.ReplaceForIP(ctx, "203.0.113.1", []*models.Vote{
			{Question: "q3", Option: "exist", IP: "203.0.113.1"},
		})
		require.NoError(t, err)

		other, err := repo.ListByIP(ctx, "203.0.113.2")
		assert.NoError(t, err)
		assert.Len(t, other, 1)
	})

	t.Run("EmptyRowsClearsVotes", func(t *testing.T) {
		err := repo.ReplaceForIP(ctx, "203.0.113.2", nil)
		assert.NoError(t, err)

		votes, err := repo.ListByIP(ctx, "203.0.113.2")
		assert.NoError(t, err)
		assert.Empty(t, votes)
	})
}

func TestVoteRepository_Aggregation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	submissions := map[string][]*models.Vote{
		"203.0.113.1": {
			{Question: "q1", Option: "arrival", IP: "203.0.113.1"},
			{Question: "q2", Option: "live", IP: "203.0.113.1"},
		},
		"203.0.113.2": {
			{Question: "q1", Option: "arrival", IP: "203.0.113.2"},
			{Question: "q2", Option: "death", IP: "203.0.113.2"},
		},
		"203.0.113.3": {
			{Question: "q1", Option: "save", IP: "203.0.113.3"},
		},
	}
	for ip, rows := range submissions {
		require.NoError(t, repo.ReplaceForIP(ctx, ip, rows))
	}

	rows, err := repo.CountByQuestionOption(ctx)
	require.NoError(t, err)

	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.Question+"/"+row.Option] = row.Count
	}
	assert.Equal(t, int64(2), counts["q1/arrival"])
	assert.Equal(t, int64(1), counts["q1/save"])
	assert.Equal(t, int64(1), counts["q2/live"])
	assert.Equal(t, int64(1), counts["q2/death"])

	voters, err := repo.CountDistinctVoters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), voters)

	// A resubmission must not inflate the distinct voter count.
	require.NoError(t, repo.ReplaceForIP(ctx, "203.0.113.3", []*models.Vote{
		{Question: "q1", Option: "arrival", IP: "203.0.113.3"},
	}))
	voters, err = repo.CountDistinctVoters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), voters)
}
