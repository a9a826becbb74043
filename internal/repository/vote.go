// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"pulseboard/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines interface for vote operations
type VoteRepository interface {
	// ReplaceForIP atomically deletes every vote held by ip and inserts the
	// given rows in their place. Passing no rows just clears the IP's votes.
	ReplaceForIP(ctx context.Context, ip string, votes []*models.Vote) error
	ListByIP(ctx context.Context, ip string) ([]*models.Vote, error)
	CountByQuestionOption(ctx context.Context) ([]QuestionOptionCount, error)
	CountDistinctVoters(ctx context.Context) (int64, error)
}

// QuestionOptionCount is one row of the grouped vote aggregation.
type QuestionOptionCount struct {
	Question string
	Option   string
	Count    int64
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) ReplaceForIP(ctx context.Context, ip string, votes []*models.Vote) error {
	// One transaction closes the delete/insert window: a concurrent
	// resubmission from the same IP serializes behind this one instead of
	// interleaving.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ip = ?", ip).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if len(votes) == 0 {
			return nil
		}
		return tx.Create(votes).Error
	})
}

func (r *voteRepository) ListByIP(ctx context.Context, ip string) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := r.db.WithContext(ctx).Where("ip = ?", ip).Find(&votes).Error
	return votes, err
}

func (r *voteRepository) CountByQuestionOption(ctx context.Context) ([]QuestionOptionCount, error) {
	var rows []QuestionOptionCount
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select(`question, "option", COUNT(*) AS count`).
		Group(`question, "option"`).
		Scan(&rows).Error
	return rows, err
}

func (r *voteRepository) CountDistinctVoters(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Distinct("ip").
		Count(&count).Error
	return count, err
}
