package repository

import (
	"context"
	"errors"

	"pulseboard/internal/models"

	"gorm.io/gorm"
)

// ErrCommentNotFound is returned when a comment ID does not exist.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	List(ctx context.Context, limit, offset int) ([]*models.Comment, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
	// ToggleLike flips ip's like on the comment and returns the new count
	// and whether the ip now likes it. The row change and the counter
	// update happen in one transaction so likes always equals the number
	// of like rows.
	ToggleLike(ctx context.Context, commentID uint, ip string) (int64, bool, error)
	HasLiked(ctx context.Context, commentID uint, ip string) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCommentNotFound
		}
		return tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error
	})
}

func (r *commentRepository) ToggleLike(ctx context.Context, commentID uint, ip string) (int64, bool, error) {
	var newLikes int64
	var nowLiked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		res := tx.Where("comment_id = ? AND ip = ?", commentID, ip).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			nowLiked = false
			// Counter floors at zero even if it ever drifted.
			if err := tx.Model(&models.Comment{}).
				Where("id = ?", commentID).
				Update("likes", gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")).Error; err != nil {
				return err
			}
		} else {
			nowLiked = true
			if err := tx.Create(&models.CommentLike{CommentID: commentID, IP: ip}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Comment{}).
				Where("id = ?", commentID).
				Update("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
		}

		var updated models.Comment
		if err := tx.Select("likes").First(&updated, commentID).Error; err != nil {
			return err
		}
		newLikes = updated.Likes
		return nil
	})

	return newLikes, nowLiked, err
}

func (r *commentRepository) HasLiked(ctx context.Context, commentID uint, ip string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ? AND ip = ?", commentID, ip).
		Count(&count).Error
	return count > 0, err
}
