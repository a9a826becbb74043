package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"pulseboard/internal/models"
	"pulseboard/internal/repository"
)

const (
	maxContentLen  = 500
	maxNicknameLen = 20

	defaultPageSize = 20
	maxPageSize     = 100
)

// CommentService validates and persists comments and their like toggles.
type CommentService struct {
	commentRepo repository.CommentRepository
	votes       *VoteService
}

// CreateCommentInput carries a new comment.
type CreateCommentInput struct {
	Content  string
	Nickname string
	IP       string
	Location models.Location
}

// CommentPage is one page of comments, newest first.
type CommentPage struct {
	Comments []*models.Comment
	Page     int
	Limit    int
	Total    int64
	Pages    int64
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Likes    int64
	HasLiked bool
}

// NewCommentService creates a CommentService. The vote service supplies the
// per-IP vote snapshot embedded into new comments.
func NewCommentService(commentRepo repository.CommentRepository, votes *VoteService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		votes:       votes,
	}
}

// List returns comments newest first. page defaults to 1 and limit to 20;
// limit is capped at 100.
func (s *CommentService) List(ctx context.Context, page, limit int) (*CommentPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	comments, err := s.commentRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &CommentPage{
		Comments: comments,
		Page:     page,
		Limit:    limit,
		Total:    total,
		Pages:    int64(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Create validates and persists a comment, embedding the IP's current votes
// as a snapshot.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("Comment content too long (max 500 characters)")
	}

	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		nickname = models.DefaultNickname
	} else if utf8.RuneCountInString(nickname) > maxNicknameLen {
		return nil, models.NewValidationError("Nickname too long (max 20 characters)")
	}

	snapshot, err := s.votes.Snapshot(ctx, in.IP)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		Nickname: nickname,
		IP:       in.IP,
		Country:  in.Location.Country,
		City:     in.Location.City,
		Votes:    snapshot,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ToggleLike flips ip's like on the comment. The liked-by set is
// server-authoritative; the result never depends on client-supplied state.
func (s *CommentService) ToggleLike(ctx context.Context, commentID uint, ip string) (*LikeResult, error) {
	likes, nowLiked, err := s.commentRepo.ToggleLike(ctx, commentID, ip)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	return &LikeResult{Likes: likes, HasLiked: nowLiked}, nil
}

// Delete removes the comment and its like rows.
func (s *CommentService) Delete(ctx context.Context, commentID uint) error {
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}
	return nil
}
