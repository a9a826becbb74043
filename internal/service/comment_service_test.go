package service

import (
	"context"
	"strings"
	"testing"

	"pulseboard/internal/models"
	"pulseboard/internal/poll"
	"pulseboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCommentRepo implements repository.CommentRepository with per-test functions.
type stubCommentRepo struct {
	create     func(ctx context.Context, comment *models.Comment) error
	getByID    func(ctx context.Context, id uint) (*models.Comment, error)
	list       func(ctx context.Context, limit, offset int) ([]*models.Comment, error)
	count      func(ctx context.Context) (int64, error)
	deleteFn   func(ctx context.Context, id uint) error
	toggleLike func(ctx context.Context, commentID uint, ip string) (int64, bool, error)
	hasLiked   func(ctx context.Context, commentID uint, ip string) (bool, error)
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if s.create != nil {
		return s.create(ctx, comment)
	}
	return nil
}

func (s *stubCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return nil, repository.ErrCommentNotFound
}

func (s *stubCommentRepo) List(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	if s.list != nil {
		return s.list(ctx, limit, offset)
	}
	return nil, nil
}

func (s *stubCommentRepo) Count(ctx context.Context) (int64, error) {
	if s.count != nil {
		return s.count(ctx)
	}
	return 0, nil
}

func (s *stubCommentRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubCommentRepo) ToggleLike(ctx context.Context, commentID uint, ip string) (int64, bool, error) {
	if s.toggleLike != nil {
		return s.toggleLike(ctx, commentID, ip)
	}
	return 0, false, nil
}

func (s *stubCommentRepo) HasLiked(ctx context.Context, commentID uint, ip string) (bool, error) {
	if s.hasLiked != nil {
		return s.hasLiked(ctx, commentID, ip)
	}
	return false, nil
}

func newCommentService(commentRepo repository.CommentRepository, voteRepo repository.VoteRepository) *CommentService {
	if voteRepo == nil {
		voteRepo = &stubVoteRepo{}
	}
	return NewCommentService(commentRepo, NewVoteService(voteRepo, poll.Default()))
}

func TestCreateComment_Valid(t *testing.T) {
	var saved *models.Comment
	commentRepo := &stubCommentRepo{
		create: func(_ context.Context, comment *models.Comment) error {
			saved = comment
			comment.ID = 1
			return nil
		},
	}
	voteRepo := &stubVoteRepo{
		listByIP: func(_ context.Context, ip string) ([]*models.Vote, error) {
			return []*models.Vote{{Question: "q1", Option: "save", IP: ip}}, nil
		},
	}
	svc := newCommentService(commentRepo, voteRepo)

	comment, err := svc.Create(context.Background(), CreateCommentInput{
		Content:  "  hello board  ",
		Nickname: " visitor ",
		IP:       "203.0.113.7",
		Location: models.Location{Country: "Japan", City: "Tokyo", Region: "Tokyo"},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "hello board", comment.Content)
	assert.Equal(t, "visitor", comment.Nickname)
	assert.Equal(t, "Japan", comment.Country)
	assert.Equal(t, "Tokyo", comment.City)
	assert.Equal(t, models.VoteSnapshot{"q1": "save"}, comment.Votes)
}

func TestCreateComment_DefaultNickname(t *testing.T) {
	svc := newCommentService(&stubCommentRepo{}, nil)

	comment, err := svc.Create(context.Background(), CreateCommentInput{
		Content: "no name given",
		IP:      "203.0.113.7",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultNickname, comment.Nickname)
}

func TestCreateComment_ContentLimits(t *testing.T) {
	svc := newCommentService(&stubCommentRepo{}, nil)

	t.Run("exactly 500 runes accepted", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content: strings.Repeat("あ", 500),
			IP:      "203.0.113.7",
		})
		assert.NoError(t, err)
	})

	t.Run("501 runes rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content: strings.Repeat("あ", 501),
			IP:      "203.0.113.7",
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("empty after trim rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content: "   \n\t  ",
			IP:      "203.0.113.7",
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})
}

func TestCreateComment_NicknameLimits(t *testing.T) {
	svc := newCommentService(&stubCommentRepo{}, nil)

	t.Run("exactly 20 runes accepted", func(t *testing.T) {
		comment, err := svc.Create(context.Background(), CreateCommentInput{
			Content:  "hi",
			Nickname: strings.Repeat("x", 20),
			IP:       "203.0.113.7",
		})
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("x", 20), comment.Nickname)
	})

	t.Run("21 runes rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content:  "hi",
			Nickname: strings.Repeat("x", 21),
			IP:       "203.0.113.7",
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})
}

func TestList_PaginationDefaultsAndCaps(t *testing.T) {
	var gotLimit, gotOffset int
	commentRepo := &stubCommentRepo{
		list: func(_ context.Context, limit, offset int) ([]*models.Comment, error) {
			gotLimit, gotOffset = limit, offset
			return []*models.Comment{}, nil
		},
		count: func(context.Context) (int64, error) { return 45, nil },
	}
	svc := newCommentService(commentRepo, nil)

	tests := []struct {
		name       string
		page       int
		limit      int
		wantLimit  int
		wantOffset int
		wantPage   int
		wantPages  int64
	}{
		{"defaults", 0, 0, 20, 0, 1, 3},
		{"second page", 2, 20, 20, 20, 2, 3},
		{"last partial page", 3, 20, 20, 40, 3, 3},
		{"negative page coerced", -5, 10, 10, 0, 1, 5},
		{"limit capped at 100", 1, 500, 100, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tt.page, tt.limit)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLimit, gotLimit)
			assert.Equal(t, tt.wantOffset, gotOffset)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, int64(45), page.Total)
			assert.Equal(t, tt.wantPages, page.Pages)
		})
	}
}

func TestToggleLike_RoundTrip(t *testing.T) {
	liked := map[string]bool{}
	likes := int64(0)
	commentRepo := &stubCommentRepo{
		toggleLike: func(_ context.Context, commentID uint, ip string) (int64, bool, error) {
			if commentID != 1 {
				return 0, false, repository.ErrCommentNotFound
			}
			if liked[ip] {
				delete(liked, ip)
				likes--
				return likes, false, nil
			}
			liked[ip] = true
			likes++
			return likes, true, nil
		},
	}
	svc := newCommentService(commentRepo, nil)

	res, err := svc.ToggleLike(context.Background(), 1, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, res.HasLiked)
	assert.Equal(t, int64(1), res.Likes)

	res, err = svc.ToggleLike(context.Background(), 1, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.HasLiked)
	assert.Equal(t, int64(0), res.Likes)
}

func TestToggleLike_NotFound(t *testing.T) {
	commentRepo := &stubCommentRepo{
		toggleLike: func(context.Context, uint, string) (int64, bool, error) {
			return 0, false, repository.ErrCommentNotFound
		},
	}
	svc := newCommentService(commentRepo, nil)

	_, err := svc.ToggleLike(context.Background(), 999, "203.0.113.7")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDelete_NotFound(t *testing.T) {
	commentRepo := &stubCommentRepo{
		deleteFn: func(context.Context, uint) error {
			return repository.ErrCommentNotFound
		},
	}
	svc := newCommentService(commentRepo, nil)

	err := svc.Delete(context.Background(), 999)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
