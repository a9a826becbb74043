package service

import (
	"context"

	"pulseboard/internal/models"
	"pulseboard/internal/poll"
	"pulseboard/internal/repository"
)

// VoteService validates and records vote submissions and computes
// aggregate statistics.
type VoteService struct {
	voteRepo  repository.VoteRepository
	questions *poll.Config
}

// SubmitVotesInput carries one vote submission. Votes maps question ID to
// the chosen option.
type SubmitVotesInput struct {
	IP        string
	Location  models.Location
	UserAgent string
	Votes     map[string]string
}

// NewVoteService creates a VoteService bound to the given question configuration.
func NewVoteService(voteRepo repository.VoteRepository, questions *poll.Config) *VoteService {
	return &VoteService{
		voteRepo:  voteRepo,
		questions: questions,
	}
}

// Submit validates the submission against the configured question/option
// sets, then atomically replaces all of the IP's prior votes with the new
// set. Any invalid entry rejects the whole submission with no writes.
// Returns freshly recomputed statistics.
func (s *VoteService) Submit(ctx context.Context, in SubmitVotesInput) (*models.Stats, error) {
	if len(in.Votes) == 0 {
		return nil, models.NewValidationError("Invalid vote payload")
	}

	for question, option := range in.Votes {
		if !s.questions.Valid(question, option) {
			return nil, models.NewValidationError("Invalid option")
		}
	}

	rows := make([]*models.Vote, 0, len(in.Votes))
	// Iterate in configured order so insertion order is stable.
	for _, question := range s.questions.IDs() {
		option, ok := in.Votes[question]
		if !ok {
			continue
		}
		rows = append(rows, &models.Vote{
			Question:  question,
			Option:    option,
			IP:        in.IP,
			Country:   in.Location.Country,
			City:      in.Location.City,
			Region:    in.Location.Region,
			UserAgent: in.UserAgent,
		})
	}

	if err := s.voteRepo.ReplaceForIP(ctx, in.IP, rows); err != nil {
		return nil, err
	}

	return s.Stats(ctx)
}

// Stats recomputes the per-question per-option counts and the distinct
// voter count from all vote rows. Every configured option appears, zero
// counts included; rows for options no longer configured are ignored.
func (s *VoteService) Stats(ctx context.Context) (*models.Stats, error) {
	questions := make(map[string]map[string]int64, len(s.questions.IDs()))
	for _, q := range s.questions.Questions() {
		counts := make(map[string]int64, len(q.Options))
		for _, opt := range q.Options {
			counts[opt] = 0
		}
		questions[q.ID] = counts
	}

	rows, err := s.voteRepo.CountByQuestionOption(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if counts, ok := questions[row.Question]; ok {
			if _, known := counts[row.Option]; known {
				counts[row.Option] = row.Count
			}
		}
	}

	totalVoters, err := s.voteRepo.CountDistinctVoters(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Stats{Questions: questions, TotalVoters: totalVoters}, nil
}

// CurrentVotes returns the IP's current option per configured question;
// questions the IP never answered map to nil.
func (s *VoteService) CurrentVotes(ctx context.Context, ip string) (map[string]*string, error) {
	votes, err := s.voteRepo.ListByIP(ctx, ip)
	if err != nil {
		return nil, err
	}

	current := make(map[string]*string, len(s.questions.IDs()))
	for _, question := range s.questions.IDs() {
		current[question] = nil
	}
	for _, v := range votes {
		if _, ok := current[v.Question]; ok {
			option := v.Option
			current[v.Question] = &option
		}
	}
	return current, nil
}

// Snapshot returns the IP's current votes as a comment-embeddable snapshot,
// omitting unanswered questions.
func (s *VoteService) Snapshot(ctx context.Context, ip string) (models.VoteSnapshot, error) {
	current, err := s.CurrentVotes(ctx, ip)
	if err != nil {
		return nil, err
	}
	snapshot := models.VoteSnapshot{}
	for question, option := range current {
		if option != nil {
			snapshot[question] = *option
		}
	}
	return snapshot, nil
}
