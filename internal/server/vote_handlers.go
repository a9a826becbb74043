package server

import (
	"errors"

	"pulseboard/internal/middleware"
	"pulseboard/internal/models"
	"pulseboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetVoteStats returns the current aggregate counts for every question.
func (s *Server) GetVoteStats(c *fiber.Ctx) error {
	stats, err := s.voteService.Stats(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err), s.config.IsDevelopment())
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"stats":       stats.Questions,
		"totalVoters": stats.TotalVoters,
	})
}

// CheckVotes returns the caller's current option per question. hasVoted is
// always false: duplicate voting is permitted by design and the client must
// not be told otherwise.
func (s *Server) CheckVotes(c *fiber.Ctx) error {
	ip := middleware.ClientIP(c)

	votes, err := s.voteService.CurrentVotes(c.UserContext(), ip)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err), s.config.IsDevelopment())
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"hasVoted": false,
		"votes":    votes,
	})
}

// SubmitVotes validates and records a submission, replacing the caller's
// prior votes, then broadcasts the fresh statistics.
func (s *Server) SubmitVotes(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ip := middleware.ClientIP(c)

	var req struct {
		Votes map[string]string `json:"votes"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		middleware.VoteSubmissions.WithLabelValues("invalid").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid vote payload"), s.config.IsDevelopment())
	}

	location := s.geo.Resolve(ctx, ip)

	stats, err := s.voteService.Submit(ctx, service.SubmitVotesInput{
		IP:        ip,
		Location:  location,
		UserAgent: c.Get("User-Agent"),
		Votes:     req.Votes,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		outcome := "error"
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			status = fiber.StatusBadRequest
			outcome = "invalid"
		}
		middleware.VoteSubmissions.WithLabelValues(outcome).Inc()
		return models.RespondWithError(c, status, err, s.config.IsDevelopment())
	}

	middleware.VoteSubmissions.WithLabelValues("accepted").Inc()
	s.publishBroadcastEvent(EventVoteUpdate, fiber.Map{
		"stats":       stats.Questions,
		"totalVoters": stats.TotalVoters,
	})

	return c.JSON(fiber.Map{
		"success":     true,
		"stats":       stats.Questions,
		"totalVoters": stats.TotalVoters,
	})
}
