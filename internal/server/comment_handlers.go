package server

import (
	"errors"

	"pulseboard/internal/middleware"
	"pulseboard/internal/models"
	"pulseboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments returns a page of comments, newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	result, err := s.commentService.List(c.UserContext(), page, limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err), s.config.IsDevelopment())
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"comments": result.Comments,
		"pagination": fiber.Map{
			"page":  result.Page,
			"limit": result.Limit,
			"total": result.Total,
			"pages": result.Pages,
		},
	})
}

// CreateComment validates and persists a comment, embedding the caller's
// current vote snapshot, then broadcasts it.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ip := middleware.ClientIP(c)

	var req struct {
		Content  string `json:"content"`
		Nickname string `json:"nickname"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"), s.config.IsDevelopment())
	}

	location := s.geo.Resolve(ctx, ip)

	comment, err := s.commentService.Create(ctx, service.CreateCommentInput{
		Content:  req.Content,
		Nickname: req.Nickname,
		IP:       ip,
		Location: location,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			status = fiber.StatusBadRequest
		}
		return models.RespondWithError(c, status, err, s.config.IsDevelopment())
	}

	middleware.CommentsCreated.Inc()
	s.publishBroadcastEvent(EventNewComment, fiber.Map{"comment": comment})

	return c.JSON(fiber.Map{
		"success": true,
		"comment": comment,
	})
}

// LikeComment toggles the caller's like on a comment and broadcasts the new
// count. The server decides hasLiked; client-side liked state is cosmetic.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ip := middleware.ClientIP(c)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.commentService.ToggleLike(ctx, commentID, ip)
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			status = fiber.StatusNotFound
		}
		return models.RespondWithError(c, status, err, s.config.IsDevelopment())
	}

	s.publishBroadcastEvent(EventCommentLike, fiber.Map{
		"commentId": commentID,
		"likes":     result.Likes,
	})

	return c.JSON(fiber.Map{
		"success":  true,
		"likes":    result.Likes,
		"hasLiked": result.HasLiked,
	})
}

// DeleteComment removes a comment and broadcasts the deletion. Access is
// gated by AdminTokenRequired when an admin token is configured.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(ctx, commentID); err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			status = fiber.StatusNotFound
		}
		return models.RespondWithError(c, status, err, s.config.IsDevelopment())
	}

	s.publishBroadcastEvent(EventCommentDeleted, fiber.Map{"commentId": commentID})

	return c.JSON(fiber.Map{"success": true})
}
