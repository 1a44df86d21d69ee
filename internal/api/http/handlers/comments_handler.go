package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/miayudatic/helpdesk/internal/api/dto"
	"github.com/miayudatic/helpdesk/internal/auth"
	"github.com/miayudatic/helpdesk/internal/service"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

// CommentsHandler exposes ticket comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// Create handles POST /tickets/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.AddComment(c.UserContext(), c.Params("id"), principal.Staff.ID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":         comment.ID,
		"ticket_id":  comment.TicketID,
		"author_id":  comment.AuthorStaffID,
		"body":       comment.Body,
		"created_at": comment.CreatedAt,
	}})
}

// List handles GET /tickets/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	comments, err := h.comments.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentList(comments)})
}
