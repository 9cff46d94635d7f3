package server

import (
	"fmt"

	"quill/internal/forms"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /posts/:id/comment and redirects back to the post.
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form := &forms.CommentForm{Text: c.FormValue("text")}
	if _, err := s.commentService.AddComment(c.Context(), userID, postID, form); err != nil {
		return respondError(c, err)
	}
	return redirect(c, fmt.Sprintf("/posts/%d", postID))
}
