package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListGroups handles GET /groups.
func (s *Server) ListGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// GroupPosts handles GET /group/:slug. An unknown slug is a 404.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListGroupPosts(c.Context(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
