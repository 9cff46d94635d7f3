package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /profile/:username. Anonymous viewers get the same
// page with the follow flag down.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	viewerID := s.optionalUserID(c)

	profile, err := s.postService.GetProfile(c.Context(), c.Params("username"), viewerID, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// Follow handles GET and POST /profile/:username/follow and redirects back
// to the profile. Following someone twice or following yourself changes
// nothing; the redirect happens either way.
func (s *Server) Follow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	if _, err := s.followService.Follow(c.Context(), userID, username); err != nil {
		return respondError(c, err)
	}
	return redirect(c, "/profile/"+username)
}

// Unfollow handles GET and POST /profile/:username/unfollow and redirects
// back to the profile. Unfollowing without a subscription is a no-op.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	if _, err := s.followService.Unfollow(c.Context(), userID, username); err != nil {
		return respondError(c, err)
	}
	return redirect(c, "/profile/"+username)
}
