// Package server contains the HTTP handlers for the application's endpoints.
package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePage extracts the page query parameter. Out-of-range values are left
// to the pagination clamp, only non-numeric input falls back to page 1.
func parsePage(c *fiber.Ctx) int {
	return c.QueryInt("page", 1)
}

// respondError maps an application error to its HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.ErrCodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case models.ErrCodeValidation:
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case models.ErrCodePermissionDenied:
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		case models.ErrCodeUnauthenticated:
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// redirect issues the 302 every successful mutation answers with.
func redirect(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusFound)
}

// loginRedirectTarget builds the login URL carrying the page the anonymous
// user tried to reach.
func loginRedirectTarget(path string) string {
	return "/auth/login?next=" + url.QueryEscape(path)
}

// safeNext returns the next parameter if it is a local path, or the fallback.
// Absolute URLs and protocol-relative tricks never pass, so login cannot be
// turned into an open redirect.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}

// parseGroupID reads an optional group form value. Empty means no group.
func parseGroupID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, models.NewValidationError("Invalid group")
	}
	groupID := uint(id)
	return &groupID, nil
}
