package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/docketapp/docket-server/internal/errors"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (int64, error) {
	if authHeader == "" {
		return 0, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return 0, huma.Error401Unauthorized("Invalid or expired token")
	}

	return user.ID, nil
}

// authenticateAndRequireAdmin validates the token and requires admin role.
func (s *Server) authenticateAndRequireAdmin(ctx context.Context, authHeader string) (int64, error) {
	userID, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return 0, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, huma.Error401Unauthorized("User not found")
	}

	if !user.IsAdmin() {
		return 0, domainerrors.Forbidden("Admin access required")
	}

	return userID, nil
}

// extractIP picks the client IP from forwarding headers.
// Used as the rate limit key for auth endpoints.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		// First IP in the chain is the client.
		if i := strings.IndexByte(xForwardedFor, ','); i >= 0 {
			return xForwardedFor[:i]
		}
		return xForwardedFor
	}
	return xRealIP
}

// checkAuthRateLimit enforces the per-IP limit on credential endpoints.
func (s *Server) checkAuthRateLimit(key, path string) error {
	if key == "" {
		key = "unknown"
	}
	if !s.authRateLimiter.Allow(key) {
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", path,
		)
		return huma.Error429TooManyRequests("Too many requests. Please try again later.")
	}
	return nil
}
