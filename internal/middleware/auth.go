// Package middleware provides shared request processing: bearer-token
// authentication, capability gates, rate limiting and response caching.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jondawson917/snappycamper/internal/apperr"
	"github.com/jondawson917/snappycamper/internal/auth"
)

// ClaimsKey is the echo context key under which Authenticate stores the
// verified *auth.Claims.
const ClaimsKey = "claims"

// Authenticate is the optional identity step. When an Authorization: Bearer
// header is present and verifies, the claims are attached to the context.
// A missing or invalid token is not an error here — the request proceeds
// anonymous, and only gates that require identity will reject downstream.
func Authenticate(ts *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				raw := strings.TrimPrefix(header, "Bearer ")
				if claims, err := ts.Verify(raw); err == nil {
					c.Set(ClaimsKey, claims)
				}
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims attached by Authenticate, or nil for
// an anonymous request.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsKey).(*auth.Claims)
	return claims
}

// RequireAdmin rejects requests without a verified identity (401) and
// identities without the admin flag (403). The two outcomes are distinct
// error kinds and must not be conflated. The gate is a pure predicate over
// the claim set; it never touches the store.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return reject(c, apperr.Unauthorized("authentication required"))
			}
			if !claims.IsAdmin {
				return reject(c, apperr.Forbidden("admin required"))
			}
			return next(c)
		}
	}
}

// RequireSelfOrAdmin allows the request when the verified identity matches
// the path-addressed resource owner (the named path parameter) or carries the
// admin flag. Anonymous callers get 401, mismatched identities 403.
func RequireSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return reject(c, apperr.Unauthorized("authentication required"))
			}
			if !claims.IsAdmin && claims.Username != c.Param(param) {
				return reject(c, apperr.Forbidden("insufficient privilege"))
			}
			return next(c)
		}
	}
}

func reject(c echo.Context, err error) error {
	return c.JSON(apperr.HTTPStatus(err), echo.Map{"error": err.Error()})
}
