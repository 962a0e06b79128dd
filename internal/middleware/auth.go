package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"food-ordering-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	contextUserID = "user_id"
	contextRole   = "user_role"
)

// Auth validates the Bearer token and stores the caller's id and role on the
// request context. Token issuance lives in a separate identity service; this
// middleware only verifies.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, ok := claims["user_id"].(float64)
			if !ok || userID <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no user id")
			}
			role, _ := claims["role"].(float64)

			c.Set(contextUserID, uint(userID))
			c.Set(contextRole, model.UserRole(role))
			return next(c)
		}
	}
}

// RequireAdmin fails closed before any business logic runs.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(contextRole).(model.UserRole)
			if !ok || role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated caller's id, or 0 when unauthenticated.
func UserID(c echo.Context) uint {
	id, _ := c.Get(contextUserID).(uint)
	return id
}
