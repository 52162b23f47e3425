package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/priorauth/priorauth/internal/platform/audit"
)

// ClientInfo places the caller's IP address and user agent on the request
// context so every audit record written during the request carries them.
// It must run before any handler that mutates state.
func ClientInfo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := audit.WithRequestMeta(req.Context(), audit.RequestMeta{
				IPAddress: c.RealIP(),
				UserAgent: req.UserAgent(),
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
