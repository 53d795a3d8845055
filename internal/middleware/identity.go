package middleware

import "github.com/labstack/echo/v4"

// subject returns the authenticated subject stored by JWTAuth, or "guest"
// for anonymous requests.
func subject(c echo.Context) string {
	if v, ok := c.Get(ContextSubject).(string); ok && v != "" {
		return v
	}
	return "guest"
}
