package middleware // middleware provides shared request processing for handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireUserType returns a middleware that only lets through users whose
// token carries one of the given types.  It must run after JWTAuth, which
// stores the type under CtxUserType.  Other users get 403 Forbidden.
func RequireUserType(types ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(types))
    for _, t := range types {
        allowed[t] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !allowed[ctxString(c, CtxUserType)] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
