package middleware

// identity.go holds the helpers that read the identity JWTAuth stored in
// the Echo context.

import (
    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user id, or "" when the request did not
// pass through JWTAuth.
func UserID(c echo.Context) string {
    return ctxString(c, CtxUserID)
}

// UserName returns the authenticated user's display name, or "".
func UserName(c echo.Context) string {
    return ctxString(c, CtxUserName)
}

func ctxString(c echo.Context, key string) string {
    if s, ok := c.Get(key).(string); ok {
        return s
    }
    return ""
}

// rateIdentity is the user part of a rate limit key.  Anonymous callers
// share the "anon" bucket for their IP.
func rateIdentity(c echo.Context) string {
    if id := UserID(c); id != "" {
        return id
    }
    return "anon"
}
