package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/studyspot-booking/internal/utils"
)

// Context keys set by JWTAuth.
const (
    CtxUserID   = "user_id"
    CtxUserName = "user_name"
    CtxUserType = "user_type"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's identity claims into the request context.  The
// provided secret must match the one used when issuing tokens.  Handlers
// read the identity with UserID, or c.Get(CtxUserName) / c.Get(CtxUserType).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxUserName, claims.UserName)
            c.Set(CtxUserType, claims.UserType)
            return next(c)
        }
    }
}
