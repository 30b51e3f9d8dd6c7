package handler // handler defines http handlers

import (
    "errors"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/studyspot-booking/internal/middleware"
)

var errNoUser = errors.New("no user_id in context")

// getUserID returns the user id JWTAuth stored in the context.
func getUserID(c echo.Context) (string, error) {
    id := middleware.UserID(c)
    if id == "" {
        return "", errNoUser
    }
    return id, nil
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (int, bool) {
    n, err := strconv.Atoi(strings.TrimSpace(c.Param(name)))
    if err != nil || n <= 0 {
        return 0, false
    }
    return n, true
}
