package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/studyspot-booking/internal/auth"
    "github.com/iliyamo/studyspot-booking/internal/model"
)

// AuthHandler exposes the guest session over HTTP.
type AuthHandler struct {
    Auth *auth.Service
}

func NewAuthHandler(a *auth.Service) *AuthHandler {
    return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}

type authResp struct {
    User   model.User `json:"user"`
    Access tokenPart  `json:"access"`
}

// Login handles POST /v1/auth/login.  Every login yields the guest user and
// a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
    u := h.Auth.Login(c.Request().Context())
    tok, err := h.Auth.IssueToken(u)
    if err != nil {
        c.Logger().Errorf("issue token: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
    }
    return c.JSON(http.StatusOK, authResp{
        User:   u,
        Access: tokenPart{Token: tok.Token, Expires: tok.Exp},
    })
}

// Logout handles POST /v1/auth/logout.  Tokens issued earlier stay valid
// until they expire but /v1/me and new bookings see the user as logged out.
func (h *AuthHandler) Logout(c echo.Context) error {
    h.Auth.Logout(c.Request().Context())
    return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me and returns the logged-in user.
func (h *AuthHandler) Me(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    u := h.Auth.CurrentUser()
    if u == nil || u.ID != userID {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not logged in"})
    }
    return c.JSON(http.StatusOK, u)
}
