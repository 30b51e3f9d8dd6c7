package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/studyspot-booking/internal/auth"
    "github.com/iliyamo/studyspot-booking/internal/booking"
    "github.com/iliyamo/studyspot-booking/internal/catalog"
    "github.com/iliyamo/studyspot-booking/internal/middleware"
)

// BookingHandler creates, lists and cancels bookings for the logged-in user.
// All methods assume JWTAuth already ran.
type BookingHandler struct {
    Registry *booking.Registry
    Catalog  *catalog.Catalog
    Auth     *auth.Service
}

func NewBookingHandler(r *booking.Registry, cat *catalog.Catalog, a *auth.Service) *BookingHandler {
    if r == nil || cat == nil || a == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Registry: r, Catalog: cat, Auth: a}
}

type createBookingReq struct {
    SpaceID  int    `json:"spaceId"`
    Date     string `json:"date"`
    TimeSlot string `json:"timeSlot"`
}

// Create handles POST /v1/bookings.  Space details are copied from the
// catalog.  A token whose session has since been logged out books nothing.
func (h *BookingHandler) Create(c echo.Context) error {
    tokenUser, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Date = strings.TrimSpace(req.Date)
    req.TimeSlot = strings.TrimSpace(req.TimeSlot)

    in := booking.NewBooking{
        SpaceID:  req.SpaceID,
        Date:     req.Date,
        TimeSlot: req.TimeSlot,
    }
    if u := h.Auth.CurrentUser(); u != nil && u.ID == tokenUser {
        in.UserID = u.ID
        in.UserName = u.Name
    }

    if req.SpaceID != 0 {
        space, ok := h.Catalog.ByID(req.SpaceID)
        if !ok {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
        }
        if req.TimeSlot != "" && !space.OffersSlot(req.TimeSlot) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "time slot not offered by this space"})
        }
        in.SpaceName = space.Name
        in.SpaceImage = space.MainImage
        in.Location = space.Location
        in.Price = space.Price
    }
    if req.Date != "" {
        if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
    }

    b, err := h.Registry.AddBooking(c.Request().Context(), in)
    switch {
    case errors.Is(err, booking.ErrValidation):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrDuplicateBooking):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case err != nil:
        c.Logger().Errorf("add booking: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    return c.JSON(http.StatusCreated, b)
}

// Mine handles GET /v1/my-bookings, newest first.
func (h *BookingHandler) Mine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items := h.Registry.BookingsByUser(userID)
    return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// Get handles GET /v1/bookings/:id.  Bookings of other users are reported
// as missing.
func (h *BookingHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    b, ok := h.Registry.Get(c.Param("id"))
    if !ok || b.UserID != userID {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    return c.JSON(http.StatusOK, b)
}

// Cancel handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := c.Param("id")
    b, ok := h.Registry.Get(id)
    if !ok || b.UserID != userID {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    if !h.Registry.CancelBooking(c.Request().Context(), id) {
        // Removed elsewhere between the lookup and the cancel.
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    c.Logger().Infof("booking %s cancelled by %s", id, middleware.UserName(c))
    return c.NoContent(http.StatusNoContent)
}
