package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/studyspot-booking/internal/catalog"
)

// SpaceHandler serves the public study space catalog.
type SpaceHandler struct {
    Catalog *catalog.Catalog
}

func NewSpaceHandler(c *catalog.Catalog) *SpaceHandler {
    return &SpaceHandler{Catalog: c}
}

// List handles GET /v1/spaces.  The optional q parameter filters by name or
// location.
func (h *SpaceHandler) List(c echo.Context) error {
    spaces := h.Catalog.Search(c.QueryParam("q"))
    return c.JSON(http.StatusOK, echo.Map{"items": spaces, "total": len(spaces)})
}

// Get handles GET /v1/spaces/:id.
func (h *SpaceHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
    }
    s, ok := h.Catalog.ByID(id)
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
    }
    return c.JSON(http.StatusOK, s)
}
