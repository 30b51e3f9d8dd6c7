package handler // declare the package name; contains HTTP handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// HealthHandler reports liveness together with the storage backend and
// sync transport the process was started with.
type HealthHandler struct {
    Storage   string
    Transport string
}

// Health is used by load balancers and monitoring systems to verify that the
// service is running.  It always answers 200.
func (h *HealthHandler) Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":    "ok",
        "storage":   h.Storage,
        "transport": h.Transport,
    })
}
