package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// HealthHandler reports service liveness. It is the one endpoint that
// bypasses the store gate, so it must answer even while the database is
// down and describe that state instead of failing.
type HealthHandler struct {
    DB *sql.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Check handles GET /api/health. Always 200; the body says whether the
// database is reachable.
func (h *HealthHandler) Check(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    status := "ok"
    database := "connected"
    if err := h.DB.PingContext(ctx); err != nil {
        status = "degraded"
        database = "disconnected"
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":    status,
        "database":  database,
        "timestamp": time.Now().UTC(),
    })
}
