package middleware

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// StoreGate returns a middleware that refuses API requests while the
// database is unreachable.  The health endpoint is exempt so operators
// can still see the degraded state.  The ping uses its own short timeout
// instead of the request deadline so a slow client cannot mask an outage.
func StoreGate(db *sql.DB) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Path() == "/api/health" {
                return next(c)
            }
            ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
            defer cancel()
            if err := db.PingContext(ctx); err != nil {
                return c.JSON(http.StatusServiceUnavailable, echo.Map{
                    "message": "Database unavailable. Please try again later.",
                    "error":   "Service temporarily unavailable",
                })
            }
            return next(c)
        }
    }
}
