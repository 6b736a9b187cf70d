package middleware

// identity.go defines helper functions shared across middleware files.
// adminID pulls the authenticated admin's username from the Echo context
// for use in cache and rate-limit keys. Unauthenticated requests key as
// "guest" so public traffic shares one bucket per IP.

import (
    "github.com/labstack/echo/v4"
)

// adminID extracts an identifier for the authenticated admin from the
// context. It returns "guest" when no admin is authenticated.
func adminID(c echo.Context) string {
    if v, ok := c.Get("username").(string); ok && v != "" {
        return v
    }
    return "guest"
}
