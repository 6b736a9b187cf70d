package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// AdminAuth returns an Echo middleware that validates a Bearer access token
// and injects the admin's id, username and role claims into the request
// context.  The provided secret must match the one used when issuing tokens.
// A missing token yields 401; a token that fails validation yields 403 so
// the dashboard can distinguish "log in" from "session expired".
func AdminAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 and our secret; reject any other signing
            // method so an attacker cannot downgrade to "none".
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid token."})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid token."})
            }

            // Stash the admin identity for handlers and the role guard.
            // Numeric JSON claims decode as float64.
            if id, ok := claims["id"].(float64); ok {
                c.Set("admin_id", uint64(id))
            }
            if username, ok := claims["username"].(string); ok {
                c.Set("username", username)
            }
            c.Set("role", claims["role"])
            return next(c)
        }
    }
}
