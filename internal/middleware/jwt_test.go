package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"

    "github.com/sahasuyana/booking-api/internal/utils"
)

const testSecret = "test-secret"

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
    err := AdminAuth(testSecret)(next)(c)
    assert.NoError(t, err)
    return rec, c
}

func TestAdminAuthMissingToken(t *testing.T) {
    rec, _ := runAuth(t, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "No token provided")
}

func TestAdminAuthInvalidToken(t *testing.T) {
    rec, _ := runAuth(t, "Bearer not-a-jwt")
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAdminAuthWrongSecret(t *testing.T) {
    tok, err := utils.NewAccessToken("other-secret", 1, "manager", "admin", time.Hour)
    assert.NoError(t, err)
    rec, _ := runAuth(t, "Bearer "+tok.Token)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAuthExpiredToken(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 1, "manager", "admin", -time.Minute)
    assert.NoError(t, err)
    rec, _ := runAuth(t, "Bearer "+tok.Token)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAuthValidTokenSetsIdentity(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 42, "manager", "admin", time.Hour)
    assert.NoError(t, err)
    rec, c := runAuth(t, "Bearer "+tok.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint64(42), c.Get("admin_id"))
    assert.Equal(t, "manager", c.Get("username"))
    assert.Equal(t, "admin", c.Get("role"))
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
    guard := RequireRole("super_admin", "admin")

    req := httptest.NewRequest(http.MethodGet, "/api/admin/admins", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("role", "moderator")
    assert.NoError(t, guard(next)(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)

    rec = httptest.NewRecorder()
    c = e.NewContext(req, rec)
    c.Set("role", "admin")
    assert.NoError(t, guard(next)(c))
    assert.Equal(t, http.StatusOK, rec.Code)
}
