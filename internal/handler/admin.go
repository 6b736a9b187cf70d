package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/sahasuyana/booking-api/internal/model"
    "github.com/sahasuyana/booking-api/internal/repository"
    "github.com/sahasuyana/booking-api/internal/utils"
)

// AdminStore is the persistence surface the account endpoints need.
type AdminStore interface {
    Create(ctx context.Context, a *model.Admin) error
    GetByID(ctx context.Context, id uint64) (*model.Admin, error)
    FindActiveByLogin(ctx context.Context, login string) (*model.Admin, error)
    UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error)
    List(ctx context.Context) ([]model.Admin, error)
    UpdateProfile(ctx context.Context, id uint64, username, firstName, lastName, phone string) (*model.Admin, error)
    UpdatePassword(ctx context.Context, id uint64, hash string) error
    RecordFailedLogin(ctx context.Context, id uint64) error
    ResetLoginAttempts(ctx context.Context, id uint64) error
    Delete(ctx context.Context, id uint64) error
}

// AdminHandler implements the dashboard account endpoints: login with
// lockout, profile management, password change and admin administration.
type AdminHandler struct {
    Repo       AdminStore
    Secret     string        // JWT signing secret
    TokenTTL   time.Duration // access token lifetime
    BcryptCost int           // cost for newly hashed passwords
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(repo AdminStore, secret string, ttl time.Duration, bcryptCost int) *AdminHandler {
    return &AdminHandler{Repo: repo, Secret: secret, TokenTTL: ttl, BcryptCost: bcryptCost}
}

// adminView is the JSON shape of an admin account returned to the
// dashboard. The password hash never leaves the model, but this keeps
// the login payload explicit.
func adminView(a *model.Admin) echo.Map {
    return echo.Map{
        "id":       a.ID,
        "username": a.Username,
        "email":    a.Email,
        "role":     a.Role,
        "profile":  a.Profile,
    }
}

// contextAdminID returns the authenticated admin's id stored by the
// auth middleware.
func contextAdminID(c echo.Context) (uint64, bool) {
    id, ok := c.Get("admin_id").(uint64)
    return id, ok
}

// Login handles POST /api/admin/login with a username-or-email plus
// password. Five consecutive failures lock the account for two hours;
// a locked account answers 423 without revealing whether the password
// was right.
func (h *AdminHandler) Login(c echo.Context) error {
    var req struct {
        Username string `json:"username"`
        Password string `json:"password"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": []string{"username", "password"},
        })
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    a, err := h.Repo.FindActiveByLogin(ctx, strings.ToLower(req.Username))
    if err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            // Same body as a wrong password so logins cannot be probed.
            return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials."})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
    }
    if a.Locked(time.Now().UTC()) {
        return c.JSON(http.StatusLocked, echo.Map{
            "message": "Account temporarily locked due to too many failed login attempts. Try again later.",
        })
    }
    if !utils.VerifyPassword(a.PasswordHash, req.Password) {
        if err := h.Repo.RecordFailedLogin(ctx, a.ID); err != nil {
            c.Logger().Errorf("record failed login for admin %d: %v", a.ID, err)
        }
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials."})
    }
    if err := h.Repo.ResetLoginAttempts(ctx, a.ID); err != nil {
        c.Logger().Errorf("reset login attempts for admin %d: %v", a.ID, err)
    }

    tok, err := utils.NewAccessToken(h.Secret, a.ID, a.Username, a.Role, h.TokenTTL)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "token":     tok.Token,
        "expiresAt": tok.Exp,
        "admin":     adminView(a),
    })
}

// Profile handles GET /api/admin/profile.
func (h *AdminHandler) Profile(c echo.Context) error {
    id, ok := contextAdminID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    a, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Admin not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch profile"})
    }
    return c.JSON(http.StatusOK, adminView(a))
}

// UpdateProfile handles PUT /api/admin/profile. A new username must be
// unused by any other account.
func (h *AdminHandler) UpdateProfile(c echo.Context) error {
    id, ok := contextAdminID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
    }
    var req struct {
        Username string             `json:"username"`
        Profile  model.AdminProfile `json:"profile"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    if req.Username != "" {
        taken, err := h.Repo.UsernameTaken(ctx, strings.ToLower(req.Username), id)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update profile"})
        }
        if taken {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username already taken."})
        }
    }
    a, err := h.Repo.UpdateProfile(ctx, id, strings.ToLower(req.Username),
        req.Profile.FirstName, req.Profile.LastName, req.Profile.Phone)
    if err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Admin not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update profile"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Profile updated successfully",
        "admin":   adminView(a),
    })
}

// ChangePassword handles PUT /api/admin/change-password. The current
// password must verify and the new one must be at least six characters.
func (h *AdminHandler) ChangePassword(c echo.Context) error {
    id, ok := contextAdminID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
    }
    var req struct {
        CurrentPassword string `json:"currentPassword"`
        NewPassword     string `json:"newPassword"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    if len(req.NewPassword) < 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "New password must be at least 6 characters long"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    a, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Admin not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to change password"})
    }
    if !utils.VerifyPassword(a.PasswordHash, req.CurrentPassword) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Current password is incorrect."})
    }
    hash, err := utils.HashPassword(req.NewPassword, h.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to change password"})
    }
    if err := h.Repo.UpdatePassword(ctx, id, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to change password"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// ListAdmins handles GET /api/admin/admins. Role gating happens in the
// router.
func (h *AdminHandler) ListAdmins(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    admins, err := h.Repo.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to list admins"})
    }
    return c.JSON(http.StatusOK, echo.Map{"admins": admins})
}

// CreateAdmin handles POST /api/admin/admins. Only a super_admin may
// create another super_admin.
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
    var req struct {
        Username string             `json:"username"`
        Email    string             `json:"email"`
        Password string             `json:"password"`
        Role     string             `json:"role"`
        Profile  model.AdminProfile `json:"profile"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    missing := []string{}
    if req.Username == "" {
        missing = append(missing, "username")
    }
    if req.Email == "" {
        missing = append(missing, "email")
    }
    if req.Password == "" {
        missing = append(missing, "password")
    }
    if len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": missing,
        })
    }
    if len(req.Password) < 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password must be at least 6 characters long"})
    }
    role := req.Role
    if role == "" {
        role = model.RoleModerator
    }
    if !model.ValidRole(role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown role"})
    }
    if role == model.RoleSuperAdmin && c.Get("role") != model.RoleSuperAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"message": "Only a super admin can create super admin accounts."})
    }

    hash, err := utils.HashPassword(req.Password, h.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create admin"})
    }
    a := &model.Admin{
        Username:     strings.ToLower(req.Username),
        Email:        strings.ToLower(req.Email),
        PasswordHash: hash,
        Role:         role,
        Profile:      req.Profile,
        IsActive:     true,
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Repo.Create(ctx, a); err != nil {
        if errors.Is(err, repository.ErrDuplicate) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username or email already exists."})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create admin"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "Admin created successfully",
        "admin":   adminView(a),
    })
}

// DeleteAdmin handles DELETE /api/admin/admins/:id. Deleting yourself
// is refused, and only a super_admin may delete a super_admin.
func (h *AdminHandler) DeleteAdmin(c echo.Context) error {
    callerID, ok := contextAdminID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
    }
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid admin id"})
    }
    if id == callerID {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "You cannot delete your own account."})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    target, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Admin not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete admin"})
    }
    if target.Role == model.RoleSuperAdmin && c.Get("role") != model.RoleSuperAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"message": "Only a super admin can delete super admin accounts."})
    }
    if err := h.Repo.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Admin not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete admin"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Admin deleted successfully"})
}

// Verify handles GET /api/admin/verify, a cheap token introspection for
// the dashboard on page load.
func (h *AdminHandler) Verify(c echo.Context) error {
    id, _ := contextAdminID(c)
    return c.JSON(http.StatusOK, echo.Map{
        "valid": true,
        "admin": echo.Map{
            "id":       id,
            "username": c.Get("username"),
            "role":     c.Get("role"),
        },
    })
}
