package model

import "time"

// Admin roles in descending privilege. Only super_admin and admin may
// manage other admin accounts; super_admin accounts can only be created
// or deleted by another super_admin.
const (
    RoleSuperAdmin = "super_admin"
    RoleAdmin      = "admin"
    RoleModerator  = "moderator"
)

// ValidRole reports whether r is a known admin role.
func ValidRole(r string) bool {
    return r == RoleSuperAdmin || r == RoleAdmin || r == RoleModerator
}

// Account lockout policy: after MaxLoginAttempts consecutive failures the
// account is locked for LockDuration.
const (
    MaxLoginAttempts = 5
    LockDuration     = 2 * time.Hour
)

// AdminProfile holds the display details of an admin account.
type AdminProfile struct {
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
    Phone     string `json:"phone,omitempty"`
}

// Admin is a dashboard account. The password is stored only as a bcrypt
// hash and is never serialized.
//
// Fields:
//  ID            – primary key identifier.
//  Username      – unique login name, lower-cased.
//  Email         – unique address, lower-cased.
//  PasswordHash  – bcrypt digest; excluded from JSON.
//  Role          – super_admin / admin / moderator.
//  Profile       – names and phone.
//  IsActive      – inactive accounts cannot log in.
//  LoginAttempts – consecutive failed logins since the last success.
//  LockUntil     – account refuses logins until this time (nil if unlocked).
type Admin struct {
    ID            uint64       `json:"id"`
    Username      string       `json:"username"`
    Email         string       `json:"email"`
    PasswordHash  string       `json:"-"`
    Role          string       `json:"role"`
    Profile       AdminProfile `json:"profile"`
    IsActive      bool         `json:"isActive"`
    LoginAttempts int          `json:"-"`
    LockUntil     *time.Time   `json:"-"`
    CreatedAt     time.Time    `json:"createdAt"`
    UpdatedAt     time.Time    `json:"updatedAt"`
}

// FullName joins the profile names for display and email salutations.
func (a *Admin) FullName() string {
    if a.Profile.LastName == "" {
        return a.Profile.FirstName
    }
    return a.Profile.FirstName + " " + a.Profile.LastName
}

// Locked reports whether the account is currently locked out.
func (a *Admin) Locked(now time.Time) bool {
    return a.LockUntil != nil && a.LockUntil.After(now)
}
