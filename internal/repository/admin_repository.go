package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/sahasuyana/booking-api/internal/model"
)

// AdminRepo persists dashboard accounts, including the failed-login
// counter and lock timestamp the login endpoint uses for lockout.
type AdminRepo struct {
    DB *sql.DB
}

// NewAdminRepo returns an AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

const adminColumns = `id, username, email, password_hash, role,
       first_name, last_name, phone, is_active,
       login_attempts, lock_until, created_at, updated_at`

func scanAdmin(s rowScanner) (*model.Admin, error) {
    var a model.Admin
    var phone sql.NullString
    var lockUntil sql.NullTime
    err := s.Scan(
        &a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
        &a.Profile.FirstName, &a.Profile.LastName, &phone, &a.IsActive,
        &a.LoginAttempts, &lockUntil, &a.CreatedAt, &a.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    a.Profile.Phone = phone.String
    if lockUntil.Valid {
        t := lockUntil.Time
        a.LockUntil = &t
    }
    return &a, nil
}

// Create inserts a new account. Username and email are lower-cased;
// unique-key violations surface as ErrDuplicate.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
    const q = `INSERT INTO admins
        (username, email, password_hash, role, first_name, last_name, phone, is_active)
        VALUES (?,?,?,?,?,?,?,?)`
    res, err := r.DB.ExecContext(ctx, q,
        strings.ToLower(a.Username), strings.ToLower(a.Email), a.PasswordHash, a.Role,
        a.Profile.FirstName, a.Profile.LastName, a.Profile.Phone, true)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrDuplicate
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    saved, err := r.GetByID(ctx, a.ID)
    if err != nil {
        return err
    }
    *a = *saved
    return nil
}

// GetByID returns one account or ErrAdminNotFound.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
    a, err := scanAdmin(r.DB.QueryRowContext(ctx,
        `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrAdminNotFound
    }
    return a, err
}

// FindActiveByLogin looks up an active account by username or email.
// Login accepts either form in one field.
func (r *AdminRepo) FindActiveByLogin(ctx context.Context, login string) (*model.Admin, error) {
    login = strings.ToLower(strings.TrimSpace(login))
    a, err := scanAdmin(r.DB.QueryRowContext(ctx,
        `SELECT `+adminColumns+` FROM admins
         WHERE (username = ? OR email = ?) AND is_active = TRUE LIMIT 1`,
        login, login))
    if err == sql.ErrNoRows {
        return nil, ErrAdminNotFound
    }
    return a, err
}

// UsernameTaken reports whether another account already uses the
// username.
func (r *AdminRepo) UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM admins WHERE username = ? AND id <> ?`,
        strings.ToLower(username), excludeID).Scan(&n)
    return n > 0, err
}

// List returns all accounts (hashes included; handlers drop them via
// the model's JSON tags).
func (r *AdminRepo) List(ctx context.Context) ([]model.Admin, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+adminColumns+` FROM admins ORDER BY created_at`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    admins := make([]model.Admin, 0)
    for rows.Next() {
        a, err := scanAdmin(rows)
        if err != nil {
            return nil, err
        }
        admins = append(admins, *a)
    }
    return admins, rows.Err()
}

// Any reports whether at least one account exists (bootstrap check).
func (r *AdminRepo) Any(ctx context.Context) (bool, error) {
    var n int
    err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
    return n > 0, err
}

// UpdateProfile rewrites the profile fields and optionally the username.
func (r *AdminRepo) UpdateProfile(ctx context.Context, id uint64, username, firstName, lastName, phone string) (*model.Admin, error) {
    const q = `UPDATE admins SET
        username = COALESCE(NULLIF(?, ''), username),
        first_name = ?, last_name = ?, phone = ?,
        updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    res, err := r.DB.ExecContext(ctx, q, strings.ToLower(username), firstName, lastName, phone, id)
    if err != nil {
        if isDuplicateKey(err) {
            return nil, ErrDuplicate
        }
        return nil, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored hash.
func (r *AdminRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE admins SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
        hash, id)
    return err
}

// RecordFailedLogin bumps the failure counter and locks the account once
// it crosses the lockout threshold.
func (r *AdminRepo) RecordFailedLogin(ctx context.Context, id uint64) error {
    lockFrom := time.Now().UTC().Add(model.LockDuration)
    const q = `UPDATE admins SET
        login_attempts = login_attempts + 1,
        lock_until = CASE WHEN login_attempts + 1 >= ? THEN ? ELSE lock_until END,
        updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    _, err := r.DB.ExecContext(ctx, q, model.MaxLoginAttempts, lockFrom, id)
    return err
}

// ResetLoginAttempts clears the failure counter and any lock after a
// successful login.
func (r *AdminRepo) ResetLoginAttempts(ctx context.Context, id uint64) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE admins SET login_attempts = 0, lock_until = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
        id)
    return err
}

// Delete removes the account permanently.
func (r *AdminRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, `DELETE FROM admins WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrAdminNotFound
    }
    return nil
}
