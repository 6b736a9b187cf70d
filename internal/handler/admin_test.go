package handler

import (
    "context"
    "net/http"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/sahasuyana/booking-api/internal/model"
    "github.com/sahasuyana/booking-api/internal/repository"
    "github.com/sahasuyana/booking-api/internal/utils"
)

type fakeAdminStore struct {
    createFn             func(ctx context.Context, a *model.Admin) error
    getByIDFn            func(ctx context.Context, id uint64) (*model.Admin, error)
    findActiveByLoginFn  func(ctx context.Context, login string) (*model.Admin, error)
    usernameTakenFn      func(ctx context.Context, username string, excludeID uint64) (bool, error)
    listFn               func(ctx context.Context) ([]model.Admin, error)
    updateProfileFn      func(ctx context.Context, id uint64, username, firstName, lastName, phone string) (*model.Admin, error)
    updatePasswordFn     func(ctx context.Context, id uint64, hash string) error
    recordFailedLoginFn  func(ctx context.Context, id uint64) error
    resetLoginAttemptsFn func(ctx context.Context, id uint64) error
    deleteFn             func(ctx context.Context, id uint64) error
}

func (f *fakeAdminStore) Create(ctx context.Context, a *model.Admin) error {
    return f.createFn(ctx, a)
}
func (f *fakeAdminStore) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
    return f.getByIDFn(ctx, id)
}
func (f *fakeAdminStore) FindActiveByLogin(ctx context.Context, login string) (*model.Admin, error) {
    return f.findActiveByLoginFn(ctx, login)
}
func (f *fakeAdminStore) UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error) {
    return f.usernameTakenFn(ctx, username, excludeID)
}
func (f *fakeAdminStore) List(ctx context.Context) ([]model.Admin, error) { return f.listFn(ctx) }
func (f *fakeAdminStore) UpdateProfile(ctx context.Context, id uint64, username, firstName, lastName, phone string) (*model.Admin, error) {
    return f.updateProfileFn(ctx, id, username, firstName, lastName, phone)
}
func (f *fakeAdminStore) UpdatePassword(ctx context.Context, id uint64, hash string) error {
    return f.updatePasswordFn(ctx, id, hash)
}
func (f *fakeAdminStore) RecordFailedLogin(ctx context.Context, id uint64) error {
    return f.recordFailedLoginFn(ctx, id)
}
func (f *fakeAdminStore) ResetLoginAttempts(ctx context.Context, id uint64) error {
    return f.resetLoginAttemptsFn(ctx, id)
}
func (f *fakeAdminStore) Delete(ctx context.Context, id uint64) error { return f.deleteFn(ctx, id) }

func testAdmin(t *testing.T, password string) *model.Admin {
    t.Helper()
    hash, err := utils.HashPassword(password, 4) // minimum bcrypt cost keeps tests fast
    assert.NoError(t, err)
    return &model.Admin{
        ID:           1,
        Username:     "manager",
        Email:        "manager@example.com",
        PasswordHash: hash,
        Role:         model.RoleAdmin,
        IsActive:     true,
    }
}

func newAdminHandler(store AdminStore) *AdminHandler {
    return NewAdminHandler(store, "test-secret", time.Hour, 4)
}

func TestLoginSuccess(t *testing.T) {
    admin := testAdmin(t, "hunter22")
    resets := 0
    store := &fakeAdminStore{
        findActiveByLoginFn: func(_ context.Context, login string) (*model.Admin, error) {
            assert.Equal(t, "manager", login)
            return admin, nil
        },
        resetLoginAttemptsFn: func(_ context.Context, _ uint64) error { resets++; return nil },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodPost, "/api/admin/login",
        `{"username": "Manager", "password": "hunter22"}`)

    assert.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, 1, resets)
    body := decodeBody(t, rec)
    assert.NotEmpty(t, body["token"])
    adminOut := body["admin"].(map[string]interface{})
    assert.Equal(t, "manager", adminOut["username"])
    assert.Equal(t, model.RoleAdmin, adminOut["role"])
}

func TestLoginWrongPasswordRecordsFailure(t *testing.T) {
    admin := testAdmin(t, "hunter22")
    failures := 0
    store := &fakeAdminStore{
        findActiveByLoginFn: func(_ context.Context, _ string) (*model.Admin, error) { return admin, nil },
        recordFailedLoginFn: func(_ context.Context, id uint64) error {
            assert.Equal(t, uint64(1), id)
            failures++
            return nil
        },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodPost, "/api/admin/login",
        `{"username": "manager", "password": "wrong"}`)

    assert.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Equal(t, 1, failures)
}

func TestLoginUnknownAccountSameBodyAsWrongPassword(t *testing.T) {
    store := &fakeAdminStore{
        findActiveByLoginFn: func(_ context.Context, _ string) (*model.Admin, error) {
            return nil, repository.ErrAdminNotFound
        },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodPost, "/api/admin/login",
        `{"username": "ghost", "password": "whatever"}`)

    assert.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Equal(t, "Invalid credentials.", decodeBody(t, rec)["message"])
}

func TestLoginLockedAccount(t *testing.T) {
    admin := testAdmin(t, "hunter22")
    until := time.Now().UTC().Add(time.Hour)
    admin.LockUntil = &until
    store := &fakeAdminStore{
        findActiveByLoginFn: func(_ context.Context, _ string) (*model.Admin, error) { return admin, nil },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodPost, "/api/admin/login",
        `{"username": "manager", "password": "hunter22"}`)

    assert.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusLocked, rec.Code)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
    admin := testAdmin(t, "hunter22")
    store := &fakeAdminStore{
        getByIDFn: func(_ context.Context, _ uint64) (*model.Admin, error) { return admin, nil },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodPut, "/api/admin/change-password",
        `{"currentPassword": "nope", "newPassword": "longenough"}`)
    c.Set("admin_id", uint64(1))

    assert.NoError(t, h.ChangePassword(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordTooShort(t *testing.T) {
    h := newAdminHandler(&fakeAdminStore{})
    c, rec := newTestContext(http.MethodPut, "/api/admin/change-password",
        `{"currentPassword": "hunter22", "newPassword": "abc"}`)
    c.Set("admin_id", uint64(1))

    assert.NoError(t, h.ChangePassword(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAdminSuperAdminRequiresSuperAdmin(t *testing.T) {
    h := newAdminHandler(&fakeAdminStore{})
    c, rec := newTestContext(http.MethodPost, "/api/admin/admins",
        `{"username": "boss", "email": "boss@example.com", "password": "secret1", "role": "super_admin"}`)
    c.Set("role", model.RoleAdmin)

    assert.NoError(t, h.CreateAdmin(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateAdminDuplicate(t *testing.T) {
    store := &fakeAdminStore{
        createFn: func(_ context.Context, _ *model.Admin) error { return repository.ErrDuplicate },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodPost, "/api/admin/admins",
        `{"username": "manager", "email": "manager@example.com", "password": "secret1"}`)
    c.Set("role", model.RoleAdmin)

    assert.NoError(t, h.CreateAdmin(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "Username or email already exists.", decodeBody(t, rec)["message"])
}

func TestDeleteAdminRefusesSelf(t *testing.T) {
    h := newAdminHandler(&fakeAdminStore{})
    c, rec := newTestContext(http.MethodDelete, "/api/admin/admins/1", "")
    c.SetParamNames("id")
    c.SetParamValues("1")
    c.Set("admin_id", uint64(1))
    c.Set("role", model.RoleAdmin)

    assert.NoError(t, h.DeleteAdmin(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSuperAdminRequiresSuperAdmin(t *testing.T) {
    store := &fakeAdminStore{
        getByIDFn: func(_ context.Context, _ uint64) (*model.Admin, error) {
            return &model.Admin{ID: 2, Role: model.RoleSuperAdmin}, nil
        },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodDelete, "/api/admin/admins/2", "")
    c.SetParamNames("id")
    c.SetParamValues("2")
    c.Set("admin_id", uint64(1))
    c.Set("role", model.RoleAdmin)

    assert.NoError(t, h.DeleteAdmin(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
    store := &fakeAdminStore{
        usernameTakenFn: func(_ context.Context, username string, excludeID uint64) (bool, error) {
            assert.Equal(t, "newname", username)
            assert.Equal(t, uint64(1), excludeID)
            return true, nil
        },
    }
    h := newAdminHandler(store)
    c, rec := newTestContext(http.MethodPut, "/api/admin/profile", `{"username": "NewName"}`)
    c.Set("admin_id", uint64(1))

    assert.NoError(t, h.UpdateProfile(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "Username already taken.", decodeBody(t, rec)["message"])
}
