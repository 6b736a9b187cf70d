package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"

    "github.com/sahasuyana/booking-api/internal/model"
    "github.com/sahasuyana/booking-api/internal/queue"
    "github.com/sahasuyana/booking-api/internal/repository"
)

// fakeBookingStore implements BookingStore with function fields so each
// test only wires what it uses.
type fakeBookingStore struct {
    createFn         func(ctx context.Context, b *model.Booking) error
    getByIDFn        func(ctx context.Context, id uint64) (*model.Booking, error)
    listFn           func(ctx context.Context, f repository.ListFilter) ([]model.Booking, int, error)
    updateStatusFn   func(ctx context.Context, id uint64, status string) (*model.Booking, error)
    updateFn         func(ctx context.Context, b *model.Booking) (*model.Booking, error)
    deleteFn         func(ctx context.Context, id uint64) error
    stallConfirmedFn func(ctx context.Context, stallID string) (bool, error)
    statsFn          func(ctx context.Context) (*repository.Stats, error)
}

func (f *fakeBookingStore) Create(ctx context.Context, b *model.Booking) error {
    return f.createFn(ctx, b)
}
func (f *fakeBookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    return f.getByIDFn(ctx, id)
}
func (f *fakeBookingStore) List(ctx context.Context, fl repository.ListFilter) ([]model.Booking, int, error) {
    return f.listFn(ctx, fl)
}
func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Booking, error) {
    return f.updateStatusFn(ctx, id, status)
}
func (f *fakeBookingStore) Update(ctx context.Context, b *model.Booking) (*model.Booking, error) {
    return f.updateFn(ctx, b)
}
func (f *fakeBookingStore) Delete(ctx context.Context, id uint64) error {
    return f.deleteFn(ctx, id)
}
func (f *fakeBookingStore) StallConfirmed(ctx context.Context, stallID string) (bool, error) {
    return f.stallConfirmedFn(ctx, stallID)
}
func (f *fakeBookingStore) Stats(ctx context.Context) (*repository.Stats, error) {
    return f.statsFn(ctx)
}

// fakePublisher records every published event.
type fakePublisher struct {
    events []*queue.BookingEvent
    err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev *queue.BookingEvent) error {
    f.events = append(f.events, ev)
    return f.err
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
    t.Helper()
    var out map[string]interface{}
    assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    return out
}

const validCreateBody = `{
    "venue": "Open Air Arena",
    "eventType": "wedding",
    "eventDate": "2025-03-10",
    "duration": 3,
    "guests": 150,
    "totalAmount": 1,
    "customer": {"name": "N. Perera", "email": "n@example.com", "phone": "0711234567"}
}`

func TestCreateBookingMissingFields(t *testing.T) {
    h := NewBookingHandler(&fakeBookingStore{}, &fakePublisher{})
    c, rec := newTestContext(http.MethodPost, "/api/bookings", `{"venue": "Open Air Arena"}`)

    assert.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, "Missing required fields", body["message"])
    required := body["required"].([]interface{})
    assert.Contains(t, required, "eventType")
    assert.Contains(t, required, "eventDate")
    assert.Contains(t, required, "customer.name")
    assert.Contains(t, required, "guests")
    assert.Contains(t, required, "duration")
}

func TestCreateBookingPricesServerSide(t *testing.T) {
    var saved *model.Booking
    store := &fakeBookingStore{
        createFn: func(_ context.Context, b *model.Booking) error {
            b.ID = 42
            saved = b
            return nil
        },
    }
    pub := &fakePublisher{}
    h := NewBookingHandler(store, pub)
    c, rec := newTestContext(http.MethodPost, "/api/bookings", validCreateBody)

    assert.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    // The client-supplied totalAmount of 1 is discarded.
    assert.Equal(t, int64(3750000), saved.TotalAmount)
    assert.Equal(t, model.StatusPending, saved.Status)

    // One created event rides on the write.
    assert.Len(t, pub.events, 1)
    assert.Equal(t, queue.EventBookingCreated, pub.events[0].Type)
    assert.Equal(t, uint64(42), pub.events[0].BookingID)
}

func TestCreateBookingSucceedsWhenPublisherFails(t *testing.T) {
    store := &fakeBookingStore{
        createFn: func(_ context.Context, b *model.Booking) error { b.ID = 7; return nil },
    }
    h := NewBookingHandler(store, &fakePublisher{err: errors.New("broker down")})
    c, rec := newTestContext(http.MethodPost, "/api/bookings", validCreateBody)

    assert.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateStallBookingRequiresStallID(t *testing.T) {
    h := NewBookingHandler(&fakeBookingStore{}, &fakePublisher{})
    body := `{
        "venue": "Vendor Stalls",
        "eventType": "vendor stall rental",
        "eventDate": "2025-03-10",
        "guests": 1,
        "customer": {"name": "V", "email": "v@example.com", "phone": "071"}
    }`
    c, rec := newTestContext(http.MethodPost, "/api/bookings", body)

    assert.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    resp := decodeBody(t, rec)
    assert.Equal(t, []interface{}{"stallInfo.stallId"}, resp["required"])
}

func TestCreateStallBookingConflict(t *testing.T) {
    store := &fakeBookingStore{
        stallConfirmedFn: func(_ context.Context, stallID string) (bool, error) {
            return stallID == "A1", nil
        },
    }
    h := NewBookingHandler(store, &fakePublisher{})
    body := `{
        "venue": "Vendor Stalls",
        "eventType": "vendor stall rental",
        "eventDate": "2025-03-10",
        "guests": 1,
        "customer": {"name": "V", "email": "v@example.com", "phone": "071"},
        "stallInfo": {"stallId": "A1"}
    }`
    c, rec := newTestContext(http.MethodPost, "/api/bookings", body)

    assert.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    resp := decodeBody(t, rec)
    assert.Equal(t, "A1", resp["bookedStall"])
}

func TestCreateStallBookingResolvesBlock(t *testing.T) {
    var saved *model.Booking
    store := &fakeBookingStore{
        stallConfirmedFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
        createFn: func(_ context.Context, b *model.Booking) error {
            saved = b
            return nil
        },
    }
    h := NewBookingHandler(store, &fakePublisher{})
    body := `{
        "venue": "Vendor Stalls",
        "eventType": "vendor stall rental",
        "eventDate": "2025-03-10",
        "guests": 1,
        "customer": {"name": "V", "email": "v@example.com", "phone": "071"},
        "stallInfo": {"stallId": "B7"}
    }`
    c, rec := newTestContext(http.MethodPost, "/api/bookings", body)

    assert.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Equal(t, "B", saved.StallInfo.Block)
    assert.Equal(t, 7, saved.StallInfo.StallNumber)
    assert.Equal(t, "Block B", saved.StallInfo.BlockName)
    assert.Equal(t, int64(30000), saved.TotalAmount)
}

func TestAdminBlockForcesConfirmedZeroAmount(t *testing.T) {
    var saved *model.Booking
    store := &fakeBookingStore{
        createFn: func(_ context.Context, b *model.Booking) error { saved = b; return nil },
    }
    h := NewBookingHandler(store, &fakePublisher{})
    body := `{
        "venue": "Open Air Arena",
        "eventType": "other",
        "eventDate": "2025-05-01",
        "customer": {"name": "Admin", "email": "a@example.com", "phone": "071"}
    }`
    c, rec := newTestContext(http.MethodPost, "/api/bookings/admin-block", body)

    assert.NoError(t, h.AdminBlock(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Equal(t, model.StatusConfirmed, saved.Status)
    assert.Equal(t, int64(0), saved.TotalAmount)
    assert.Equal(t, 1, saved.Duration)
    assert.Equal(t, 1, saved.Guests)
    assert.Equal(t, "Admin blocked date", saved.Notes)
}

func TestUpdateStatusPublishesExactlyOneEvent(t *testing.T) {
    booking := &model.Booking{ID: 9, Venue: model.VenueArena, Status: model.StatusConfirmed,
        Customer: model.Customer{Name: "N", Email: "n@example.com", Phone: "071"}}
    store := &fakeBookingStore{
        updateStatusFn: func(_ context.Context, id uint64, status string) (*model.Booking, error) {
            booking.Status = status
            return booking, nil
        },
    }
    pub := &fakePublisher{}
    h := NewBookingHandler(store, pub)
    c, rec := newTestContext(http.MethodPatch, "/api/bookings/9/status", `{"status": "confirmed"}`)
    c.SetParamNames("id")
    c.SetParamValues("9")

    assert.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Len(t, pub.events, 1)
    assert.Equal(t, queue.EventBookingConfirmed, pub.events[0].Type)
}

func TestUpdateStatusPersistsWhenPublisherFails(t *testing.T) {
    statusWritten := ""
    store := &fakeBookingStore{
        updateStatusFn: func(_ context.Context, id uint64, status string) (*model.Booking, error) {
            statusWritten = status
            return &model.Booking{ID: id, Status: status}, nil
        },
    }
    h := NewBookingHandler(store, &fakePublisher{err: errors.New("broker down")})
    c, rec := newTestContext(http.MethodPatch, "/api/bookings/9/status", `{"status": "confirmed"}`)
    c.SetParamNames("id")
    c.SetParamValues("9")

    assert.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, model.StatusConfirmed, statusWritten)
}

func TestUpdateStatusCancelCarriesReason(t *testing.T) {
    store := &fakeBookingStore{
        updateStatusFn: func(_ context.Context, id uint64, status string) (*model.Booking, error) {
            return &model.Booking{ID: id, Status: status}, nil
        },
    }
    pub := &fakePublisher{}
    h := NewBookingHandler(store, pub)
    c, rec := newTestContext(http.MethodPatch, "/api/bookings/9/status",
        `{"status": "cancelled", "rejectionReason": "double booking"}`)
    c.SetParamNames("id")
    c.SetParamValues("9")

    assert.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Len(t, pub.events, 1)
    assert.Equal(t, queue.EventBookingCancelled, pub.events[0].Type)
    assert.Equal(t, "double booking", pub.events[0].RejectionReason)
}

func TestUpdateStatusCompletedIsSilent(t *testing.T) {
    store := &fakeBookingStore{
        updateStatusFn: func(_ context.Context, id uint64, status string) (*model.Booking, error) {
            return &model.Booking{ID: id, Status: status}, nil
        },
    }
    pub := &fakePublisher{}
    h := NewBookingHandler(store, pub)
    c, rec := newTestContext(http.MethodPatch, "/api/bookings/9/status", `{"status": "completed"}`)
    c.SetParamNames("id")
    c.SetParamValues("9")

    assert.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, pub.events)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
    h := NewBookingHandler(&fakeBookingStore{}, &fakePublisher{})
    c, rec := newTestContext(http.MethodPatch, "/api/bookings/9/status", `{"status": "approved"}`)
    c.SetParamNames("id")
    c.SetParamValues("9")

    assert.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusNotFound(t *testing.T) {
    store := &fakeBookingStore{
        updateStatusFn: func(_ context.Context, _ uint64, _ string) (*model.Booking, error) {
            return nil, repository.ErrBookingNotFound
        },
    }
    h := NewBookingHandler(store, &fakePublisher{})
    c, rec := newTestContext(http.MethodPatch, "/api/bookings/999/status", `{"status": "confirmed"}`)
    c.SetParamNames("id")
    c.SetParamValues("999")

    assert.NoError(t, h.UpdateStatus(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRecomputesTotal(t *testing.T) {
    existing := &model.Booking{
        ID:        3,
        Venue:     model.VenueOpenArea,
        EventType: "fairs",
        Duration:  1,
        Customer:  model.Customer{Name: "N", Email: "n@example.com", Phone: "071"},
        Guests:    10,
    }
    var saved *model.Booking
    store := &fakeBookingStore{
        getByIDFn: func(_ context.Context, _ uint64) (*model.Booking, error) { return existing, nil },
        updateFn: func(_ context.Context, b *model.Booking) (*model.Booking, error) {
            saved = b
            return b, nil
        },
    }
    h := NewBookingHandler(store, &fakePublisher{})
    c, rec := newTestContext(http.MethodPut, "/api/bookings/3",
        `{"venue": "Open Air Arena", "duration": 2, "totalAmount": 5}`)
    c.SetParamNames("id")
    c.SetParamValues("3")

    assert.NoError(t, h.Update(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, int64(2500000), saved.TotalAmount)
}

func TestDeleteBookingNotFound(t *testing.T) {
    store := &fakeBookingStore{
        deleteFn: func(_ context.Context, _ uint64) error { return repository.ErrBookingNotFound },
    }
    h := NewBookingHandler(store, &fakePublisher{})
    c, rec := newTestContext(http.MethodDelete, "/api/bookings/5", "")
    c.SetParamNames("id")
    c.SetParamValues("5")

    assert.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBookingsPaginates(t *testing.T) {
    store := &fakeBookingStore{
        listFn: func(_ context.Context, f repository.ListFilter) ([]model.Booking, int, error) {
            assert.Equal(t, "pending", f.Status)
            assert.True(t, f.ExcludeVendorStalls)
            return []model.Booking{{ID: 1}, {ID: 2}}, 23, nil
        },
    }
    h := NewBookingHandler(store, &fakePublisher{})
    c, rec := newTestContext(http.MethodGet,
        "/api/bookings?status=pending&excludeVendorStalls=true&page=2&limit=10", "")

    assert.NoError(t, h.List(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, float64(3), body["totalPages"])
    assert.Equal(t, float64(2), body["currentPage"])
    assert.Equal(t, float64(23), body["total"])
}
