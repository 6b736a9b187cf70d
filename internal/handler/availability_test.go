package handler

import (
    "context"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/sahasuyana/booking-api/internal/availability"
    "github.com/sahasuyana/booking-api/internal/model"
)

// memorySource feeds the availability engine from a slice.
type memorySource struct {
    bookings []model.Booking
}

func (m *memorySource) ConfirmedByVenue(_ context.Context, venue model.Venue) ([]model.Booking, error) {
    out := []model.Booking{}
    for _, b := range m.bookings {
        if b.Venue == venue && b.Status == model.StatusConfirmed {
            out = append(out, b)
        }
    }
    return out, nil
}

func (m *memorySource) CountConfirmedStalls(_ context.Context) (int, error) {
    n := 0
    for _, b := range m.bookings {
        if b.Venue == model.VenueVendorStalls && b.Status == model.StatusConfirmed {
            n++
        }
    }
    return n, nil
}

func (m *memorySource) ConfirmedStallBookings(_ context.Context) ([]model.Booking, error) {
    out := []model.Booking{}
    for _, b := range m.bookings {
        if b.Venue == model.VenueVendorStalls && b.Status == model.StatusConfirmed && b.StallInfo != nil {
            out = append(out, b)
        }
    }
    return out, nil
}

type fakeStallReader struct {
    ids []string
}

func (f *fakeStallReader) BookedStallIDs(_ context.Context) ([]string, error) {
    return f.ids, nil
}

func mustParse(t *testing.T, s string) model.Date {
    t.Helper()
    d, err := model.ParseDate(s)
    assert.NoError(t, err)
    return d
}

func TestVenueAvailabilityEndpoint(t *testing.T) {
    src := &memorySource{bookings: []model.Booking{{
        Venue:     model.VenueArena,
        EventDate: mustParse(t, "2025-03-10"),
        Duration:  2,
        Status:    model.StatusConfirmed,
        Customer:  model.Customer{Name: "N"},
    }}}
    h := NewAvailabilityHandler(availability.NewEngine(src), &fakeStallReader{})

    c, rec := newTestContext(http.MethodGet,
        "/api/bookings/availability/Open%20Air%20Arena?startDate=2025-03-11", "")
    c.SetParamNames("venue")
    c.SetParamValues("Open Air Arena")

    assert.NoError(t, h.VenueAvailability(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, false, body["available"])
    assert.Len(t, body["conflicts"], 1)
}

func TestVenueAvailabilityRequiresStartDate(t *testing.T) {
    h := NewAvailabilityHandler(availability.NewEngine(&memorySource{}), &fakeStallReader{})
    c, rec := newTestContext(http.MethodGet, "/api/bookings/availability/Open%20Area", "")
    c.SetParamNames("venue")
    c.SetParamValues("Open Area")

    assert.NoError(t, h.VenueAvailability(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, []interface{}{"startDate"}, decodeBody(t, rec)["required"])
}

func TestVenueAvailabilityStallPoolShape(t *testing.T) {
    h := NewAvailabilityHandler(availability.NewEngine(&memorySource{}), &fakeStallReader{})
    c, rec := newTestContext(http.MethodGet,
        "/api/bookings/availability/Vendor%20Stalls?startDate=2025-03-11", "")
    c.SetParamNames("venue")
    c.SetParamValues("Vendor Stalls")

    assert.NoError(t, h.VenueAvailability(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, true, body["available"])
    assert.Equal(t, float64(100), body["totalStalls"])
    assert.Equal(t, float64(100), body["availableStalls"])
}

func TestUnavailableDatesEndpoint(t *testing.T) {
    src := &memorySource{bookings: []model.Booking{{
        Venue:     model.VenueOpenArea,
        EventDate: mustParse(t, "2025-03-05"),
        Duration:  3,
        Status:    model.StatusConfirmed,
    }}}
    h := NewAvailabilityHandler(availability.NewEngine(src), &fakeStallReader{})
    c, rec := newTestContext(http.MethodGet,
        "/api/bookings/unavailable-dates/Open%20Area?month=3&year=2025", "")
    c.SetParamNames("venue")
    c.SetParamValues("Open Area")

    assert.NoError(t, h.UnavailableDates(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    body := decodeBody(t, rec)
    assert.Equal(t, []interface{}{"2025-03-05", "2025-03-06", "2025-03-07"}, body["unavailableDates"])
}

func TestUnavailableDatesRejectsBadMonth(t *testing.T) {
    h := NewAvailabilityHandler(availability.NewEngine(&memorySource{}), &fakeStallReader{})
    c, rec := newTestContext(http.MethodGet,
        "/api/bookings/unavailable-dates/Open%20Area?month=13&year=2025", "")
    c.SetParamNames("venue")
    c.SetParamValues("Open Area")

    assert.NoError(t, h.UnavailableDates(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookedStallsEndpoint(t *testing.T) {
    h := NewAvailabilityHandler(availability.NewEngine(&memorySource{}),
        &fakeStallReader{ids: []string{"A1", "B7"}})
    c, rec := newTestContext(http.MethodGet, "/api/bookings/vendor-stalls/booked", "")

    assert.NoError(t, h.BookedStalls(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, []interface{}{"A1", "B7"}, decodeBody(t, rec)["bookedStalls"])
}
