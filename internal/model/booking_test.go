package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestPriceTable(t *testing.T) {
    cases := []struct {
        venue    Venue
        duration int
        want     int64
    }{
        {VenueArena, 1, 1250000},
        {VenueArena, 3, 3750000},
        {VenueOpenArea, 1, 150000},
        {VenueOpenArea, 5, 750000},
        {VenueVendorStalls, 1, 30000},
        {VenueVendorStalls, 12, 30000}, // flat, duration ignored
        {VenueKidsPark, 4, 0},
        {Venue("Parking Lot"), 2, 0}, // unknown venues price to zero
    }
    for _, tc := range cases {
        assert.Equal(t, tc.want, Price(tc.venue, tc.duration),
            "venue %q duration %d", tc.venue, tc.duration)
    }
}

func TestPriceTreatsZeroDurationAsOneDay(t *testing.T) {
    assert.Equal(t, int64(1250000), Price(VenueArena, 0))
    assert.Equal(t, int64(150000), Price(VenueOpenArea, -3))
}

func TestVenueValidAndKind(t *testing.T) {
    assert.True(t, VenueArena.Valid())
    assert.True(t, VenueVendorStalls.IsStallPool())
    assert.False(t, VenueArena.IsStallPool())
    assert.False(t, Venue("Parking Lot").Valid())
}

func TestStallBlocksSumToTotal(t *testing.T) {
    sum := 0
    for _, b := range StallBlocks {
        sum += b.Count
    }
    assert.Equal(t, TotalStalls, sum)
}

func mustDate(t *testing.T, s string) Date {
    t.Helper()
    d, err := ParseDate(s)
    assert.NoError(t, err)
    return d
}

func TestEndDate(t *testing.T) {
    b := Booking{EventDate: mustDate(t, "2025-03-10"), Duration: 2}
    assert.Equal(t, "2025-03-11", b.EndDate().String())

    b.Duration = 0 // defensive: durations below one count as one day
    assert.Equal(t, "2025-03-10", b.EndDate().String())
}

func TestOverlaps(t *testing.T) {
    b := Booking{
        Venue:     VenueArena,
        EventDate: mustDate(t, "2025-03-10"),
        Duration:  2, // occupies 10th and 11th
    }
    assert.True(t, b.Overlaps(mustDate(t, "2025-03-11"), mustDate(t, "2025-03-11")))
    assert.True(t, b.Overlaps(mustDate(t, "2025-03-09"), mustDate(t, "2025-03-10")))
    assert.True(t, b.Overlaps(mustDate(t, "2025-03-01"), mustDate(t, "2025-03-31")))
    assert.False(t, b.Overlaps(mustDate(t, "2025-03-12"), mustDate(t, "2025-03-13")))
    assert.False(t, b.Overlaps(mustDate(t, "2025-03-08"), mustDate(t, "2025-03-09")))
}

func TestStallBookingsNeverOverlapByDate(t *testing.T) {
    b := Booking{
        Venue:     VenueVendorStalls,
        EventDate: mustDate(t, "2025-03-10"),
        Duration:  30,
    }
    assert.False(t, b.Overlaps(mustDate(t, "2025-03-10"), mustDate(t, "2025-03-10")))
}

func TestValidStatusAndEventType(t *testing.T) {
    assert.True(t, ValidStatus(StatusPending))
    assert.True(t, ValidStatus(StatusCompleted))
    assert.False(t, ValidStatus("approved"))

    assert.True(t, ValidEventType("wedding"))
    assert.True(t, ValidEventType("vendor stall rental"))
    assert.False(t, ValidEventType("rave"))
}
