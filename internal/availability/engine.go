// Package availability answers "is this venue or stall free?" and
// produces the calendar and stall-grid data the booking pages render.
// It is pure read-side logic over the confirmed subset of bookings; all
// date arithmetic happens on civil dates so a day never shifts across a
// timezone boundary.
package availability

import (
    "context"
    "fmt"
    "sort"
    "strconv"
    "time"

    "github.com/sahasuyana/booking-api/internal/model"
)

// BookingSource is the slice of the store the engine needs. The booking
// repository satisfies it; tests use an in-memory fake.
type BookingSource interface {
    // ConfirmedByVenue returns every confirmed booking for the venue.
    ConfirmedByVenue(ctx context.Context, venue model.Venue) ([]model.Booking, error)
    // CountConfirmedStalls returns the number of confirmed stall rentals.
    CountConfirmedStalls(ctx context.Context) (int, error)
    // ConfirmedStallBookings returns every confirmed vendor-stall booking.
    ConfirmedStallBookings(ctx context.Context) ([]model.Booking, error)
}

// Engine implements the availability queries.
type Engine struct {
    source BookingSource
}

// NewEngine returns an Engine reading from the given source.
func NewEngine(source BookingSource) *Engine {
    if source == nil {
        panic("nil BookingSource passed to NewEngine")
    }
    return &Engine{source: source}
}

// ConflictSummary describes one confirmed booking that collides with a
// requested range. Only display fields are exposed.
type ConflictSummary struct {
    ID        uint64     `json:"id"`
    EventDate model.Date `json:"eventDate"`
    Duration  int        `json:"duration"`
    EventType string     `json:"eventType"`
    Customer  string     `json:"customer"`
}

// VenueResult is the outcome of a venue availability check. For the
// stall pool the stall counters are populated instead of conflicts.
type VenueResult struct {
    Available bool
    Conflicts []ConflictSummary
    // Stall-pool counters, meaningful only when IsStallPool is true.
    IsStallPool     bool
    TotalStalls     int
    RentedStalls    int
    AvailableStalls int
}

// VenueAvailability checks whether the venue is free over the inclusive
// range [start, end]. Pass end equal to start for a single-day check.
// Vendor stalls ignore dates entirely: the pool is available while fewer
// than all stalls are rented.
func (e *Engine) VenueAvailability(ctx context.Context, venue model.Venue, start, end model.Date) (*VenueResult, error) {
    if end.IsZero() || end.Before(start) {
        end = start
    }
    info := venue.Info()
    if info.Kind == model.KindStallPool {
        rented, err := e.source.CountConfirmedStalls(ctx)
        if err != nil {
            return nil, err
        }
        free := info.TotalStalls - rented
        return &VenueResult{
            Available:       free > 0,
            IsStallPool:     true,
            TotalStalls:     info.TotalStalls,
            RentedStalls:    rented,
            AvailableStalls: free,
        }, nil
    }
    confirmed, err := e.source.ConfirmedByVenue(ctx, venue)
    if err != nil {
        return nil, err
    }
    res := &VenueResult{Available: true, Conflicts: []ConflictSummary{}}
    for i := range confirmed {
        b := &confirmed[i]
        if b.Overlaps(start, end) {
            res.Available = false
            res.Conflicts = append(res.Conflicts, ConflictSummary{
                ID:        b.ID,
                EventDate: b.EventDate,
                Duration:  b.Duration,
                EventType: b.EventType,
                Customer:  b.Customer.Name,
            })
        }
    }
    return res, nil
}

// UnavailableDates returns the sorted, de-duplicated YYYY-MM-DD dates in
// the given month that confirmed bookings block for the venue. Vendor
// stalls never block calendar dates, so the pool always yields an empty
// list regardless of how many stalls are rented.
func (e *Engine) UnavailableDates(ctx context.Context, venue model.Venue, month time.Month, year int) ([]string, error) {
    if venue.Info().Kind == model.KindStallPool {
        return []string{}, nil
    }
    confirmed, err := e.source.ConfirmedByVenue(ctx, venue)
    if err != nil {
        return nil, err
    }
    seen := make(map[string]bool)
    dates := make([]string, 0)
    for i := range confirmed {
        b := &confirmed[i]
        days := b.Duration
        if days < 1 {
            days = 1
        }
        for off := 0; off < days; off++ {
            d := b.EventDate.AddDays(off)
            if !d.InMonth(month, year) {
                continue
            }
            s := d.String()
            if !seen[s] {
                seen[s] = true
                dates = append(dates, s)
            }
        }
    }
    // Lexicographic order of YYYY-MM-DD is chronological order.
    sort.Strings(dates)
    return dates, nil
}

// Occupancy reports how many of the fixed stall pool are rented. A
// confirmed stall rental counts as rented indefinitely until its status
// moves away from confirmed; there is no date dimension.
type Occupancy struct {
    TotalStalls     int `json:"totalStalls"`
    RentedStalls    int `json:"rentedStalls"`
    AvailableStalls int `json:"availableStalls"`
}

// StallOccupancy computes the current stall pool counters.
func (e *Engine) StallOccupancy(ctx context.Context) (*Occupancy, error) {
    rented, err := e.source.CountConfirmedStalls(ctx)
    if err != nil {
        return nil, err
    }
    return &Occupancy{
        TotalStalls:     model.TotalStalls,
        RentedStalls:    rented,
        AvailableStalls: model.TotalStalls - rented,
    }, nil
}

// StallBookingRef summarizes the booking occupying a stall for the admin
// grid.
type StallBookingRef struct {
    ID            uint64     `json:"id"`
    CustomerName  string     `json:"customerName"`
    CustomerEmail string     `json:"customerEmail"`
    CustomerPhone string     `json:"customerPhone"`
    StartDate     model.Date `json:"startDate"`
    Notes         string     `json:"notes,omitempty"`
    CreatedAt     time.Time  `json:"createdAt"`
}

// Stall is one cell of the stall grid.
type Stall struct {
    StallID     string           `json:"stallId"`
    StallNumber int              `json:"stallNumber"`
    Status      string           `json:"status"` // "available" or "booked"
    Booking     *StallBookingRef `json:"booking"`
}

// Block is one lettered block of the grid.
type Block struct {
    Count  int     `json:"count"`
    Name   string  `json:"name"`
    Stalls []Stall `json:"stalls"`
}

// Layout is the full stall grid plus its summary statistics.
type Layout struct {
    Blocks     map[string]Block `json:"stallBlocks"`
    Statistics LayoutStats      `json:"statistics"`
}

// LayoutStats summarizes the grid.
type LayoutStats struct {
    TotalStalls     int    `json:"totalStalls"`
    BookedStalls    int    `json:"bookedStalls"`
    AvailableStalls int    `json:"availableStalls"`
    OccupancyRate   string `json:"occupancyRate"` // percentage with one decimal
}

// StallLayout builds the fixed A..F grid, marking each stall booked when
// a confirmed booking carries its stall id and attaching a customer
// summary for the admin view.
func (e *Engine) StallLayout(ctx context.Context) (*Layout, error) {
    bookings, err := e.source.ConfirmedStallBookings(ctx)
    if err != nil {
        return nil, err
    }
    blocks := make(map[string]Block, len(model.StallBlocks))
    for _, sb := range model.StallBlocks {
        stalls := make([]Stall, sb.Count)
        for i := range stalls {
            stalls[i] = Stall{
                StallID:     stallID(sb.Block, i+1),
                StallNumber: i + 1,
                Status:      "available",
            }
        }
        blocks[sb.Block] = Block{Count: sb.Count, Name: sb.Name, Stalls: stalls}
    }
    booked := 0
    for i := range bookings {
        b := &bookings[i]
        if b.StallInfo == nil || b.StallInfo.Block == "" || b.StallInfo.StallNumber < 1 {
            continue
        }
        blk, ok := blocks[b.StallInfo.Block]
        if !ok || b.StallInfo.StallNumber > len(blk.Stalls) {
            continue
        }
        blk.Stalls[b.StallInfo.StallNumber-1] = Stall{
            StallID:     b.StallInfo.StallID,
            StallNumber: b.StallInfo.StallNumber,
            Status:      "booked",
            Booking: &StallBookingRef{
                ID:            b.ID,
                CustomerName:  b.Customer.Name,
                CustomerEmail: b.Customer.Email,
                CustomerPhone: b.Customer.Phone,
                StartDate:     b.EventDate,
                Notes:         b.Notes,
                CreatedAt:     b.CreatedAt,
            },
        }
        booked++
    }
    return &Layout{
        Blocks: blocks,
        Statistics: LayoutStats{
            TotalStalls:     model.TotalStalls,
            BookedStalls:    booked,
            AvailableStalls: model.TotalStalls - booked,
            OccupancyRate:   fmt.Sprintf("%.1f", float64(booked)/float64(model.TotalStalls)*100),
        },
    }, nil
}

// stallID joins a block letter and a 1-indexed stall number, e.g. "B7".
func stallID(block string, number int) string {
    return block + strconv.Itoa(number)
}
