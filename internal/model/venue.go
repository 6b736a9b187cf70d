package model

// Venue names a bookable space at the park. The four known venues behave
// very differently: the arena and the open area are booked by calendar
// day, the vendor stalls are a pool of 100 fixed-identity stalls rented
// long-term, and the kids park is free to book. Rather than string
// comparing the venue name at every call site, each venue maps to a
// VenueInfo whose Kind the pricing and availability code dispatches on.
type Venue string

const (
    VenueArena        Venue = "Open Air Arena"
    VenueOpenArea     Venue = "Open Area"
    VenueVendorStalls Venue = "Vendor Stalls"
    VenueKidsPark     Venue = "Kids Park"
)

// VenueKind classifies how a venue is occupied.
type VenueKind int

const (
    // KindDaily venues occupy an inclusive range of calendar days per
    // booking; two confirmed bookings may never overlap.
    KindDaily VenueKind = iota
    // KindStallPool venues are a fixed pool of individually rented
    // stalls; dates carry no exclusivity meaning at all.
    KindStallPool
    // KindFree venues are bookable at no charge with daily semantics.
    KindFree
)

// VenueInfo describes the booking and pricing behavior of a venue.
//
// Fields:
//  Kind        – occupancy model (daily / stall pool / free).
//  DailyRate   – price per day for daily venues.
//  FlatRate    – one-off price for stall rentals.
//  TotalStalls – pool size for stall-pool venues.
type VenueInfo struct {
    Kind        VenueKind
    DailyRate   int64
    FlatRate    int64
    TotalStalls int
}

// venueTable is the single source of truth for venue behavior and pricing.
var venueTable = map[Venue]VenueInfo{
    VenueArena:        {Kind: KindDaily, DailyRate: 1250000},
    VenueOpenArea:     {Kind: KindDaily, DailyRate: 150000},
    VenueVendorStalls: {Kind: KindStallPool, FlatRate: 30000, TotalStalls: TotalStalls},
    VenueKidsPark:     {Kind: KindFree},
}

// Info returns the VenueInfo for the venue. Unknown venues get the zero
// VenueInfo: daily semantics with a zero rate, so they price to zero and
// never block dates they do not own.
func (v Venue) Info() VenueInfo { return venueTable[v] }

// Valid reports whether the venue is one of the four known venues.
func (v Venue) Valid() bool {
    _, ok := venueTable[v]
    return ok
}

// IsStallPool reports whether the venue is the vendor-stall pool.
func (v Venue) IsStallPool() bool { return v.Info().Kind == KindStallPool }

// Price computes the total amount for a booking of the venue over the
// given duration in days. The amount is always derived here on the
// server; client-supplied totals are never trusted. Duration values
// below one are treated as a single day.
func Price(v Venue, duration int) int64 {
    if duration < 1 {
        duration = 1
    }
    info := v.Info()
    switch info.Kind {
    case KindDaily:
        return info.DailyRate * int64(duration)
    case KindStallPool:
        // Flat monthly rental; duration has no pricing meaning for stalls.
        return info.FlatRate
    default:
        return 0
    }
}
