package model

import (
    "strings"
    "time"
)

// Booking status lifecycle. New requests start pending; admins move them
// to confirmed or cancelled (both trigger customer email), and confirmed
// bookings are marked completed once the event has passed. Completed and
// cancelled bookings never participate in conflict checks.
const (
    StatusPending   = "pending"
    StatusConfirmed = "confirmed"
    StatusCancelled = "cancelled"
    StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the four booking statuses.
func ValidStatus(s string) bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
        return true
    }
    return false
}

// EventTypes is the closed list of accepted event categories. Stall
// rentals use "vendor stall rental".
var EventTypes = []string{
    "musical shows",
    "accoustic concerts",
    "wedding",
    "corporate",
    "birthday",
    "anniversary",
    "classes",
    "political gatherings",
    "exhibitions",
    "fairs",
    "vendor stall rental",
    "other",
}

// ValidEventType reports whether t is an accepted event category.
func ValidEventType(t string) bool {
    for _, e := range EventTypes {
        if e == t {
            return true
        }
    }
    return false
}

// Bounds from the booking schema.
const (
    MinDuration            = 1
    MaxDuration            = 30
    MaxSpecialRequirements = 500
    MaxNotes               = 1000
)

// TotalStalls is the fixed size of the vendor-stall pool across all blocks.
const TotalStalls = 100

// StallBlock describes one block of the vendor-stall area. Stalls are
// identified as "{Block}{n}" with n 1-indexed within the block.
type StallBlock struct {
    Block string // single letter A..F
    Name  string // display name, e.g. "Block A"
    Count int    // stalls in the block
}

// StallBlocks is the fixed stall topology: 100 stalls across six blocks.
var StallBlocks = []StallBlock{
    {Block: "A", Name: "Block A", Count: 16},
    {Block: "B", Name: "Block B", Count: 24},
    {Block: "C", Name: "Block C", Count: 20},
    {Block: "D", Name: "Block D", Count: 16},
    {Block: "E", Name: "Block E", Count: 12},
    {Block: "F", Name: "Block F", Count: 12},
}

// Customer holds the contact details captured with every booking. All
// three fields are required; email is stored lower-cased.
type Customer struct {
    Name  string `json:"name"`
    Email string `json:"email"`
    Phone string `json:"phone"`
}

// Complete reports whether name, email and phone are all present.
func (c Customer) Complete() bool {
    return strings.TrimSpace(c.Name) != "" &&
        strings.TrimSpace(c.Email) != "" &&
        strings.TrimSpace(c.Phone) != ""
}

// StallInfo identifies the specific stall a vendor-stall booking rents.
// Required when the venue is the stall pool, absent otherwise.
type StallInfo struct {
    StallID     string `json:"stallId"`     // e.g. "B7"
    Block       string `json:"block"`       // A..F
    StallNumber int    `json:"stallNumber"` // 1-indexed within the block
    BlockName   string `json:"blockName"`   // e.g. "Block B"
}

// Booking is one reservation or stall rental as stored in the bookings
// table. For daily venues the booking occupies the inclusive day range
// [EventDate, EventDate+Duration-1]; for stall rentals EventDate is only
// the rental start and the stall identity carries the exclusivity.
//
// Fields:
//  ID                  – primary key identifier.
//  Venue               – which space is booked.
//  EventType           – category from EventTypes.
//  EventDate           – start date (civil day, no time component).
//  Duration            – length in days, 1..30. Ignored for stalls.
//  Customer            – contact details.
//  Guests              – expected head count, >= 1.
//  TotalAmount         – server-computed price (see Price).
//  Status              – lifecycle state.
//  SpecialRequirements – free text, <= 500 chars.
//  Notes               – free text, <= 1000 chars.
//  StallInfo           – stall identity, stall bookings only.
//  CreatedAt/UpdatedAt – timestamps; UpdatedAt refreshed on every save.
type Booking struct {
    ID                  uint64     `json:"id"`
    Venue               Venue      `json:"venue"`
    EventType           string     `json:"eventType"`
    EventDate           Date       `json:"eventDate"`
    Duration            int        `json:"duration"`
    Customer            Customer   `json:"customer"`
    Guests              int        `json:"guests"`
    TotalAmount         int64      `json:"totalAmount"`
    Status              string     `json:"status"`
    SpecialRequirements string     `json:"specialRequirements,omitempty"`
    Notes               string     `json:"notes,omitempty"`
    StallInfo           *StallInfo `json:"stallInfo,omitempty"`
    CreatedAt           time.Time  `json:"createdAt"`
    UpdatedAt           time.Time  `json:"updatedAt"`
}

// EndDate returns the last civil day the booking occupies. Duration
// values below one count as a single day.
func (b *Booking) EndDate() Date {
    d := b.Duration
    if d < 1 {
        d = 1
    }
    return b.EventDate.AddDays(d - 1)
}

// Overlaps reports whether the booking's day range intersects the
// inclusive range [start, end]. Stall bookings never overlap by date.
func (b *Booking) Overlaps(start, end Date) bool {
    if b.Venue.IsStallPool() {
        return false
    }
    // [b.EventDate, b.EndDate()] intersects [start, end] unless one range
    // ends strictly before the other starts.
    return !b.EndDate().Before(start) && !b.EventDate.After(end)
}
