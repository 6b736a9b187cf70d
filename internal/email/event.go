package email

// Event types carried in BookingEvent.Type.
const (
    EventBookingCreated   = "booking.created"
    EventBookingConfirmed = "booking.confirmed"
    EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking write commits. It carries
// enough to render every notification email without querying the
// primary database.
type BookingEvent struct {
    Type            string `json:"type"`
    BookingID       uint64 `json:"booking_id"`
    Venue           string `json:"venue"`
    EventType       string `json:"event_type"`
    EventDate       string `json:"event_date"` // YYYY-MM-DD
    Duration        int    `json:"duration"`
    CustomerName    string `json:"customer_name"`
    CustomerEmail   string `json:"customer_email"`
    CustomerPhone   string `json:"customer_phone"`
    Guests          int    `json:"guests"`
    TotalAmount     int64  `json:"total_amount"`
    StallID         string `json:"stall_id,omitempty"`
    RejectionReason string `json:"rejection_reason,omitempty"`
    OccurredAt      string `json:"occurred_at"`
}
