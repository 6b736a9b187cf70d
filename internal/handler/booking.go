package handler // handler package exposes HTTP endpoint implementations

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4" // echo provides HTTP context and JSON helpers

    "github.com/sahasuyana/booking-api/internal/model"
    "github.com/sahasuyana/booking-api/internal/queue"
    "github.com/sahasuyana/booking-api/internal/repository"
    "github.com/sahasuyana/booking-api/internal/service"
)

// BookingStore is the persistence surface the booking endpoints need.
// The booking repository satisfies it; tests plug in function-field
// fakes.
type BookingStore interface {
    Create(ctx context.Context, b *model.Booking) error
    GetByID(ctx context.Context, id uint64) (*model.Booking, error)
    List(ctx context.Context, f repository.ListFilter) ([]model.Booking, int, error)
    UpdateStatus(ctx context.Context, id uint64, status string) (*model.Booking, error)
    Update(ctx context.Context, b *model.Booking) (*model.Booking, error)
    Delete(ctx context.Context, id uint64) error
    StallConfirmed(ctx context.Context, stallID string) (bool, error)
    Stats(ctx context.Context) (*repository.Stats, error)
}

// BookingHandler implements the booking lifecycle endpoints: create,
// list, read, status transitions, full update, delete and the stats
// overview. Validation and pricing happen here; persistence lives in
// the repository. Every event email goes through the publisher and is
// best-effort: publish errors are logged by the publisher and ignored
// here, so mail trouble can never fail a booking write.
type BookingHandler struct {
    Repo      BookingStore
    Publisher service.EventPublisher
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(repo BookingStore, pub service.EventPublisher) *BookingHandler {
    return &BookingHandler{Repo: repo, Publisher: pub}
}

// reqCtx derives a bounded context for store calls from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// parseID reads the :id route parameter as an unsigned integer.
func parseID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// bookingEvent maps a stored booking to the message the notification
// consumer understands.
func bookingEvent(typ string, b *model.Booking, reason string) *queue.BookingEvent {
    ev := &queue.BookingEvent{
        Type:            typ,
        BookingID:       b.ID,
        Venue:           string(b.Venue),
        EventType:       b.EventType,
        EventDate:       b.EventDate.String(),
        Duration:        b.Duration,
        CustomerName:    b.Customer.Name,
        CustomerEmail:   b.Customer.Email,
        CustomerPhone:   b.Customer.Phone,
        Guests:          b.Guests,
        TotalAmount:     b.TotalAmount,
        RejectionReason: reason,
        OccurredAt:      time.Now().UTC().Format(time.RFC3339),
    }
    if b.StallInfo != nil {
        ev.StallID = b.StallInfo.StallID
    }
    return ev
}

// createBookingRequest mirrors the public booking form. TotalAmount is
// accepted for wire compatibility and deliberately ignored: the server
// always prices the booking itself.
type createBookingRequest struct {
    Venue               string           `json:"venue"`
    EventType           string           `json:"eventType"`
    EventDate           string           `json:"eventDate"`
    Duration            int              `json:"duration"`
    Customer            model.Customer   `json:"customer"`
    Guests              int              `json:"guests"`
    TotalAmount         int64            `json:"totalAmount"`
    SpecialRequirements string           `json:"specialRequirements"`
    Notes               string           `json:"notes"`
    StallInfo           *model.StallInfo `json:"stallInfo"`
}

// missingFields returns the names of required fields absent from the
// request. Duration is only required for venues booked by the day.
func (r *createBookingRequest) missingFields() []string {
    missing := []string{}
    if r.Venue == "" {
        missing = append(missing, "venue")
    }
    if r.EventType == "" {
        missing = append(missing, "eventType")
    }
    if r.EventDate == "" {
        missing = append(missing, "eventDate")
    }
    if r.Customer.Name == "" {
        missing = append(missing, "customer.name")
    }
    if r.Customer.Email == "" {
        missing = append(missing, "customer.email")
    }
    if r.Customer.Phone == "" {
        missing = append(missing, "customer.phone")
    }
    if r.Guests < 1 {
        missing = append(missing, "guests")
    }
    if r.Duration < 1 && !model.Venue(r.Venue).IsStallPool() {
        missing = append(missing, "duration")
    }
    return missing
}

// Create handles POST /api/bookings. New requests start pending and the
// customer receipt plus admin alert ride on a booking.created event.
func (h *BookingHandler) Create(c echo.Context) error {
    var req createBookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    if missing := req.missingFields(); len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": missing,
        })
    }
    venue := model.Venue(req.Venue)
    if !venue.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown venue"})
    }
    if !model.ValidEventType(req.EventType) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown event type"})
    }
    eventDate, err := model.ParseDate(req.EventDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid event date, expected YYYY-MM-DD"})
    }
    duration := req.Duration
    if duration < 1 {
        duration = 1
    }
    if duration > model.MaxDuration {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Duration exceeds the maximum of 30 days"})
    }
    if len(req.SpecialRequirements) > model.MaxSpecialRequirements {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Special requirements text is too long"})
    }
    if len(req.Notes) > model.MaxNotes {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Notes text is too long"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    var stall *model.StallInfo
    if venue.IsStallPool() {
        if req.StallInfo == nil || req.StallInfo.StallID == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "message":  "Missing required fields",
                "required": []string{"stallInfo.stallId"},
            })
        }
        stall, err = resolveStall(req.StallInfo.StallID)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown stall id"})
        }
        // Advisory re-check before the write; the unique index on
        // confirmed stalls is the real guarantee behind it.
        taken, err := h.Repo.StallConfirmed(ctx, stall.StallID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create booking"})
        }
        if taken {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "message":     "Stall " + stall.StallID + " is already booked",
                "bookedStall": stall.StallID,
            })
        }
    }

    b := &model.Booking{
        Venue:               venue,
        EventType:           req.EventType,
        EventDate:           eventDate,
        Duration:            duration,
        Customer:            req.Customer,
        Guests:              req.Guests,
        TotalAmount:         model.Price(venue, duration),
        Status:              model.StatusPending,
        SpecialRequirements: req.SpecialRequirements,
        Notes:               req.Notes,
        StallInfo:           stall,
    }
    if err := h.Repo.Create(ctx, b); err != nil {
        if errors.Is(err, repository.ErrStallTaken) {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "message":     "Stall " + stall.StallID + " is already booked",
                "bookedStall": stall.StallID,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create booking"})
    }

    // Best-effort: the publisher logs its own failures.
    _ = h.Publisher.Publish(ctx, bookingEvent(queue.EventBookingCreated, b, ""))

    return c.JSON(http.StatusCreated, echo.Map{
        "message": "Booking request submitted successfully",
        "booking": b,
    })
}

// adminBlockRequest is the payload for blocking a date without a paying
// customer.
type adminBlockRequest struct {
    Venue     string         `json:"venue"`
    EventType string         `json:"eventType"`
    EventDate string         `json:"eventDate"`
    Duration  int            `json:"duration"`
    Customer  model.Customer `json:"customer"`
    Guests    int            `json:"guests"`
    Notes     string         `json:"notes"`
}

// AdminBlock handles POST /api/bookings/admin-block. The booking is
// created directly as confirmed with a zero amount regardless of venue.
// No customer email is sent: blocks are internal reservations.
func (h *BookingHandler) AdminBlock(c echo.Context) error {
    var req adminBlockRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    missing := []string{}
    if req.Venue == "" {
        missing = append(missing, "venue")
    }
    if req.EventType == "" {
        missing = append(missing, "eventType")
    }
    if req.EventDate == "" {
        missing = append(missing, "eventDate")
    }
    if !req.Customer.Complete() {
        missing = append(missing, "customer")
    }
    if len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": missing,
        })
    }
    eventDate, err := model.ParseDate(req.EventDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid event date, expected YYYY-MM-DD"})
    }
    duration := req.Duration
    if duration < 1 {
        duration = 1
    }
    guests := req.Guests
    if guests < 1 {
        guests = 1
    }
    notes := req.Notes
    if notes == "" {
        notes = "Admin blocked date"
    }

    b := &model.Booking{
        Venue:       model.Venue(req.Venue),
        EventType:   req.EventType,
        EventDate:   eventDate,
        Duration:    duration,
        Customer:    req.Customer,
        Guests:      guests,
        TotalAmount: 0,
        Status:      model.StatusConfirmed,
        Notes:       notes,
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Repo.Create(ctx, b); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to block date"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "Date blocked successfully",
        "booking": b,
    })
}

// List handles GET /api/bookings with status, venue, excludeVendorStalls,
// page and limit query parameters.
func (h *BookingHandler) List(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    f := repository.ListFilter{
        Status:              c.QueryParam("status"),
        Venue:               model.Venue(c.QueryParam("venue")),
        ExcludeVendorStalls: c.QueryParam("excludeVendorStalls") == "true",
        Page:                page,
        Limit:               limit,
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    bookings, total, err := h.Repo.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to list bookings"})
    }
    if f.Limit < 1 {
        f.Limit = 10
    }
    if f.Page < 1 {
        f.Page = 1
    }
    return c.JSON(http.StatusOK, echo.Map{
        "bookings":    bookings,
        "totalPages":  (total + f.Limit - 1) / f.Limit,
        "currentPage": f.Page,
        "total":       total,
    })
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid booking id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch booking"})
    }
    return c.JSON(http.StatusOK, b)
}

// updateStatusRequest carries a status transition plus the optional
// reason forwarded to the customer when the transition is a cancel.
type updateStatusRequest struct {
    Status          string `json:"status"`
    RejectionReason string `json:"rejectionReason"`
}

// UpdateStatus handles PATCH /api/bookings/:id/status. Transitions are
// deliberately unguarded: admins may reopen completed bookings. Moving
// to confirmed or cancelled queues a customer email.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid booking id"})
    }
    var req updateStatusRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    if !model.ValidStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status value"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Repo.UpdateStatus(ctx, id, req.Status)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
        case errors.Is(err, repository.ErrStallTaken):
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Stall is already booked by a confirmed rental"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update booking status"})
    }

    switch req.Status {
    case model.StatusConfirmed:
        _ = h.Publisher.Publish(ctx, bookingEvent(queue.EventBookingConfirmed, b, ""))
    case model.StatusCancelled:
        _ = h.Publisher.Publish(ctx, bookingEvent(queue.EventBookingCancelled, b, req.RejectionReason))
    }

    return c.JSON(http.StatusOK, echo.Map{
        "message": "Booking status updated successfully",
        "booking": b,
    })
}

// Update handles PUT /api/bookings/:id. The total amount is always
// recomputed from the new venue and duration; a client-supplied total is
// discarded. Status and stall identity are not updatable on this path.
func (h *BookingHandler) Update(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid booking id"})
    }
    var req createBookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch booking"})
    }

    if req.Venue != "" {
        v := model.Venue(req.Venue)
        if !v.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown venue"})
        }
        b.Venue = v
    }
    if req.EventType != "" {
        if !model.ValidEventType(req.EventType) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown event type"})
        }
        b.EventType = req.EventType
    }
    if req.EventDate != "" {
        d, err := model.ParseDate(req.EventDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid event date, expected YYYY-MM-DD"})
        }
        b.EventDate = d
    }
    if req.Duration > 0 {
        if req.Duration > model.MaxDuration {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Duration exceeds the maximum of 30 days"})
        }
        b.Duration = req.Duration
    }
    if req.Customer.Name != "" {
        b.Customer.Name = req.Customer.Name
    }
    if req.Customer.Email != "" {
        b.Customer.Email = req.Customer.Email
    }
    if req.Customer.Phone != "" {
        b.Customer.Phone = req.Customer.Phone
    }
    if req.Guests > 0 {
        b.Guests = req.Guests
    }
    b.SpecialRequirements = req.SpecialRequirements
    b.Notes = req.Notes
    b.TotalAmount = model.Price(b.Venue, b.Duration)

    saved, err := h.Repo.Update(ctx, b)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Booking updated successfully",
        "booking": saved,
    })
}

// Delete handles DELETE /api/bookings/:id. Hard delete, no tombstone.
func (h *BookingHandler) Delete(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid booking id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Repo.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted successfully"})
}

// Stats handles GET /api/bookings/stats/overview.
func (h *BookingHandler) Stats(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    s, err := h.Repo.Stats(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to compute stats"})
    }
    return c.JSON(http.StatusOK, s)
}

// resolveStall validates a stall id like "B7" against the fixed block
// topology and returns the fully populated stall identity.
func resolveStall(stallID string) (*model.StallInfo, error) {
    if len(stallID) < 2 {
        return nil, errors.New("stall id too short")
    }
    block := stallID[:1]
    n, err := strconv.Atoi(stallID[1:])
    if err != nil || n < 1 {
        return nil, errors.New("invalid stall number")
    }
    for _, sb := range model.StallBlocks {
        if sb.Block == block {
            if n > sb.Count {
                return nil, errors.New("stall number out of range")
            }
            return &model.StallInfo{
                StallID:     stallID,
                Block:       block,
                StallNumber: n,
                BlockName:   sb.Name,
            }, nil
        }
    }
    return nil, errors.New("unknown block")
}
