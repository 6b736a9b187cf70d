package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/sahasuyana/booking-api/internal/model"
)

// BookingRepo provides CRUD and conflict queries for the bookings table.
// The confirmed_stall_key column shadows stall_id while a stall booking
// is confirmed and is NULL otherwise; its unique index is what makes
// per-stall exclusivity hold even when two requests for the same stall
// race past the advisory availability check.
type BookingRepo struct {
    DB *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// bookingColumns is the select list shared by every query that scans a
// full booking row.
const bookingColumns = `id, venue, event_type, event_date, duration,
       customer_name, customer_email, customer_phone, guests, total_amount,
       status, special_requirements, notes,
       stall_id, stall_block, stall_number, stall_block_name,
       created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

// scanBooking reads one bookings row into a model.Booking. Stall columns
// are nullable; they fold into a StallInfo only when a stall id is set.
func scanBooking(s rowScanner) (*model.Booking, error) {
    var b model.Booking
    var special, notes sql.NullString
    var stallID, stallBlock, stallBlockName sql.NullString
    var stallNumber sql.NullInt64
    err := s.Scan(
        &b.ID, &b.Venue, &b.EventType, &b.EventDate, &b.Duration,
        &b.Customer.Name, &b.Customer.Email, &b.Customer.Phone, &b.Guests, &b.TotalAmount,
        &b.Status, &special, &notes,
        &stallID, &stallBlock, &stallNumber, &stallBlockName,
        &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    b.SpecialRequirements = special.String
    b.Notes = notes.String
    if stallID.Valid && stallID.String != "" {
        b.StallInfo = &model.StallInfo{
            StallID:     stallID.String,
            Block:       stallBlock.String,
            StallNumber: int(stallNumber.Int64),
            BlockName:   stallBlockName.String,
        }
    }
    return &b, nil
}

// stallKey returns the value for confirmed_stall_key: the stall id while
// the booking is a confirmed stall rental, NULL otherwise.
func stallKey(b *model.Booking) interface{} {
    if b.Status == model.StatusConfirmed && b.StallInfo != nil && b.StallInfo.StallID != "" {
        return b.StallInfo.StallID
    }
    return nil
}

// isDuplicateKey reports whether err is a MySQL unique-key violation.
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1062")
}

// Create inserts the booking and populates its ID and timestamps. The
// caller has already computed TotalAmount and chosen the status. A
// duplicate confirmed stall surfaces as ErrStallTaken.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    var stallID, stallBlock, stallBlockName interface{}
    var stallNumber interface{}
    if b.StallInfo != nil {
        stallID = b.StallInfo.StallID
        stallBlock = b.StallInfo.Block
        stallNumber = b.StallInfo.StallNumber
        stallBlockName = b.StallInfo.BlockName
    }
    const q = `INSERT INTO bookings
        (venue, event_type, event_date, duration,
         customer_name, customer_email, customer_phone, guests, total_amount,
         status, special_requirements, notes,
         stall_id, stall_block, stall_number, stall_block_name, confirmed_stall_key)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    res, err := r.DB.ExecContext(ctx, q,
        b.Venue, b.EventType, b.EventDate, b.Duration,
        b.Customer.Name, strings.ToLower(b.Customer.Email), b.Customer.Phone, b.Guests, b.TotalAmount,
        b.Status, b.SpecialRequirements, b.Notes,
        stallID, stallBlock, stallNumber, stallBlockName, stallKey(b),
    )
    if err != nil {
        if isDuplicateKey(err) {
            return ErrStallTaken
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Read back timestamps and normalized fields.
    saved, err := r.GetByID(ctx, b.ID)
    if err != nil {
        return err
    }
    *b = *saved
    return nil
}

// GetByID returns one booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    b, err := scanBooking(r.DB.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrBookingNotFound
    }
    return b, err
}

// ListFilter narrows and pages the booking list. ExcludeVendorStalls
// supports calendar views, which must never show stall rentals as
// date-blocking entries.
type ListFilter struct {
    Status              string
    Venue               model.Venue
    ExcludeVendorStalls bool
    Page                int
    Limit               int
}

// List returns a page of bookings newest-first plus the total count for
// the filter.
func (r *BookingRepo) List(ctx context.Context, f ListFilter) ([]model.Booking, int, error) {
    if f.Page < 1 {
        f.Page = 1
    }
    if f.Limit < 1 {
        f.Limit = 10
    }
    where := "1=1"
    args := []interface{}{}
    if f.Status != "" {
        where += " AND status = ?"
        args = append(args, f.Status)
    }
    if f.ExcludeVendorStalls {
        where += " AND venue <> ?"
        args = append(args, string(model.VenueVendorStalls))
    } else if f.Venue != "" {
        where += " AND venue = ?"
        args = append(args, string(f.Venue))
    }
    var total int
    if err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE `+where, args...).Scan(&total); err != nil {
        return nil, 0, err
    }
    listArgs := append(args, f.Limit, (f.Page-1)*f.Limit)
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE `+where+
            ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, listArgs...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    bookings := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, 0, err
        }
        bookings = append(bookings, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return bookings, total, nil
}

// UpdateStatus sets the booking's status and recomputes
// confirmed_stall_key so the unique index tracks only currently
// confirmed stall rentals. Returns the updated booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Booking, error) {
    const q = `UPDATE bookings SET status = ?,
        confirmed_stall_key = CASE WHEN ? = 'confirmed' AND stall_id IS NOT NULL THEN stall_id ELSE NULL END,
        updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    res, err := r.DB.ExecContext(ctx, q, status, status, id)
    if err != nil {
        if isDuplicateKey(err) {
            return nil, ErrStallTaken
        }
        return nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if n == 0 {
        // MySQL reports zero affected rows for no-op updates too, so
        // distinguish missing rows with a lookup.
        if _, err := r.GetByID(ctx, id); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, id)
}

// Update rewrites the mutable booking fields. TotalAmount has been
// recomputed by the caller from the new venue/duration pair; status and
// stall identity are not touched by this path.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) (*model.Booking, error) {
    const q = `UPDATE bookings SET
        venue = ?, event_type = ?, event_date = ?, duration = ?,
        customer_name = ?, customer_email = ?, customer_phone = ?, guests = ?,
        total_amount = ?, special_requirements = ?, notes = ?,
        updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    res, err := r.DB.ExecContext(ctx, q,
        b.Venue, b.EventType, b.EventDate, b.Duration,
        b.Customer.Name, strings.ToLower(b.Customer.Email), b.Customer.Phone, b.Guests,
        b.TotalAmount, b.SpecialRequirements, b.Notes, b.ID)
    if err != nil {
        return nil, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := r.GetByID(ctx, b.ID); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, b.ID)
}

// Delete removes the booking permanently. There is no tombstone.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrBookingNotFound
    }
    return nil
}

// ConfirmedByVenue returns every confirmed booking for the venue, the
// read-side input of the availability engine.
func (r *BookingRepo) ConfirmedByVenue(ctx context.Context, venue model.Venue) ([]model.Booking, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE venue = ? AND status = ? ORDER BY event_date`,
        string(venue), model.StatusConfirmed)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    bookings := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        bookings = append(bookings, *b)
    }
    return bookings, rows.Err()
}

// CountConfirmedStalls counts confirmed vendor-stall rentals. A rented
// stall stays rented until its status leaves confirmed; dates play no
// part.
func (r *BookingRepo) CountConfirmedStalls(ctx context.Context) (int, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE venue = ? AND status = ?`,
        string(model.VenueVendorStalls), model.StatusConfirmed).Scan(&n)
    return n, err
}

// ConfirmedStallBookings returns every confirmed vendor-stall booking
// ordered by stall id, for the admin grid.
func (r *BookingRepo) ConfirmedStallBookings(ctx context.Context) ([]model.Booking, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings
         WHERE venue = ? AND status = ? AND stall_id IS NOT NULL
         ORDER BY stall_id`,
        string(model.VenueVendorStalls), model.StatusConfirmed)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    bookings := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        bookings = append(bookings, *b)
    }
    return bookings, rows.Err()
}

// StallConfirmed reports whether a confirmed booking already occupies
// the stall. This is the write-time re-check run before accepting a new
// stall booking; the unique index is the backstop behind it.
func (r *BookingRepo) StallConfirmed(ctx context.Context, stallID string) (bool, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE venue = ? AND status = ? AND stall_id = ?`,
        string(model.VenueVendorStalls), model.StatusConfirmed, stallID).Scan(&n)
    return n > 0, err
}

// BookedStallIDs returns the stall ids of all confirmed rentals.
func (r *BookingRepo) BookedStallIDs(ctx context.Context) ([]string, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT stall_id FROM bookings
         WHERE venue = ? AND status = ? AND stall_id IS NOT NULL
         ORDER BY stall_id`,
        string(model.VenueVendorStalls), model.StatusConfirmed)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    ids := make([]string, 0)
    for rows.Next() {
        var id string
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}

// VenueStat is one row of the per-venue rollup.
type VenueStat struct {
    Venue   string `json:"venue"`
    Count   int    `json:"count"`
    Revenue int64  `json:"revenue"`
}

// Stats aggregates counts and revenue for the dashboard overview.
type Stats struct {
    TotalBookings     int         `json:"totalBookings"`
    ConfirmedBookings int         `json:"confirmedBookings"`
    PendingBookings   int         `json:"pendingBookings"`
    TotalRevenue      int64       `json:"totalRevenue"`
    VenueStats        []VenueStat `json:"venueStats"`
}

// Stats computes the dashboard overview in two queries: a status/revenue
// rollup and a per-venue GROUP BY.
func (r *BookingRepo) Stats(ctx context.Context) (*Stats, error) {
    s := &Stats{VenueStats: []VenueStat{}}
    err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*),
        COALESCE(SUM(status = 'confirmed'), 0),
        COALESCE(SUM(status = 'pending'), 0),
        COALESCE(SUM(total_amount), 0)
        FROM bookings`).Scan(&s.TotalBookings, &s.ConfirmedBookings, &s.PendingBookings, &s.TotalRevenue)
    if err != nil {
        return nil, err
    }
    rows, err := r.DB.QueryContext(ctx,
        `SELECT venue, COUNT(*), COALESCE(SUM(total_amount), 0) FROM bookings GROUP BY venue`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var vs VenueStat
        if err := rows.Scan(&vs.Venue, &vs.Count, &vs.Revenue); err != nil {
            return nil, err
        }
        s.VenueStats = append(s.VenueStats, vs)
    }
    return s, rows.Err()
}
