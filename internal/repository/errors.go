// Package repository persists bookings, news items and admin accounts in
// MySQL. Sentinel errors let handlers map failure scenarios to HTTP
// responses without inspecting driver errors: ErrStallTaken becomes a
// 400 conflict naming the stall, the not-found values become 404s.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking exists for an id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNewsNotFound is returned when no news item exists for an id.
var ErrNewsNotFound = errors.New("news item not found")

// ErrAdminNotFound is returned when no admin account exists for an id.
var ErrAdminNotFound = errors.New("admin not found")

// ErrStallTaken is returned when a confirmed booking already occupies the
// requested stall. It is raised both by the advisory pre-check and by the
// unique index on confirmed_stall_key, so a write racing past the check
// still fails here rather than double-renting the stall.
var ErrStallTaken = errors.New("stall already booked")

// ErrDuplicate is returned on unique-key violations for admin accounts
// (username or email already registered).
var ErrDuplicate = errors.New("already exists")
