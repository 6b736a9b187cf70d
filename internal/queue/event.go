// Package queue defines the booking events exchanged over the message
// broker and the background consumer that turns them into emails. The
// write path only ever publishes; email delivery can never fail a
// booking operation because it happens on the other side of the queue.
package queue

import "github.com/sahasuyana/booking-api/internal/email"

// Event types carried in BookingEvent.Type. Defined in the email
// package so the template renderers there do not import this one.
const (
    EventBookingCreated   = email.EventBookingCreated
    EventBookingConfirmed = email.EventBookingConfirmed
    EventBookingCancelled = email.EventBookingCancelled
)

// BookingEvent is published after a booking write commits. It carries
// enough to render every notification email without querying the
// primary database.
type BookingEvent = email.BookingEvent
