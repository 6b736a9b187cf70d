package queue

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/sahasuyana/booking-api/internal/email"
)

// recordingSender captures every message and optionally fails sends to
// a given address.
type recordingSender struct {
    sent   []*email.Message
    failTo string
}

func (r *recordingSender) Send(_ context.Context, msg *email.Message) error {
    r.sent = append(r.sent, msg)
    if r.failTo != "" && msg.To == r.failTo {
        return errors.New("smtp rejected")
    }
    return nil
}

func testEvent(typ string) *BookingEvent {
    return &BookingEvent{
        Type:          typ,
        BookingID:     12,
        Venue:         "Open Air Arena",
        EventType:     "wedding",
        EventDate:     "2025-03-10",
        Duration:      2,
        CustomerName:  "N. Perera",
        CustomerEmail: "n@example.com",
        CustomerPhone: "0711234567",
        TotalAmount:   2500000,
    }
}

var testCfg = email.Config{AdminEmail: "admin@example.com"}

func TestDispatchCreatedSendsReceiptAndAdminAlert(t *testing.T) {
    sender := &recordingSender{}
    err := Dispatch(context.Background(), testEvent(EventBookingCreated), sender, testCfg)
    assert.NoError(t, err)
    assert.Len(t, sender.sent, 2)
    assert.Equal(t, "n@example.com", sender.sent[0].To)
    assert.Equal(t, "admin@example.com", sender.sent[1].To)
}

func TestDispatchCreatedAdminAlertFailureIsSwallowed(t *testing.T) {
    // A broken admin inbox must not fail the message, or redelivery
    // would double-send the customer receipt.
    sender := &recordingSender{failTo: "admin@example.com"}
    err := Dispatch(context.Background(), testEvent(EventBookingCreated), sender, testCfg)
    assert.NoError(t, err)
    assert.Len(t, sender.sent, 2)
}

func TestDispatchCreatedReceiptFailurePropagates(t *testing.T) {
    sender := &recordingSender{failTo: "n@example.com"}
    err := Dispatch(context.Background(), testEvent(EventBookingCreated), sender, testCfg)
    assert.Error(t, err)
}

func TestDispatchConfirmedSendsExactlyOneEmail(t *testing.T) {
    sender := &recordingSender{}
    err := Dispatch(context.Background(), testEvent(EventBookingConfirmed), sender, testCfg)
    assert.NoError(t, err)
    assert.Len(t, sender.sent, 1)
    assert.Equal(t, "n@example.com", sender.sent[0].To)
    assert.Contains(t, sender.sent[0].Subject, "Confirmed")
}

func TestDispatchCancelledIncludesReason(t *testing.T) {
    ev := testEvent(EventBookingCancelled)
    ev.RejectionReason = "venue maintenance"
    sender := &recordingSender{}
    err := Dispatch(context.Background(), ev, sender, testCfg)
    assert.NoError(t, err)
    assert.Len(t, sender.sent, 1)
    assert.Contains(t, sender.sent[0].HTMLContent, "venue maintenance")
}

func TestDispatchUnknownTypeFails(t *testing.T) {
    sender := &recordingSender{}
    err := Dispatch(context.Background(), testEvent("booking.snoozed"), sender, testCfg)
    assert.Error(t, err)
    assert.Empty(t, sender.sent)
}
