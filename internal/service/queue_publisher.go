// Package service publishes booking events to RabbitMQ after the
// database write commits. Publishing is best-effort by contract: every
// error is logged and returned, and the handlers deliberately ignore
// the return value so email delivery can never fail a booking
// operation.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/sahasuyana/booking-api/internal/queue"
)

// EventPublisher is what the booking handlers depend on; tests use a
// recording fake.
type EventPublisher interface {
    Publish(ctx context.Context, ev *queue.BookingEvent) error
}

// QueuePublisher publishes to the durable booking.events queue. A fresh
// connection per publish keeps the type stateless, matching the
// request-scoped lifecycle of everything else in the write path.
type QueuePublisher struct {
    URL string
}

// NewQueuePublisher returns a publisher for the broker at url.
func NewQueuePublisher(url string) *QueuePublisher { return &QueuePublisher{URL: url} }

// Publish marshals and sends the event, marking it persistent so it
// survives broker restarts. Errors are logged here and returned; the
// caller decides whether to care (the booking handlers do not).
func (p *QueuePublisher) Publish(ctx context.Context, ev *queue.BookingEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent declare; durable so events survive broker restarts.
    if _, err := ch.QueueDeclare(queue.QueueName, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue.QueueName, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
