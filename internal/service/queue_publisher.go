// Package service provides outbound integrations used by the booking core.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/rental-booking/internal/queue"
)

// QueuePublisher publishes booking events to a durable RabbitMQ queue,
// opening a fresh connection for every publish.
type QueuePublisher struct {
    URL         string
    Queue       string
    DialTimeout time.Duration
}

// NewQueuePublisher returns a publisher for queue at url.
func NewQueuePublisher(url, queue string) *QueuePublisher {
    return &QueuePublisher{URL: url, Queue: queue, DialTimeout: 2 * time.Second}
}

// Publish sends event as a persistent JSON message.  Errors are logged and
// returned so the caller can choose to ignore them.
func (p *QueuePublisher) Publish(ctx context.Context, event q.BookingEvent) error {
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(p.DialTimeout),
    })
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

    if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    event.EventID,
        Type:         event.Type,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
