// Package queue contains the background consumer that listens to the
// booking.events queue and writes one line per event to logs/booking.log.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// BookingQueueName is the durable queue booking events are published to.
const BookingQueueName = "booking.events"

// Consumer reads booking events from RabbitMQ and appends them to a log
// file.  The zero value is not usable; build one with NewConsumer.
type Consumer struct {
    url    string
    dir    string
    logger *slog.Logger

    mu sync.Mutex // serializes writes to the log file
}

// NewConsumer returns a consumer for the broker at url that writes into
// dir/booking.log.  An empty dir means "logs".
func NewConsumer(url, dir string, logger *slog.Logger) *Consumer {
    if dir == "" {
        dir = "logs"
    }
    if logger == nil {
        logger = slog.Default()
    }
    return &Consumer{url: url, dir: dir, logger: logger}
}

// LogPath is the file events are appended to.
func (c *Consumer) LogPath() string { return filepath.Join(c.dir, "booking.log") }

// Run connects to RabbitMQ, declares the queue (durable) and consumes
// messages until ctx is cancelled.  Connection failures are retried with an
// exponential backoff capped at 30 seconds.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.logger.Warn("booking-consumer: failed to dial broker", "error", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.logger.Warn("booking-consumer: consume loop ended, reconnecting", "error", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.logger.Warn("booking-consumer: set QoS failed", "error", err)
    }

    if _, err := ch.QueueDeclare(BookingQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.ConsumeWithContext(ctx, BookingQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    c.logger.Info("booking-consumer: consuming", "queue", BookingQueueName, "file", c.LogPath())
    for d := range msgs {
        if err := c.HandleMessage(d.Body); err != nil {
            c.logger.Error("booking-consumer: handle message failed", "error", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// HandleMessage decodes one BookingEvent and appends its log line.
func (c *Consumer) HandleMessage(body []byte) error {
    var ev BookingEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.BookingID == "" {
        return errors.New("event without type or booking id")
    }

    c.mu.Lock()
    defer c.mu.Unlock()

    if err := os.MkdirAll(c.dir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(c.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as a single human-friendly log line ending in a
// newline.
func FormatLine(ev BookingEvent) string {
    action := "Booking event"
    switch ev.Type {
    case EventBookingConfirmed:
        action = "Booking confirmed"
    case EventBookingCancelled:
        action = "Booking cancelled"
    }
    return fmt.Sprintf("[%s] %s | booking_id=%s | user_id=%s | user=%q | space_id=%d | space=%q | location=%q | date=%s | slot=%s | price=%.2f PHP\n",
        ev.OccurredAt, action, ev.BookingID, ev.UserID, ev.UserName, ev.SpaceID, ev.SpaceName, ev.Location, ev.Date, ev.TimeSlot, ev.Price)
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
