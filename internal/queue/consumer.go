// Package queue contains the background consumer that listens to the seat
// events queue and writes structured logs to <log dir>/seats.log.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strconv"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer reads SeatEvents from a durable queue and appends one line per
// event to a log file.
type Consumer struct {
    URL    string
    Queue  string
    LogDir string
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes until
// ctx is cancelled.  Broker failures are retried with exponential backoff
// capped at 30s.  Messages that cannot be handled are rejected without
// requeue so the loop keeps moving.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Printf("seat-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
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
        log.Printf("seat-consumer: consume loop ended: %v; reconnecting", err)
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
        log.Printf("seat-consumer: set QoS failed: %v", err)
    }

    if _, err = ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := HandleMessage(c.LogDir, d.Body); err != nil {
                log.Printf("seat-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMessage decodes one SeatEvent and appends its log line to
// logDir/seats.log, creating the directory when needed.
func HandleMessage(logDir string, body []byte) error {
    var ev SeatEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, "seats.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as a single human-friendly log line.
func FormatLine(ev SeatEvent) string {
    switch ev.Type {
    case EventSeatsBooked:
        nums := make([]string, len(ev.Seats))
        for i, n := range ev.Seats {
            nums[i] = strconv.Itoa(n)
        }
        return fmt.Sprintf("[%s] Seats booked | reference=%s | count=%d | seats=[%s]\n",
            ev.OccurredAt, ev.Reference, ev.Count, strings.Join(nums, ","))
    case EventSeatsReset:
        return fmt.Sprintf("[%s] Seats reset | released=%d\n", ev.OccurredAt, ev.Count)
    default:
        return fmt.Sprintf("[%s] %s | id=%s\n", ev.OccurredAt, ev.Type, ev.ID)
    }
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
