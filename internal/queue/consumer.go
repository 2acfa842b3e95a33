// Package queue contains the background consumer that listens to the
// account audit queue and appends every event to <dir>/account_audit.log.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// AuditConsumer writes account events to an append-only log file.
type AuditConsumer struct {
    URL    string
    Queue  string
    LogDir string
    Log    *slog.Logger
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes until
// ctx is cancelled.  Broker failures trigger a reconnect with exponential
// backoff capped at 30s; malformed messages are rejected without requeue so
// the consumer keeps going.
func (a *AuditConsumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(a.URL)
        if err != nil {
            a.Log.Warn("audit-consumer: dial failed", "err", err, "retry_in", backoff)
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = a.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        a.Log.Warn("audit-consumer: consume loop ended; reconnecting", "err", err)
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(2 * time.Second):
        }
    }
}

func (a *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        a.Log.Warn("audit-consumer: set QoS failed", "err", err)
    }
    if _, err := ch.QueueDeclare(a.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(a.Queue, "", false, false, false, false, nil)
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
            if err := a.HandleMessage(d.Body); err != nil {
                a.Log.Error("audit-consumer: handle message failed", "err", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMessage decodes one event and appends a single line to the log.
func (a *AuditConsumer) HandleMessage(body []byte) error {
    var ev AccountEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.AccountID == 0 {
        return errors.New("event without type or account")
    }
    if err := os.MkdirAll(a.LogDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(a.LogDir, "account_audit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] %s | account_id=%d | username=%q | actor_id=%d",
        ev.OccurredAt, ev.Type, ev.AccountID, ev.Username, ev.ActorID)
    if ev.Role != "" {
        line += " | rol=" + ev.Role
    }
    if ev.PrevRole != "" {
        line += " | rol_anterior=" + ev.PrevRole
    }
    if ev.Active != nil {
        line += fmt.Sprintf(" | activo=%t", *ev.Active)
    }
    if _, err := f.WriteString(line + "\n"); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
