package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/condominio-auth/internal/queue"
)

// EventPublisher delivers account events after a change has committed.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AccountEvent) error
}

// NopPublisher drops every event.  Used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.AccountEvent) error { return nil }

// publish is best-effort: failures are logged and never reach the caller.
func (s *AccountService) publish(ctx context.Context, ev queue.AccountEvent) {
	ev.OccurredAt = s.now().UTC().Format("2006-01-02T15:04:05Z07:00")
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Log.Warn("account event not published", slog.String("type", ev.Type),
			slog.Uint64("account_id", ev.AccountID), slog.Any("err", err))
	}
}
