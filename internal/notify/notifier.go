package notify

import "context"

// Notifier delivers effect and economy messages to users and to the
// community channel. Delivery failures are for the caller to log; they
// must never crash a background loop.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int64, text string) error
	Announce(ctx context.Context, text string) error
}

// Nop discards every message. Used when no bot token is configured and
// in tests.
type Nop struct{}

func (Nop) NotifyUser(ctx context.Context, userID int64, text string) error { return nil }
func (Nop) Announce(ctx context.Context, text string) error                 { return nil }
