package email

import "context"

// Provider delivers a single rendered message. Implementations must be
// safe for concurrent use; the outbox worker is the only caller in
// production, but tests swap in a mock.
type Provider interface {
	Send(ctx context.Context, msg Message) error
}
