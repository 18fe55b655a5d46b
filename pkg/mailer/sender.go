package mailer

import "context"

// Sender delivers prepared emails through a provider.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
