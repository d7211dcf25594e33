// Package notify delivers verification codes. Delivery is best effort: the
// pending registration is already stored when a message is sent, and a lost
// message only means the user has to ask for a new code.
package notify

import (
	"context"
	"time"
)

// Message asks for a verification code to be delivered to Email.
type Message struct {
	Name      string
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Notifier sends one message. Implementations must be safe for concurrent use.
type Notifier interface {
	SendVerification(ctx context.Context, m Message) error
}
