package notify

import (
	"context"

	"github.com/dmitrijs2005/todopoc/internal/logging"
)

// LogNotifier writes the code to the log instead of sending it. Meant for
// development and for setups where an operator relays codes by hand.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "log_notifier")}
}

func (n *LogNotifier) SendVerification(ctx context.Context, m Message) error {
	n.logger.Info(ctx, "verification code issued",
		"email", m.Email, "code", m.Code, "expires_at", m.ExpiresAt)
	return nil
}
