package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/ports"
)

// ConsoleMailer writes outbound mail to the log instead of an SMTP relay.
// Used in development and as the fallback when no relay is configured.
type ConsoleMailer struct {
	log zerolog.Logger
}

func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) Send(_ context.Context, msg ports.Mail) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("outbound mail")
	return nil
}
