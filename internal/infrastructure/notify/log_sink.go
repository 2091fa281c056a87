// Package notify holds the sinks notifications are delivered to.
package notify

import (
	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// LogSink writes notifications to the structured log. Emails are not sent
// anywhere; the log entry is the simulated delivery.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(n domain.Notification) {
	if n.Email != nil {
		s.log.Info().
			Str("to", n.Email.To).
			Str("subject", n.Email.Subject).
			Str("body", n.Email.Body).
			Msg("email simulation")
		return
	}
	s.log.Debug().
		Str("audience", n.Audience).
		Str("category", string(n.Category)).
		Msg(n.Message)
}
