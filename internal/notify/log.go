package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of a front-end.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification",
		"subscriber", msg.SubscriberID,
		"kind", msg.Kind,
		"wallet", msg.Wallet,
		"text", msg.Text,
	)
	return nil
}
