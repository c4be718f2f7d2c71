package identity

import (
	"context"

	"scraper-dashboard/internal/logging"

	"go.uber.org/zap"
)

// Mailer delivers password recovery links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer writes the recovery link to the log instead of sending mail.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logging.OrNop(logger)}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.logger.Info("identity: password reset requested", zap.String("email", email), zap.String("link", link))
	return nil
}
