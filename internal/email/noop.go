package email

import "suvix_backend/internal/logger"

// NoopProvider logs instead of sending. Used when SMTP is not configured.
type NoopProvider struct{}

func (NoopProvider) Send(to, subject, htmlBody string) error {
	logger.Debug("email suppressed (no SMTP configured)", "to", to, "subject", subject)
	return nil
}
