package email

// Provider sends transactional email. The service layer only ever talks
// to this interface so tests and development can swap in a no-op.
type Provider interface {
	Send(to, subject, htmlBody string) error
}

type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}
