package config

import "fmt"

// MailConfig holds SMTP settings for outgoing notifications.
type MailConfig struct {
	Server        string
	Port          int
	Username      string
	Password      string
	DefaultSender string
}

// NewMailConfig reads MAIL_SERVER (default smtp.gmail.com), MAIL_PORT
// (default 587), MAIL_USERNAME, MAIL_PASSWORD and MAIL_DEFAULT_SENDER
// (defaults to MAIL_USERNAME).
func NewMailConfig() (*MailConfig, error) {
	port, err := envInt("MAIL_PORT", 587)
	if err != nil {
		return nil, err
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("MAIL_PORT out of range: %d", port)
	}

	username := envString("MAIL_USERNAME", "")
	return &MailConfig{
		Server:        envString("MAIL_SERVER", "smtp.gmail.com"),
		Port:          port,
		Username:      username,
		Password:      envString("MAIL_PASSWORD", ""),
		DefaultSender: envString("MAIL_DEFAULT_SENDER", username),
	}, nil
}

// Configured reports whether credentials are present. Without them the
// server still starts but /send_email fails with a delivery error.
func (c *MailConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}
