package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"github.com/margdarshak/margdarshak/config"
)

// Mailer handles sending emails over SMTP.
type Mailer struct {
	configProvider *config.Provider
}

// New creates a new Mailer instance
func New(provider *config.Provider) (*Mailer, error) {
	if provider == nil {
		return nil, fmt.Errorf("mail: config provider is nil")
	}
	return &Mailer{configProvider: provider}, nil
}

func (m *Mailer) newMail() (*mailyak.MailYak, *config.Smtp) {
	cfg := m.configProvider.Get().Smtp

	mail := mailyak.New(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host))
	mail.From(cfg.FromAddress)
	mail.FromName(cfg.FromName)

	return mail, &cfg
}

// send delivers the prepared mail, honoring the context deadline.
// mailyak has no context support, so delivery runs in a goroutine.
func (m *Mailer) send(ctx context.Context, mail *mailyak.MailYak) error {
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// SendOtpEmail sends the one time verification code issued at registration.
func (m *Mailer) SendOtpEmail(ctx context.Context, email, name, otp string) error {
	mail, cfg := m.newMail()

	greeting := "Hello"
	if name != "" {
		greeting = fmt.Sprintf("Hello %s", name)
	}

	mail.To(email)
	mail.Subject(fmt.Sprintf("Your %s verification code", cfg.FromName))
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Verify your email</h1>
		<p>%s,</p>
		<p>Your verification code is:</p>
		<h2>%s</h2>
		<p>The code expires in 10 minutes. If you did not request it, ignore this email.</p>
	`, greeting, otp))

	if err := m.send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
