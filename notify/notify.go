// Package notify sends transactional email.
package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single outbound email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Notifier delivers messages.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid notifier, or a log-only one without an API key.
func New(apiKey, from string) Notifier {
	if apiKey == "" {
		slog.Warn("SENDGRID_API_KEY is not set, emails will only be logged")
		return LogNotifier{}
	}
	return &SendGridNotifier{client: sendgrid.NewSendClient(apiKey), from: mail.NewEmail("StyleSync", from)}
}

type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (n *SendGridNotifier) Send(ctx context.Context, msg Message) error {
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(n.from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.ToEmail, err)
	}
	if response.StatusCode >= 400 {
		slog.Error("SendGrid API error", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	slog.Info("email sent", "to", msg.ToEmail, "status", response.StatusCode)
	return nil
}

// LogNotifier only logs messages. It is used when email is not configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, msg Message) error {
	slog.Info("email (not sent)", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

// FriendRequestEmail tells the receiver someone wants to connect.
func FriendRequestEmail(toName, toEmail, fromName string) Message {
	if fromName == "" {
		fromName = "Someone"
	}
	return Message{
		ToName:  toName,
		ToEmail: toEmail,
		Subject: fmt.Sprintf("%s sent you a friend request on StyleSync", fromName),
		Text:    fmt.Sprintf("%s wants to share outfits with you. Open StyleSync to accept or decline.", fromName),
		HTML:    fmt.Sprintf("<p><strong>%s</strong> wants to share outfits with you.</p><p>Open StyleSync to accept or decline.</p>", html.EscapeString(fromName)),
	}
}
