package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notification-service/internal/domain"
)

// EmailClient sends over SMTP with implicit TLS. SMTP has no provider message
// id, so the client stamps its own Message-ID header and reports that.
type EmailClient struct {
	smtpHost string
	smtpPort string
	username string
	password string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewEmailClient(host, port, user, pass string, timeout time.Duration, logger *zap.Logger) *EmailClient {
	return &EmailClient{
		smtpHost: host,
		smtpPort: port,
		username: user,
		password: pass,
		timeout:  timeout,
		logger:   logger,
	}
}

func (c *EmailClient) Channel() domain.Channel { return domain.ChannelEmail }

func (c *EmailClient) ProviderName() string { return "SMTP_SERVER" }

func (c *EmailClient) Send(ctx context.Context, n *domain.Notification) (string, error) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), c.smtpHost)

	type result struct {
		err error
	}
	done := make(chan result, 1)
	go func() {
		done <- result{err: c.send(n.Recipient, n.Subject, n.Message, messageID)}
	}()

	select {
	case <-ctx.Done():
		// The in-flight SMTP exchange cannot be recalled; the timeout verdict
		// is authoritative for the aggregate.
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return messageID, nil
	}
}

func (c *EmailClient) send(to, subject, body, messageID string) error {
	from := c.username
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			fmt.Sprintf("Message-ID: %s\r\n", messageID) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := c.smtpHost + ":" + c.smtpPort

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: c.smtpHost}}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	conn, err := dialer.DialContext(ctx, "tcp", serverAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, c.smtpHost)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", c.username, c.password, c.smtpHost)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
