package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/studyplan-api/internal/pkg/logger"
)

// EmailMessage: письмо, собранное сервисом рассылки
type EmailMessage struct {
	To             string
	Subject        string
	Text           string
	HTML           string
	IdempotencyKey string
}

// EmailSender отправляет транзакционные письма
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NoopEmailSender используется, когда рассылка выключена
type NoopEmailSender struct {
	log *logger.Logger
}

func NewNoopEmailSender(log *logger.Logger) *NoopEmailSender {
	return &NoopEmailSender{log: log.Component("EmailSender")}
}

func (s *NoopEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.log.Info("noop send", "to", msg.To, "subject", msg.Subject)
	return nil
}

// ResendEmailSender отправляет письма через Resend REST API
type ResendEmailSender struct {
	from   string
	client *resend.Client
}

func NewResendEmailSender(apiKey, from string) (*ResendEmailSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailSender{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if msg.To == "" || msg.Subject == "" {
		return fmt.Errorf("recipient and subject are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}

	options := &resend.SendEmailOptions{}
	if key := strings.TrimSpace(msg.IdempotencyKey); key != "" {
		options.IdempotencyKey = key
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

// resendRetryDelay решает, стоит ли повторять отправку и сколько ждать
func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			return time.Duration(min(seconds, 30)) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
