package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Sender interface {
	SendOrderConfirmation(ctx context.Context, to, reference string, total float64) error
	SendStatusUpdate(ctx context.Context, to, reference, status string) error
}

type smtpSender struct {
	cfg    config.SMTP
	logger *zap.Logger
	tracer trace.Tracer
}

func NewSMTPSender(cfg config.SMTP, logger *zap.Logger) Sender {
	return &smtpSender{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("notification/email"),
	}
}

func (s *smtpSender) SendOrderConfirmation(ctx context.Context, to, reference string, total float64) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendOrderConfirmation")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", to),
		attribute.String("order.reference", reference),
	)

	subject := "Subject: Your Teeku Masi's order is confirmed.\n"
	body := fmt.Sprintf(`
		<h1>Thank you for your order!</h1>
		<p>Order ID: %s</p>
		<p>Total: CAD$%.2f</p>
		<p>We will let you know as soon as it is on its way.</p>
	`, reference, total)

	return s.send(ctx, to, subject, body)
}

func (s *smtpSender) SendStatusUpdate(ctx context.Context, to, reference, status string) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendStatusUpdate")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", to),
		attribute.String("order.reference", reference),
		attribute.String("order.status", status),
	)

	subject := fmt.Sprintf("Subject: Order %s update: %s.\n", reference, status)
	body := fmt.Sprintf(`
		<h1>Your order status changed</h1>
		<p>Order ID: %s</p>
		<p>New status: %s</p>
	`, reference, status)

	return s.send(ctx, to, subject, body)
}

func (s *smtpSender) send(ctx context.Context, to, subject, body string) error {
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(subject + mime + body)

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)

	applog.Info(
		ctx,
		s.logger,
		"Sending email",
		zap.String("to", to),
	)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Error sending email",
			zap.String("to", to),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %v", err)
	}

	return nil
}
