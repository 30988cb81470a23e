package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/templates"
)

// EmailService handles transactional email sending via Mailgun
type EmailService struct {
	mg        *mailgun.MailgunImpl
	fromEmail string
	fromName  string
	domain    string
}

// NewEmailService creates a new email service with Mailgun configuration
func NewEmailService(domain, apiKey, fromEmail, fromName string) *EmailService {
	mg := mailgun.NewMailgun(domain, apiKey)
	mg.SetAPIBase(mailgun.APIBaseEU)

	return &EmailService{
		mg:        mg,
		fromEmail: fromEmail,
		fromName:  fromName,
		domain:    domain,
	}
}

func (s *EmailService) emailConfig() *templates.EmailConfig {
	cfg, err := templates.LoadEmailConfig()
	if err != nil {
		return templates.DefaultEmailConfig()
	}
	return cfg
}

func (s *EmailService) send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	message := s.mg.NewMessage(
		fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		subject,
		textBody,
		to,
	)
	if htmlBody != "" {
		message.SetHtml(htmlBody)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	if _, _, err := s.mg.Send(ctxWithTimeout, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// SendSubmissionNotification notifies the site operator about a new
// contact form submission
func (s *EmailService) SendSubmissionNotification(ctx context.Context, to string, sub *models.ContactSubmission) error {
	cfg := s.emailConfig()

	subject := cfg.Subjects.Notification
	if sub.Subject != "" {
		subject = fmt.Sprintf("%s: %s", cfg.Subjects.Notification, sub.Subject)
	}

	company := sub.Company
	if company == "" {
		company = "-"
	}
	phone := sub.Phone
	if phone == "" {
		phone = "-"
	}

	textBody := fmt.Sprintf(`New contact form submission

From:    %s <%s>
Phone:   %s
Company: %s
Subject: %s

%s

—
%s
%s`, sub.Name, sub.Email, phone, company, sub.Subject, sub.Message, cfg.Branding.Name, cfg.Branding.Website)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;color:#0a0a0a;line-height:1.6;">
    <h2 style="margin:0 0 16px;font-size:18px;">New contact form submission</h2>
    <table role="presentation" cellpadding="4" cellspacing="0" style="font-size:14px;">
        <tr><td style="color:#777;">From</td><td>%s &lt;%s&gt;</td></tr>
        <tr><td style="color:#777;">Phone</td><td>%s</td></tr>
        <tr><td style="color:#777;">Company</td><td>%s</td></tr>
        <tr><td style="color:#777;">Subject</td><td>%s</td></tr>
    </table>
    <div style="margin:16px 0;padding:14px 16px;background:#f5f5f5;border-left:3px solid #0a0a0a;font-size:14px;white-space:pre-wrap;">%s</div>
    <p style="margin:24px 0 0;font-size:12px;color:#777;">%s — <a href="%s" style="color:#777;">%s</a></p>
</body>
</html>`, sub.Name, sub.Email, phone, company, sub.Subject, sub.Message, cfg.Branding.Name, cfg.Branding.Website, cfg.Branding.Website)

	return s.send(ctx, to, subject, textBody, htmlBody)
}

// SendReply sends an admin's reply to the original submitter
func (s *EmailService) SendReply(ctx context.Context, sub *models.ContactSubmission, replyText string) error {
	cfg := s.emailConfig()

	subject := cfg.Subjects.Reply
	if sub.Subject != "" {
		subject = fmt.Sprintf("Re: %s", sub.Subject)
	}

	textBody := fmt.Sprintf(`Hi %s,

%s

—
%s
%s

> %s`, sub.Name, replyText, cfg.Branding.Name, cfg.Branding.Website, sub.Message)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;color:#0a0a0a;line-height:1.6;">
    <p style="margin:0 0 16px;font-size:15px;">Hi %s,</p>
    <div style="margin:0 0 24px;font-size:15px;white-space:pre-wrap;">%s</div>
    <p style="margin:0 0 4px;font-size:12px;color:#777;">%s — <a href="%s" style="color:#777;">%s</a></p>
    <div style="margin:16px 0 0;padding:12px 16px;background:#f5f5f5;border-left:3px solid #e5e5e5;font-size:13px;color:#777;white-space:pre-wrap;">%s</div>
</body>
</html>`, sub.Name, replyText, cfg.Branding.Name, cfg.Branding.Website, cfg.Branding.Website, sub.Message)

	return s.send(ctx, sub.Email, subject, textBody, htmlBody)
}
