package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/tasket-app/tasket-api/internal/logging"
)

// Service sends transactional HTML mail over SMTP. Every method is designed
// to be called from a goroutine: callers log failures, nothing else depends
// on the outcome.
type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
	adminEmail   string
	frontendURL  string
}

func NewService(smtpHost, smtpPort, smtpUser, smtpPassword, adminEmail, frontendURL string) *Service {
	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    smtpUser,
		adminEmail:   adminEmail,
		frontendURL:  frontendURL,
	}
}

// SendWelcomeEmail greets a freshly registered user.
func (s *Service) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	logger := logging.GetLoggerFromContext(ctx)

	body, err := renderTemplate("welcome", welcomeTemplate, struct {
		Name        string
		FrontendURL string
	}{Name: name, FrontendURL: s.frontendURL})
	if err != nil {
		logger.Error("failed to render welcome email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, "Welcome to Tasket!", body); err != nil {
		logger.Error("failed to send welcome email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("welcome email sent", "email", toEmail)
	return nil
}

// SendAdminSignupNotification tells the admin address about a new signup.
// Skipped silently when no admin address is configured.
func (s *Service) SendAdminSignupNotification(ctx context.Context, userEmail, name string) error {
	if s.adminEmail == "" {
		return nil
	}

	logger := logging.GetLoggerFromContext(ctx)

	body, err := renderTemplate("adminSignup", adminSignupTemplate, struct {
		Name  string
		Email string
	}{Name: name, Email: userEmail})
	if err != nil {
		logger.Error("failed to render admin notification template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(s.adminEmail, "New User Signup - Tasket", body); err != nil {
		logger.Error("failed to send admin signup notification", "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// SendOTPEmail delivers a password reset code.
func (s *Service) SendOTPEmail(ctx context.Context, toEmail, name, otp string) error {
	logger := logging.GetLoggerFromContext(ctx)

	body, err := renderTemplate("otp", otpTemplate, struct {
		Name string
		OTP  string
	}{Name: name, OTP: otp})
	if err != nil {
		logger.Error("failed to render OTP email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, "Password Reset OTP - Tasket", body); err != nil {
		logger.Error("failed to send OTP email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("OTP email sent", "email", toEmail)
	return nil
}

func (s *Service) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg)
}

func renderTemplate(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4F46E5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
        .content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Welcome to Tasket!</h1>
    </div>
    <div class="content">
        <h2>Hello {{.Name}}!</h2>
        <p>Thank you for signing up for Tasket. We're excited to have you on board!</p>
        <p>With Tasket, you can:</p>
        <ul>
            <li>Organize your tasks efficiently</li>
            <li>Prioritize your work with AI assistance</li>
            <li>Track your productivity</li>
        </ul>
        <p>Get started by logging in at <a href="{{.FrontendURL}}">{{.FrontendURL}}</a> and creating your first task!</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 Tasket Support. All rights reserved.</p>
    </div>
</body>
</html>
`

const adminSignupTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #059669; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
        .content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>New User Signup</h1>
    </div>
    <div class="content">
        <h2>New user registered on Tasket</h2>
        <p><strong>Name:</strong> {{.Name}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
    </div>
</body>
</html>
`

const otpTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4F46E5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
        .content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
        .otp-box { background-color: #4F46E5; color: white; padding: 15px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 8px; margin: 20px 0; border-radius: 8px; }
        .warning { color: #DC2626; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Password Reset Request</h1>
    </div>
    <div class="content">
        <h2>Hello {{.Name}}!</h2>
        <p>We received a request to reset your password. Use the OTP below to proceed:</p>
        <div class="otp-box">{{.OTP}}</div>
        <p>This OTP will expire in <strong>10 minutes</strong>.</p>
        <p class="warning">If you didn't request this, please ignore this email and your password will remain unchanged.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 Tasket Support. All rights reserved.</p>
        <p>For security reasons, never share your OTP with anyone.</p>
    </div>
</body>
</html>
`
