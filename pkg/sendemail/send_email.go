package sendemail

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"startupconnect/pkg/config"
)

type EmailService interface {
	SendEmail(subject, toEmail, plainTextContent, htmlContent string) error
}

type emailService struct {
	client      *sendgrid.Client
	senderEmail string
	senderName  string
}

// NewEmailService sends through SendGrid. Without an API key mail is only
// logged, which keeps local development usable.
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.SendGridAPIKey == "" {
		log.Println("SENDGRID_API_KEY not set, emails will be logged instead of sent")
		return logEmailService{}
	}
	return &emailService{
		client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
	}
}

func (e *emailService) SendEmail(subject, toEmail, plainTextContent, htmlContent string) error {
	from := mail.NewEmail(e.senderName, e.senderEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	resp, err := e.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

type logEmailService struct{}

func (logEmailService) SendEmail(subject, toEmail, plainTextContent, _ string) error {
	log.Printf("[email] to=%s subject=%q body=%q", toEmail, subject, plainTextContent)
	return nil
}
