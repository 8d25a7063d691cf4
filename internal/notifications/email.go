package notifications

import (
    "context"
    "fmt"
    "log"
    "net/http"
    "os"

    "github.com/sendgrid/sendgrid-go"
    "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridEmailService delivers email through SendGrid.
type SendGridEmailService struct {
    client   *sendgrid.Client
    from     string
    fromName string
}

func NewSendGridEmailService() (EmailService, error) {
    apiKey := os.Getenv("SENDGRID_API_KEY")
    from := os.Getenv("SENDGRID_FROM_EMAIL")
    fromName := os.Getenv("SENDGRID_FROM_NAME")

    if apiKey == "" || from == "" {
        return nil, fmt.Errorf("incomplete SendGrid configuration")
    }

    return &SendGridEmailService{
        client:   sendgrid.NewSendClient(apiKey),
        from:     from,
        fromName: fromName,
    }, nil
}

func (s *SendGridEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
    from := mail.NewEmail(s.fromName, s.from)
    to := mail.NewEmail("", notification.To)

    html := notification.HTML
    if html == "" {
        html = notification.Body
    }
    message := mail.NewSingleEmail(from, notification.Subject, to, notification.Body, html)

    response, err := s.client.SendWithContext(ctx, message)
    if err != nil {
        log.Printf("Failed to send email to %s: %v", notification.To, err)
        return err
    }
    if response.StatusCode >= http.StatusBadRequest {
        log.Printf("SendGrid rejected email to %s: %d %s",
            notification.To, response.StatusCode, response.Body)
        return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
    }
    return nil
}

// MockEmailService records emails for development and tests.
type MockEmailService struct {
    SentEmails []*EmailNotification
}

func NewMockEmailService() *MockEmailService {
    return &MockEmailService{
        SentEmails: make([]*EmailNotification, 0),
    }
}

func (m *MockEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
    m.SentEmails = append(m.SentEmails, notification)
    log.Printf("Mock: Sending email to %s: %s", notification.To, notification.Subject)
    return nil
}
