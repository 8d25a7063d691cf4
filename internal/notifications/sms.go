package notifications

import (
    "context"
    "fmt"
    "log"
    "os"

    "github.com/twilio/twilio-go"
    twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSService delivers SMS through Twilio.
type TwilioSMSService struct {
    client *twilio.RestClient
    from   string
}

func NewTwilioSMSService() (SMSService, error) {
    accountSID := os.Getenv("TWILIO_ACCOUNT_SID")
    authToken := os.Getenv("TWILIO_AUTH_TOKEN")
    from := os.Getenv("TWILIO_PHONE_NUMBER")

    if accountSID == "" || authToken == "" || from == "" {
        return nil, fmt.Errorf("incomplete Twilio configuration")
    }

    client := twilio.NewRestClientWithParams(twilio.ClientParams{
        Username: accountSID,
        Password: authToken,
    })

    return &TwilioSMSService{
        client: client,
        from:   from,
    }, nil
}

func (s *TwilioSMSService) SendSMS(ctx context.Context, notification *SMSNotification) error {
    params := &twilioApi.CreateMessageParams{}
    params.SetTo(notification.To)
    params.SetFrom(s.from)
    params.SetBody(notification.Message)

    resp, err := s.client.Api.CreateMessage(params)
    if err != nil {
        log.Printf("Failed to send SMS to %s: %v", notification.To, err)
        return err
    }
    if resp.Sid != nil {
        log.Printf("Successfully sent SMS to %s with SID: %s", notification.To, *resp.Sid)
    }
    return nil
}

// MockSMSService records SMS messages for development and tests.
type MockSMSService struct {
    SentMessages []*SMSNotification
}

func NewMockSMSService() *MockSMSService {
    return &MockSMSService{
        SentMessages: make([]*SMSNotification, 0),
    }
}

func (m *MockSMSService) SendSMS(ctx context.Context, notification *SMSNotification) error {
    m.SentMessages = append(m.SentMessages, notification)
    log.Printf("Mock: Sending SMS to %s: %s", notification.To, notification.Message)
    return nil
}
