package notifications

import (
    "context"
    "errors"
    "fmt"
    "log"
    "os"

    firebase "firebase.google.com/go/v4"
    "firebase.google.com/go/v4/messaging"
    "google.golang.org/api/option"
)

// FCMPushService delivers pushes through Firebase Cloud Messaging.
type FCMPushService struct {
    client *messaging.Client
}

func NewFCMPushService(ctx context.Context) (PushService, error) {
    credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
    var opt option.ClientOption
    if credentialsPath != "" {
        opt = option.WithCredentialsFile(credentialsPath)
    } else {
        credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
        if credentialsJSON == "" {
            return nil, errors.New("FIREBASE_CREDENTIALS_PATH or FIREBASE_CREDENTIALS_JSON must be set")
        }
        opt = option.WithCredentialsJSON([]byte(credentialsJSON))
    }

    app, err := firebase.NewApp(ctx, nil, opt)
    if err != nil {
        return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
    }

    client, err := app.Messaging(ctx)
    if err != nil {
        return nil, fmt.Errorf("failed to get messaging client: %w", err)
    }

    return &FCMPushService{client: client}, nil
}

func (s *FCMPushService) SendPush(ctx context.Context, notification *PushNotification) error {
    if len(notification.Tokens) == 0 {
        return errors.New("no tokens provided")
    }

    baseMessage := &messaging.Notification{
        Title: notification.Title,
        Body:  notification.Body,
    }

    data := notification.Data
    if data == nil {
        data = make(map[string]string)
    }
    data["title"] = notification.Title
    data["body"] = notification.Body

    androidConfig := &messaging.AndroidConfig{
        Priority: s.mapPriority(notification.Priority),
        Notification: &messaging.AndroidNotification{
            Sound:       notification.Sound,
            ClickAction: "FLUTTER_NOTIFICATION_CLICK",
        },
    }

    apnsConfig := &messaging.APNSConfig{
        Headers: map[string]string{
            "apns-priority": s.apnsPriority(notification.Priority),
        },
        Payload: &messaging.APNSPayload{
            Aps: &messaging.Aps{
                Alert: &messaging.ApsAlert{
                    Title: notification.Title,
                    Body:  notification.Body,
                },
                Badge: &notification.Badge,
                Sound: notification.Sound,
            },
        },
    }

    if len(notification.Tokens) == 1 {
        message := &messaging.Message{
            Token:        notification.Tokens[0],
            Notification: baseMessage,
            Data:         data,
            Android:      androidConfig,
            APNS:         apnsConfig,
        }
        if _, err := s.client.Send(ctx, message); err != nil {
            log.Printf("Failed to send push notification: %v", err)
            return err
        }
        return nil
    }

    messages := make([]*messaging.Message, 0, len(notification.Tokens))
    for _, token := range notification.Tokens {
        messages = append(messages, &messaging.Message{
            Token:        token,
            Notification: baseMessage,
            Data:         data,
            Android:      androidConfig,
            APNS:         apnsConfig,
        })
    }

    batchResponse, err := s.client.SendAll(ctx, messages)
    if err != nil {
        log.Printf("Failed to send batch push notifications: %v", err)
        return err
    }
    if batchResponse.FailureCount > 0 {
        log.Printf("Failed to send %d out of %d push notifications",
            batchResponse.FailureCount, len(messages))
        for idx, resp := range batchResponse.Responses {
            if resp.Error != nil {
                log.Printf("Failed to send to token %s: %v",
                    notification.Tokens[idx], resp.Error)
            }
        }
    }
    return nil
}

func (s *FCMPushService) SendBatchPush(ctx context.Context, notifications []*PushNotification) error {
    for _, notification := range notifications {
        if err := s.SendPush(ctx, notification); err != nil {
            log.Printf("Failed to send push notification in batch: %v", err)
        }
    }
    return nil
}

func (s *FCMPushService) mapPriority(priority Priority) string {
    if priority == PriorityLow {
        return "normal"
    }
    return "high"
}

func (s *FCMPushService) apnsPriority(priority Priority) string {
    if priority == PriorityLow {
        return "5"
    }
    return "10"
}

// MockPushService records pushes for development and tests.
type MockPushService struct {
    SentNotifications []*PushNotification
}

func NewMockPushService() *MockPushService {
    return &MockPushService{
        SentNotifications: make([]*PushNotification, 0),
    }
}

func (m *MockPushService) SendPush(ctx context.Context, notification *PushNotification) error {
    m.SentNotifications = append(m.SentNotifications, notification)
    log.Printf("Mock: Sending push notification to %d devices: %s",
        len(notification.Tokens), notification.Title)
    return nil
}

func (m *MockPushService) SendBatchPush(ctx context.Context, notifications []*PushNotification) error {
    for _, n := range notifications {
        m.SendPush(ctx, n)
    }
    return nil
}
