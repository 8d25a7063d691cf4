package notifications

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"
)

var (
    ErrPastFireTime = errors.New("fire time is in the past")
    ErrInvalidToken = errors.New("invalid push token")
)

// PushService abstracts the push provider (FCM in production).
type PushService interface {
    SendPush(ctx context.Context, notification *PushNotification) error
    SendBatchPush(ctx context.Context, notifications []*PushNotification) error
}

// EmailService abstracts the email provider (SendGrid in production).
type EmailService interface {
    SendEmail(ctx context.Context, notification *EmailNotification) error
}

// SMSService abstracts the SMS provider (Twilio in production).
type SMSService interface {
    SendSMS(ctx context.Context, notification *SMSNotification) error
}

type Service interface {
    Schedule(ctx context.Context, userID int64, kind JobKind, payload interface{}, fireAt time.Time) (string, error)
    Cancel(ctx context.Context, jobID string) error
    ProcessScheduled(ctx context.Context) error
    ScheduleAvailabilityWarning(ctx context.Context, userID int64, modeType string, fireAt time.Time) (string, error)
    RegisterToken(ctx context.Context, userID int64, token, platform string) error
    RemoveToken(ctx context.Context, userID int64, token string) error
    NotifyNow(ctx context.Context, userID int64, kind JobKind, payload interface{}) error
}

type service struct {
    repo  Repository
    push  PushService
    email EmailService
    sms   SMSService
}

func NewService(repo Repository, push PushService, email EmailService, sms SMSService) Service {
    return &service{
        repo:  repo,
        push:  push,
        email: email,
        sms:   sms,
    }
}

// Schedule persists a delayed notification and returns its job id. The job
// id is the caller's handle for Cancel.
func (s *service) Schedule(ctx context.Context, userID int64, kind JobKind, payload interface{}, fireAt time.Time) (string, error) {
    if !fireAt.After(time.Now()) {
        return "", ErrPastFireTime
    }

    raw, err := json.Marshal(payload)
    if err != nil {
        return "", fmt.Errorf("failed to encode job payload: %w", err)
    }

    job := &ScheduledJob{
        ID:        uuid.NewString(),
        UserID:    userID,
        Kind:      kind,
        Payload:   raw,
        FireAt:    fireAt,
        Status:    StatusPending,
        CreatedAt: time.Now(),
    }
    if err := s.repo.CreateJob(ctx, job); err != nil {
        return "", fmt.Errorf("failed to persist scheduled job: %w", err)
    }

    recordScheduled(string(kind))
    return job.ID, nil
}

func (s *service) Cancel(ctx context.Context, jobID string) error {
    if err := s.repo.CancelJob(ctx, jobID); err != nil {
        return fmt.Errorf("failed to cancel job %s: %w", jobID, err)
    }
    recordCancelled()
    return nil
}

// ScheduleAvailabilityWarning is the surface the availability service
// depends on for the pre-expiry nudge.
func (s *service) ScheduleAvailabilityWarning(ctx context.Context, userID int64, modeType string, fireAt time.Time) (string, error) {
    return s.Schedule(ctx, userID, KindAvailabilityExpiryWarning, map[string]string{
        "mode_type": modeType,
    }, fireAt)
}

// ProcessScheduled claims due jobs and dispatches them. A failed dispatch
// is logged and marked, never retried here; delivery is best effort.
func (s *service) ProcessScheduled(ctx context.Context) error {
    jobs, err := s.repo.ClaimDueJobs(ctx, time.Now(), 100)
    if err != nil {
        return fmt.Errorf("failed to claim due jobs: %w", err)
    }

    for _, job := range jobs {
        if err := s.dispatch(ctx, job); err != nil {
            log.Printf("Failed to dispatch job %s (%s): %v", job.ID, job.Kind, err)
            if markErr := s.repo.MarkJob(ctx, job.ID, StatusFailed); markErr != nil {
                log.Printf("Failed to mark job %s failed: %v", job.ID, markErr)
            }
            recordDispatched(string(job.Kind), "failed")
            continue
        }
        recordDispatched(string(job.Kind), "sent")
    }
    return nil
}

func (s *service) NotifyNow(ctx context.Context, userID int64, kind JobKind, payload interface{}) error {
    raw, err := json.Marshal(payload)
    if err != nil {
        return fmt.Errorf("failed to encode payload: %w", err)
    }
    job := &ScheduledJob{
        ID:      uuid.NewString(),
        UserID:  userID,
        Kind:    kind,
        Payload: raw,
    }
    if err := s.dispatch(ctx, job); err != nil {
        recordDispatched(string(kind), "failed")
        return err
    }
    recordDispatched(string(kind), "sent")
    return nil
}

func (s *service) dispatch(ctx context.Context, job *ScheduledJob) error {
    tokens, err := s.repo.GetTokens(ctx, job.UserID)
    if err != nil {
        return fmt.Errorf("failed to load push tokens: %w", err)
    }

    title, body := renderJob(job)

    if len(tokens) == 0 {
        // No registered device; fall back to a slower channel.
        return s.dispatchFallback(ctx, job, title, body)
    }

    data := map[string]string{"kind": string(job.Kind)}
    var payload map[string]string
    if len(job.Payload) > 0 {
        if err := json.Unmarshal(job.Payload, &payload); err == nil {
            for k, v := range payload {
                data[k] = v
            }
        }
    }

    return s.push.SendPush(ctx, &PushNotification{
        Tokens:   tokens,
        Title:    title,
        Body:     body,
        Data:     data,
        Priority: PriorityHigh,
        Sound:    "default",
    })
}

func (s *service) dispatchFallback(ctx context.Context, job *ScheduledJob, title, body string) error {
    email, phone, err := s.repo.GetUserContact(ctx, job.UserID)
    if err != nil {
        return fmt.Errorf("failed to load user contact: %w", err)
    }

    // Time-sensitive warnings go over SMS when a phone is on file; an
    // email would usually arrive after the mode already expired.
    if job.Kind == KindAvailabilityExpiryWarning && phone != "" && s.sms != nil {
        return s.sms.SendSMS(ctx, &SMSNotification{To: phone, Message: body})
    }

    if email != "" && s.email != nil {
        return s.email.SendEmail(ctx, &EmailNotification{
            To:      email,
            Subject: title,
            Body:    body,
        })
    }
    return nil
}

func renderJob(job *ScheduledJob) (title, body string) {
    switch job.Kind {
    case KindAvailabilityExpiryWarning:
        // The warning lead is configurable, so the copy stays vague about
        // the exact remaining time.
        return "Your availability is about to end", "Your availability mode is about to expire. Extend it to stay visible."
    case KindEngagementLevelUp:
        return "You're on a roll!", "Your engagement level just went up."
    case KindComfortLevelMutual:
        return "You're in sync", "You and your match are at the same comfort level."
    default:
        return "Notification", string(job.Payload)
    }
}

func (s *service) RegisterToken(ctx context.Context, userID int64, token, platform string) error {
    if token == "" {
        return ErrInvalidToken
    }
    return s.repo.RegisterToken(ctx, &PushToken{
        UserID:   userID,
        Token:    token,
        Platform: platform,
    })
}

func (s *service) RemoveToken(ctx context.Context, userID int64, token string) error {
    return s.repo.RemoveToken(ctx, userID, token)
}
