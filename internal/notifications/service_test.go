package notifications

import (
    "context"
    "strings"
    "testing"
    "time"
)

type fakeRepository struct {
    jobs    map[string]*ScheduledJob
    tokens  map[int64][]string
    email   string
    phone   string
}

func newFakeRepository() *fakeRepository {
    return &fakeRepository{
        jobs:   make(map[string]*ScheduledJob),
        tokens: make(map[int64][]string),
    }
}

func (f *fakeRepository) CreateJob(_ context.Context, job *ScheduledJob) error {
    copied := *job
    f.jobs[job.ID] = &copied
    return nil
}

func (f *fakeRepository) CancelJob(_ context.Context, jobID string) error {
    if job, ok := f.jobs[jobID]; ok && job.Status == StatusPending {
        job.Status = StatusCancelled
    }
    return nil
}

func (f *fakeRepository) ClaimDueJobs(_ context.Context, now time.Time, limit int) ([]*ScheduledJob, error) {
    var due []*ScheduledJob
    for _, job := range f.jobs {
        if len(due) >= limit {
            break
        }
        if job.Status == StatusPending && !job.FireAt.After(now) {
            job.Status = StatusSent
            copied := *job
            due = append(due, &copied)
        }
    }
    return due, nil
}

func (f *fakeRepository) MarkJob(_ context.Context, jobID string, status JobStatus) error {
    if job, ok := f.jobs[jobID]; ok {
        job.Status = status
    }
    return nil
}

func (f *fakeRepository) RegisterToken(_ context.Context, token *PushToken) error {
    f.tokens[token.UserID] = append(f.tokens[token.UserID], token.Token)
    return nil
}

func (f *fakeRepository) RemoveToken(_ context.Context, userID int64, token string) error {
    kept := f.tokens[userID][:0]
    for _, t := range f.tokens[userID] {
        if t != token {
            kept = append(kept, t)
        }
    }
    f.tokens[userID] = kept
    return nil
}

func (f *fakeRepository) GetTokens(_ context.Context, userID int64) ([]string, error) {
    return f.tokens[userID], nil
}

func (f *fakeRepository) GetUserContact(_ context.Context, _ int64) (string, string, error) {
    return f.email, f.phone, nil
}

func TestScheduleAndCancel(t *testing.T) {
    repo := newFakeRepository()
    svc := NewService(repo, NewMockPushService(), NewMockEmailService(), NewMockSMSService())
    ctx := context.Background()

    jobID, err := svc.Schedule(ctx, 1, KindEngagementLevelUp, map[string]string{"level": "active"}, time.Now().Add(time.Hour))
    if err != nil {
        t.Fatalf("Schedule returned error: %v", err)
    }
    if jobID == "" {
        t.Fatal("expected non-empty job id")
    }
    if repo.jobs[jobID].Status != StatusPending {
        t.Errorf("expected pending job, got %s", repo.jobs[jobID].Status)
    }

    if err := svc.Cancel(ctx, jobID); err != nil {
        t.Fatalf("Cancel returned error: %v", err)
    }
    if repo.jobs[jobID].Status != StatusCancelled {
        t.Errorf("expected cancelled job, got %s", repo.jobs[jobID].Status)
    }
}

func TestScheduleRejectsPastFireTime(t *testing.T) {
    svc := NewService(newFakeRepository(), NewMockPushService(), nil, nil)

    _, err := svc.Schedule(context.Background(), 1, KindEngagementLevelUp, nil, time.Now().Add(-time.Minute))
    if err != ErrPastFireTime {
        t.Errorf("expected ErrPastFireTime, got %v", err)
    }
}

func TestProcessScheduledDispatchesDueJobs(t *testing.T) {
    repo := newFakeRepository()
    push := NewMockPushService()
    svc := NewService(repo, push, nil, nil)
    ctx := context.Background()

    repo.tokens[1] = []string{"device-token"}
    repo.jobs["due"] = &ScheduledJob{
        ID:     "due",
        UserID: 1,
        Kind:   KindAvailabilityExpiryWarning,
        FireAt: time.Now().Add(-time.Minute),
        Status: StatusPending,
    }
    repo.jobs["future"] = &ScheduledJob{
        ID:     "future",
        UserID: 1,
        Kind:   KindAvailabilityExpiryWarning,
        FireAt: time.Now().Add(time.Hour),
        Status: StatusPending,
    }

    if err := svc.ProcessScheduled(ctx); err != nil {
        t.Fatalf("ProcessScheduled returned error: %v", err)
    }
    if len(push.SentNotifications) != 1 {
        t.Fatalf("expected 1 push sent, got %d", len(push.SentNotifications))
    }
    if push.SentNotifications[0].Tokens[0] != "device-token" {
        t.Errorf("push went to wrong token: %v", push.SentNotifications[0].Tokens)
    }
    if repo.jobs["future"].Status != StatusPending {
        t.Error("future job should stay pending")
    }
}

func TestCancelledJobNeverDispatches(t *testing.T) {
    repo := newFakeRepository()
    push := NewMockPushService()
    svc := NewService(repo, push, nil, nil)
    ctx := context.Background()

    repo.tokens[1] = []string{"device-token"}
    jobID, err := svc.Schedule(ctx, 1, KindAvailabilityExpiryWarning, nil, time.Now().Add(50*time.Millisecond))
    if err != nil {
        t.Fatalf("Schedule returned error: %v", err)
    }
    if err := svc.Cancel(ctx, jobID); err != nil {
        t.Fatalf("Cancel returned error: %v", err)
    }

    time.Sleep(100 * time.Millisecond)
    if err := svc.ProcessScheduled(ctx); err != nil {
        t.Fatalf("ProcessScheduled returned error: %v", err)
    }
    if len(push.SentNotifications) != 0 {
        t.Errorf("cancelled job dispatched %d pushes", len(push.SentNotifications))
    }
}

func TestFallbackToSMSForExpiryWarning(t *testing.T) {
    repo := newFakeRepository()
    repo.phone = "+15550100"
    sms := NewMockSMSService()
    svc := NewService(repo, NewMockPushService(), NewMockEmailService(), sms)

    err := svc.NotifyNow(context.Background(), 1, KindAvailabilityExpiryWarning, nil)
    if err != nil {
        t.Fatalf("NotifyNow returned error: %v", err)
    }
    if len(sms.SentMessages) != 1 {
        t.Fatalf("expected SMS fallback, got %d messages", len(sms.SentMessages))
    }
    if sms.SentMessages[0].To != "+15550100" {
        t.Errorf("SMS went to %s", sms.SentMessages[0].To)
    }
}

func TestFallbackToEmailWithoutPhone(t *testing.T) {
    repo := newFakeRepository()
    repo.email = "user@example.com"
    email := NewMockEmailService()
    svc := NewService(repo, NewMockPushService(), email, NewMockSMSService())

    err := svc.NotifyNow(context.Background(), 1, KindEngagementLevelUp, map[string]string{"level": "active"})
    if err != nil {
        t.Fatalf("NotifyNow returned error: %v", err)
    }
    if len(email.SentEmails) != 1 {
        t.Fatalf("expected email fallback, got %d emails", len(email.SentEmails))
    }
}

func TestFallbackPhoneOnlyUser(t *testing.T) {
    repo := newFakeRepository()
    repo.phone = "+15550100"
    email := NewMockEmailService()
    sms := NewMockSMSService()
    svc := NewService(repo, NewMockPushService(), email, sms)
    ctx := context.Background()

    // Signups can carry a phone and no email; that must not error the
    // fallback path or send mail to an empty address.
    if err := svc.NotifyNow(ctx, 1, KindEngagementLevelUp, nil); err != nil {
        t.Fatalf("NotifyNow returned error: %v", err)
    }
    if len(email.SentEmails) != 0 {
        t.Errorf("sent %d emails to a user without an email address", len(email.SentEmails))
    }

    if err := svc.NotifyNow(ctx, 1, KindAvailabilityExpiryWarning, nil); err != nil {
        t.Fatalf("NotifyNow returned error: %v", err)
    }
    if len(sms.SentMessages) != 1 {
        t.Fatalf("expected SMS warning, got %d messages", len(sms.SentMessages))
    }
}

func TestRenderJobCopy(t *testing.T) {
    tests := map[JobKind]string{
        KindAvailabilityExpiryWarning: "Your availability is about to end",
        KindEngagementLevelUp:         "You're on a roll!",
        KindComfortLevelMutual:        "You're in sync",
    }

    for kind, wantTitle := range tests {
        title, body := renderJob(&ScheduledJob{Kind: kind})
        if title != wantTitle {
            t.Errorf("renderJob(%s) title = %q, want %q", kind, title, wantTitle)
        }
        if body == "" {
            t.Errorf("renderJob(%s) produced an empty body", kind)
        }
    }

    // The warning lead is configurable, so the body must not promise a
    // fixed number of minutes.
    _, body := renderJob(&ScheduledJob{Kind: KindAvailabilityExpiryWarning})
    if strings.Contains(body, "minute") {
        t.Errorf("warning body hardcodes a lead time: %q", body)
    }
}

func TestTokenRegistration(t *testing.T) {
    repo := newFakeRepository()
    svc := NewService(repo, NewMockPushService(), nil, nil)
    ctx := context.Background()

    if err := svc.RegisterToken(ctx, 1, "", "ios"); err != ErrInvalidToken {
        t.Errorf("expected ErrInvalidToken for empty token, got %v", err)
    }

    if err := svc.RegisterToken(ctx, 1, "tok-1", "ios"); err != nil {
        t.Fatalf("RegisterToken returned error: %v", err)
    }
    if err := svc.RemoveToken(ctx, 1, "tok-1"); err != nil {
        t.Fatalf("RemoveToken returned error: %v", err)
    }
    if len(repo.tokens[1]) != 0 {
        t.Errorf("expected no tokens left, got %v", repo.tokens[1])
    }
}
