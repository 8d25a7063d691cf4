package availability

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"
)

var (
    ErrInvalidModeType = errors.New("invalid availability mode type")
    ErrInvalidDuration = errors.New("invalid availability duration")
    ErrUnknownTier     = errors.New("unknown subscription tier")
)

// quotaWindow is the trailing window the weekly activation cap counts over.
const quotaWindow = 7 * 24 * time.Hour

// WarningScheduler schedules the pre-expiry nudge. The notifications
// package provides the real implementation; tests inject a fake.
type WarningScheduler interface {
    ScheduleAvailabilityWarning(ctx context.Context, userID int64, modeType string, fireAt time.Time) (string, error)
    Cancel(ctx context.Context, jobID string) error
}

// Publisher fans mode changes out to connected clients.
type Publisher interface {
    Publish(userID int64, event string, data interface{})
}

type Service interface {
    CanActivate(ctx context.Context, userID int64, durationHours int) (*Decision, error)
    Activate(ctx context.Context, userID int64, modeType ModeType, durationHours int, showBadge bool) (*ActivateResult, error)
    Deactivate(ctx context.Context, userID int64) (*DeactivateResult, error)
    GetActive(ctx context.Context, userID int64) (*AvailabilityMode, error)
    SweepExpired(ctx context.Context) (int64, error)
}

type ServiceConfig struct {
    TierLimits  map[Tier]TierLimits
    WarningLead time.Duration
}

func DefaultServiceConfig() ServiceConfig {
    return ServiceConfig{
        TierLimits:  DefaultTierLimits(),
        WarningLead: 30 * time.Minute,
    }
}

type service struct {
    repo      Repository
    warnings  WarningScheduler
    publisher Publisher
    config    ServiceConfig
}

func NewService(repo Repository, warnings WarningScheduler, publisher Publisher, config ServiceConfig) Service {
    return &service{
        repo:      repo,
        warnings:  warnings,
        publisher: publisher,
        config:    config,
    }
}

// CanActivate is the advisory check the client calls before showing the
// activation sheet. Activate re-runs the same checks at write time, so a
// stale "yes" here never becomes a quota bypass.
func (s *service) CanActivate(ctx context.Context, userID int64, durationHours int) (*Decision, error) {
    return s.check(ctx, userID, durationHours, time.Now())
}

func (s *service) check(ctx context.Context, userID int64, durationHours int, now time.Time) (*Decision, error) {
    tier, err := s.repo.GetUserTier(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("failed to load subscription tier: %w", err)
    }
    limits, ok := s.config.TierLimits[tier]
    if !ok {
        return nil, fmt.Errorf("%w: %s", ErrUnknownTier, tier)
    }

    count, err := s.repo.CountActivationsSince(ctx, userID, now.Add(-quotaWindow))
    if err != nil {
        return nil, fmt.Errorf("failed to count recent activations: %w", err)
    }

    decision := &Decision{ActivationsThisWeek: count}

    active, err := s.repo.GetActiveMode(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("failed to load active mode: %w", err)
    }
    if active != nil && active.IsEffectivelyActive(now) {
        decision.Reason = ReasonAlreadyActive
        return decision, nil
    }

    if durationHours > limits.MaxDurationHours {
        decision.Reason = ReasonPremiumRequired
        return decision, nil
    }
    if limits.ActivationsPerWeek != UnlimitedActivations && count >= limits.ActivationsPerWeek {
        decision.Reason = ReasonWeeklyLimit
        return decision, nil
    }

    decision.Allowed = true
    return decision, nil
}

func (s *service) Activate(ctx context.Context, userID int64, modeType ModeType, durationHours int, showBadge bool) (*ActivateResult, error) {
    if !modeType.Valid() {
        return nil, fmt.Errorf("%w: %s", ErrInvalidModeType, modeType)
    }
    if durationHours <= 0 {
        return nil, fmt.Errorf("%w: %d hours", ErrInvalidDuration, durationHours)
    }

    now := time.Now()
    decision, err := s.check(ctx, userID, durationHours, now)
    if err != nil {
        return nil, err
    }
    if !decision.Allowed {
        recordRefusal(string(decision.Reason))
        return &ActivateResult{Decision: *decision}, nil
    }

    mode := &AvailabilityMode{
        UserID:        userID,
        ModeType:      modeType,
        DurationHours: durationHours,
        ActivatedAt:   now,
        ExpiresAt:     now.Add(time.Duration(durationHours) * time.Hour),
        ShowBadge:     showBadge,
    }

    // The store's partial unique index is the real arbiter under
    // concurrency; a losing racer surfaces as already_active.
    if err := s.repo.InsertActiveMode(ctx, mode); err != nil {
        if errors.Is(err, ErrActiveModeExists) {
            recordRefusal(string(ReasonAlreadyActive))
            return &ActivateResult{Decision: Decision{
                Reason:              ReasonAlreadyActive,
                ActivationsThisWeek: decision.ActivationsThisWeek,
            }}, nil
        }
        return nil, fmt.Errorf("failed to activate mode: %w", err)
    }

    if err := s.repo.AppendActivation(ctx, &ModeActivation{
        UserID:        userID,
        ModeType:      modeType,
        DurationHours: durationHours,
        ActivatedAt:   now,
    }); err != nil {
        return nil, fmt.Errorf("failed to record activation: %w", err)
    }

    s.scheduleWarning(ctx, mode, now)

    if s.publisher != nil {
        s.publisher.Publish(userID, "availability.activated", mode)
    }
    recordActivation(string(modeType), durationHours)

    result := decision
    result.ActivationsThisWeek++
    return &ActivateResult{Decision: *result, Mode: mode}, nil
}

// scheduleWarning queues the pre-expiry nudge. Delivery is best effort:
// a scheduling failure must not undo an otherwise successful activation.
func (s *service) scheduleWarning(ctx context.Context, mode *AvailabilityMode, now time.Time) {
    if s.warnings == nil {
        return
    }
    fireAt := mode.ExpiresAt.Add(-s.config.WarningLead)
    if !fireAt.After(now) {
        return
    }
    jobID, err := s.warnings.ScheduleAvailabilityWarning(ctx, mode.UserID, string(mode.ModeType), fireAt)
    if err != nil {
        log.Printf("availability: failed to schedule expiry warning for user %d: %v", mode.UserID, err)
        return
    }
    if err := s.repo.SetWarningJobID(ctx, mode.ID, jobID); err != nil {
        log.Printf("availability: failed to store warning job id for mode %d: %v", mode.ID, err)
        return
    }
    mode.WarningJobID = &jobID
}

func (s *service) Deactivate(ctx context.Context, userID int64) (*DeactivateResult, error) {
    now := time.Now()
    active, err := s.repo.GetActiveMode(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("failed to load active mode: %w", err)
    }
    if active == nil || !active.IsEffectivelyActive(now) {
        recordRefusal(string(ReasonNotActive))
        return &DeactivateResult{Reason: ReasonNotActive}, nil
    }

    if err := s.repo.DeactivateMode(ctx, active.ID); err != nil {
        return nil, fmt.Errorf("failed to deactivate mode: %w", err)
    }

    if s.warnings != nil && active.WarningJobID != nil {
        if err := s.warnings.Cancel(ctx, *active.WarningJobID); err != nil {
            log.Printf("availability: failed to cancel warning job %s: %v", *active.WarningJobID, err)
        }
    }

    if s.publisher != nil {
        s.publisher.Publish(userID, "availability.deactivated", map[string]interface{}{"mode_id": active.ID})
    }
    recordDeactivation(string(active.ModeType))

    return &DeactivateResult{Allowed: true}, nil
}

// GetActive returns nil when nothing is live. An expired-but-unswept row is
// reported as absent; the sweeper reconciles the flag later.
func (s *service) GetActive(ctx context.Context, userID int64) (*AvailabilityMode, error) {
    active, err := s.repo.GetActiveMode(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("failed to load active mode: %w", err)
    }
    if active == nil || !active.IsEffectivelyActive(time.Now()) {
        return nil, nil
    }
    return active, nil
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
    return s.repo.ExpireModes(ctx, time.Now())
}
