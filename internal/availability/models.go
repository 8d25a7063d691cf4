package availability

import "time"

// ModeType is the flavor of availability being broadcast.
type ModeType string

const (
    ModeRelaxed     ModeType = "relaxed"
    ModeSpontaneous ModeType = "spontaneous"
    ModeExplorer    ModeType = "explorer"
)

func (m ModeType) Valid() bool {
    switch m {
    case ModeRelaxed, ModeSpontaneous, ModeExplorer:
        return true
    }
    return false
}

// Tier is the subscription tier; it only parameterizes rate limits here.
type Tier string

const (
    TierFree    Tier = "free"
    TierPlus    Tier = "plus"
    TierPremium Tier = "premium"
)

// UnlimitedActivations marks a tier with no weekly quota.
const UnlimitedActivations = -1

// TierLimits are the per-tier activation constraints.
type TierLimits struct {
    ActivationsPerWeek int // UnlimitedActivations for no cap
    MaxDurationHours   int
}

// DefaultTierLimits: free gets one 24h activation per trailing week,
// paid tiers get unlimited activations up to 72h.
func DefaultTierLimits() map[Tier]TierLimits {
    return map[Tier]TierLimits{
        TierFree:    {ActivationsPerWeek: 1, MaxDurationHours: 24},
        TierPlus:    {ActivationsPerWeek: UnlimitedActivations, MaxDurationHours: 72},
        TierPremium: {ActivationsPerWeek: UnlimitedActivations, MaxDurationHours: 72},
    }
}

// AvailabilityMode is the single current broadcast slot of a user.
// At most one row per user may be effectively active at any instant,
// enforced by a partial unique index at the store plus a re-check at
// write time.
type AvailabilityMode struct {
    ID            int64     `json:"id" db:"id"`
    UserID        int64     `json:"user_id" db:"user_id"`
    ModeType      ModeType  `json:"mode_type" db:"mode_type"`
    DurationHours int       `json:"duration_hours" db:"duration_hours"`
    ActivatedAt   time.Time `json:"activated_at" db:"activated_at"`
    ExpiresAt     time.Time `json:"expires_at" db:"expires_at"`
    IsActive      bool      `json:"is_active" db:"is_active"`
    ShowBadge     bool      `json:"show_badge" db:"show_badge"`
    WarningJobID  *string   `json:"-" db:"warning_job_id"`
}

// IsEffectivelyActive treats a row past its expiry as gone even when the
// background sweep has not flipped the flag yet.
func (m *AvailabilityMode) IsEffectivelyActive(now time.Time) bool {
    return m.IsActive && m.ExpiresAt.After(now)
}

// ModeActivation is the append-only log entry behind the weekly quota.
// It survives the mode's expiry or deactivation.
type ModeActivation struct {
    ID            int64     `json:"id" db:"id"`
    UserID        int64     `json:"user_id" db:"user_id"`
    ModeType      ModeType  `json:"mode_type" db:"mode_type"`
    DurationHours int       `json:"duration_hours" db:"duration_hours"`
    ActivatedAt   time.Time `json:"activated_at" db:"activated_at"`
}

// Reason is the stable machine-readable code behind a refused state
// transition. Callers branch on it for user-facing messaging, so these are
// results, never errors.
type Reason string

const (
    ReasonAlreadyActive   Reason = "already_active"
    ReasonNotActive       Reason = "not_active"
    ReasonWeeklyLimit     Reason = "weekly_limit"
    ReasonPremiumRequired Reason = "premium_required"
)

// Decision is the outcome of a quota/exclusivity check.
type Decision struct {
    Allowed             bool   `json:"allowed"`
    Reason              Reason `json:"reason,omitempty"`
    ActivationsThisWeek int    `json:"activations_this_week"`
}

// ActivateResult carries either the new mode or the refusal.
type ActivateResult struct {
    Decision
    Mode *AvailabilityMode `json:"mode,omitempty"`
}

// DeactivateResult mirrors ActivateResult for the explicit early end.
type DeactivateResult struct {
    Allowed bool   `json:"allowed"`
    Reason  Reason `json:"reason,omitempty"`
}
