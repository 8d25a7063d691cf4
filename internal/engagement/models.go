package engagement

import (
    "fmt"
    "time"
)

// EngagementLevel is the display tier derived from the total score.
type EngagementLevel string

const (
    LevelNew        EngagementLevel = "new"
    LevelCasual     EngagementLevel = "casual"
    LevelModerate   EngagementLevel = "moderate"
    LevelActive     EngagementLevel = "active"
    LevelVeryActive EngagementLevel = "very_active"
)

// LevelRange maps a contiguous integer score range to a level.
type LevelRange struct {
    Min   int             `json:"min"`
    Max   int             `json:"max"`
    Level EngagementLevel `json:"level"`
}

// DefaultLevelRanges covers [0,100] with no gaps or overlaps.
func DefaultLevelRanges() []LevelRange {
    return []LevelRange{
        {0, 19, LevelNew},
        {20, 39, LevelCasual},
        {40, 59, LevelModerate},
        {60, 79, LevelActive},
        {80, 100, LevelVeryActive},
    }
}

// ValidateLevelRanges checks that the ranges are contiguous, non-overlapping
// and cover every integer score in [0,100]. A failure here is a startup
// configuration error, never a request-time one.
func ValidateLevelRanges(ranges []LevelRange) error {
    if len(ranges) == 0 {
        return fmt.Errorf("level ranges must not be empty")
    }

    expected := 0
    for i, r := range ranges {
        if r.Min > r.Max {
            return fmt.Errorf("level range %q inverted: [%d,%d]", r.Level, r.Min, r.Max)
        }
        if r.Min != expected {
            return fmt.Errorf("level ranges not contiguous at %d: range %q starts at %d", i, r.Level, r.Min)
        }
        expected = r.Max + 1
    }

    if expected != 101 {
        return fmt.Errorf("level ranges must end at 100, last range ends at %d", expected-1)
    }

    return nil
}

// EngagementMetrics is the pre-aggregated behavioral input for one user.
// The aggregation SQL lives in the repository; the scorer only validates
// and combines.
type EngagementMetrics struct {
    UserID int64 `json:"user_id" db:"user_id"`

    // Responsiveness
    MessagesReceived   int     `json:"messages_received" db:"messages_received"`
    AvgResponseMinutes float64 `json:"avg_response_minutes" db:"avg_response_minutes"`
    ReplyRate          float64 `json:"reply_rate" db:"reply_rate"`

    // Conversation continuation
    MessagesPerConversation float64 `json:"messages_per_conversation" db:"messages_per_conversation"`
    ConversationsTotal      int     `json:"conversations_total" db:"conversations_total"`
    ConversationsContinued  int     `json:"conversations_continued" db:"conversations_continued"`

    // Meeting conversion
    MeetingsProposed int `json:"meetings_proposed" db:"meetings_proposed"`
    MeetingsAccepted int `json:"meetings_accepted" db:"meetings_accepted"`
    MeetingsDeclined int `json:"meetings_declined" db:"meetings_declined"`

    // Activity
    DaysActiveLastWeek   int     `json:"days_active_last_week" db:"days_active_last_week"`
    HoursSinceLastActive float64 `json:"hours_since_last_active" db:"hours_since_last_active"`
}

// Validate rejects metrics that can only come from a broken aggregation.
// Out-of-range inputs are a bug upstream, not something to clamp silently.
func (m *EngagementMetrics) Validate() error {
    if m.MessagesReceived < 0 {
        return fmt.Errorf("%w: messages_received is negative", ErrInvalidMetrics)
    }
    if m.AvgResponseMinutes < 0 {
        return fmt.Errorf("%w: avg_response_minutes is negative", ErrInvalidMetrics)
    }
    if m.ReplyRate < 0 || m.ReplyRate > 1 {
        return fmt.Errorf("%w: reply_rate outside [0,1]", ErrInvalidMetrics)
    }
    if m.MessagesPerConversation < 0 {
        return fmt.Errorf("%w: messages_per_conversation is negative", ErrInvalidMetrics)
    }
    if m.ConversationsTotal < 0 || m.ConversationsContinued < 0 {
        return fmt.Errorf("%w: conversation counts are negative", ErrInvalidMetrics)
    }
    if m.ConversationsContinued > m.ConversationsTotal {
        return fmt.Errorf("%w: continued conversations exceed total", ErrInvalidMetrics)
    }
    if m.MeetingsProposed < 0 || m.MeetingsAccepted < 0 || m.MeetingsDeclined < 0 {
        return fmt.Errorf("%w: meeting counts are negative", ErrInvalidMetrics)
    }
    if m.MeetingsAccepted+m.MeetingsDeclined > m.MeetingsProposed {
        return fmt.Errorf("%w: meeting responses exceed proposals", ErrInvalidMetrics)
    }
    if m.DaysActiveLastWeek < 0 || m.DaysActiveLastWeek > 7 {
        return fmt.Errorf("%w: days_active_last_week outside [0,7]", ErrInvalidMetrics)
    }
    if m.HoursSinceLastActive < 0 {
        return fmt.Errorf("%w: hours_since_last_active is negative", ErrInvalidMetrics)
    }
    return nil
}

// EngagementBoost is a temporary visibility multiplier. Expired boosts are
// inert; physically deleting them is the store's housekeeping, not ours.
type EngagementBoost struct {
    ID         int64     `json:"id" db:"id"`
    UserID     int64     `json:"user_id" db:"user_id"`
    BoostType  string    `json:"boost_type" db:"boost_type"`
    Multiplier float64   `json:"multiplier" db:"multiplier"`
    ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
    CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsActive reports whether the boost still applies at the given instant.
func (b *EngagementBoost) IsActive(now time.Time) bool {
    return b.ExpiresAt.After(now)
}

// SubScores is the per-dimension breakdown behind a total score.
type SubScores struct {
    Responsiveness float64 `json:"responsiveness" db:"responsiveness_score"`
    Conversation   float64 `json:"conversation" db:"conversation_score"`
    Meeting        float64 `json:"meeting" db:"meeting_score"`
    Activity       float64 `json:"activity" db:"activity_score"`
}

// EngagementResult is the full outcome of one score computation.
// EffectiveMultiplier is reported alongside, never baked into TotalScore:
// the stored score stays auditable and ranking applies the multiplier at
// read time.
type EngagementResult struct {
    SubScores           SubScores       `json:"sub_scores"`
    TotalScore          float64         `json:"total_score"`
    Level               EngagementLevel `json:"level"`
    HasEnoughData       bool            `json:"has_enough_data"`
    EffectiveMultiplier float64         `json:"effective_multiplier"`
}

// ScoreSnapshot is the persisted form of a computation.
type ScoreSnapshot struct {
    ID                   int64           `json:"id" db:"id"`
    UserID               int64           `json:"user_id" db:"user_id"`
    ResponsivenessScore  float64         `json:"responsiveness_score" db:"responsiveness_score"`
    ConversationScore    float64         `json:"conversation_score" db:"conversation_score"`
    MeetingScore         float64         `json:"meeting_score" db:"meeting_score"`
    ActivityScore        float64         `json:"activity_score" db:"activity_score"`
    TotalScore           float64         `json:"total_score" db:"total_score"`
    Level                EngagementLevel `json:"level" db:"level"`
    HasEnoughData        bool            `json:"has_enough_data" db:"has_enough_data"`
    VisibilityMultiplier float64         `json:"visibility_multiplier" db:"visibility_multiplier"`
    CalculatedAt         time.Time       `json:"calculated_at" db:"calculated_at"`
}
