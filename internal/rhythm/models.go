package rhythm

import (
    "fmt"
    "time"
)

// Trend classifies the latest total against the previous one.
type Trend string

const (
    TrendUp     Trend = "up"
    TrendDown   Trend = "down"
    TrendStable Trend = "stable"
)

// InteractionStats is the pre-aggregated conversational input. The
// repository owns the SQL; the scorer only validates and combines.
type InteractionStats struct {
    ConversationID      int64 `json:"conversation_id" db:"conversation_id"`
    CurrentMessageCount int   `json:"current_message_count" db:"current_message_count"`

    // Reply latency distribution
    MedianReplyMinutes float64 `json:"median_reply_minutes" db:"median_reply_minutes"`
    P90ReplyMinutes    float64 `json:"p90_reply_minutes" db:"p90_reply_minutes"`

    // Conversational give-and-take
    BackAndForthRatio float64 `json:"back_and_forth_ratio" db:"back_and_forth_ratio"`
    AvgMessageLength  float64 `json:"avg_message_length" db:"avg_message_length"`

    // Cadence: spread of inter-message gaps
    GapStdDevMinutes float64 `json:"gap_stddev_minutes" db:"gap_stddev_minutes"`
}

// Validate rejects stats that can only come from a broken aggregation.
func (s *InteractionStats) Validate() error {
    if s.CurrentMessageCount < 0 {
        return fmt.Errorf("%w: message count is negative", ErrInvalidStats)
    }
    if s.MedianReplyMinutes < 0 || s.P90ReplyMinutes < 0 {
        return fmt.Errorf("%w: reply latency is negative", ErrInvalidStats)
    }
    if s.BackAndForthRatio < 0 || s.BackAndForthRatio > 1 {
        return fmt.Errorf("%w: back_and_forth_ratio outside [0,1]", ErrInvalidStats)
    }
    if s.AvgMessageLength < 0 {
        return fmt.Errorf("%w: avg_message_length is negative", ErrInvalidStats)
    }
    if s.GapStdDevMinutes < 0 {
        return fmt.Errorf("%w: gap_stddev_minutes is negative", ErrInvalidStats)
    }
    return nil
}

// RhythmScore is a valid per-conversation computation.
type RhythmScore struct {
    ID                int64     `json:"id" db:"id"`
    ConversationID    int64     `json:"conversation_id" db:"conversation_id"`
    AvailabilityScore float64   `json:"availability_score" db:"availability_score"`
    EngagementScore   float64   `json:"engagement_score" db:"engagement_score"`
    RegularityScore   float64   `json:"regularity_score" db:"regularity_score"`
    TotalScore        float64   `json:"total_score" db:"total_score"`
    Trend             Trend     `json:"trend" db:"trend"`
    MessageCount      int       `json:"message_count" db:"message_count"`
    CalculatedAt      time.Time `json:"calculated_at" db:"calculated_at"`
}

// PendingInfo is returned while a conversation is still too short to score.
// "Not enough messages yet" is an expected state, not an error.
type PendingInfo struct {
    ConversationID      int64 `json:"conversation_id"`
    CurrentMessageCount int   `json:"current_message_count"`
    MinMessagesRequired int   `json:"min_messages_required"`
}

// ResultStatus tags which variant a Result carries.
type ResultStatus string

const (
    StatusPending ResultStatus = "pending"
    StatusReady   ResultStatus = "ready"
)

// Result is the tagged union returned by Compute: exactly one of Pending
// and Score is set, matching Status.
type Result struct {
    Status  ResultStatus `json:"status"`
    Pending *PendingInfo `json:"pending,omitempty"`
    Score   *RhythmScore `json:"score,omitempty"`
}
