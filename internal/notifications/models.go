package notifications

import (
    "encoding/json"
    "time"
)

// JobKind names the notification being scheduled. Dispatch picks the
// title/body and channel from this.
type JobKind string

const (
    KindAvailabilityExpiryWarning JobKind = "availability_expiry_warning"
    KindEngagementLevelUp         JobKind = "engagement_level_up"
    KindComfortLevelMutual        JobKind = "comfort_level_mutual"
)

// JobStatus is the lifecycle of a scheduled job.
type JobStatus string

const (
    StatusPending   JobStatus = "pending"
    StatusSent      JobStatus = "sent"
    StatusCancelled JobStatus = "cancelled"
    StatusFailed    JobStatus = "failed"
)

// ScheduledJob is a persisted delayed notification. Jobs survive process
// restarts; the worker claims due jobs and fans them out.
type ScheduledJob struct {
    ID        string          `json:"id" db:"id"`
    UserID    int64           `json:"user_id" db:"user_id"`
    Kind      JobKind         `json:"kind" db:"kind"`
    Payload   json.RawMessage `json:"payload" db:"payload"`
    FireAt    time.Time       `json:"fire_at" db:"fire_at"`
    Status    JobStatus       `json:"status" db:"status"`
    CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// PushToken is a registered device token.
type PushToken struct {
    ID        int64     `json:"id" db:"id"`
    UserID    int64     `json:"user_id" db:"user_id"`
    Token     string    `json:"token" db:"token"`
    Platform  string    `json:"platform" db:"platform"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Priority string

const (
    PriorityHigh Priority = "high"
    PriorityLow  Priority = "low"
)

// PushNotification is the payload handed to a push provider.
type PushNotification struct {
    Tokens   []string          `json:"tokens"`
    Title    string            `json:"title"`
    Body     string            `json:"body"`
    Data     map[string]string `json:"data,omitempty"`
    Priority Priority          `json:"priority"`
    Sound    string            `json:"sound,omitempty"`
    Badge    int               `json:"badge,omitempty"`
}

// EmailNotification is the payload handed to an email provider.
type EmailNotification struct {
    To      string `json:"to"`
    Subject string `json:"subject"`
    Body    string `json:"body"`
    HTML    string `json:"html,omitempty"`
}

// SMSNotification is the payload handed to an SMS provider.
type SMSNotification struct {
    To      string `json:"to"`
    Message string `json:"message"`
}
