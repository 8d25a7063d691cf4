package discovery

import "time"

// Filters narrow the candidate pool before any ranking happens.
type Filters struct {
    Gender        string
    MinAge        int
    MaxAge        int
    MaxDistanceKM float64
    VerifiedOnly  bool
    WithPhotoOnly bool
    Limit         int
}

// Candidate is one row of the ranked discovery list. Score is the stored
// engagement score; EffectiveScore is Score times the read-time boost
// multiplier and is what the list is ordered by.
type Candidate struct {
    UserID               int64     `json:"user_id" db:"user_id"`
    Name                 string    `json:"name" db:"name"`
    Age                  int       `json:"age" db:"age"`
    Gender               string    `json:"gender" db:"gender"`
    PhotoURL             *string   `json:"photo_url,omitempty" db:"photo_url"`
    IsVerified           bool      `json:"is_verified" db:"is_verified"`
    EngagementScore      float64   `json:"engagement_score" db:"engagement_score"`
    EngagementLevel      string    `json:"engagement_level" db:"engagement_level"`
    VisibilityMultiplier float64   `json:"visibility_multiplier" db:"visibility_multiplier"`
    EffectiveScore       float64   `json:"effective_score" db:"-"`
    AvailableNow         bool      `json:"available_now" db:"available_now"`
    AvailabilityMode     *string   `json:"availability_mode,omitempty" db:"availability_mode"`
    LastActiveAt         time.Time `json:"last_active_at" db:"last_active_at"`
    Latitude             *float64  `json:"-" db:"latitude"`
    Longitude            *float64  `json:"-" db:"longitude"`
    DistanceKM           *float64  `json:"distance_km,omitempty" db:"-"`
}

// Location is a point used for the distance filter.
type Location struct {
    Latitude  float64 `db:"latitude"`
    Longitude float64 `db:"longitude"`
}
