// internal/engagement/dto.go
package engagement

// DTOs for API requests/responses

type GrantBoostDTO struct {
    BoostType     string  `json:"boost_type" validate:"required,oneof=profile_completion first_week event streak"`
    Multiplier    float64 `json:"multiplier" validate:"required,gt=1,max=3"`
    DurationHours int     `json:"duration_hours" validate:"required,min=1,max=720"`
}

type ScoreResponse struct {
    TotalScore           float64         `json:"total_score"`
    Level                EngagementLevel `json:"level"`
    SubScores            SubScores       `json:"sub_scores"`
    HasEnoughData        bool            `json:"has_enough_data"`
    VisibilityMultiplier float64         `json:"visibility_multiplier"`
}
