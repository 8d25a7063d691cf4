package availability

// ActivateModeDTO is the body for POST /availability/activate.
type ActivateModeDTO struct {
    ModeType      string `json:"mode_type" validate:"required,oneof=relaxed spontaneous explorer"`
    DurationHours int    `json:"duration_hours" validate:"required,min=1,max=72"`
    ShowBadge     bool   `json:"show_badge"`
}
