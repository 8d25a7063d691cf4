package notifications

// RegisterTokenDTO is the body for POST /notifications/tokens.
type RegisterTokenDTO struct {
    Token    string `json:"token" validate:"required"`
    Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// RemoveTokenDTO is the body for DELETE /notifications/tokens.
type RemoveTokenDTO struct {
    Token string `json:"token" validate:"required"`
}
