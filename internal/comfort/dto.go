// internal/comfort/dto.go
package comfort

// DTOs for API requests/responses

type SetLevelDTO struct {
    Level string `json:"level" validate:"required,oneof=chatting flirting open_to_meet"`
}

// StateDTO deliberately omits the counterpart's raw level. The client only
// ever learns the shared unlocked level and whether the other side is ahead.
type StateDTO struct {
    ConversationID  int64 `json:"conversation_id"`
    MyLevel         Level `json:"my_level"`
    UnlockedLevel   Level `json:"unlocked_level"`
    IsMutual        bool  `json:"is_mutual"`
    OtherUserHigher bool  `json:"other_user_higher"`
}
