package comfort

import "time"

// Level is one participant's declared comfort level for a conversation.
type Level string

const (
    LevelChatting   Level = "chatting"
    LevelFlirting   Level = "flirting"
    LevelOpenToMeet Level = "open_to_meet"
)

// Rank orders the levels: chatting(1) < flirting(2) < open_to_meet(3).
// Unknown values rank 0 and never unlock anything.
func (l Level) Rank() int {
    switch l {
    case LevelChatting:
        return 1
    case LevelFlirting:
        return 2
    case LevelOpenToMeet:
        return 3
    default:
        return 0
    }
}

// Valid reports whether l is one of the three defined levels.
func (l Level) Valid() bool {
    return l.Rank() > 0
}

// ParticipantLevel is one user's stored row for a conversation.
type ParticipantLevel struct {
    ConversationID int64     `json:"conversation_id" db:"conversation_id"`
    UserID         int64     `json:"user_id" db:"user_id"`
    Level          Level     `json:"level" db:"level"`
    UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ConversationState is the derived two-party view. It is a pure function of
// the two independently stored rows; a missing row counts as chatting.
type ConversationState struct {
    ConversationID int64 `json:"conversation_id"`
    User1ID        int64 `json:"user1_id"`
    User2ID        int64 `json:"user2_id"`
    User1Level     Level `json:"-"`
    User2Level     Level `json:"-"`
}

// UnlockedLevel is the lower-ranked of the two declared levels: features
// open up only with two-party consent.
func (s *ConversationState) UnlockedLevel() Level {
    if s.User1Level.Rank() <= s.User2Level.Rank() {
        return s.User1Level
    }
    return s.User2Level
}

// IsMutual reports whether both parties declared the same level.
func (s *ConversationState) IsMutual() bool {
    return s.User1Level == s.User2Level
}

// LevelOf returns the declared level of the given participant.
func (s *ConversationState) LevelOf(userID int64) Level {
    if userID == s.User1ID {
        return s.User1Level
    }
    return s.User2Level
}

// OtherUserHigher reports whether the counterpart of selfID sits at a
// higher rank. Only this boolean ever leaves the service: the raw level of
// the other party is never disclosed, so nobody can be pressured into
// matching a specific escalation.
func (s *ConversationState) OtherUserHigher(selfID int64) bool {
    if selfID == s.User1ID {
        return s.User2Level.Rank() > s.User1Level.Rank()
    }
    return s.User1Level.Rank() > s.User2Level.Rank()
}

// IsFeatureUnlocked reports whether a feature gated at requiredLevel is
// available in this conversation.
func (s *ConversationState) IsFeatureUnlocked(requiredLevel Level) bool {
    return s.UnlockedLevel().Rank() >= requiredLevel.Rank()
}
