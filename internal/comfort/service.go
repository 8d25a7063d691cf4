// internal/comfort/service.go

package comfort

import (
    "context"
    "database/sql"
    "errors"
)

var (
    ErrInvalidLevel           = errors.New("invalid comfort level")
    ErrNotParticipant         = errors.New("user is not a participant in this conversation")
    ErrConversationNotFound   = errors.New("conversation not found")
)

// Publisher pushes state-change events to connected clients.
type Publisher interface {
    Publish(userID int64, event string, data interface{})
}

type Service interface {
    SetLevel(ctx context.Context, conversationID, userID int64, newLevel Level) (*StateDTO, error)
    Reset(ctx context.Context, conversationID, userID int64) (*StateDTO, error)
    GetState(ctx context.Context, conversationID, requestingUserID int64) (*StateDTO, error)
    IsFeatureUnlocked(ctx context.Context, conversationID int64, requiredLevel Level) (bool, error)
}

type service struct {
    repo      Repository
    publisher Publisher
}

func NewService(repo Repository, publisher Publisher) Service {
    return &service{repo: repo, publisher: publisher}
}

func (s *service) SetLevel(ctx context.Context, conversationID, userID int64, newLevel Level) (*StateDTO, error) {
    if !newLevel.Valid() {
        return nil, ErrInvalidLevel
    }

    state, err := s.loadState(ctx, conversationID, userID)
    if err != nil {
        return nil, err
    }

    // Any of the three levels may be chosen directly, including moving back
    // down to chatting. There is no stepwise restriction.
    if err := s.repo.UpsertLevel(ctx, conversationID, userID, newLevel); err != nil {
        return nil, err
    }

    if userID == state.User1ID {
        state.User1Level = newLevel
    } else {
        state.User2Level = newLevel
    }

    RecordLevelSet(string(newLevel))

    if s.publisher != nil {
        // Tell the counterpart something changed, without the raw level
        otherID := state.User1ID
        if otherID == userID {
            otherID = state.User2ID
        }
        s.publisher.Publish(otherID, "comfort.state_changed", map[string]interface{}{
            "conversation_id": conversationID,
            "unlocked_level":  state.UnlockedLevel(),
        })
    }

    return s.toDTO(state, userID), nil
}

// Reset drops the caller's own level back to chatting. The counterpart's
// declared level is never touched.
func (s *service) Reset(ctx context.Context, conversationID, userID int64) (*StateDTO, error) {
    return s.SetLevel(ctx, conversationID, userID, LevelChatting)
}

func (s *service) GetState(ctx context.Context, conversationID, requestingUserID int64) (*StateDTO, error) {
    state, err := s.loadState(ctx, conversationID, requestingUserID)
    if err != nil {
        return nil, err
    }

    return s.toDTO(state, requestingUserID), nil
}

func (s *service) IsFeatureUnlocked(ctx context.Context, conversationID int64, requiredLevel Level) (bool, error) {
    if !requiredLevel.Valid() {
        return false, ErrInvalidLevel
    }

    user1ID, user2ID, err := s.repo.GetConversationParticipants(ctx, conversationID)
    if err != nil {
        if err == sql.ErrNoRows {
            return false, ErrConversationNotFound
        }
        return false, err
    }

    state, err := s.deriveState(ctx, conversationID, user1ID, user2ID)
    if err != nil {
        return false, err
    }

    return state.IsFeatureUnlocked(requiredLevel), nil
}

// loadState reads both rows and verifies the requester is a participant.
func (s *service) loadState(ctx context.Context, conversationID, userID int64) (*ConversationState, error) {
    user1ID, user2ID, err := s.repo.GetConversationParticipants(ctx, conversationID)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, ErrConversationNotFound
        }
        return nil, err
    }

    if userID != user1ID && userID != user2ID {
        return nil, ErrNotParticipant
    }

    return s.deriveState(ctx, conversationID, user1ID, user2ID)
}

// deriveState builds the two-party view from the independently stored rows.
// A participant without a row has not chosen yet and defaults to chatting;
// the row itself is only created lazily on the first SetLevel.
func (s *service) deriveState(ctx context.Context, conversationID, user1ID, user2ID int64) (*ConversationState, error) {
    rows, err := s.repo.GetLevels(ctx, conversationID)
    if err != nil {
        return nil, err
    }

    state := &ConversationState{
        ConversationID: conversationID,
        User1ID:        user1ID,
        User2ID:        user2ID,
        User1Level:     LevelChatting,
        User2Level:     LevelChatting,
    }

    for _, row := range rows {
        switch row.UserID {
        case user1ID:
            state.User1Level = row.Level
        case user2ID:
            state.User2Level = row.Level
        }
    }

    return state, nil
}

func (s *service) toDTO(state *ConversationState, selfID int64) *StateDTO {
    return &StateDTO{
        ConversationID:  state.ConversationID,
        MyLevel:         state.LevelOf(selfID),
        UnlockedLevel:   state.UnlockedLevel(),
        IsMutual:        state.IsMutual(),
        OtherUserHigher: state.OtherUserHigher(selfID),
    }
}
