// internal/rhythm/service.go

package rhythm

import (
    "context"
    "errors"
)

var (
    ErrInvalidStats   = errors.New("invalid interaction stats")
    ErrNotParticipant = errors.New("user is not a participant in this conversation")
)

type Service interface {
    // Refresh recomputes and, when the conversation is long enough,
    // persists the rhythm score.
    Refresh(ctx context.Context, conversationID, requestingUserID int64) (*Result, error)

    // Get returns the latest stored score, or the pending variant when
    // none has ever been computed.
    Get(ctx context.Context, conversationID, requestingUserID int64) (*Result, error)
}

type service struct {
    repo   Repository
    scorer *Scorer
}

func NewService(repo Repository, scorer *Scorer) Service {
    return &service{repo: repo, scorer: scorer}
}

func (s *service) Refresh(ctx context.Context, conversationID, requestingUserID int64) (*Result, error) {
    if err := s.authorize(ctx, conversationID, requestingUserID); err != nil {
        return nil, err
    }

    stats, err := s.repo.GetInteractionStats(ctx, conversationID)
    if err != nil {
        return nil, err
    }

    previous, err := s.repo.GetLatestScore(ctx, conversationID)
    if err != nil {
        return nil, err
    }

    result, err := s.scorer.Compute(conversationID, stats, previous)
    if err != nil {
        return nil, err
    }

    if result.Status == StatusReady {
        if err := s.repo.SaveScore(ctx, result.Score); err != nil {
            return nil, err
        }
        RecordComputation(string(result.Status), string(result.Score.Trend), result.Score.TotalScore)
    } else {
        RecordComputation(string(result.Status), "", 0)
    }

    return result, nil
}

func (s *service) Get(ctx context.Context, conversationID, requestingUserID int64) (*Result, error) {
    if err := s.authorize(ctx, conversationID, requestingUserID); err != nil {
        return nil, err
    }

    score, err := s.repo.GetLatestScore(ctx, conversationID)
    if err != nil {
        return nil, err
    }
    if score == nil {
        // Nothing stored yet: compute on demand
        return s.Refresh(ctx, conversationID, requestingUserID)
    }

    return &Result{Status: StatusReady, Score: score}, nil
}

func (s *service) authorize(ctx context.Context, conversationID, userID int64) error {
    ok, err := s.repo.IsParticipant(ctx, conversationID, userID)
    if err != nil {
        return err
    }
    if !ok {
        return ErrNotParticipant
    }
    return nil
}
