// internal/engagement/service.go

package engagement

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/go-redis/redis/v8"
)

var (
    ErrInvalidMetrics = errors.New("invalid engagement metrics")
    ErrInvalidBoost   = errors.New("invalid boost parameters")
)

const scoreCacheTTL = 15 * time.Minute

// Publisher pushes state-change events to connected clients.
type Publisher interface {
    Publish(userID int64, event string, data interface{})
}

type Service interface {
    RefreshScore(ctx context.Context, userID int64) (*EngagementResult, error)
    GetScore(ctx context.Context, userID int64) (*ScoreSnapshot, error)
    GrantBoost(ctx context.Context, userID int64, dto *GrantBoostDTO) (*EngagementBoost, error)

    // Scheduled Jobs
    RefreshAllScores(ctx context.Context) error
}

type service struct {
    repo      Repository
    scorer    *Scorer
    cache     *redis.Client
    publisher Publisher
}

// NewService wires the engagement score pipeline. cache and publisher may be
// nil; both are best-effort.
func NewService(repo Repository, scorer *Scorer, cache *redis.Client, publisher Publisher) Service {
    return &service{
        repo:      repo,
        scorer:    scorer,
        cache:     cache,
        publisher: publisher,
    }
}

func (s *service) RefreshScore(ctx context.Context, userID int64) (*EngagementResult, error) {
    metrics, err := s.repo.GetMetrics(ctx, userID)
    if err != nil {
        return nil, err
    }

    now := time.Now()
    boosts, err := s.repo.GetActiveBoosts(ctx, userID, now)
    if err != nil {
        return nil, err
    }

    var previous *float64
    previousSnapshot, err := s.repo.GetLatestSnapshot(ctx, userID)
    if err != nil {
        return nil, err
    }
    if previousSnapshot != nil {
        previous = &previousSnapshot.TotalScore
    }

    result, err := s.scorer.ComputeAt(now, metrics, boosts, previous)
    if err != nil {
        return nil, err
    }

    snapshot := &ScoreSnapshot{
        UserID:               userID,
        ResponsivenessScore:  result.SubScores.Responsiveness,
        ConversationScore:    result.SubScores.Conversation,
        MeetingScore:         result.SubScores.Meeting,
        ActivityScore:        result.SubScores.Activity,
        TotalScore:           result.TotalScore,
        Level:                result.Level,
        HasEnoughData:        result.HasEnoughData,
        VisibilityMultiplier: result.EffectiveMultiplier,
    }

    if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
        return nil, err
    }

    s.cacheSnapshot(ctx, snapshot)

    RecordScoreComputed(float64(result.TotalScore))
    if previousSnapshot != nil && previousSnapshot.Level != result.Level {
        RecordLevelTransition(string(previousSnapshot.Level), string(result.Level))
        if s.publisher != nil {
            s.publisher.Publish(userID, "engagement.level_changed", map[string]interface{}{
                "level":       result.Level,
                "total_score": result.TotalScore,
            })
        }
    }

    return result, nil
}

func (s *service) GetScore(ctx context.Context, userID int64) (*ScoreSnapshot, error) {
    if cached := s.cachedSnapshot(ctx, userID); cached != nil {
        return cached, nil
    }

    snapshot, err := s.repo.GetLatestSnapshot(ctx, userID)
    if err != nil {
        return nil, err
    }
    if snapshot == nil {
        // First read for this user: compute on demand
        if _, err := s.RefreshScore(ctx, userID); err != nil {
            return nil, err
        }
        return s.repo.GetLatestSnapshot(ctx, userID)
    }

    s.cacheSnapshot(ctx, snapshot)
    return snapshot, nil
}

func (s *service) GrantBoost(ctx context.Context, userID int64, dto *GrantBoostDTO) (*EngagementBoost, error) {
    if dto.Multiplier <= 1 {
        return nil, fmt.Errorf("%w: multiplier must exceed 1", ErrInvalidBoost)
    }

    boost := &EngagementBoost{
        UserID:     userID,
        BoostType:  dto.BoostType,
        Multiplier: dto.Multiplier,
        ExpiresAt:  time.Now().Add(time.Duration(dto.DurationHours) * time.Hour),
    }

    if err := s.repo.CreateBoost(ctx, boost); err != nil {
        return nil, err
    }

    // Invalidate the cached snapshot so the next read picks up the multiplier
    s.invalidateCache(ctx, userID)
    RecordBoostGranted(dto.BoostType)

    return boost, nil
}

func (s *service) RefreshAllScores(ctx context.Context) error {
    userIDs, err := s.repo.GetScoredUserIDs(ctx, 30)
    if err != nil {
        return err
    }

    var failures int
    for _, userID := range userIDs {
        if _, err := s.RefreshScore(ctx, userID); err != nil {
            failures++
            log.Printf("Engagement refresh failed for user %d: %v", userID, err)
        }
    }

    log.Printf("Engagement batch refresh: %d users, %d failures", len(userIDs), failures)
    return nil
}

// Cache helpers

func scoreCacheKey(userID int64) string {
    return fmt.Sprintf("engagement:score:%d", userID)
}

func (s *service) cacheSnapshot(ctx context.Context, snapshot *ScoreSnapshot) {
    if s.cache == nil {
        return
    }

    data, err := json.Marshal(snapshot)
    if err != nil {
        return
    }

    if err := s.cache.Set(ctx, scoreCacheKey(snapshot.UserID), data, scoreCacheTTL).Err(); err != nil {
        log.Printf("Failed to cache engagement score for user %d: %v", snapshot.UserID, err)
    }
}

func (s *service) cachedSnapshot(ctx context.Context, userID int64) *ScoreSnapshot {
    if s.cache == nil {
        return nil
    }

    data, err := s.cache.Get(ctx, scoreCacheKey(userID)).Bytes()
    if err != nil {
        return nil
    }

    var snapshot ScoreSnapshot
    if err := json.Unmarshal(data, &snapshot); err != nil {
        return nil
    }

    return &snapshot
}

func (s *service) invalidateCache(ctx context.Context, userID int64) {
    if s.cache == nil {
        return
    }
    s.cache.Del(ctx, scoreCacheKey(userID))
}
