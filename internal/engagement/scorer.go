package engagement

import (
    "fmt"
    "time"

    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/scoremath"
)

// ScorerConfig holds the tunables behind the engagement formula.
type ScorerConfig struct {
    // Weights for the four sub-scores; must sum to 100.
    ResponsivenessWeight float64
    ConversationWeight   float64
    MeetingWeight        float64
    ActivityWeight       float64

    // MinDataPoints is the sample size below which the responsiveness,
    // conversation and meeting sub-scores fall back to a neutral 50
    // instead of a biased extreme.
    MinDataPoints int

    // MaxScoreChangePerDay caps how far one recalculation can move the
    // total score relative to the previous stored value.
    MaxScoreChangePerDay float64

    LevelRanges []LevelRange
}

// DefaultScorerConfig returns the production weighting:
// responsiveness 30, conversation 30, meeting 20, activity 20.
func DefaultScorerConfig() ScorerConfig {
    return ScorerConfig{
        ResponsivenessWeight: 30,
        ConversationWeight:   30,
        MeetingWeight:        20,
        ActivityWeight:       20,
        MinDataPoints:        5,
        MaxScoreChangePerDay: 15,
        LevelRanges:          DefaultLevelRanges(),
    }
}

// Scorer computes engagement scores. It is stateless and safe for
// concurrent use.
type Scorer struct {
    config ScorerConfig
}

// NewScorer validates the configuration and returns a scorer.
// Bad weights or level ranges are startup errors, never request-time ones.
func NewScorer(config ScorerConfig) (*Scorer, error) {
    totalWeight := config.ResponsivenessWeight + config.ConversationWeight +
        config.MeetingWeight + config.ActivityWeight
    if totalWeight != 100 {
        return nil, fmt.Errorf("engagement weights must sum to 100, got %v", totalWeight)
    }

    if err := ValidateLevelRanges(config.LevelRanges); err != nil {
        return nil, err
    }

    if config.MinDataPoints < 1 {
        return nil, fmt.Errorf("min data points must be positive, got %d", config.MinDataPoints)
    }
    if config.MaxScoreChangePerDay <= 0 {
        return nil, fmt.Errorf("max score change per day must be positive, got %v", config.MaxScoreChangePerDay)
    }

    return &Scorer{config: config}, nil
}

// Compute turns raw metrics into a composite score, level and boost
// multiplier, evaluating boost expiry against the current time.
func (s *Scorer) Compute(metrics *EngagementMetrics, boosts []*EngagementBoost, previousScore *float64) (*EngagementResult, error) {
    return s.ComputeAt(time.Now(), metrics, boosts, previousScore)
}

// ComputeAt is Compute with an explicit clock, used by batch jobs and tests.
func (s *Scorer) ComputeAt(now time.Time, metrics *EngagementMetrics, boosts []*EngagementBoost, previousScore *float64) (*EngagementResult, error) {
    if err := metrics.Validate(); err != nil {
        return nil, err
    }

    responsivenessScore, responsivenessOK := s.responsivenessScore(metrics)
    conversationScore, conversationOK := s.conversationScore(metrics)
    meetingScore, meetingOK := s.meetingScore(metrics)

    subs := SubScores{
        Responsiveness: responsivenessScore,
        Conversation:   conversationScore,
        Meeting:        meetingScore,
        Activity:       s.activityScore(metrics),
    }

    total := scoremath.WeightedSum(
        map[string]float64{
            "responsiveness": subs.Responsiveness,
            "conversation":   subs.Conversation,
            "meeting":        subs.Meeting,
            "activity":       subs.Activity,
        },
        map[string]float64{
            "responsiveness": s.config.ResponsivenessWeight,
            "conversation":   s.config.ConversationWeight,
            "meeting":        s.config.MeetingWeight,
            "activity":       s.config.ActivityWeight,
        },
    )

    if previousScore != nil {
        total = scoremath.ApplyDailyCap(*previousScore, total, s.config.MaxScoreChangePerDay)
    }

    return &EngagementResult{
        SubScores:           subs,
        TotalScore:          total,
        Level:               s.LevelForScore(total),
        HasEnoughData:       responsivenessOK && conversationOK && meetingOK,
        EffectiveMultiplier: s.effectiveMultiplier(now, boosts),
    }, nil
}

// LevelForScore maps a total score to its display level. The ranges are
// validated at construction, so exactly one range matches any score in
// [0,100].
func (s *Scorer) LevelForScore(score float64) EngagementLevel {
    rounded := int(score + 0.5)
    for _, r := range s.config.LevelRanges {
        if rounded >= r.Min && rounded <= r.Max {
            return r.Level
        }
    }
    // Unreachable for validated ranges and clamped scores
    return LevelNew
}

// responsivenessScore rates reply latency. Below the minimum inbox sample
// it returns a neutral 50, so a user nobody has messaged yet is neither
// rewarded nor punished for an empty average.
func (s *Scorer) responsivenessScore(m *EngagementMetrics) (float64, bool) {
    if m.MessagesReceived < s.config.MinDataPoints {
        return 50, false
    }
    // 30 minutes average reply latency is excellent, a full day is poor
    return scoremath.LinearScore(m.AvgResponseMinutes, 30, 1440), true
}

// conversationScore blends continuation rate with conversation depth.
// Below the minimum sample it returns a neutral 50 and reports the
// shortfall through the second return instead of a biased score.
func (s *Scorer) conversationScore(m *EngagementMetrics) (float64, bool) {
    if m.ConversationsTotal < s.config.MinDataPoints {
        return 50, false
    }

    continuationRate := float64(m.ConversationsContinued) / float64(m.ConversationsTotal) * 100
    depth := scoremath.LinearScore(m.MessagesPerConversation, 30, 2)

    return scoremath.Clamp(continuationRate*0.7+depth*0.3, 0, 100), true
}

// meetingScore blends acceptance rate with proposal volume.
func (s *Scorer) meetingScore(m *EngagementMetrics) (float64, bool) {
    if m.MeetingsProposed < s.config.MinDataPoints {
        return 50, false
    }

    acceptanceRate := float64(m.MeetingsAccepted) / float64(m.MeetingsProposed) * 100
    volume := scoremath.Clamp(float64(m.MeetingsProposed)*10, 0, 100)

    return scoremath.Clamp(acceptanceRate*0.8+volume*0.2, 0, 100), true
}

func (s *Scorer) activityScore(m *EngagementMetrics) float64 {
    score := float64(m.DaysActiveLastWeek) * 10
    if score > 70 {
        score = 70
    }
    score += recencyBonus(m.HoursSinceLastActive)
    return scoremath.Clamp(score, 0, 100)
}

// recencyBonus rewards having been seen recently, as a step function.
func recencyBonus(hoursSinceLastActive float64) float64 {
    switch {
    case hoursSinceLastActive < 1:
        return 30
    case hoursSinceLastActive < 6:
        return 25
    case hoursSinceLastActive < 24:
        return 20
    case hoursSinceLastActive < 48:
        return 10
    default:
        return 0
    }
}

func (s *Scorer) effectiveMultiplier(now time.Time, boosts []*EngagementBoost) float64 {
    var active []float64
    for _, b := range boosts {
        if b.IsActive(now) {
            active = append(active, b.Multiplier)
        }
    }
    return scoremath.ComposeMultipliers(active)
}
