package rhythm

import (
    "fmt"

    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/scoremath"
)

// ScorerConfig holds the tunables behind the rhythm formula.
// Weights: availability 40, engagement 35, regularity 25.
type ScorerConfig struct {
    AvailabilityWeight float64
    EngagementWeight   float64
    RegularityWeight   float64

    // MinMessagesRequired gates scoring entirely: below it no sub-score
    // math is attempted and the pending variant is returned.
    MinMessagesRequired int

    // TrendEpsilon is the dead band around the previous total inside which
    // the trend reads stable.
    TrendEpsilon float64
}

func DefaultScorerConfig() ScorerConfig {
    return ScorerConfig{
        AvailabilityWeight:  40,
        EngagementWeight:    35,
        RegularityWeight:    25,
        MinMessagesRequired: 5,
        TrendEpsilon:        0.5,
    }
}

// Scorer computes connection-rhythm scores. Stateless, safe for concurrent
// use.
type Scorer struct {
    config ScorerConfig
}

func NewScorer(config ScorerConfig) (*Scorer, error) {
    totalWeight := config.AvailabilityWeight + config.EngagementWeight + config.RegularityWeight
    if totalWeight != 100 {
        return nil, fmt.Errorf("rhythm weights must sum to 100, got %v", totalWeight)
    }
    if config.MinMessagesRequired < 1 {
        return nil, fmt.Errorf("min messages required must be positive, got %d", config.MinMessagesRequired)
    }
    if config.TrendEpsilon < 0 {
        return nil, fmt.Errorf("trend epsilon must not be negative, got %v", config.TrendEpsilon)
    }

    return &Scorer{config: config}, nil
}

// Compute scores one conversation. Identical stats and the same previous
// score always produce a bit-identical total and the same trend, so caller
// retries are safe.
func (s *Scorer) Compute(conversationID int64, stats *InteractionStats, previous *RhythmScore) (*Result, error) {
    if err := stats.Validate(); err != nil {
        return nil, err
    }

    if stats.CurrentMessageCount < s.config.MinMessagesRequired {
        return &Result{
            Status: StatusPending,
            Pending: &PendingInfo{
                ConversationID:      conversationID,
                CurrentMessageCount: stats.CurrentMessageCount,
                MinMessagesRequired: s.config.MinMessagesRequired,
            },
        }, nil
    }

    availability := s.availabilityScore(stats)
    engagement := s.engagementScore(stats)
    regularity := s.regularityScore(stats)

    total := scoremath.WeightedSum(
        map[string]float64{
            "availability": availability,
            "engagement":   engagement,
            "regularity":   regularity,
        },
        map[string]float64{
            "availability": s.config.AvailabilityWeight,
            "engagement":   s.config.EngagementWeight,
            "regularity":   s.config.RegularityWeight,
        },
    )

    return &Result{
        Status: StatusReady,
        Score: &RhythmScore{
            ConversationID:    conversationID,
            AvailabilityScore: availability,
            EngagementScore:   engagement,
            RegularityScore:   regularity,
            TotalScore:        total,
            Trend:             s.trend(total, previous),
            MessageCount:      stats.CurrentMessageCount,
        },
    }, nil
}

// availabilityScore reads the reply-latency distribution: a quick median
// with a contained tail means both sides tend to be reachable.
func (s *Scorer) availabilityScore(stats *InteractionStats) float64 {
    median := scoremath.LinearScore(stats.MedianReplyMinutes, 15, 720)
    tail := scoremath.LinearScore(stats.P90ReplyMinutes, 60, 2880)
    return scoremath.Clamp(median*0.7+tail*0.3, 0, 100)
}

// engagementScore reads give-and-take: alternation ratio dominates, message
// substance contributes.
func (s *Scorer) engagementScore(stats *InteractionStats) float64 {
    alternation := stats.BackAndForthRatio * 100
    substance := scoremath.LinearScore(stats.AvgMessageLength, 120, 5)
    return scoremath.Clamp(alternation*0.6+substance*0.4, 0, 100)
}

// regularityScore rewards a steady cadence: low spread of inter-message
// gaps scores high.
func (s *Scorer) regularityScore(stats *InteractionStats) float64 {
    return scoremath.LinearScore(stats.GapStdDevMinutes, 60, 2880)
}

// trend compares against the previous stored total. The very first valid
// computation is stable by definition.
func (s *Scorer) trend(total float64, previous *RhythmScore) Trend {
    if previous == nil {
        return TrendStable
    }

    switch {
    case total > previous.TotalScore+s.config.TrendEpsilon:
        return TrendUp
    case total < previous.TotalScore-s.config.TrendEpsilon:
        return TrendDown
    default:
        return TrendStable
    }
}
