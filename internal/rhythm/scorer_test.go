package rhythm

import (
    "errors"
    "testing"
)

func testScorer(t *testing.T) *Scorer {
    t.Helper()
    scorer, err := NewScorer(DefaultScorerConfig())
    if err != nil {
        t.Fatalf("NewScorer: %v", err)
    }
    return scorer
}

func livelyStats() *InteractionStats {
    return &InteractionStats{
        ConversationID:      10,
        CurrentMessageCount: 40,
        MedianReplyMinutes:  20,
        P90ReplyMinutes:     180,
        BackAndForthRatio:   0.8,
        AvgMessageLength:    90,
        GapStdDevMinutes:    300,
    }
}

func TestPendingBelowMinMessages(t *testing.T) {
    scorer := testScorer(t)

    stats := livelyStats()
    stats.CurrentMessageCount = 4

    result, err := scorer.Compute(10, stats, nil)
    if err != nil {
        t.Fatalf("Compute: %v", err)
    }

    if result.Status != StatusPending {
        t.Fatalf("status = %s, want pending", result.Status)
    }
    if result.Score != nil {
        t.Error("pending result must not carry a score")
    }
    if result.Pending.CurrentMessageCount != 4 || result.Pending.MinMessagesRequired != 5 {
        t.Errorf("pending counts = %+v", result.Pending)
    }
}

func TestValidAtExactThreshold(t *testing.T) {
    scorer := testScorer(t)

    stats := livelyStats()
    stats.CurrentMessageCount = 5

    result, err := scorer.Compute(10, stats, nil)
    if err != nil {
        t.Fatalf("Compute: %v", err)
    }

    if result.Status != StatusReady {
        t.Fatalf("status = %s, want ready", result.Status)
    }
    if result.Pending != nil {
        t.Error("ready result must not carry pending info")
    }
    if result.Score.TotalScore < 0 || result.Score.TotalScore > 100 {
        t.Errorf("total %v outside [0,100]", result.Score.TotalScore)
    }
}

func TestComputeIdempotent(t *testing.T) {
    scorer := testScorer(t)
    stats := livelyStats()
    previous := &RhythmScore{ConversationID: 10, TotalScore: 60}

    first, err := scorer.Compute(10, stats, previous)
    if err != nil {
        t.Fatalf("Compute: %v", err)
    }
    second, err := scorer.Compute(10, stats, previous)
    if err != nil {
        t.Fatalf("Compute: %v", err)
    }

    if first.Score.TotalScore != second.Score.TotalScore {
        t.Errorf("total not bit-identical: %v vs %v", first.Score.TotalScore, second.Score.TotalScore)
    }
    if first.Score.Trend != second.Score.Trend {
        t.Errorf("trend differs: %s vs %s", first.Score.Trend, second.Score.Trend)
    }
}

func TestSubScoreRanges(t *testing.T) {
    scorer := testScorer(t)

    cases := []*InteractionStats{
        livelyStats(),
        {CurrentMessageCount: 5},
        {CurrentMessageCount: 500, MedianReplyMinutes: 99999, P90ReplyMinutes: 99999,
            BackAndForthRatio: 1, AvgMessageLength: 5000, GapStdDevMinutes: 99999},
    }

    for i, stats := range cases {
        result, err := scorer.Compute(10, stats, nil)
        if err != nil {
            t.Fatalf("case %d: %v", i, err)
        }

        score := result.Score
        for name, v := range map[string]float64{
            "availability": score.AvailabilityScore,
            "engagement":   score.EngagementScore,
            "regularity":   score.RegularityScore,
            "total":        score.TotalScore,
        } {
            if v < 0 || v > 100 {
                t.Errorf("case %d: %s = %v outside [0,100]", i, name, v)
            }
        }
    }
}

func TestTrendClassification(t *testing.T) {
    scorer := testScorer(t)
    stats := livelyStats()

    baseline, err := scorer.Compute(10, stats, nil)
    if err != nil {
        t.Fatalf("Compute: %v", err)
    }
    total := baseline.Score.TotalScore

    tests := []struct {
        name     string
        previous *RhythmScore
        want     Trend
    }{
        {"first computation", nil, TrendStable},
        {"clearly below previous", &RhythmScore{TotalScore: total + 10}, TrendDown},
        {"clearly above previous", &RhythmScore{TotalScore: total - 10}, TrendUp},
        {"inside epsilon", &RhythmScore{TotalScore: total + 0.2}, TrendStable},
        {"equal to previous", &RhythmScore{TotalScore: total}, TrendStable},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            result, err := scorer.Compute(10, stats, tt.previous)
            if err != nil {
                t.Fatalf("Compute: %v", err)
            }
            if result.Score.Trend != tt.want {
                t.Errorf("trend = %s, want %s", result.Score.Trend, tt.want)
            }
        })
    }
}

func TestMonotonicSubScores(t *testing.T) {
    scorer := testScorer(t)

    // Faster replies never lower the availability score
    slow := livelyStats()
    slow.MedianReplyMinutes = 600
    fast := livelyStats()
    fast.MedianReplyMinutes = 10
    if scorer.availabilityScore(fast) < scorer.availabilityScore(slow) {
        t.Error("availability not monotonic in reply speed")
    }

    // More alternation never lowers the engagement score
    flat := livelyStats()
    flat.BackAndForthRatio = 0.1
    lively := livelyStats()
    lively.BackAndForthRatio = 0.9
    if scorer.engagementScore(lively) < scorer.engagementScore(flat) {
        t.Error("engagement not monotonic in alternation")
    }

    // Steadier cadence never lowers the regularity score
    erratic := livelyStats()
    erratic.GapStdDevMinutes = 2000
    steady := livelyStats()
    steady.GapStdDevMinutes = 30
    if scorer.regularityScore(steady) < scorer.regularityScore(erratic) {
        t.Error("regularity not monotonic in gap spread")
    }
}

func TestInvalidStatsRejected(t *testing.T) {
    scorer := testScorer(t)

    cases := map[string]*InteractionStats{
        "negative count":  {CurrentMessageCount: -1},
        "negative median": {CurrentMessageCount: 10, MedianReplyMinutes: -5},
        "ratio above one": {CurrentMessageCount: 10, BackAndForthRatio: 1.5},
        "negative stddev": {CurrentMessageCount: 10, GapStdDevMinutes: -1},
    }

    for name, stats := range cases {
        t.Run(name, func(t *testing.T) {
            if _, err := scorer.Compute(10, stats, nil); !errors.Is(err, ErrInvalidStats) {
                t.Errorf("expected ErrInvalidStats, got %v", err)
            }
        })
    }
}

func TestScorerConfigValidation(t *testing.T) {
    bad := DefaultScorerConfig()
    bad.RegularityWeight = 30 // sum now 105
    if _, err := NewScorer(bad); err == nil {
        t.Error("expected error for weights not summing to 100")
    }
}
