package scoremath

import (
    "math"
    "testing"
)

func TestClamp(t *testing.T) {
    tests := []struct {
        name       string
        x, lo, hi  float64
        want       float64
    }{
        {"below range", -5, 0, 100, 0},
        {"above range", 150, 0, 100, 100},
        {"inside range", 42, 0, 100, 42},
        {"at lower bound", 0, 0, 100, 0},
        {"at upper bound", 100, 0, 100, 100},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if got := Clamp(tt.x, tt.lo, tt.hi); got != tt.want {
                t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.x, tt.lo, tt.hi, got, tt.want)
            }
        })
    }
}

func TestLinearScoreLowerIsBetter(t *testing.T) {
    // Response latency orientation: 30 min is excellent, 1440 min is poor
    tests := []struct {
        name  string
        value float64
        want  float64
    }{
        {"at excellent", 30, 100},
        {"below excellent", 5, 100},
        {"at poor", 1440, 0},
        {"beyond poor", 5000, 0},
        {"midpoint", 735, 50},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got := LinearScore(tt.value, 30, 1440)
            if math.Abs(got-tt.want) > 1e-9 {
                t.Errorf("LinearScore(%v, 30, 1440) = %v, want %v", tt.value, got, tt.want)
            }
        })
    }
}

func TestLinearScoreHigherIsBetter(t *testing.T) {
    // Count orientation: 20 messages is excellent, 2 is poor
    if got := LinearScore(20, 20, 2); got != 100 {
        t.Errorf("LinearScore(20, 20, 2) = %v, want 100", got)
    }
    if got := LinearScore(2, 20, 2); got != 0 {
        t.Errorf("LinearScore(2, 20, 2) = %v, want 0", got)
    }
    if got := LinearScore(11, 20, 2); math.Abs(got-50) > 1e-9 {
        t.Errorf("LinearScore(11, 20, 2) = %v, want 50", got)
    }
}

func TestLinearScoreMonotonic(t *testing.T) {
    prev := LinearScore(0, 30, 1440)
    for v := 10.0; v <= 2000; v += 10 {
        cur := LinearScore(v, 30, 1440)
        if cur > prev {
            t.Fatalf("LinearScore not monotonic at %v: %v > %v", v, cur, prev)
        }
        prev = cur
    }
}

func TestWeightedSum(t *testing.T) {
    scores := map[string]float64{
        "responsiveness": 80,
        "conversation":   60,
        "meeting":        40,
        "activity":       100,
    }
    weights := map[string]float64{
        "responsiveness": 30,
        "conversation":   30,
        "meeting":        20,
        "activity":       20,
    }

    want := (80*30 + 60*30 + 40*20 + 100*20) / 100.0
    if got := WeightedSum(scores, weights); math.Abs(got-want) > 1e-9 {
        t.Errorf("WeightedSum = %v, want %v", got, want)
    }
}

func TestWeightedSumMissingSubScore(t *testing.T) {
    // A missing sub-score must not drag the result toward zero:
    // the remaining weights are renormalized.
    scores := map[string]float64{
        "responsiveness": 80,
        "conversation":   80,
    }
    weights := map[string]float64{
        "responsiveness": 30,
        "conversation":   30,
        "meeting":        20,
        "activity":       20,
    }

    if got := WeightedSum(scores, weights); math.Abs(got-80) > 1e-9 {
        t.Errorf("WeightedSum with missing entries = %v, want 80", got)
    }
}

func TestWeightedSumClampsInputs(t *testing.T) {
    scores := map[string]float64{"a": 250, "b": -40}
    weights := map[string]float64{"a": 50, "b": 50}

    if got := WeightedSum(scores, weights); math.Abs(got-50) > 1e-9 {
        t.Errorf("WeightedSum with out-of-range inputs = %v, want 50", got)
    }
}

func TestWeightedSumEmpty(t *testing.T) {
    if got := WeightedSum(nil, map[string]float64{"a": 100}); got != 0 {
        t.Errorf("WeightedSum with no sub-scores = %v, want 0", got)
    }
}

func TestComposeMultipliers(t *testing.T) {
    tests := []struct {
        name   string
        values []float64
        want   float64
    }{
        {"empty", nil, 1.0},
        {"single", []float64{1.2}, 1.2},
        {"product", []float64{1.2, 1.5}, 1.8},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if got := ComposeMultipliers(tt.values); math.Abs(got-tt.want) > 1e-9 {
                t.Errorf("ComposeMultipliers(%v) = %v, want %v", tt.values, got, tt.want)
            }
        })
    }
}

func TestApplyDailyCap(t *testing.T) {
    tests := []struct {
        name     string
        previous float64
        proposed float64
        want     float64
    }{
        {"jump up clamped", 50, 90, 65},
        {"jump down clamped", 50, 10, 35},
        {"inside window", 50, 60, 60},
        {"at upper edge", 50, 65, 65},
        {"at lower edge", 50, 35, 35},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if got := ApplyDailyCap(tt.previous, tt.proposed, 15); got != tt.want {
                t.Errorf("ApplyDailyCap(%v, %v, 15) = %v, want %v", tt.previous, tt.proposed, got, tt.want)
            }
        })
    }
}
