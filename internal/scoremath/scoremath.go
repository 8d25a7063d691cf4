// internal/scoremath/scoremath.go
// Pure numeric primitives shared by every scorer

package scoremath

// Clamp restricts x to the inclusive range [lo, hi].
func Clamp(x, lo, hi float64) float64 {
    if x < lo {
        return lo
    }
    if x > hi {
        return hi
    }
    return x
}

// LinearScore maps value onto a 0-100 scale: 100 at or below excellentAt,
// 0 at or above poorAt, linear interpolation in between.
// Callers supply already-oriented bounds; if excellentAt > poorAt the sense
// is reversed internally so "higher is better" metrics work unchanged.
func LinearScore(value, excellentAt, poorAt float64) float64 {
    if excellentAt > poorAt {
        // Higher is better: mirror both axis points
        return LinearScore(-value, -excellentAt, -poorAt)
    }
    if excellentAt == poorAt {
        if value <= excellentAt {
            return 100
        }
        return 0
    }

    if value <= excellentAt {
        return 100
    }
    if value >= poorAt {
        return 0
    }

    return 100 * (poorAt - value) / (poorAt - excellentAt)
}

// WeightedSum combines named sub-scores using the given weights.
// Weights are normalized by the sum of weights for sub-scores actually
// present, so a missing entry does not bias the result toward zero.
// Every input and the result are clamped to [0,100].
func WeightedSum(subScores map[string]float64, weights map[string]float64) float64 {
    var totalWeight float64
    var sum float64

    for name, weight := range weights {
        score, ok := subScores[name]
        if !ok || weight <= 0 {
            continue
        }
        sum += Clamp(score, 0, 100) * weight
        totalWeight += weight
    }

    if totalWeight == 0 {
        return 0
    }

    return Clamp(sum/totalWeight, 0, 100)
}

// ComposeMultipliers returns the product of all values, 1 for an empty list.
func ComposeMultipliers(values []float64) float64 {
    result := 1.0
    for _, v := range values {
        result *= v
    }
    return result
}

// ApplyDailyCap clamps proposed to [previous-maxDelta, previous+maxDelta].
// Anti-manipulation guard: no single recalculation moves a score by more
// than maxDelta.
func ApplyDailyCap(previous, proposed, maxDelta float64) float64 {
    return Clamp(proposed, previous-maxDelta, previous+maxDelta)
}
