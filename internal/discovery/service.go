package discovery

import (
    "context"
    "fmt"
    "math"
    "sort"
)

type Service interface {
    Rank(ctx context.Context, userID int64, filters *Filters) ([]*Candidate, error)
}

type service struct {
    repo Repository
}

func NewService(repo Repository) Service {
    return &service{repo: repo}
}

// Rank returns the discovery list ordered by effective score. The boost
// multiplier is applied here, at read time; the stored engagement score is
// never inflated by boosts.
func (s *service) Rank(ctx context.Context, userID int64, filters *Filters) ([]*Candidate, error) {
    candidates, err := s.repo.FindCandidates(ctx, userID, filters)
    if err != nil {
        return nil, fmt.Errorf("failed to load discovery candidates: %w", err)
    }

    if filters.MaxDistanceKM > 0 {
        candidates, err = s.filterByDistance(ctx, userID, candidates, filters.MaxDistanceKM)
        if err != nil {
            return nil, err
        }
    }

    for _, candidate := range candidates {
        candidate.EffectiveScore = candidate.EngagementScore * candidate.VisibilityMultiplier
    }

    sort.Slice(candidates, func(i, j int) bool {
        return candidates[i].EffectiveScore > candidates[j].EffectiveScore
    })

    limit := filters.Limit
    if limit <= 0 {
        limit = 50
    }
    if len(candidates) > limit {
        candidates = candidates[:limit]
    }

    recordRanking(len(candidates))
    return candidates, nil
}

// filterByDistance drops candidates out of range. A requester or candidate
// without a stored location is kept; absence of data is not a mismatch.
func (s *service) filterByDistance(ctx context.Context, userID int64, candidates []*Candidate, maxKM float64) ([]*Candidate, error) {
    origin, err := s.repo.GetUserLocation(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("failed to load requester location: %w", err)
    }
    if origin == nil {
        return candidates, nil
    }

    kept := make([]*Candidate, 0, len(candidates))
    for _, candidate := range candidates {
        if candidate.Latitude == nil || candidate.Longitude == nil {
            kept = append(kept, candidate)
            continue
        }
        distance := haversineDistance(origin.Latitude, origin.Longitude, *candidate.Latitude, *candidate.Longitude)
        if distance <= maxKM {
            candidate.DistanceKM = &distance
            kept = append(kept, candidate)
        }
    }
    return kept, nil
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
    const earthRadius = 6371 // km

    dLat := (lat2 - lat1) * math.Pi / 180
    dLon := (lon2 - lon1) * math.Pi / 180

    a := math.Sin(dLat/2)*math.Sin(dLat/2) +
        math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
            math.Sin(dLon/2)*math.Sin(dLon/2)

    c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

    return earthRadius * c
}
