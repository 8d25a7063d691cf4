package discovery

import (
    "context"
    "testing"
)

type fakeRepository struct {
    candidates []*Candidate
    location   *Location
}

func (f *fakeRepository) FindCandidates(_ context.Context, _ int64, _ *Filters) ([]*Candidate, error) {
    return f.candidates, nil
}

func (f *fakeRepository) GetUserLocation(_ context.Context, _ int64) (*Location, error) {
    return f.location, nil
}

func ptr(v float64) *float64 { return &v }

func TestRankOrdersByEffectiveScore(t *testing.T) {
    repo := &fakeRepository{candidates: []*Candidate{
        {UserID: 1, EngagementScore: 80, VisibilityMultiplier: 1},
        {UserID: 2, EngagementScore: 70, VisibilityMultiplier: 1.2}, // 84
        {UserID: 3, EngagementScore: 90, VisibilityMultiplier: 1},
    }}
    svc := NewService(repo)

    ranked, err := svc.Rank(context.Background(), 99, &Filters{})
    if err != nil {
        t.Fatalf("Rank returned error: %v", err)
    }

    wantOrder := []int64{3, 2, 1}
    if len(ranked) != len(wantOrder) {
        t.Fatalf("expected %d candidates, got %d", len(wantOrder), len(ranked))
    }
    for i, want := range wantOrder {
        if ranked[i].UserID != want {
            t.Errorf("position %d: got user %d, want %d", i, ranked[i].UserID, want)
        }
    }
    if ranked[1].EffectiveScore != 84 {
        t.Errorf("boosted effective score = %v, want 84", ranked[1].EffectiveScore)
    }
    if ranked[1].EngagementScore != 70 {
        t.Errorf("stored score must stay unboosted, got %v", ranked[1].EngagementScore)
    }
}

func TestRankAppliesLimit(t *testing.T) {
    repo := &fakeRepository{}
    for i := int64(1); i <= 10; i++ {
        repo.candidates = append(repo.candidates, &Candidate{
            UserID:               i,
            EngagementScore:      float64(i * 10),
            VisibilityMultiplier: 1,
        })
    }
    svc := NewService(repo)

    ranked, err := svc.Rank(context.Background(), 99, &Filters{Limit: 3})
    if err != nil {
        t.Fatalf("Rank returned error: %v", err)
    }
    if len(ranked) != 3 {
        t.Fatalf("expected 3 candidates, got %d", len(ranked))
    }
    if ranked[0].UserID != 10 {
        t.Errorf("expected highest scorer first, got user %d", ranked[0].UserID)
    }
}

func TestRankFiltersByDistance(t *testing.T) {
    // Lagos as origin; Ibadan ~128km away, Accra ~400km.
    repo := &fakeRepository{
        location: &Location{Latitude: 6.5244, Longitude: 3.3792},
        candidates: []*Candidate{
            {UserID: 1, EngagementScore: 50, VisibilityMultiplier: 1, Latitude: ptr(7.3775), Longitude: ptr(3.9470)},
            {UserID: 2, EngagementScore: 50, VisibilityMultiplier: 1, Latitude: ptr(5.6037), Longitude: ptr(-0.1870)},
            {UserID: 3, EngagementScore: 50, VisibilityMultiplier: 1}, // no location on file
        },
    }
    svc := NewService(repo)

    ranked, err := svc.Rank(context.Background(), 99, &Filters{MaxDistanceKM: 200})
    if err != nil {
        t.Fatalf("Rank returned error: %v", err)
    }

    got := map[int64]bool{}
    for _, c := range ranked {
        got[c.UserID] = true
    }
    if !got[1] {
        t.Error("candidate within range was dropped")
    }
    if got[2] {
        t.Error("candidate out of range was kept")
    }
    if !got[3] {
        t.Error("candidate without location should be kept")
    }
}

func TestRankWithoutRequesterLocationSkipsDistanceFilter(t *testing.T) {
    repo := &fakeRepository{
        candidates: []*Candidate{
            {UserID: 1, EngagementScore: 50, VisibilityMultiplier: 1, Latitude: ptr(40.0), Longitude: ptr(-74.0)},
        },
    }
    svc := NewService(repo)

    ranked, err := svc.Rank(context.Background(), 99, &Filters{MaxDistanceKM: 10})
    if err != nil {
        t.Fatalf("Rank returned error: %v", err)
    }
    if len(ranked) != 1 {
        t.Fatalf("expected distance filter skipped, got %d candidates", len(ranked))
    }
}

func TestHaversineDistance(t *testing.T) {
    // London to Paris is roughly 344km.
    distance := haversineDistance(51.5074, -0.1278, 48.8566, 2.3522)
    if distance < 330 || distance > 360 {
        t.Errorf("London-Paris distance = %v km, want ~344", distance)
    }
    if d := haversineDistance(10, 20, 10, 20); d != 0 {
        t.Errorf("distance to self = %v, want 0", d)
    }
}
