package comfort

import (
    "context"
    "testing"
)

var allLevels = []Level{LevelChatting, LevelFlirting, LevelOpenToMeet}

func TestUnlockedLevelSymmetry(t *testing.T) {
    for _, a := range allLevels {
        for _, b := range allLevels {
            forward := ConversationState{User1ID: 1, User2ID: 2, User1Level: a, User2Level: b}
            backward := ConversationState{User1ID: 1, User2ID: 2, User1Level: b, User2Level: a}

            if forward.UnlockedLevel() != backward.UnlockedLevel() {
                t.Errorf("unlocked(%s,%s)=%s but unlocked(%s,%s)=%s",
                    a, b, forward.UnlockedLevel(), b, a, backward.UnlockedLevel())
            }

            // Unlocked is the lower-ranked of the two
            want := a
            if b.Rank() < a.Rank() {
                want = b
            }
            if forward.UnlockedLevel() != want {
                t.Errorf("unlocked(%s,%s) = %s, want %s", a, b, forward.UnlockedLevel(), want)
            }

            if forward.IsMutual() != (a == b) {
                t.Errorf("isMutual(%s,%s) = %v", a, b, forward.IsMutual())
            }
        }
    }
}

func TestOtherUserHigher(t *testing.T) {
    state := ConversationState{
        User1ID: 1, User2ID: 2,
        User1Level: LevelChatting, User2Level: LevelOpenToMeet,
    }

    if !state.OtherUserHigher(1) {
        t.Error("user 1 should see the other side higher")
    }
    if state.OtherUserHigher(2) {
        t.Error("user 2 should not see the other side higher")
    }
}

func TestIsFeatureUnlocked(t *testing.T) {
    tests := []struct {
        user1, user2, required Level
        want                   bool
    }{
        {LevelFlirting, LevelFlirting, LevelFlirting, true},
        {LevelFlirting, LevelFlirting, LevelOpenToMeet, false},
        {LevelOpenToMeet, LevelChatting, LevelFlirting, false},
        {LevelOpenToMeet, LevelOpenToMeet, LevelChatting, true},
        {LevelChatting, LevelChatting, LevelChatting, true},
    }

    for _, tt := range tests {
        state := ConversationState{User1ID: 1, User2ID: 2, User1Level: tt.user1, User2Level: tt.user2}
        if got := state.IsFeatureUnlocked(tt.required); got != tt.want {
            t.Errorf("(%s,%s) unlocked for %s = %v, want %v", tt.user1, tt.user2, tt.required, got, tt.want)
        }
    }
}

func TestRankOrdering(t *testing.T) {
    if !(LevelChatting.Rank() < LevelFlirting.Rank() && LevelFlirting.Rank() < LevelOpenToMeet.Rank()) {
        t.Error("level ranks are not strictly increasing")
    }
    if Level("bogus").Rank() != 0 {
        t.Error("unknown level must rank 0")
    }
}

// fakeRepository keeps rows in memory for service tests.
type fakeRepository struct {
    user1ID, user2ID int64
    rows             map[int64]Level
}

func newFakeRepository(user1ID, user2ID int64) *fakeRepository {
    return &fakeRepository{user1ID: user1ID, user2ID: user2ID, rows: map[int64]Level{}}
}

func (f *fakeRepository) UpsertLevel(_ context.Context, _ int64, userID int64, level Level) error {
    f.rows[userID] = level
    return nil
}

func (f *fakeRepository) GetLevels(_ context.Context, conversationID int64) ([]*ParticipantLevel, error) {
    var levels []*ParticipantLevel
    for userID, level := range f.rows {
        levels = append(levels, &ParticipantLevel{ConversationID: conversationID, UserID: userID, Level: level})
    }
    return levels, nil
}

func (f *fakeRepository) GetConversationParticipants(_ context.Context, _ int64) (int64, int64, error) {
    return f.user1ID, f.user2ID, nil
}

func TestServiceSetLevelOnlyOwnRow(t *testing.T) {
    repo := newFakeRepository(1, 2)
    svc := NewService(repo, nil)
    ctx := context.Background()

    state, err := svc.SetLevel(ctx, 10, 1, LevelOpenToMeet)
    if err != nil {
        t.Fatalf("SetLevel: %v", err)
    }

    if state.MyLevel != LevelOpenToMeet {
        t.Errorf("my level = %s, want open_to_meet", state.MyLevel)
    }
    // Counterpart never declared: defaults to chatting, gating everything
    if state.UnlockedLevel != LevelChatting {
        t.Errorf("unlocked = %s, want chatting", state.UnlockedLevel)
    }
    if state.IsMutual {
        t.Error("should not be mutual")
    }
    if state.OtherUserHigher {
        t.Error("the declaring user should not see the other higher")
    }

    if _, ok := repo.rows[2]; ok {
        t.Error("counterpart row must not be created by another user's SetLevel")
    }
}

func TestServiceGetStateIdempotent(t *testing.T) {
    repo := newFakeRepository(1, 2)
    svc := NewService(repo, nil)
    ctx := context.Background()

    if _, err := svc.SetLevel(ctx, 10, 1, LevelFlirting); err != nil {
        t.Fatalf("SetLevel: %v", err)
    }
    if _, err := svc.SetLevel(ctx, 10, 2, LevelFlirting); err != nil {
        t.Fatalf("SetLevel: %v", err)
    }

    first, err := svc.GetState(ctx, 10, 1)
    if err != nil {
        t.Fatalf("GetState: %v", err)
    }
    second, err := svc.GetState(ctx, 10, 1)
    if err != nil {
        t.Fatalf("GetState: %v", err)
    }

    if *first != *second {
        t.Errorf("GetState not idempotent: %+v vs %+v", first, second)
    }
    if first.UnlockedLevel != LevelFlirting || !first.IsMutual {
        t.Errorf("unexpected state: %+v", first)
    }
}

func TestServiceReset(t *testing.T) {
    repo := newFakeRepository(1, 2)
    svc := NewService(repo, nil)
    ctx := context.Background()

    if _, err := svc.SetLevel(ctx, 10, 1, LevelOpenToMeet); err != nil {
        t.Fatalf("SetLevel: %v", err)
    }
    if _, err := svc.SetLevel(ctx, 10, 2, LevelOpenToMeet); err != nil {
        t.Fatalf("SetLevel: %v", err)
    }

    state, err := svc.Reset(ctx, 10, 1)
    if err != nil {
        t.Fatalf("Reset: %v", err)
    }

    if state.MyLevel != LevelChatting {
        t.Errorf("after reset my level = %s, want chatting", state.MyLevel)
    }
    if state.UnlockedLevel != LevelChatting {
        t.Errorf("after reset unlocked = %s, want chatting", state.UnlockedLevel)
    }
    // Counterpart's declaration is untouched, visible only as a boolean
    if repo.rows[2] != LevelOpenToMeet {
        t.Error("reset must not modify the counterpart's row")
    }
    if !state.OtherUserHigher {
        t.Error("after reset the other side should read as higher")
    }
}

func TestServiceRejectsOutsiders(t *testing.T) {
    repo := newFakeRepository(1, 2)
    svc := NewService(repo, nil)

    if _, err := svc.SetLevel(context.Background(), 10, 99, LevelFlirting); err != ErrNotParticipant {
        t.Errorf("expected ErrNotParticipant, got %v", err)
    }
}

func TestServiceRejectsInvalidLevel(t *testing.T) {
    repo := newFakeRepository(1, 2)
    svc := NewService(repo, nil)

    if _, err := svc.SetLevel(context.Background(), 10, 1, Level("reckless")); err != ErrInvalidLevel {
        t.Errorf("expected ErrInvalidLevel, got %v", err)
    }
}
