package discovery

import (
    "strings"
    "testing"
    "time"
)

func TestBuildCandidateQueryCoalescesNullableColumns(t *testing.T) {
    query, _ := buildCandidateQuery(1, &Filters{}, time.Now())

    // age and gender are nullable on users; a bare select would abort the
    // scan of the whole result set on the first NULL row.
    for _, want := range []string{
        "COALESCE(u.age, 0) AS age",
        "COALESCE(u.gender, '') AS gender",
        "COALESCE(es.total_score, 0)",
        "COALESCE(es.level, 'new')",
        "COALESCE(b.multiplier, 1)",
    } {
        if !strings.Contains(query, want) {
            t.Errorf("query missing %q", want)
        }
    }
}

func TestBuildCandidateQueryFilters(t *testing.T) {
    filters := &Filters{
        Gender:        "female",
        MinAge:        25,
        MaxAge:        35,
        VerifiedOnly:  true,
        WithPhotoOnly: true,
        Limit:         10,
    }

    query, args := buildCandidateQuery(42, filters, time.Now())

    for _, want := range []string{
        "u.id != $1",
        "u.gender = $3",
        "u.age >= $4",
        "u.age <= $5",
        "u.is_verified = TRUE",
        "u.photo_url IS NOT NULL",
    } {
        if !strings.Contains(query, want) {
            t.Errorf("query missing condition %q", want)
        }
    }

    // userID, now, gender, min age, max age, fetch limit.
    if len(args) != 6 {
        t.Fatalf("args = %d, want 6", len(args))
    }
    if args[0] != int64(42) {
        t.Errorf("args[0] = %v, want 42", args[0])
    }
    if args[5] != 40 {
        t.Errorf("fetch limit = %v, want 40 (4x requested)", args[5])
    }
}

func TestBuildCandidateQueryDefaultLimit(t *testing.T) {
    _, args := buildCandidateQuery(1, &Filters{}, time.Now())
    if got := args[len(args)-1]; got != 200 {
        t.Errorf("fetch limit = %v, want 200", got)
    }
}
