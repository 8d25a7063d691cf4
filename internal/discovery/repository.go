package discovery

import (
    "context"
    "database/sql"
    "fmt"
    "strings"
    "time"

    "github.com/jmoiron/sqlx"
)

type Repository interface {
    FindCandidates(ctx context.Context, userID int64, filters *Filters) ([]*Candidate, error)
    GetUserLocation(ctx context.Context, userID int64) (*Location, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

// FindCandidates pulls filtered users with their latest stored engagement
// score and the boost multiplier recomputed against live boost rows, so an
// expired boost stops counting the moment it expires regardless of when the
// score was last refreshed. The multiplier product is EXP(SUM(LN(x))) since
// Postgres has no product aggregate; multipliers are validated > 1 on write
// so LN never sees a non-positive input.
func (r *postgresRepository) FindCandidates(ctx context.Context, userID int64, filters *Filters) ([]*Candidate, error) {
    query, args := buildCandidateQuery(userID, filters, time.Now())

    var candidates []*Candidate
    if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
        return nil, err
    }
    return candidates, nil
}

// buildCandidateQuery assembles the candidate SELECT. Profile columns that
// are nullable in the users table (age, gender) are coalesced so one
// half-filled profile cannot fail the scan for the whole result set.
func buildCandidateQuery(userID int64, filters *Filters, now time.Time) (string, []interface{}) {
    conditions := []string{
        "u.id != $1",
        "u.is_active = TRUE",
    }
    args := []interface{}{userID, now}
    next := 3

    if filters.Gender != "" {
        conditions = append(conditions, fmt.Sprintf("u.gender = $%d", next))
        args = append(args, filters.Gender)
        next++
    }
    if filters.MinAge > 0 {
        conditions = append(conditions, fmt.Sprintf("u.age >= $%d", next))
        args = append(args, filters.MinAge)
        next++
    }
    if filters.MaxAge > 0 {
        conditions = append(conditions, fmt.Sprintf("u.age <= $%d", next))
        args = append(args, filters.MaxAge)
        next++
    }
    if filters.VerifiedOnly {
        conditions = append(conditions, "u.is_verified = TRUE")
    }
    if filters.WithPhotoOnly {
        conditions = append(conditions, "u.photo_url IS NOT NULL")
    }

    limit := filters.Limit
    if limit <= 0 {
        limit = 50
    }

    query := fmt.Sprintf(`
        SELECT
            u.id AS user_id,
            u.name,
            COALESCE(u.age, 0) AS age,
            COALESCE(u.gender, '') AS gender,
            u.photo_url,
            u.is_verified,
            u.last_active_at,
            u.latitude,
            u.longitude,
            COALESCE(es.total_score, 0) AS engagement_score,
            COALESCE(es.level, 'new') AS engagement_level,
            COALESCE(b.multiplier, 1) AS visibility_multiplier,
            am.id IS NOT NULL AS available_now,
            am.mode_type AS availability_mode
        FROM users u
        LEFT JOIN LATERAL (
            SELECT total_score, level
            FROM engagement_scores
            WHERE user_id = u.id
            ORDER BY calculated_at DESC
            LIMIT 1
        ) es ON TRUE
        LEFT JOIN LATERAL (
            SELECT EXP(SUM(LN(multiplier))) AS multiplier
            FROM engagement_boosts
            WHERE user_id = u.id AND expires_at > $2
        ) b ON TRUE
        LEFT JOIN availability_modes am
            ON am.user_id = u.id AND am.is_active = TRUE AND am.expires_at > $2
        WHERE %s
        LIMIT $%d
    `, strings.Join(conditions, " AND "), next)
    args = append(args, limit*4)

    return query, args
}

func (r *postgresRepository) GetUserLocation(ctx context.Context, userID int64) (*Location, error) {
    var loc Location
    err := r.db.GetContext(ctx, &loc, `
        SELECT latitude, longitude FROM users
        WHERE id = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL
    `, userID)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &loc, nil
}
