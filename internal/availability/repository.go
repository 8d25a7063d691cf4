package availability

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/jmoiron/sqlx"
    "github.com/lib/pq"
)

// ErrActiveModeExists signals the partial unique index on (user_id) WHERE
// is_active rejected a concurrent second activation.
var ErrActiveModeExists = errors.New("an active availability mode already exists for this user")

type Repository interface {
    GetActiveMode(ctx context.Context, userID int64) (*AvailabilityMode, error)
    InsertActiveMode(ctx context.Context, mode *AvailabilityMode) error
    DeactivateMode(ctx context.Context, modeID int64) error
    SetWarningJobID(ctx context.Context, modeID int64, jobID string) error
    AppendActivation(ctx context.Context, entry *ModeActivation) error
    CountActivationsSince(ctx context.Context, userID int64, since time.Time) (int, error)
    GetUserTier(ctx context.Context, userID int64) (Tier, error)
    ExpireModes(ctx context.Context, now time.Time) (int64, error)
    GetActiveUserIDs(ctx context.Context, now time.Time) ([]int64, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) GetActiveMode(ctx context.Context, userID int64) (*AvailabilityMode, error) {
    var mode AvailabilityMode
    err := r.db.GetContext(ctx, &mode, `
        SELECT id, user_id, mode_type, duration_hours, activated_at, expires_at, is_active, show_badge, warning_job_id
        FROM availability_modes
        WHERE user_id = $1 AND is_active = TRUE
    `, userID)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &mode, nil
}

// InsertActiveMode first reconciles the user's expired row, if any, so the
// partial unique index only rejects a genuinely live mode. The index stays
// the arbiter under concurrent activations.
func (r *postgresRepository) InsertActiveMode(ctx context.Context, mode *AvailabilityMode) error {
    tx, err := r.db.BeginTxx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    if _, err := tx.ExecContext(ctx, `
        UPDATE availability_modes SET is_active = FALSE
        WHERE user_id = $1 AND is_active = TRUE AND expires_at <= $2
    `, mode.UserID, mode.ActivatedAt); err != nil {
        return err
    }

    err = tx.QueryRowContext(ctx, `
        INSERT INTO availability_modes (user_id, mode_type, duration_hours, activated_at, expires_at, is_active, show_badge)
        VALUES ($1, $2, $3, $4, $5, TRUE, $6)
        RETURNING id
    `, mode.UserID, mode.ModeType, mode.DurationHours, mode.ActivatedAt, mode.ExpiresAt, mode.ShowBadge).Scan(&mode.ID)
    if err != nil {
        var pqErr *pq.Error
        if errors.As(err, &pqErr) && pqErr.Code == "23505" {
            return ErrActiveModeExists
        }
        return err
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    mode.IsActive = true
    return nil
}

func (r *postgresRepository) DeactivateMode(ctx context.Context, modeID int64) error {
    _, err := r.db.ExecContext(ctx, `
        UPDATE availability_modes SET is_active = FALSE WHERE id = $1
    `, modeID)
    return err
}

func (r *postgresRepository) SetWarningJobID(ctx context.Context, modeID int64, jobID string) error {
    _, err := r.db.ExecContext(ctx, `
        UPDATE availability_modes SET warning_job_id = $1 WHERE id = $2
    `, jobID, modeID)
    return err
}

func (r *postgresRepository) AppendActivation(ctx context.Context, entry *ModeActivation) error {
    return r.db.QueryRowContext(ctx, `
        INSERT INTO mode_activations (user_id, mode_type, duration_hours, activated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, entry.UserID, entry.ModeType, entry.DurationHours, entry.ActivatedAt).Scan(&entry.ID)
}

func (r *postgresRepository) CountActivationsSince(ctx context.Context, userID int64, since time.Time) (int, error) {
    var count int
    err := r.db.GetContext(ctx, &count, `
        SELECT COUNT(*) FROM mode_activations
        WHERE user_id = $1 AND activated_at >= $2
    `, userID, since)
    return count, err
}

func (r *postgresRepository) GetUserTier(ctx context.Context, userID int64) (Tier, error) {
    var tier string
    err := r.db.GetContext(ctx, &tier, `
        SELECT subscription_tier FROM users WHERE id = $1
    `, userID)
    if err == sql.ErrNoRows {
        return TierFree, nil
    }
    if err != nil {
        return "", err
    }
    return Tier(tier), nil
}

// ExpireModes flips expired rows so the partial unique index frees the slot
// for the next activation. Reads already treat expired rows as inactive.
func (r *postgresRepository) ExpireModes(ctx context.Context, now time.Time) (int64, error) {
    res, err := r.db.ExecContext(ctx, `
        UPDATE availability_modes SET is_active = FALSE
        WHERE is_active = TRUE AND expires_at <= $1
    `, now)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

func (r *postgresRepository) GetActiveUserIDs(ctx context.Context, now time.Time) ([]int64, error) {
    var ids []int64
    err := r.db.SelectContext(ctx, &ids, `
        SELECT user_id FROM availability_modes
        WHERE is_active = TRUE AND expires_at > $1
    `, now)
    return ids, err
}
