package notifications

import (
    "context"
    "database/sql"
    "time"

    "github.com/jmoiron/sqlx"
)

type Repository interface {
    CreateJob(ctx context.Context, job *ScheduledJob) error
    CancelJob(ctx context.Context, jobID string) error
    ClaimDueJobs(ctx context.Context, now time.Time, limit int) ([]*ScheduledJob, error)
    MarkJob(ctx context.Context, jobID string, status JobStatus) error
    RegisterToken(ctx context.Context, token *PushToken) error
    RemoveToken(ctx context.Context, userID int64, token string) error
    GetTokens(ctx context.Context, userID int64) ([]string, error)
    GetUserContact(ctx context.Context, userID int64) (email string, phone string, err error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateJob(ctx context.Context, job *ScheduledJob) error {
    _, err := r.db.ExecContext(ctx, `
        INSERT INTO scheduled_notifications (id, user_id, kind, payload, fire_at, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, job.ID, job.UserID, job.Kind, job.Payload, job.FireAt, job.Status, job.CreatedAt)
    return err
}

// CancelJob only flips pending jobs; cancelling a job that already fired is
// a no-op rather than an error.
func (r *postgresRepository) CancelJob(ctx context.Context, jobID string) error {
    _, err := r.db.ExecContext(ctx, `
        UPDATE scheduled_notifications SET status = $1
        WHERE id = $2 AND status = $3
    `, StatusCancelled, jobID, StatusPending)
    return err
}

// ClaimDueJobs atomically moves due pending jobs out of pending so
// concurrent workers never dispatch the same job twice.
func (r *postgresRepository) ClaimDueJobs(ctx context.Context, now time.Time, limit int) ([]*ScheduledJob, error) {
    var jobs []*ScheduledJob
    err := r.db.SelectContext(ctx, &jobs, `
        UPDATE scheduled_notifications SET status = $1
        WHERE id IN (
            SELECT id FROM scheduled_notifications
            WHERE status = $2 AND fire_at <= $3
            ORDER BY fire_at
            LIMIT $4
            FOR UPDATE SKIP LOCKED
        )
        RETURNING id, user_id, kind, payload, fire_at, status, created_at
    `, StatusSent, StatusPending, now, limit)
    return jobs, err
}

func (r *postgresRepository) MarkJob(ctx context.Context, jobID string, status JobStatus) error {
    _, err := r.db.ExecContext(ctx, `
        UPDATE scheduled_notifications SET status = $1 WHERE id = $2
    `, status, jobID)
    return err
}

func (r *postgresRepository) RegisterToken(ctx context.Context, token *PushToken) error {
    return r.db.QueryRowContext(ctx, `
        INSERT INTO push_tokens (user_id, token, platform)
        VALUES ($1, $2, $3)
        ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
        RETURNING id
    `, token.UserID, token.Token, token.Platform).Scan(&token.ID)
}

func (r *postgresRepository) RemoveToken(ctx context.Context, userID int64, token string) error {
    _, err := r.db.ExecContext(ctx, `
        DELETE FROM push_tokens WHERE user_id = $1 AND token = $2
    `, userID, token)
    return err
}

func (r *postgresRepository) GetTokens(ctx context.Context, userID int64) ([]string, error) {
    var tokens []string
    err := r.db.SelectContext(ctx, &tokens, `
        SELECT token FROM push_tokens WHERE user_id = $1
    `, userID)
    return tokens, err
}

func (r *postgresRepository) GetUserContact(ctx context.Context, userID int64) (string, string, error) {
    // Both columns are nullable; a phone-only signup must not error the
    // lookup.
    var contact struct {
        Email sql.NullString `db:"email"`
        Phone sql.NullString `db:"phone"`
    }
    err := r.db.GetContext(ctx, &contact, `
        SELECT email, phone FROM users WHERE id = $1
    `, userID)
    if err != nil {
        return "", "", err
    }
    return contact.Email.String, contact.Phone.String, nil
}
