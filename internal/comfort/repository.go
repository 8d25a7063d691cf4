package comfort

import (
    "context"

    "github.com/jmoiron/sqlx"
)

type Repository interface {
    // UpsertLevel writes one participant's own row only. The two rows of a
    // conversation are never updated in one transaction; the shared view is
    // recomputed from whatever both reads return.
    UpsertLevel(ctx context.Context, conversationID, userID int64, level Level) error
    GetLevels(ctx context.Context, conversationID int64) ([]*ParticipantLevel, error)
    GetConversationParticipants(ctx context.Context, conversationID int64) (int64, int64, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) UpsertLevel(ctx context.Context, conversationID, userID int64, level Level) error {
    query := `
        INSERT INTO comfort_levels (conversation_id, user_id, level)
        VALUES ($1, $2, $3)
        ON CONFLICT (conversation_id, user_id)
        DO UPDATE SET level = $3, updated_at = CURRENT_TIMESTAMP
    `

    _, err := r.db.ExecContext(ctx, query, conversationID, userID, level)
    return err
}

func (r *postgresRepository) GetLevels(ctx context.Context, conversationID int64) ([]*ParticipantLevel, error) {
    var levels []*ParticipantLevel

    query := `
        SELECT conversation_id, user_id, level, updated_at
        FROM comfort_levels
        WHERE conversation_id = $1
    `

    err := r.db.SelectContext(ctx, &levels, query, conversationID)
    return levels, err
}

func (r *postgresRepository) GetConversationParticipants(ctx context.Context, conversationID int64) (int64, int64, error) {
    var row struct {
        User1ID int64 `db:"user1_id"`
        User2ID int64 `db:"user2_id"`
    }

    query := `SELECT user1_id, user2_id FROM conversations WHERE id = $1`

    err := r.db.GetContext(ctx, &row, query, conversationID)
    if err != nil {
        return 0, 0, err
    }

    return row.User1ID, row.User2ID, nil
}
