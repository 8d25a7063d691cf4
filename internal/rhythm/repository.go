package rhythm

import (
    "context"
    "database/sql"

    "github.com/jmoiron/sqlx"
)

type Repository interface {
    GetInteractionStats(ctx context.Context, conversationID int64) (*InteractionStats, error)
    GetLatestScore(ctx context.Context, conversationID int64) (*RhythmScore, error)
    SaveScore(ctx context.Context, score *RhythmScore) error
    IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

// GetInteractionStats aggregates the message flow of one conversation.
// percentile_cont needs an ordered set; the gap stddev comes from a lateral
// over consecutive message timestamps.
func (r *postgresRepository) GetInteractionStats(ctx context.Context, conversationID int64) (*InteractionStats, error) {
    stats := &InteractionStats{ConversationID: conversationID}

    query := `
        WITH ordered AS (
            SELECT sender_id, created_at, LENGTH(body) as body_length,
                   LAG(sender_id) OVER (ORDER BY created_at) as prev_sender,
                   EXTRACT(EPOCH FROM (created_at - LAG(created_at) OVER (ORDER BY created_at))) / 60 as gap_minutes
            FROM messages
            WHERE conversation_id = $1
        )
        SELECT
            COUNT(*) as message_count,
            COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY gap_minutes), 0) as median_reply,
            COALESCE(PERCENTILE_CONT(0.9) WITHIN GROUP (ORDER BY gap_minutes), 0) as p90_reply,
            COALESCE(AVG(CASE WHEN prev_sender IS NOT NULL AND prev_sender <> sender_id THEN 1.0 ELSE 0.0 END), 0) as back_and_forth,
            COALESCE(AVG(body_length), 0) as avg_length,
            COALESCE(STDDEV_POP(gap_minutes), 0) as gap_stddev
        FROM ordered
    `

    err := r.db.QueryRowxContext(ctx, query, conversationID).Scan(
        &stats.CurrentMessageCount,
        &stats.MedianReplyMinutes,
        &stats.P90ReplyMinutes,
        &stats.BackAndForthRatio,
        &stats.AvgMessageLength,
        &stats.GapStdDevMinutes,
    )
    if err != nil {
        return nil, err
    }

    return stats, nil
}

func (r *postgresRepository) GetLatestScore(ctx context.Context, conversationID int64) (*RhythmScore, error) {
    var score RhythmScore

    query := `
        SELECT * FROM rhythm_scores
        WHERE conversation_id = $1
        ORDER BY calculated_at DESC
        LIMIT 1
    `

    err := r.db.GetContext(ctx, &score, query, conversationID)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }

    return &score, nil
}

func (r *postgresRepository) SaveScore(ctx context.Context, score *RhythmScore) error {
    query := `
        INSERT INTO rhythm_scores (
            conversation_id, availability_score, engagement_score,
            regularity_score, total_score, trend, message_count
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, calculated_at
    `

    return r.db.QueryRowxContext(
        ctx, query,
        score.ConversationID, score.AvailabilityScore, score.EngagementScore,
        score.RegularityScore, score.TotalScore, score.Trend, score.MessageCount,
    ).Scan(&score.ID, &score.CalculatedAt)
}

func (r *postgresRepository) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
    var exists bool

    query := `
        SELECT EXISTS(
            SELECT 1 FROM conversations
            WHERE id = $1 AND (user1_id = $2 OR user2_id = $2)
        )
    `

    err := r.db.GetContext(ctx, &exists, query, conversationID, userID)
    return exists, err
}
