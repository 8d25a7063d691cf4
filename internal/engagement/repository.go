package engagement

import (
    "context"
    "database/sql"
    "time"

    "github.com/jmoiron/sqlx"
)

type Repository interface {
    // Metrics aggregation
    GetMetrics(ctx context.Context, userID int64) (*EngagementMetrics, error)

    // Boosts
    GetActiveBoosts(ctx context.Context, userID int64, now time.Time) ([]*EngagementBoost, error)
    CreateBoost(ctx context.Context, boost *EngagementBoost) error

    // Score snapshots
    GetLatestSnapshot(ctx context.Context, userID int64) (*ScoreSnapshot, error)
    SaveSnapshot(ctx context.Context, snapshot *ScoreSnapshot) error
    GetScoredUserIDs(ctx context.Context, activeWithinDays int) ([]int64, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

// Metrics Methods

// GetMetrics aggregates the trailing-30-day behavioral counters for one
// user. Users with no conversations at all still get a row of zeroes so the
// scorer can report has_enough_data=false instead of an error.
func (r *postgresRepository) GetMetrics(ctx context.Context, userID int64) (*EngagementMetrics, error) {
    var metrics EngagementMetrics
    metrics.UserID = userID

    // An empty or never-answered inbox has no AVG; default it to the poor
    // bound rather than 0, which would read as instant replies. The sample
    // gate in the scorer keeps small inboxes neutral either way.
    query := `
        SELECT
            COUNT(*) as messages_received,
            COALESCE(AVG(EXTRACT(EPOCH FROM (m.replied_at - m.created_at)) / 60), 1440) as avg_response_minutes,
            COALESCE(AVG(CASE WHEN m.replied_at IS NOT NULL THEN 1.0 ELSE 0.0 END), 0) as reply_rate
        FROM messages m
        WHERE m.receiver_id = $1
          AND m.created_at > NOW() - INTERVAL '30 days'
    `
    err := r.db.QueryRowxContext(ctx, query, userID).Scan(
        &metrics.MessagesReceived, &metrics.AvgResponseMinutes, &metrics.ReplyRate,
    )
    if err != nil && err != sql.ErrNoRows {
        return nil, err
    }

    query = `
        SELECT
            COUNT(*) as conversations_total,
            COUNT(CASE WHEN c.message_count >= 10 THEN 1 END) as conversations_continued,
            COALESCE(AVG(c.message_count), 0) as messages_per_conversation
        FROM conversations c
        WHERE (c.user1_id = $1 OR c.user2_id = $1)
          AND c.created_at > NOW() - INTERVAL '30 days'
    `
    err = r.db.QueryRowxContext(ctx, query, userID).Scan(
        &metrics.ConversationsTotal, &metrics.ConversationsContinued,
        &metrics.MessagesPerConversation,
    )
    if err != nil && err != sql.ErrNoRows {
        return nil, err
    }

    query = `
        SELECT
            COUNT(*) as meetings_proposed,
            COUNT(CASE WHEN status = 'accepted' THEN 1 END) as meetings_accepted,
            COUNT(CASE WHEN status = 'declined' THEN 1 END) as meetings_declined
        FROM meeting_proposals
        WHERE proposer_id = $1
          AND created_at > NOW() - INTERVAL '30 days'
    `
    err = r.db.QueryRowxContext(ctx, query, userID).Scan(
        &metrics.MeetingsProposed, &metrics.MeetingsAccepted, &metrics.MeetingsDeclined,
    )
    if err != nil && err != sql.ErrNoRows {
        return nil, err
    }

    query = `
        SELECT
            COUNT(DISTINCT DATE(a.created_at)) as days_active,
            COALESCE(EXTRACT(EPOCH FROM (NOW() - MAX(a.created_at))) / 3600, 99999) as hours_since_last
        FROM user_activity a
        WHERE a.user_id = $1
          AND a.created_at > NOW() - INTERVAL '7 days'
    `
    err = r.db.QueryRowxContext(ctx, query, userID).Scan(
        &metrics.DaysActiveLastWeek, &metrics.HoursSinceLastActive,
    )
    if err != nil && err != sql.ErrNoRows {
        return nil, err
    }

    return &metrics, nil
}

// Boost Methods

func (r *postgresRepository) GetActiveBoosts(ctx context.Context, userID int64, now time.Time) ([]*EngagementBoost, error) {
    var boosts []*EngagementBoost

    query := `
        SELECT id, user_id, boost_type, multiplier, expires_at, created_at
        FROM engagement_boosts
        WHERE user_id = $1 AND expires_at > $2
        ORDER BY created_at DESC
    `

    err := r.db.SelectContext(ctx, &boosts, query, userID, now)
    return boosts, err
}

func (r *postgresRepository) CreateBoost(ctx context.Context, boost *EngagementBoost) error {
    query := `
        INSERT INTO engagement_boosts (user_id, boost_type, multiplier, expires_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `

    return r.db.QueryRowxContext(
        ctx, query,
        boost.UserID, boost.BoostType, boost.Multiplier, boost.ExpiresAt,
    ).Scan(&boost.ID, &boost.CreatedAt)
}

// Snapshot Methods

func (r *postgresRepository) GetLatestSnapshot(ctx context.Context, userID int64) (*ScoreSnapshot, error) {
    var snapshot ScoreSnapshot

    query := `
        SELECT * FROM engagement_scores
        WHERE user_id = $1
        ORDER BY calculated_at DESC
        LIMIT 1
    `

    err := r.db.GetContext(ctx, &snapshot, query, userID)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }

    return &snapshot, nil
}

func (r *postgresRepository) SaveSnapshot(ctx context.Context, snapshot *ScoreSnapshot) error {
    query := `
        INSERT INTO engagement_scores (
            user_id, responsiveness_score, conversation_score, meeting_score,
            activity_score, total_score, level, has_enough_data, visibility_multiplier
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, calculated_at
    `

    return r.db.QueryRowxContext(
        ctx, query,
        snapshot.UserID, snapshot.ResponsivenessScore, snapshot.ConversationScore,
        snapshot.MeetingScore, snapshot.ActivityScore, snapshot.TotalScore,
        snapshot.Level, snapshot.HasEnoughData, snapshot.VisibilityMultiplier,
    ).Scan(&snapshot.ID, &snapshot.CalculatedAt)
}

// GetScoredUserIDs returns users with recorded activity inside the window,
// for the nightly batch refresh.
func (r *postgresRepository) GetScoredUserIDs(ctx context.Context, activeWithinDays int) ([]int64, error) {
    var ids []int64

    query := `
        SELECT DISTINCT user_id FROM user_activity
        WHERE created_at > NOW() - ($1 || ' days')::INTERVAL
    `

    err := r.db.SelectContext(ctx, &ids, query, activeWithinDays)
    return ids, err
}
