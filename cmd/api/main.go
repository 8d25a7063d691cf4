// cmd/api/main.go
// Main entry point: bootstraps all components and starts the server.

package main

import (
    "context"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/go-redis/redis/v8"
    "github.com/gorilla/mux"
    "github.com/jmoiron/sqlx"
    "github.com/joho/godotenv"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/auth"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/availability"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/comfort"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/common/database"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/config"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/discovery"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/engagement"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/notifications"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/realtime"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/rhythm"
)

func main() {
    log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

    log.Println("========================================")
    log.Println("🚀 Starting Shy Engagement Engine API")
    log.Println("========================================")

    // 1. Load environment variables
    log.Println("📁 Step 1: Loading .env file...")
    if err := godotenv.Load(); err != nil {
        log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
    } else {
        log.Println("✅ .env file loaded successfully")
    }

    // 2. Load and validate configuration
    log.Println("\n📋 Step 2: Loading configuration...")
    cfg := config.Load()
    if err := cfg.Validate(); err != nil {
        log.Fatal("❌ Configuration validation failed: ", err)
    }
    log.Println("✅ Configuration loaded and validated")

    // 3. Connect to PostgreSQL
    log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
    db, err := database.NewPostgresDB(cfg.DatabaseURL)
    if err != nil {
        log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
    }
    defer db.Close()
    log.Println("✅ Connected to PostgreSQL successfully")

    // 4. Connect to Redis (optional)
    log.Println("\n📮 Step 4: Connecting to Redis...")
    var redisClient *redis.Client
    if cfg.RedisURL != "" {
        redisClient, err = database.NewRedisClient(cfg.RedisURL)
        if err != nil {
            log.Printf("⚠️  Redis unavailable (%v), continuing without cache and fan-out", err)
            redisClient = nil
        } else {
            defer redisClient.Close()
            log.Println("✅ Connected to Redis successfully")
        }
    } else {
        log.Println("⚠️  Redis URL not configured, skipping Redis connection")
    }

    // 5. Run database migrations
    log.Println("\n🔨 Step 5: Running database migrations...")
    if err := runMigrations(db); err != nil {
        log.Fatal("❌ Failed to run migrations: ", err)
    }
    log.Println("✅ Database migrations completed")

    ctx, stop := context.WithCancel(context.Background())
    defer stop()

    // 6. Realtime hub
    log.Println("\n📡 Step 6: Starting realtime hub...")
    hub := realtime.NewHub(redisClient)
    go hub.Run(ctx)
    log.Println("✅ Realtime hub started")

    // 7. Notifications module
    log.Println("\n🔔 Step 7: Initializing Notifications module...")
    notificationRepo := notifications.NewPostgresRepository(db)

    var pushService notifications.PushService
    if cfg.PushProvider == "fcm" {
        pushService, err = notifications.NewFCMPushService(ctx)
        if err != nil {
            log.Fatal("❌ Failed to initialize FCM: ", err)
        }
        log.Println("   ✅ FCM push service initialized")
    } else {
        pushService = notifications.NewMockPushService()
        log.Println("   ✅ Mock push service initialized")
    }

    var emailService notifications.EmailService
    if cfg.EmailProvider == "sendgrid" {
        emailService, err = notifications.NewSendGridEmailService()
        if err != nil {
            log.Fatal("❌ Failed to initialize SendGrid: ", err)
        }
        log.Println("   ✅ SendGrid email service initialized")
    } else {
        emailService = notifications.NewMockEmailService()
        log.Println("   ✅ Mock email service initialized")
    }

    var smsService notifications.SMSService
    if cfg.SMSProvider == "twilio" {
        smsService, err = notifications.NewTwilioSMSService()
        if err != nil {
            log.Fatal("❌ Failed to initialize Twilio: ", err)
        }
        log.Println("   ✅ Twilio SMS service initialized")
    } else {
        smsService = notifications.NewMockSMSService()
        log.Println("   ✅ Mock SMS service initialized")
    }

    notificationService := notifications.NewService(notificationRepo, pushService, emailService, smsService)
    notificationWorker := notifications.NewWorker(notificationService, cfg.WorkerInterval)
    go notificationWorker.Start(ctx)
    log.Println("✅ Notifications module initialized")

    // 8. Engagement module
    log.Println("\n📈 Step 8: Initializing Engagement module...")
    engagementScorerConfig := engagement.DefaultScorerConfig()
    engagementScorerConfig.MinDataPoints = cfg.MinDataPoints
    engagementScorerConfig.MaxScoreChangePerDay = cfg.MaxScoreChangePerDay
    engagementScorer, err := engagement.NewScorer(engagementScorerConfig)
    if err != nil {
        log.Fatal("❌ Invalid engagement scorer configuration: ", err)
    }

    engagementRepo := engagement.NewPostgresRepository(db)
    engagementService := engagement.NewService(engagementRepo, engagementScorer, redisClient, hub)
    engagementScheduler := engagement.NewScheduler(engagementService)
    engagementScheduler.Start(ctx)
    log.Println("✅ Engagement module initialized")

    // 9. Comfort module
    log.Println("\n🤝 Step 9: Initializing Comfort module...")
    comfortRepo := comfort.NewPostgresRepository(db)
    comfortService := comfort.NewService(comfortRepo, hub)
    log.Println("✅ Comfort module initialized")

    // 10. Rhythm module
    log.Println("\n🎵 Step 10: Initializing Rhythm module...")
    rhythmScorerConfig := rhythm.DefaultScorerConfig()
    rhythmScorerConfig.MinMessagesRequired = cfg.RhythmMinMessages
    rhythmScorerConfig.TrendEpsilon = cfg.RhythmTrendEpsilon
    rhythmScorer, err := rhythm.NewScorer(rhythmScorerConfig)
    if err != nil {
        log.Fatal("❌ Invalid rhythm scorer configuration: ", err)
    }

    rhythmRepo := rhythm.NewPostgresRepository(db)
    rhythmService := rhythm.NewService(rhythmRepo, rhythmScorer)
    log.Println("✅ Rhythm module initialized")

    // 11. Availability module
    log.Println("\n🟢 Step 11: Initializing Availability module...")
    availabilityConfig := availability.ServiceConfig{
        TierLimits: map[availability.Tier]availability.TierLimits{
            availability.TierFree: {
                ActivationsPerWeek: cfg.FreeActivationsPerWeek,
                MaxDurationHours:   cfg.FreeMaxDurationHours,
            },
            availability.TierPlus: {
                ActivationsPerWeek: availability.UnlimitedActivations,
                MaxDurationHours:   cfg.PaidMaxDurationHours,
            },
            availability.TierPremium: {
                ActivationsPerWeek: availability.UnlimitedActivations,
                MaxDurationHours:   cfg.PaidMaxDurationHours,
            },
        },
        WarningLead: cfg.ExpiryWarningLead,
    }
    availabilityRepo := availability.NewPostgresRepository(db)
    availabilityService := availability.NewService(availabilityRepo, notificationService, hub, availabilityConfig)
    availabilitySweeper := availability.NewSweeper(availabilityService, cfg.SweepInterval)
    availabilitySweeper.Start()
    defer availabilitySweeper.Stop()
    log.Println("✅ Availability module initialized")

    // 12. Discovery module
    log.Println("\n🔍 Step 12: Initializing Discovery module...")
    discoveryRepo := discovery.NewPostgresRepository(db)
    discoveryService := discovery.NewService(discoveryRepo)
    log.Println("✅ Discovery module initialized")

    // 13. HTTP routes
    log.Println("\n🌐 Step 13: Registering routes...")
    router := mux.NewRouter()
    authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

    engagement.RegisterRoutes(router, engagement.NewHandler(engagementService), authMiddleware)
    comfort.RegisterRoutes(router, comfort.NewHandler(comfortService), authMiddleware)
    rhythm.RegisterRoutes(router, rhythm.NewHandler(rhythmService), authMiddleware)
    availability.RegisterRoutes(router, availability.NewHandler(availabilityService), authMiddleware)
    discovery.RegisterRoutes(router, discovery.NewHandler(discoveryService), authMiddleware)
    notifications.RegisterRoutes(router, notifications.NewHandler(notificationService), authMiddleware)
    realtime.RegisterRoutes(router, hub, authMiddleware)

    router.Handle("/metrics", promhttp.Handler())
    router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        w.Write([]byte(`{"status":"ok"}`))
    })
    log.Println("✅ Routes registered")

    // 14. Start server
    srv := &http.Server{
        Addr:         fmt.Sprintf(":%s", cfg.Port),
        Handler:      router,
        ReadTimeout:  15 * time.Second,
        WriteTimeout: 15 * time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        log.Printf("\n🎉 Server listening on port %s", cfg.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal("❌ Server failed: ", err)
        }
    }()

    // 15. Wait for shutdown signal
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    log.Println("\n⚠️  Shutdown signal received...")
    stop()
    notificationWorker.Stop()

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Printf("❌ Server shutdown error: %v", err)
    }

    log.Println("✅ Server exited gracefully")
}

func runMigrations(db *sqlx.DB) error {
    migrations := []string{
        `CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email VARCHAR(255) UNIQUE,
            phone VARCHAR(20),
            username VARCHAR(100) UNIQUE NOT NULL,
            name VARCHAR(255) NOT NULL DEFAULT '',
            age INT,
            gender VARCHAR(20),
            photo_url TEXT,
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            subscription_tier VARCHAR(20) NOT NULL DEFAULT 'free',
            latitude DOUBLE PRECISION,
            longitude DOUBLE PRECISION,
            last_active_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

        `CREATE TABLE IF NOT EXISTS conversations (
            id BIGSERIAL PRIMARY KEY,
            user1_id BIGINT NOT NULL REFERENCES users(id),
            user2_id BIGINT NOT NULL REFERENCES users(id),
            message_count INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

        `CREATE TABLE IF NOT EXISTS messages (
            id BIGSERIAL PRIMARY KEY,
            conversation_id BIGINT NOT NULL REFERENCES conversations(id),
            sender_id BIGINT NOT NULL REFERENCES users(id),
            receiver_id BIGINT NOT NULL REFERENCES users(id),
            body TEXT NOT NULL DEFAULT '',
            replied_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
        `CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
        `CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, created_at)`,

        `CREATE TABLE IF NOT EXISTS meeting_proposals (
            id BIGSERIAL PRIMARY KEY,
            conversation_id BIGINT NOT NULL REFERENCES conversations(id),
            proposer_id BIGINT NOT NULL REFERENCES users(id),
            status VARCHAR(20) NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

        `CREATE TABLE IF NOT EXISTS user_activity (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            activity_type VARCHAR(50) NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
        `CREATE INDEX IF NOT EXISTS idx_user_activity_user ON user_activity(user_id, created_at)`,

        `CREATE TABLE IF NOT EXISTS engagement_boosts (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            boost_type VARCHAR(50) NOT NULL,
            multiplier DOUBLE PRECISION NOT NULL CHECK (multiplier > 1),
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
        `CREATE INDEX IF NOT EXISTS idx_engagement_boosts_user ON engagement_boosts(user_id, expires_at)`,

        `CREATE TABLE IF NOT EXISTS engagement_scores (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            responsiveness_score DOUBLE PRECISION NOT NULL,
            conversation_score DOUBLE PRECISION NOT NULL,
            meeting_score DOUBLE PRECISION NOT NULL,
            activity_score DOUBLE PRECISION NOT NULL,
            total_score DOUBLE PRECISION NOT NULL,
            level VARCHAR(20) NOT NULL,
            has_enough_data BOOLEAN NOT NULL,
            visibility_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1,
            calculated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
        `CREATE INDEX IF NOT EXISTS idx_engagement_scores_user ON engagement_scores(user_id, calculated_at DESC)`,

        `CREATE TABLE IF NOT EXISTS comfort_levels (
            conversation_id BIGINT NOT NULL REFERENCES conversations(id),
            user_id BIGINT NOT NULL REFERENCES users(id),
            level VARCHAR(20) NOT NULL DEFAULT 'chatting',
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (conversation_id, user_id)
        )`,

        `CREATE TABLE IF NOT EXISTS rhythm_scores (
            id BIGSERIAL PRIMARY KEY,
            conversation_id BIGINT NOT NULL REFERENCES conversations(id),
            availability_score DOUBLE PRECISION NOT NULL,
            engagement_score DOUBLE PRECISION NOT NULL,
            regularity_score DOUBLE PRECISION NOT NULL,
            total_score DOUBLE PRECISION NOT NULL,
            trend VARCHAR(10) NOT NULL,
            message_count INT NOT NULL,
            calculated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
        `CREATE INDEX IF NOT EXISTS idx_rhythm_scores_conversation ON rhythm_scores(conversation_id, calculated_at DESC)`,

        `CREATE TABLE IF NOT EXISTS availability_modes (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            mode_type VARCHAR(20) NOT NULL,
            duration_hours INT NOT NULL,
            activated_at TIMESTAMPTZ NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            show_badge BOOLEAN NOT NULL DEFAULT TRUE,
            warning_job_id TEXT
        )`,
        `CREATE UNIQUE INDEX IF NOT EXISTS uq_availability_modes_active
            ON availability_modes(user_id) WHERE is_active = TRUE`,

        `CREATE TABLE IF NOT EXISTS mode_activations (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            mode_type VARCHAR(20) NOT NULL,
            duration_hours INT NOT NULL,
            activated_at TIMESTAMPTZ NOT NULL
        )`,
        `CREATE INDEX IF NOT EXISTS idx_mode_activations_user ON mode_activations(user_id, activated_at)`,

        `CREATE TABLE IF NOT EXISTS scheduled_notifications (
            id UUID PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            kind VARCHAR(50) NOT NULL,
            payload JSONB,
            fire_at TIMESTAMPTZ NOT NULL,
            status VARCHAR(20) NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
        `CREATE INDEX IF NOT EXISTS idx_scheduled_notifications_due
            ON scheduled_notifications(status, fire_at)`,

        `CREATE TABLE IF NOT EXISTS push_tokens (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            token TEXT NOT NULL UNIQUE,
            platform VARCHAR(20) NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
    }

    for _, migration := range migrations {
        if _, err := db.Exec(migration); err != nil {
            return fmt.Errorf("migration failed: %w", err)
        }
    }
    return nil
}
