// cmd/api/main.go
// KiezSwap backend entry point

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kiezswap/kiezswap-backend/internal/ai"
	"github.com/kiezswap/kiezswap-backend/internal/common/database"
	"github.com/kiezswap/kiezswap-backend/internal/common/utils"
	"github.com/kiezswap/kiezswap-backend/internal/config"
	"github.com/kiezswap/kiezswap-backend/internal/listings"
	"github.com/kiezswap/kiezswap-backend/internal/matching"
	"github.com/kiezswap/kiezswap-backend/internal/profile"
	"github.com/kiezswap/kiezswap-backend/internal/saved"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🚀 Starting KiezSwap backend...")

	// Step 1: Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Configuration loaded")

	// Step 2: Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL")

	// Step 3: Run migrations
	if err := runMigrations(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations applied")

	// Step 4: Connect to Redis (optional, only used by the preference cache)
	var redisClient *redis.Client
	if cfg.PrefsCacheEnabled {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, preference caching disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis")
		}
	}

	// Step 5: Wire up modules
	listingsRepo := listings.NewPostgresRepository(db)
	listingsService := listings.NewService(listingsRepo)
	listingsHandler := listings.NewHandler(listingsService)

	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(profileService)

	savedRepo := saved.NewPostgresRepository(db)
	savedService := saved.NewService(savedRepo)
	savedHandler := saved.NewHandler(savedService)

	chatClient := ai.NewChatClient(cfg)
	extractor := ai.NewExtractor(chatClient, redisClient, cfg)
	semanticScorer := ai.NewSemanticScorer(chatClient, cfg)

	matchingService := matching.NewService(
		profileRepo,
		listingsRepo,
		extractor,
		semanticScorer,
		matching.NewRegexInference(),
		cfg,
	)
	matchingHandler := matching.NewHandler(matchingService)
	log.Println("✅ Modules initialized")

	// Step 6: Set up routes
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	router.HandleFunc("/health", healthHandler(db)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	matching.RegisterRoutes(router, matchingHandler)
	listings.RegisterRoutes(router, listingsHandler)
	profile.RegisterRoutes(router, profileHandler)
	saved.RegisterRoutes(router, savedHandler)
	log.Println("✅ Routes registered")

	// Step 7: Start background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	go listings.NewCleanupJob(listingsService, cfg.CleanupInterval).Start(jobCtx)
	log.Println("✅ Background jobs started")

	// Step 8: Start HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	cancelJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Forced shutdown: %v", err)
	}

	log.Println("👋 Server stopped")
}

func runMigrations(db *sqlx.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS user_profiles (
        id TEXT PRIMARY KEY,
        email TEXT NOT NULL DEFAULT '',
        display_name TEXT NOT NULL DEFAULT '',
        my_apartment JSONB NOT NULL DEFAULT '{}',
        looking_for JSONB NOT NULL DEFAULT '{}',
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS listings (
        id TEXT PRIMARY KEY,
        link TEXT NOT NULL UNIQUE,
        title TEXT NOT NULL DEFAULT '',
        district TEXT NOT NULL DEFAULT '',
        type TEXT NOT NULL DEFAULT '',
        cold_rent DOUBLE PRECISION NOT NULL DEFAULT 0,
        rooms DOUBLE PRECISION NOT NULL DEFAULT 0,
        square_meters DOUBLE PRECISION NOT NULL DEFAULT 0,
        floor INTEGER,
        pets_allowed BOOLEAN NOT NULL DEFAULT FALSE,
        balcony_or_terrace BOOLEAN NOT NULL DEFAULT FALSE,
        description TEXT NOT NULL DEFAULT '',
        looking_for_description TEXT NOT NULL DEFAULT '',
        images JSONB,
        search_criteria JSONB,
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_listings_district ON listings(district);
    CREATE INDEX IF NOT EXISTS idx_listings_cold_rent ON listings(cold_rent);
    CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC);

    CREATE TABLE IF NOT EXISTS saved_listings (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        listing_id TEXT NOT NULL,
        listing JSONB NOT NULL,
        saved_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_saved_listings_user ON saved_listings(user_id);
    `

	_, err := db.Exec(schema)
	return err
}

func healthHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
