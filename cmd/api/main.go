package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/medsched/clinic-agent/internal/api/router"
	"github.com/medsched/clinic-agent/internal/booking"
	appconfig "github.com/medsched/clinic-agent/internal/config"
	"github.com/medsched/clinic-agent/internal/conversation"
	"github.com/medsched/clinic-agent/internal/knowledge"
	"github.com/medsched/clinic-agent/internal/observability/metrics"
	"github.com/medsched/clinic-agent/internal/scheduling"
	"github.com/medsched/clinic-agent/pkg/logging"
)

// Titan v2 embedding width, used when creating the remote collection.
const embeddingVectorSize = 1024

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	convMetrics := metrics.NewConversationMetrics(nil)
	retrievalMetrics := metrics.NewRetrievalMetrics(nil)
	bookingMetrics := metrics.NewBookingMetrics(nil)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	bedrockClient := bedrockruntime.NewFromConfig(awsCfg)
	embedder := knowledge.NewBedrockEmbedder(bedrockClient)

	// Knowledge base: local index always, remote index when configured.
	corpus, err := knowledge.LoadCorpus(cfg.KnowledgeFile)
	if err != nil {
		logger.Error("failed to load knowledge corpus", "file", cfg.KnowledgeFile, "error", err)
		os.Exit(1)
	}
	localIndex := knowledge.NewMemoryIndex(embedder, cfg.BedrockEmbeddingModelID, logger)
	if len(corpus) > 0 {
		if err := localIndex.Load(ctx, corpus); err != nil {
			logger.Warn("failed to load local FAQ index, answers limited to sentinel", "error", err)
		}
	} else {
		logger.Warn("knowledge corpus is empty", "file", cfg.KnowledgeFile)
	}

	var primaryIndex knowledge.Retriever
	if cfg.QdrantURL != "" {
		qdrant, err := knowledge.NewQdrantIndex(knowledge.QdrantConfig{
			BaseURL:    cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
			Timeout:    cfg.QdrantTimeout,
		}, embedder, cfg.BedrockEmbeddingModelID)
		if err != nil {
			logger.Error("invalid qdrant configuration", "error", err)
			os.Exit(1)
		}
		// Best-effort bootstrap; search failures fall back to the local index.
		if err := qdrant.EnsureCollection(ctx, embeddingVectorSize); err != nil {
			logger.Warn("failed to ensure qdrant collection", "error", err)
		} else if err := qdrant.Upsert(ctx, corpus); err != nil {
			logger.Warn("failed to upsert corpus into qdrant", "error", err)
		}
		primaryIndex = qdrant
	}
	retriever := knowledge.NewFallbackRetriever(primaryIndex, localIndex, retrievalMetrics, logger)
	logger.Info("knowledge base initialized",
		"entries", localIndex.Size(),
		"remote", primaryIndex != nil,
	)

	// Schedule store: Redis when configured, otherwise in-memory.
	var store scheduling.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = scheduling.NewRedisStore(client)
		logger.Info("using redis schedule store", "addr", cfg.RedisAddr)
	} else {
		store = scheduling.NewMemoryStore()
		logger.Info("using in-memory schedule store")
	}

	// Booking persistence: Postgres when configured, otherwise in-memory.
	repo, closeRepo := setupBookingRepository(ctx, cfg.DatabaseURL, logger)
	defer closeRepo()

	hours := scheduling.WorkingHours{Start: cfg.WorkingHoursStart, End: cfg.WorkingHoursEnd}
	schedService := scheduling.NewService(store, hours, logger)
	bookingService := booking.NewService(schedService, store, booking.NewIssuer(), repo, bookingMetrics, logger)

	engine := conversation.NewEngine(bookingService, retriever, hours, cfg.SuggestedSlotLimit, cfg.RetrievalTopK, convMetrics, logger)

	var chatService *conversation.ChatService
	if cfg.BedrockModelID != "" {
		llm := conversation.NewBedrockLLMClient(bedrockClient)
		chatService = conversation.NewChatService(retriever, llm, cfg.BedrockModelID, cfg.RetrievalTopK, logger)
	} else {
		logger.Warn("BEDROCK_MODEL_ID not set, /api/chat disabled")
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		SchedulingHandler:   scheduling.NewHandler(schedService, logger),
		BookingHandler:      booking.NewHandler(bookingService, logger),
		ConversationHandler: conversation.NewHandler(engine, chatService, logger),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupBookingRepository returns the Postgres-backed repository when a
// database URL is configured and an in-memory one otherwise, plus a cleanup
// to run at shutdown.
func setupBookingRepository(ctx context.Context, databaseURL string, logger *logging.Logger) (booking.Repository, func()) {
	if databaseURL == "" {
		logger.Info("booking persistence is in-memory, set DATABASE_URL to persist bookings")
		return booking.NewMemoryRepository(), func() {}
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	logger.Info("booking persistence enabled")
	return booking.NewPostgresRepository(pool), pool.Close
}
