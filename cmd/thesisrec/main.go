package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/config"
	dbRedis "github.com/kailas-cloud/thesisrec/internal/db/redis"
	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/ingest"
	logpkg "github.com/kailas-cloud/thesisrec/internal/logger"
	"github.com/kailas-cloud/thesisrec/internal/metrics"
	budgetrepo "github.com/kailas-cloud/thesisrec/internal/repository/budget"
	feedbackrepo "github.com/kailas-cloud/thesisrec/internal/repository/feedback"
	"github.com/kailas-cloud/thesisrec/internal/repository/llmcache"
	subjectrepo "github.com/kailas-cloud/thesisrec/internal/repository/subject"
	userrepo "github.com/kailas-cloud/thesisrec/internal/repository/user"
	chiTransport "github.com/kailas-cloud/thesisrec/internal/transport/chi"
	openaiNarrator "github.com/kailas-cloud/thesisrec/internal/transport/openai"
	authuc "github.com/kailas-cloud/thesisrec/internal/usecase/auth"
	cataloguc "github.com/kailas-cloud/thesisrec/internal/usecase/catalog"
	diaguc "github.com/kailas-cloud/thesisrec/internal/usecase/diagnostics"
	elaborateuc "github.com/kailas-cloud/thesisrec/internal/usecase/elaborate"
	feedbackuc "github.com/kailas-cloud/thesisrec/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/thesisrec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/thesisrec/internal/usecase/recommend"
	usageuc "github.com/kailas-cloud/thesisrec/internal/usecase/usage"
	"github.com/kailas-cloud/thesisrec/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting thesisrec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus", cfg.Corpus.CSVPath),
		zap.Bool("database", cfg.Database.Enabled()),
		zap.Bool("llm", cfg.LLM.Enabled()),
	)

	metrics.RegisterRecommendationMetrics()
	metrics.RegisterLLMMetrics()

	ctx := context.Background()

	// The database is optional: without it the corpus lives in memory only
	// and accounts/feedback are disabled.
	var store *dbRedis.Store
	if cfg.Database.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("addrs", cfg.Database.Addrs),
		)
	}

	prefix := cfg.Storage.KeyPrefix
	csvOpts := ingest.Options{Separator: cfg.Corpus.SeparatorRune(), NoHeader: cfg.Corpus.NoHeader}

	// Pass nil interfaces (not typed nil pointers) for absent components.
	var source cataloguc.Source
	if cfg.Corpus.CSVPath != "" {
		source = ingest.NewFileSource(cfg.Corpus.CSVPath, csvOpts)
	}
	var corpusRepo cataloguc.Repository
	if store != nil {
		corpusRepo = subjectrepo.New(store, prefix)
	}

	catalogSvc := cataloguc.New(source, corpusRepo, logger)
	if _, err := catalogSvc.Bootstrap(ctx); err != nil {
		// Serve anyway: the corpus can still be uploaded.
		logger.Error("No corpus published at startup", zap.Error(err))
	}

	svc := chiTransport.Services{
		Catalog:   catalogSvc,
		Recommend: recommenduc.New(catalogSvc, cfg.Corpus.DefaultTopN),
		Diagnostics: diaguc.New(catalogSvc, diaguc.Config{
			ExcludedTags: cfg.Corpus.ExcludedTags,
			TopTags:      cfg.Corpus.TopTags,
		}),
	}
	if store != nil {
		svc.Auth = authuc.New(userrepo.New(store, prefix), cfg.Auth.BcryptCost)
		svc.Feedback = feedbackuc.New(feedbackrepo.New(store, prefix), catalogSvc)
	}

	narrator, budget := buildNarrator(ctx, cfg, store, logger)

	var (
		narr          domain.Narrator
		llmChecker    healthuc.LLMChecker
		budgetChecker elaborateuc.BudgetChecker
		budgetReader  usageuc.BudgetReader
	)
	if narrator != nil {
		llmChecker = narrator
		// Cache hits are served even while the circuit is open.
		narr = openaiNarrator.NewCircuitNarrator(narrator, openaiNarrator.BreakerConfig{
			Provider:    cfg.LLM.Provider,
			Failures:    cfg.LLM.Breaker.Failures,
			OpenTimeout: time.Duration(cfg.LLM.Breaker.OpenTimeoutSec) * time.Second,
			Logger:      logger,
		})
		if store != nil && cfg.LLM.CacheTTLSec > 0 {
			narr = llmcache.New(narr, store, prefix, cfg.LLM.Model,
				time.Duration(cfg.LLM.CacheTTLSec)*time.Second, metrics.LLMCacheTotal, logger)
		}
	}
	if budget != nil {
		budgetChecker = budget
		budgetReader = budget
	}
	svc.Elaborate = elaborateuc.New(narr, budgetChecker, cfg.LLM.Provider, cfg.LLM.Model, logger)
	svc.Usage = usageuc.New(budgetReader)

	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	svc.Health = healthuc.New(catalogSvc, dbPinger, llmChecker)

	server := chiTransport.NewServer(svc, chiTransport.Options{
		Upload:         csvOpts,
		MaxUploadBytes: int64(cfg.HTTP.MaxUploadMB) << 20,
	}, logger)
	r := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:     cfg.Auth.APIKeys,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		RateLimit:   cfg.HTTP.RateLimitPerMin,
		RateWindow:  time.Minute,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildNarrator returns nil values when no chat model is configured. The
// budget tracker exists only when a limit is set.
func buildNarrator(
	ctx context.Context, cfg config.Config, store *dbRedis.Store, logger *zap.Logger,
) (*openaiNarrator.Narrator, *elaborateuc.BudgetTracker) {
	if !cfg.LLM.Enabled() {
		logger.Info("LLM elaboration disabled")
		return nil, nil
	}

	narrator := openaiNarrator.NewNarrator(&openaiNarrator.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		User:        "thesisrec",
		Provider:    cfg.LLM.Provider,
		Logger:      logger,
	})
	logger.Info("Narrator created",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)

	b := cfg.LLM.Budget
	if b.DailyTokenLimit <= 0 && b.MonthlyTokenLimit <= 0 {
		return narrator, nil
	}
	action := elaborateuc.BudgetActionWarn
	if b.Action == "reject" {
		action = elaborateuc.BudgetActionReject
	}
	budget := elaborateuc.NewBudgetTracker(
		cfg.LLM.Provider, cfg.Storage.KeyPrefix, b.DailyTokenLimit, b.MonthlyTokenLimit, action, logger,
	)
	if store != nil {
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}
	return narrator, budget
}
