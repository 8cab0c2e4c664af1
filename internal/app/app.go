package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noir-madlax/GoodGame-sub002/internal/config"
	httpcontroller "github.com/noir-madlax/GoodGame-sub002/internal/controller/http"
	"github.com/noir-madlax/GoodGame-sub002/internal/database"
	analysisdao "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/dao"
	analysispolicy "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/policy"
	analysisscheduler "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/scheduler"
	analysisservice "github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/service"
	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/cache"
	dashboardservice "github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/service"
	enumsdao "github.com/noir-madlax/GoodGame-sub002/internal/domain/enums/dao"
	enumsservice "github.com/noir-madlax/GoodGame-sub002/internal/domain/enums/service"
	postdao "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/dao"
	postentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
	postpolicy "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/policy"
	postservice "github.com/noir-madlax/GoodGame-sub002/internal/domain/post/service"
	rulesdao "github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/dao"
	rulesentity "github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/entity"
	rulespolicy "github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/policy"
	rulesservice "github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/service"
	"github.com/noir-madlax/GoodGame-sub002/internal/httpx/upstream/llm"
	"github.com/noir-madlax/GoodGame-sub002/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger
	pool       *pgxpool.Pool

	// Dashboard caches
	snapshots *cache.SnapshotCache
	overview  *cache.MutableCache

	// Domain wiring exposed to HTTP handlers
	postPolicy       *postpolicy.Policy
	analysisPolicy   *analysispolicy.Policy
	dashboardService *dashboardservice.Service
	enumService      *enumsservice.Service
	rulePolicy       *rulespolicy.Policy

	// Scheduler for the AI annotation pipeline
	scheduler *analysisscheduler.Scheduler

	// Sweeper lifetime
	sweepCancel context.CancelFunc
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	// Initialize infrastructure
	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	// Initialize domain layers
	if err := app.initDomains(ctx); err != nil {
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	// Register routes
	app.registerRoutes()

	// Initialize HTTP server
	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Initialize scheduler
	if cfg.Scheduler.Enabled {
		app.scheduler = analysisscheduler.New(app.analysisPolicy, cfg.Scheduler.Interval, logger)
	}

	return app, nil
}

// initInfrastructure initializes infrastructure components
func (a *App) initInfrastructure(ctx context.Context) error {
	pool, err := database.NewPostgresPool(ctx, a.cfg.Database.PostgresDSN, database.PoolOptions{
		MaxConns:     int32(a.cfg.Database.MaxOpenConns),
		MinConns:     int32(a.cfg.Database.MaxIdleConns),
		ConnLifetime: a.cfg.Database.ConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pool = pool

	a.snapshots = cache.NewSnapshotCache(a.cfg.Cache.SnapshotTTL, cache.NewMemoryStore())
	a.overview = cache.NewMutableCache()

	return nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains(ctx context.Context) error {
	// Upstreams
	covers, err := storage.NewCoverStorage(storage.S3Config{
		Endpoint:        a.cfg.S3.Endpoint,
		AccessKeyID:     a.cfg.S3.AccessKeyID,
		SecretAccessKey: a.cfg.S3.SecretAccessKey,
		Bucket:          a.cfg.S3.Bucket,
		Region:          a.cfg.S3.Region,
		PublicURL:       a.cfg.S3.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("initializing cover storage: %w", err)
	}

	llmClient := llm.New(
		llm.WithBaseURL(a.cfg.LLM.BaseURL),
		llm.WithAPIKey(a.cfg.LLM.APIKey),
		llm.WithModel(a.cfg.LLM.Model),
	)
	annotator := llm.NewAnnotator(llmClient)

	// Post domain
	postRepo := postdao.NewPostPostgres(a.pool)
	postSvc := postservice.New(postRepo)
	a.postPolicy = postpolicy.New(postSvc, &coverStoreAdapter{covers}, a.overview)

	// Analysis domain
	analysisRepo := analysisdao.NewAnalysisPostgres(a.pool)
	analysisSvc := analysisservice.New(analysisRepo)
	a.analysisPolicy = analysispolicy.New(analysisSvc, postSvc, &annotatorAdapter{annotator}, a.overview, a.logger)

	// Dashboard domain
	a.dashboardService = dashboardservice.New(&postSourceAdapter{postSvc}, analysisSvc, a.snapshots, a.overview)

	// Enums domain, sharing the snapshot TTL
	a.enumService = enumsservice.New(enumsdao.NewEnumPostgres(a.pool), a.cfg.Cache.SnapshotTTL)

	// Rules domain
	ruleSvc := rulesservice.New(rulesdao.NewRulePostgres(a.pool))
	a.rulePolicy = rulespolicy.New(ruleSvc, &chainExtractorAdapter{annotator})

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	// Health check
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	// Swagger UI documentation
	swaggerHandler := httpcontroller.NewSwaggerHandler("GoodGame Sentiment Monitor API", OpenAPISpec)
	swaggerHandler.RegisterRoutes(a.router)

	// API v1
	a.router.Route("/api/v1", func(r chi.Router) {
		httpcontroller.NewPostHandler(a.postPolicy).RegisterRoutes(r)
		httpcontroller.NewDashboardHandler(a.dashboardService).RegisterRoutes(r)
		httpcontroller.NewEnumHandler(a.enumService).RegisterRoutes(r)
		httpcontroller.NewRuleHandler(a.rulePolicy).RegisterRoutes(r)
	})
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler handles readiness check requests
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := a.pool.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	// Start scheduler if enabled
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	// Start the snapshot eviction sweeper
	sweepCtx, cancel := context.WithCancel(ctx)
	a.sweepCancel = cancel
	a.snapshots.StartSweeper(sweepCtx, a.cfg.Cache.SweepInterval, a.logger)

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Stop scheduler
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Stop the sweeper
	if a.sweepCancel != nil {
		a.sweepCancel()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}

// coverStoreAdapter adapts storage.CoverStorage to postpolicy.CoverStore
type coverStoreAdapter struct {
	store *storage.CoverStorage
}

func (a *coverStoreAdapter) Upload(ctx context.Context, in postpolicy.CoverUploadInput) (*postpolicy.CoverUploadOutput, error) {
	out, err := a.store.Upload(ctx, storage.UploadInput{
		Reader:      in.Reader,
		ContentType: in.ContentType,
		Size:        in.Size,
		Filename:    in.Filename,
	})
	if err != nil {
		return nil, err
	}
	return &postpolicy.CoverUploadOutput{Key: out.Key, URL: out.URL}, nil
}

// annotatorAdapter adapts llm.Annotator to analysispolicy.Annotator
type annotatorAdapter struct {
	annotator *llm.Annotator
}

func (a *annotatorAdapter) AnnotatePost(ctx context.Context, in analysispolicy.AnnotateInput) (*analysispolicy.AnnotateOutput, error) {
	out, err := a.annotator.AnnotatePost(ctx, llm.PostInput{
		Platform:    in.Platform,
		Title:       in.Title,
		AuthorName:  in.AuthorName,
		CreatorType: in.CreatorType,
	})
	if err != nil {
		return nil, err
	}
	return &analysispolicy.AnnotateOutput{
		Sentiment:      out.Sentiment,
		RelevanceLabel: out.RelevanceLabel,
		RiskCategories: out.RiskCategories,
		Severity:       out.Severity,
		Suggestion:     out.Suggestion,
	}, nil
}

// chainExtractorAdapter adapts llm.Annotator to rulespolicy.ChainExtractor
type chainExtractorAdapter struct {
	annotator *llm.Annotator
}

func (a *chainExtractorAdapter) ExtractChain(ctx context.Context, text string) (*rulespolicy.ExtractedChain, error) {
	out, err := a.annotator.ExtractChain(ctx, text)
	if err != nil {
		if errors.Is(err, llm.ErrUnparseableReply) {
			return nil, rulesentity.ErrExtractionFailed
		}
		return nil, err
	}
	return &rulespolicy.ExtractedChain{
		Category:    out.Category,
		Attribute:   toChainNode(out.Attribute),
		Performance: toChainNode(out.Performance),
		Use:         toChainNode(out.Use),
		Style:       toChainNode(out.Style),
		Keywords:    out.Keywords,
	}, nil
}

func toChainNode(n *llm.ChainNode) *rulesentity.ChainNode {
	if n == nil {
		return nil
	}
	return &rulesentity.ChainNode{Code: n.Code, Label: n.Label}
}

// postSourceAdapter adapts postservice.Service to dashboardservice.PostSource
type postSourceAdapter struct {
	svc *postservice.Service
}

func (a *postSourceAdapter) ListPosts(ctx context.Context, in dashboardservice.PostQuery) ([]postentity.Post, int64, error) {
	out, err := a.svc.ListPosts(ctx, postservice.ListInput{
		Platforms:    toPlatforms(in.Platforms),
		Relevance:    toRelevantStatuses(in.Relevance),
		Priorities:   toPriorities(in.Priorities),
		CreatorTypes: toCreatorTypes(in.CreatorTypes),
		OldestFirst:  in.OldestFirst,
		Limit:        in.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	return out.Posts, out.Total, nil
}

func (a *postSourceAdapter) EngagementBaselines(ctx context.Context, since *time.Time) (*postentity.EngagementTotals, error) {
	return a.svc.EngagementBaselines(ctx, since)
}

func (a *postSourceAdapter) Statistics(ctx context.Context) (*postentity.PostStatistics, error) {
	return a.svc.Statistics(ctx)
}

func toPlatforms(values []string) []postentity.Platform {
	out := make([]postentity.Platform, len(values))
	for i, v := range values {
		out[i] = postentity.Platform(v)
	}
	return out
}

func toRelevantStatuses(values []string) []postentity.RelevantStatus {
	out := make([]postentity.RelevantStatus, len(values))
	for i, v := range values {
		out[i] = postentity.RelevantStatus(v)
	}
	return out
}

func toPriorities(values []string) []postentity.Priority {
	out := make([]postentity.Priority, len(values))
	for i, v := range values {
		out[i] = postentity.Priority(v)
	}
	return out
}

func toCreatorTypes(values []string) []postentity.CreatorType {
	out := make([]postentity.CreatorType, len(values))
	for i, v := range values {
		out[i] = postentity.CreatorType(v)
	}
	return out
}
