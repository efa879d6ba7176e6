package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/hltran/product-scout/internal/api/handlers"
	mw "github.com/hltran/product-scout/internal/api/middleware"
	"github.com/hltran/product-scout/internal/config"
	"github.com/hltran/product-scout/internal/engine"
	"github.com/hltran/product-scout/internal/store"
	"github.com/hltran/product-scout/internal/tiki"
	"github.com/hltran/product-scout/pkg/logger"
	"github.com/hltran/product-scout/pkg/rank"
	score "github.com/hltran/product-scout/pkg/scorer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and retention scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	scorer := score.New(
		score.WithPriceTiers(cfg.Scoring.Tiers()),
		score.WithFeeModel(cfg.Scoring.FeeModel()),
		score.WithShippingFee(cfg.Scoring.ShippingFee),
		score.WithDefaultCriteria(cfg.Scoring.Criteria()),
	)

	engineOpts := []engine.Option{
		engine.WithStore(st),
		engine.WithLogger(logger.Component(log, "engine")),
		engine.WithTopN(cfg.Scoring.TopN),
	}

	if backend := llmBackend(&cfg.LLM); backend != nil {
		log.Info("AI ranking enabled", "backend", backend.Name())
		engineOpts = append(engineOpts, engine.WithRanker(rank.NewRanker(
			backend,
			rank.WithTemperature(cfg.LLM.Temperature),
			rank.WithMaxTokens(cfg.LLM.MaxTokens),
		)))
	} else {
		log.Info("AI ranking disabled, evaluations return scores only")
	}

	eng := engine.New(scorer, engineOpts...)

	catalog := tiki.NewCatalogClient(
		tiki.WithBaseURL(cfg.Tiki.BaseURL),
		tiki.WithPageSize(cfg.Tiki.PageSize),
		tiki.WithHTTPClient(&http.Client{Timeout: cfg.Tiki.Timeout}),
		tiki.WithRateLimiter(rate.NewLimiter(
			rate.Limit(cfg.Tiki.RateLimit.PerSecond),
			cfg.Tiki.RateLimit.Burst,
		)),
	)
	paginator := tiki.NewPaginator(
		catalog,
		tiki.WithMaxPages(cfg.Tiki.MaxPages),
		tiki.WithPaginatorLogger(logger.Component(log, "tiki")),
	)

	sched, err := engine.NewScheduler(
		eng,
		cfg.Schedule.RetentionInterval,
		cfg.Schedule.RetentionAge,
		logger.Component(log, "scheduler"),
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(mw.RequestLog(log))
	e.Use(mw.Recovery(log))
	e.Use(mw.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/api/v1/evaluate", handlers.NewEvaluateHandler(eng).Evaluate)
	e.POST("/api/v1/score", handlers.NewScoreHandler(scorer).Score)
	e.POST("/api/v1/discover", handlers.NewDiscoverHandler(paginator, eng).Discover)

	api := humaecho.New(e, huma.DefaultConfig("Product Scout API", Version))
	handlers.RegisterEvaluationRoutes(api, handlers.NewEvaluationsHandler(st))

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	sched.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	stopCtx := sched.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// llmBackend builds the configured AI backend, or nil when ranking is
// disabled.
func llmBackend(cfg *config.LLMConfig) rank.LLMBackend {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case "gemini":
		return rank.NewGeminiBackend(
			rank.WithGeminiModel(cfg.Gemini.Model),
			rank.WithGeminiHTTPClient(client),
		)
	case "openai_compat":
		return rank.NewOpenAIBackend(
			rank.WithOpenAIEndpoint(cfg.OpenAICompat.Endpoint),
			rank.WithOpenAIModel(cfg.OpenAICompat.Model),
			rank.WithOpenAIHTTPClient(client),
		)
	default:
		return nil
	}
}
