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

	"market-mood/internal/advisor"
	"market-mood/internal/cache"
	"market-mood/internal/config"
	"market-mood/internal/handler"
	"market-mood/internal/provider"
	"market-mood/internal/service"
	"market-mood/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "market-mood/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initTracerFunc   = tracing.InitTracer
	newStoreFunc     = newStore
	newDashboardFunc = func(tracer trace.Tracer, store cache.Store, cfg *config.Config) handler.SnapshotBuilder {
		return service.NewDashboardService(tracer, store, cfg.CacheTTL,
			provider.NewCoinGeckoProvider(tracer),
			provider.NewFREDProvider(cfg.FREDAPIKey, tracer),
			provider.NewTwelveDataProvider(cfg.TwelveDataAPIKey, tracer),
			provider.NewFearGreedProvider(tracer),
		)
	}
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// newStore picks the cache backend: Redis when configured and reachable,
// the in-process store otherwise.
func newStore(ctx context.Context, cfg *config.Config) cache.Store {
	if cfg.RedisURL == "" {
		return cache.NewMemoryStore()
	}
	store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("Redis unavailable (%v), falling back to in-process cache", err)
		return cache.NewMemoryStore()
	}
	log.Println("Connected to Redis")
	return store
}

// @title           Market Mood API
// @version         1.0
// @description     A market sentiment dashboard service.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	store := newStoreFunc(ctx, cfg)
	dashboard := newDashboardFunc(tracer, store, cfg)

	var advisorSvc handler.AdvisorQuerier
	if cfg.OpenAIAPIKey != "" {
		llmClient := advisor.NewOpenAIClient(cfg.OpenAIAPIKey)
		advisorSvc = advisor.NewAdvisorService(tracer, llmClient, cfg.OpenAIModel)
		log.Println("Advisor enabled")
	}

	h := newHandlerFunc(tracer, dashboard, advisorSvc)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("market-mood"))

	h.RegisterRoutes(r, cfg.DashboardKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
