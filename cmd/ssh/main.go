package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-mood/internal/advisor"
	"market-mood/internal/cache"
	"market-mood/internal/config"
	"market-mood/internal/provider"
	"market-mood/internal/service"
	"market-mood/internal/tui"
	"market-mood/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initTracerFunc   = tracing.InitTracer
	newStoreFunc     = newStore
	newDashboardFunc = func(tracer trace.Tracer, store cache.Store, cfg *config.Config) *service.DashboardService {
		return service.NewDashboardService(tracer, store, cfg.CacheTTL,
			provider.NewCoinGeckoProvider(tracer),
			provider.NewFREDProvider(cfg.FREDAPIKey, tracer),
			provider.NewTwelveDataProvider(cfg.TwelveDataAPIKey, tracer),
			provider.NewFearGreedProvider(tracer),
		)
	}
	newOpenAIClientFunc   = advisor.NewOpenAIClient
	newAdvisorServiceFunc = advisor.NewAdvisorService
	newWishServerFunc     = wish.NewServer
	setupSignalNotify     = signal.Notify
	waitForSignalFunc     = func(quit <-chan os.Signal) { <-quit }
)

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

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
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

	// Advisor (optional)
	var advisorSvc *advisor.AdvisorService
	if cfg.OpenAIAPIKey != "" {
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		advisorSvc = newAdvisorServiceFunc(tracer, llmClient, cfg.OpenAIModel)
		log.Println("SSH advisor service enabled")
	}

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			// The dashboard is read-only, so any key gets in. The
			// fingerprint still goes to the log for audit.
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", ctx.User(), gossh.FingerprintSHA256(key))
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				var advisorQ tui.AdvisorQuerier
				if advisorSvc != nil {
					advisorQ = advisorSvc
				}

				svc := tui.Services{
					Dashboard: dashboard,
					Advisor:   advisorQ,
					Username:  s.User(),
				}

				model := tui.NewModel(svc)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
