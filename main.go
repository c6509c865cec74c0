package main

import (
	"context"
	"errors"
	"funpaybot/internal/catalog"
	"funpaybot/internal/config"
	"funpaybot/internal/handlers"
	"funpaybot/internal/logger"
	"funpaybot/internal/middleware"
	"funpaybot/internal/monitor"
	sentryutil "funpaybot/internal/sentry"
	"funpaybot/internal/state"
	"funpaybot/internal/telegram"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration from .env and environment variables
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("config: "+err.Error(), nil)
		return 1
	}

	// Initialize Sentry (non-blocking if SENTRY_DSN is empty)
	sentryutil.Init(cfg)
	defer sentryutil.Flush()

	accounts, err := catalog.Load(cfg.AccountsFile)
	if err != nil {
		logger.Error("catalog: load failed", map[string]interface{}{"error": err.Error()})
		sentryutil.CaptureError(err, map[string]string{"component": "catalog"})
		return 1
	}
	store := state.NewStore(accounts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.BotDebug)
	if err != nil {
		logger.Error("telegram: init failed", map[string]interface{}{"error": err.Error()})
		sentryutil.CaptureError(err, map[string]string{"component": "telegram"})
		return 1
	}
	dispatcher := telegram.NewDispatcher(bot.API(), store, cfg.AdminID, cfg.Port)

	mon := monitor.New(store, nil, cfg.PollInterval, cfg.PollErrorBackoff)
	handlers.SetStatusProvider(func() interface{} { return mon.Status() })

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, time.Second, cfg.TrustProxy)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpHandler(limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		logger.Info("server starting", map[string]interface{}{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server: listen failed", map[string]interface{}{"error": err.Error()})
			sentryutil.CaptureError(err, map[string]string{"component": "http"})
			stop()
		}
	}()

	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server: shutdown", map[string]interface{}{"error": err.Error()})
		}
	}()

	go func() {
		defer wg.Done()
		mon.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		logger.Info("bot started", map[string]interface{}{"username": bot.Username(), "accounts": len(accounts)})
		if err := bot.Run(ctx, dispatcher); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("telegram: stopped", map[string]interface{}{"error": err.Error()})
		}
		stop()
	}()

	wg.Wait()
	logger.Info("bot stopped", nil)
	return 0
}

// httpHandler wraps the router as Sentry → Recovery → SecurityHeaders.
// The rate limiter only guards /api/, liveness checks are never throttled.
func httpHandler(limiter *middleware.RateLimiter) http.Handler {
	return middleware.Chain(handlers.NewRouter(limiter.Middleware),
		middleware.Sentry,
		middleware.Recovery,
		middleware.SecurityHeaders,
	)
}
