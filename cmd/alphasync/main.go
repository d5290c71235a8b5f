package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/alpha"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/cache"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/config"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/logger"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/notify"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/scoring"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/server"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/storage"
	syncengine "github.com/ohakidev/binance-alpha-tool-sub001/internal/sync"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Secrets (bot token, sync secret) usually come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("Failed to open storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	client := alpha.NewClient(cfg.Alpha.APIBaseURL, cfg.Alpha.Timeout, alpha.ClientConfig{
		MaxRetries:     cfg.Alpha.MaxRetries,
		RetryDelayBase: cfg.Alpha.RetryDelayBase,
	})

	var sender notify.Sender
	if cfg.Telegram.Enabled {
		tg, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		sender = tg
		logger.Info("Telegram client initialized")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	dispatcher := notify.New(store, sender, cfg.Notify.ReminderWindow, cfg.Notify.LiveWindow)

	engine := syncengine.New(client, store, dispatcher, syncengine.Config{
		RunBudget:     cfg.Sync.RunBudget,
		RetentionDays: cfg.Sync.RetentionDays,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	var httpServer *http.Server
	if cfg.Server.Enabled {
		insights := cache.New(cfg.Cache.TTL)
		srv := server.New(engine, insights, insightLoader(client), cfg.Server.SyncSecret)
		httpServer = &http.Server{
			Addr:         cfg.Server.ListenAddr,
			Handler:      srv.Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.Sync.RunBudget + 10*time.Second,
		}
		go func() {
			logger.Info("HTTP server listening on %s", cfg.Server.ListenAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error: %v", err)
			}
		}()
	}

	logger.Info("Starting sync service (interval: %v, reminder window: %v, live window: %v, retention: %dd)",
		cfg.Alpha.PollInterval, cfg.Notify.ReminderWindow, cfg.Notify.LiveWindow, cfg.Sync.RetentionDays)

	ticker := time.NewTicker(cfg.Alpha.PollInterval)
	defer ticker.Stop()

	runOnce := func() {
		if _, err := engine.Run(ctx); err != nil {
			logger.Error("Sync run rejected: %v", err)
		}
	}

	// Run an initial sync immediately rather than waiting out a full interval.
	runOnce()

	for {
		select {
		case <-ctx.Done():
			if httpServer != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					logger.Error("HTTP server shutdown error: %v", err)
				}
				shutdownCancel()
			}
			logger.Info("Service stopped")
			return

		case <-ticker.C:
			logger.Debug("Starting scheduled sync run")
			runOnce()
		}
	}
}

// insightLoader produces the read-API snapshot: a fresh fetch normalized,
// scored, and classified. The cache decides when this actually runs.
func insightLoader(client *alpha.Client) cache.Loader {
	return func(ctx context.Context) ([]models.TokenInsight, error) {
		records, err := client.FetchTokens(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		insights := make([]models.TokenInsight, 0, len(records))
		for _, rec := range records {
			if rec.Symbol == "" {
				continue
			}
			m := scoring.Normalize(rec)
			var listing time.Time
			if rec.ListingTime > 0 {
				listing = time.UnixMilli(rec.ListingTime).UTC()
			}
			insights = append(insights, models.TokenInsight{
				Symbol:  rec.Symbol,
				Name:    rec.Name,
				Chain:   m.Chain,
				Status:  scoring.ClassifyAirdrop(scoring.FlagsOf(rec), listing, now),
				Metrics: m,
				Score:   scoring.Score(m),
			})
		}
		return insights, nil
	}
}
