package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/randompartner/chat-bot/internal/bot"
	"github.com/randompartner/chat-bot/internal/matching"
	"github.com/randompartner/chat-bot/internal/messaging"
	"github.com/randompartner/chat-bot/internal/metrics"
	"github.com/randompartner/chat-bot/internal/ratelimit"
	"github.com/randompartner/chat-bot/internal/relay"
	"github.com/randompartner/chat-bot/internal/store"
	"github.com/randompartner/chat-bot/internal/telegram"
)

func mustGetenv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("%s is required", key)
	}
	return v
}

func mustGetenvInt64(key string) int64 {
	v, err := strconv.ParseInt(mustGetenv(key), 10, 64)
	if err != nil {
		log.Fatalf("%s must be an integer: %v", key, err)
	}
	return v
}

func main() {
	log.Println("Starting Random Partner bot...")

	token := mustGetenv("BOT_TOKEN")
	dsn := mustGetenv("DATABASE_URL")
	adminID := mustGetenvInt64("ADMIN_ID")
	channelRef, err := telegram.ParseChannelRef(mustGetenv("CHANNEL_ID"))
	if err != nil {
		log.Fatalf("CHANNEL_ID: %v", err)
	}
	inviteLink := mustGetenv("CHANNEL_INVITE_LINK")

	var logChannelID int64
	if v := os.Getenv("LOG_CHANNEL_ID"); v != "" {
		logChannelID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("LOG_CHANNEL_ID must be an integer: %v", err)
		}
	}

	// Postgres setup.
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to open Postgres: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	cancel()
	if err := store.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	st := store.New(db)

	// Telegram setup.
	tg, err := telegram.New(telegram.Config{
		Token:        token,
		Channel:      channelRef,
		InviteLink:   inviteLink,
		LogChannelID: logChannelID,
		Debug:        os.Getenv("BOT_DEBUG") == "1",
	})
	if err != nil {
		log.Fatalf("failed to connect to Telegram: %v", err)
	}

	// Optional Redis-backed rate limiting.
	var limiter *ratelimit.Limiter
	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		cancel()
		limiter = ratelimit.NewLimiter(rdb)
	}

	// Optional NATS moderation feed.
	var natsClient *messaging.NATSClient
	if url := os.Getenv("NATS_URL"); url != "" {
		cfg := messaging.DefaultNATSConfig()
		cfg.URL = url
		natsClient, err = messaging.NewNATSClient(cfg)
		if err != nil {
			log.Fatalf("failed to connect to NATS: %v", err)
		}
		subscribeModerationFeed(natsClient, st)
	}

	// Optional Prometheus endpoint.
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			log.Printf("[metrics] listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("[metrics] server stopped: %v", err)
			}
		}()
	}

	var archiver relay.Archiver
	if logChannelID != 0 {
		archiver = tg
	}
	rl := relay.New(st, tg, archiver, tg)
	dispatcher := bot.New(st, tg, rl, matching.New(st), limiter, reporterOrNil(natsClient), adminID)

	ctx, cancelRun := context.WithCancel(context.Background())
	go gaugeLoop(ctx, st)
	go dispatcher.Run(ctx, tg.Updates())

	log.Printf("Random Partner bot running")
	log.Printf("  bot:          @%s", tg.Username())
	log.Printf("  admin_id:     %d", adminID)
	log.Printf("  log_channel:  %d", logChannelID)
	log.Printf("  rate_limit:   %v", limiter != nil)
	log.Printf("  nats:         %v", natsClient != nil)

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	tg.StopUpdates()
	cancelRun()
	if natsClient != nil {
		natsClient.Close()
	}
	if rdb != nil {
		rdb.Close()
	}
	db.Close()
}

// reporterOrNil avoids handing the dispatcher a typed nil interface.
func reporterOrNil(c *messaging.NATSClient) bot.Reporter {
	if c == nil {
		return nil
	}
	return c
}

// subscribeModerationFeed applies operator ban and unban commands from NATS.
func subscribeModerationFeed(nc *messaging.NATSClient, st *store.Store) {
	handle := func(action string, apply func(ctx context.Context, userID int64) error) func(data []byte) {
		return func(data []byte) {
			var cmd messaging.BanCommand
			if err := json.Unmarshal(data, &cmd); err != nil {
				log.Printf("[moderation] bad %s command: %v", action, err)
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := apply(ctx, cmd.UserID); err != nil {
				log.Printf("[moderation] %s %d: %v", action, cmd.UserID, err)
				return
			}
			log.Printf("[moderation] applied %s for %d (reason: %s)", action, cmd.UserID, cmd.Reason)
		}
	}

	err := nc.SubscribeBanCommands(handle("ban", func(ctx context.Context, userID int64) error {
		_, _, err := st.AddGlobalBan(ctx, userID)
		if err == nil {
			metrics.GlobalBansTotal.Inc()
		}
		return err
	}))
	if err != nil {
		log.Fatalf("failed to subscribe to ban commands: %v", err)
	}

	err = nc.SubscribeUnbanCommands(handle("unban", func(ctx context.Context, userID int64) error {
		return st.RemoveGlobalBan(ctx, userID)
	}))
	if err != nil {
		log.Fatalf("failed to subscribe to unban commands: %v", err)
	}
}

// gaugeLoop refreshes the queue and chat gauges.
func gaugeLoop(ctx context.Context, st *store.Store) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := st.CountWaiting(ctx); err == nil {
				metrics.WaitingQueueSize.Set(float64(n))
			}
			if n, err := st.CountActiveChats(ctx); err == nil {
				metrics.ActiveChats.Set(float64(n))
			}
		}
	}
}
