package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/newsletter/internal/api"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/pkg/ratelimit"
	"github.com/ignite/newsletter/internal/postmark"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/ignite/newsletter/internal/ses"
	"github.com/ignite/newsletter/internal/service/subscription"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	// Open the database pool. The pool is bounded: acquiring a connection
	// past the limit waits, and connect failures surface per request as
	// store errors rather than hangs.
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Select the transactional email backend
	var sender subscription.EmailSender
	switch cfg.Email.Provider {
	case config.ProviderSES:
		sesSender, err := ses.NewSender(context.Background(), cfg.SES, cfg.Email.Sender)
		if err != nil {
			log.Fatalf("Failed to initialize SES sender: %v", err)
		}
		sender = sesSender
		log.Printf("Email provider: SES (%s)", cfg.SES.Region)
	default:
		sender = postmark.NewClient(cfg.Email)
		log.Printf("Email provider: Postmark (%s)", cfg.Email.BaseURL)
	}

	svc := subscription.NewService(postgres.NewSubscriptionRepo(db), sender, cfg.Server.BaseURL)

	// Optional Redis-backed rate limiting for the subscribe endpoint
	var limiter *ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		defer redisClient.Close()
		limiter = ratelimit.New(redisClient, cfg.Redis.RatePerMinute, time.Minute)
		log.Printf("Subscribe rate limiting enabled: %d/min per client", cfg.Redis.RatePerMinute)
	}

	server := api.NewServer(cfg.Server, svc, limiter)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
		log.Printf("Starting server on %s (base URL %s)", addr, cfg.Server.BaseURL)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
