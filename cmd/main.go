package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"larder/internal/actionlog"
	"larder/internal/api"
	"larder/internal/assistant"
	"larder/internal/config"
	"larder/internal/conversation"
	"larder/internal/database"
	"larder/internal/inventory"
	"larder/internal/monitoring"
	"larder/internal/resolver"
	"larder/internal/shopping"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	model, err := initializeLLM(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM: %v", err)
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	metrics := monitoring.New()
	pantryStore := inventory.NewStore(db)
	shoppingStore := shopping.NewStore(db)
	logStore := actionlog.New(db, pantryStore, shoppingStore)
	conversations := conversation.NewManager(cfg.PendingTTL())

	res := resolver.New(model, resolver.Options{
		HouseholdSize:      cfg.Assistant.HouseholdSize,
		DietaryConstraints: cfg.Assistant.DietaryConstraints,
		RecipeTags:         cfg.Assistant.RecipeTags,
	}, metrics)

	svc := assistant.New(res, conversations, pantryStore, shoppingStore, logStore, metrics)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.New(svc, pantryStore, shoppingStore, cfg.Auth.Secret).Router,
	}

	go startMetricsServer(cfg.Server.MetricsPort)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func initializeLLM(cfg *config.Config) (llms.LLM, error) {
	llm, err := openai.New(
		openai.WithModel(cfg.OpenAI.Model),
		openai.WithToken(cfg.OpenAI.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	return llm, nil
}

func startMetricsServer(port int) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
