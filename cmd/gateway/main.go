// In file: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"calc-gateway/internal/calc"
	"calc-gateway/internal/history"
	"calc-gateway/internal/llm"
	"calc-gateway/internal/suggest"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// main is the entry point for the application.
// Its primary role is the "Composition Root": it loads configuration,
// initializes all services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Calc Gateway | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
		}
	}

	registry, err := initializeRegistry()
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	ledger, err := initializeLedger(cfg, rdb)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	executor := calc.NewExecutor(registry, ledger)

	resolver, stats, err := initializeResolver(cfg, registry, rdb)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	gatewayHandler := NewGatewayHandler(registry, executor, ledger, resolver, stats)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()
	v1 := engine.Group("/api/v1")
	{
		v1.POST("/calculate", gatewayHandler.HandleCalculate)
		for _, name := range registry.Names() {
			v1.POST("/"+name, gatewayHandler.MakeOperationHandler(name))
		}
		v1.POST("/suggest", gatewayHandler.HandleSuggest)
		v1.GET("/history/:owner", gatewayHandler.HandleHistory)
		v1.POST("/history/:owner/undo", gatewayHandler.HandleUndo)
		v1.DELETE("/history/:owner", gatewayHandler.HandleClear)
		v1.GET("/status", gatewayHandler.HandleStatus)
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// initializeRegistry registers the builtin operations. Registering everything
// once, before the server accepts requests, is what makes lock-free registry
// reads safe.
func initializeRegistry() (*calc.Registry, error) {
	registry := calc.NewRegistry()
	for _, op := range calc.Builtins() {
		if err := registry.Register(op); err != nil {
			return nil, fmt.Errorf("failed to register operation: %w", err)
		}
	}
	log.Printf("✅ Operation registry initialized with %d operations: %s", registry.Count(), strings.Join(registry.Names(), ", "))
	return registry, nil
}

// initializeLedger selects the history backend from config.
func initializeLedger(cfg *AppConfig, rdb *redis.Client) (history.Ledger, error) {
	switch cfg.LedgerBackend {
	case "redis":
		if rdb == nil {
			return nil, errors.New("ledger backend is 'redis' but REDIS_ADDR is not set")
		}
		log.Println("✅ History ledger: redis.")
		return history.NewRedisLedger(rdb), nil
	case "memory":
		log.Println("⚠️ History ledger: in-memory (history is lost on restart).")
		return history.NewMemoryLedger(), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}

// initializeResolver wires the suggestion resolver when a provider API key is
// present. Without one the gateway still serves explicit calculations; the
// suggest endpoint reports the capability as unavailable.
func initializeResolver(cfg *AppConfig, registry *calc.Registry, rdb *redis.Client) (*suggest.Resolver, *suggest.Stats, error) {
	if cfg.SuggestAPIKey == "" {
		log.Println("⚠️ No suggestion provider API key set; /suggest will report the capability as unavailable.")
		return nil, nil, nil
	}

	client, err := initializeSuggestionClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	var cache *suggest.Cache
	var stats *suggest.Stats
	if rdb != nil {
		if cfg.CacheEnabled {
			cache = suggest.NewCache(rdb, cfg.CacheTTL)
		}
		stats = suggest.NewStats(rdb)
	}

	log.Printf("✅ Suggestion resolver initialized (model: %s, cache: %v).", cfg.SuggestModel, cache != nil)
	return suggest.NewResolver(registry, client, cache, stats, cfg.SuggestTimeout), stats, nil
}

// initializeSuggestionClient picks the provider client by model-ID prefix.
// Everything that is not Gemini speaks the OpenAI-compatible wire format,
// which also covers Groq-hosted models via the endpoint override.
func initializeSuggestionClient(cfg *AppConfig) (llm.SuggestionClient, error) {
	modelID := cfg.SuggestModel
	switch {
	case strings.HasPrefix(modelID, "gemini"):
		client, err := llm.NewGeminiClient(cfg.SuggestAPIKey, modelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for %s: %w", modelID, err)
		}
		return client, nil
	default:
		client, err := llm.NewOpenAIClient(cfg.SuggestAPIKey, modelID, cfg.SuggestEndpoint, cfg.SuggestTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for %s: %w", modelID, err)
		}
		return client, nil
	}
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Gateway is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
