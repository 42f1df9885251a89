package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"token-function/internal/config"
	"token-function/internal/exchange"
	"token-function/internal/handlers"
	"token-function/internal/metrics"
	"token-function/internal/middleware"
)

// Create a logger instance
var log = logrus.New()

func main() {
	log.Println("🚀 Starting Access Token Function...")

	// Load configuration from YAML / environment
	configuration, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configuration.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Initialize logger based on config
	switch configuration.Logging.Level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	// Set log format
	if configuration.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	log.Printf("✅ Configuration loaded successfully")
	log.Printf("🔧 Log Level: %s, Format: %s", configuration.Logging.Level, configuration.Logging.Format)

	// Initialize metrics and the upstream exchanger
	metricsCollector := metrics.NewMetricsCollector(prometheus.DefaultRegisterer)
	exchanger := exchange.New(configuration, log)

	// Initialize handlers
	tokenHandler := handlers.NewAccessTokenHandler(exchanger, log, metricsCollector)
	healthHandler := handlers.NewHealthHandler(configuration)
	versionHandler := handlers.NewVersionHandler()

	// Setup routes
	mux := http.NewServeMux()
	mux.Handle("/accessToken", middleware.Logger(log, middleware.CORS(tokenHandler.ServeHTTP)))
	mux.Handle("/health", middleware.Logger(log, healthHandler.ServeHTTP))
	mux.Handle("/version", middleware.Logger(log, versionHandler.ServeHTTP))
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", configuration.Server.Host, configuration.Server.Port),
		Handler:      metricsCollector.Middleware(mux),
		ReadTimeout:  time.Duration(configuration.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(configuration.Server.WriteTimeout) * time.Second,
	}

	// Start server
	log.Printf("🌐 Access token function starting on %s", server.Addr)
	log.Printf("🎫 Token endpoint: /accessToken")
	log.Printf("🏥 Health check: /health")
	log.Printf("📊 Metrics: /metrics")
	log.Printf("🔗 Upstream: %s", configuration.Upstream.TokenURL)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configuration.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("❌ Shutdown error: %v", err)
	}
}
