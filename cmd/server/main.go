package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/varun2123/client-wealth-insight/internal/domain"
	"github.com/varun2123/client-wealth-insight/internal/infrastructure/logger"
	"github.com/varun2123/client-wealth-insight/internal/infrastructure/storage"
	"github.com/varun2123/client-wealth-insight/internal/usecase"
	"github.com/varun2123/client-wealth-insight/internal/web"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Rates struct {
		Base  string             `yaml:"base"`
		Table map[string]float64 `yaml:"table"`
	} `yaml:"rates"`
	Benchmarks []string `yaml:"benchmarks"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newLogger writes to the configured log file when one is set, otherwise to
// stderr.
func newLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.Logging.File != "" {
		return logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	}
	return logger.NewLogger(cfg.Logging.Level)
}

func main() {
	// 1. Load Config
	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Storage
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = "portfolio.db"
	}
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// 4. Init Service
	rates := domain.RateTable{Base: cfg.Rates.Base, Rates: cfg.Rates.Table}
	if rates.Base == "" {
		rates.Base = "USD"
	}
	svc := usecase.NewPortfolioService(store, store, store, rates, cfg.Benchmarks, log)

	if err := svc.Load(context.Background()); err != nil {
		log.Fatal("Failed to load portfolio snapshot", zap.Error(err))
	}

	// 5. Init Web Server
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	metrics := web.NewMetrics()
	server := web.NewServer(port, svc, metrics, log)

	// 6. Start Server
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 7. Wait for Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
