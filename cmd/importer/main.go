package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/varun2123/client-wealth-insight/internal/infrastructure/logger"
	"github.com/varun2123/client-wealth-insight/internal/infrastructure/storage"
	"github.com/varun2123/client-wealth-insight/internal/usecase"
	"go.uber.org/zap"
)

// Loads a directory of CSV sheets (positions.csv, trades.csv, cash.csv) into
// the portfolio database. Missing sheets are skipped; missing cash falls back
// to the default balances.
func main() {
	dir := flag.String("dir", "data", "directory containing positions.csv, trades.csv and cash.csv")
	dbPath := flag.String("db", "portfolio.db", "path to the sqlite database")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log, err := logger.NewLogger(*level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()

	var data usecase.ImportResult

	if f, err := os.Open(filepath.Join(*dir, "positions.csv")); err == nil {
		data.Positions, err = usecase.ParsePositions(f)
		f.Close()
		if err != nil {
			log.Fatal("Failed to parse positions sheet", zap.Error(err))
		}
	} else {
		log.Warn("No positions sheet found", zap.String("dir", *dir))
	}

	if f, err := os.Open(filepath.Join(*dir, "trades.csv")); err == nil {
		data.Trades, err = usecase.ParseTrades(f)
		f.Close()
		if err != nil {
			log.Fatal("Failed to parse trades sheet", zap.Error(err))
		}
	}

	if f, err := os.Open(filepath.Join(*dir, "cash.csv")); err == nil {
		data.Cash, err = usecase.ParseCashBalances(f)
		f.Close()
		if err != nil {
			log.Fatal("Failed to parse cash sheet", zap.Error(err))
		}
	}

	cash := data.Cash
	if len(cash) == 0 {
		cash = usecase.DefaultCashBalances()
	}

	if err := store.SaveSnapshot(ctx, data.Positions, cash); err != nil {
		log.Fatal("Failed to save snapshot", zap.Error(err))
	}
	for _, trade := range data.Trades {
		if err := store.SaveTrade(ctx, trade); err != nil {
			log.Fatal("Failed to save trade", zap.String("id", trade.ID), zap.Error(err))
		}
	}

	log.Info("Import complete",
		zap.Int("positions", len(data.Positions)),
		zap.Int("trades", len(data.Trades)),
		zap.Int("cash_balances", len(cash)))
}
