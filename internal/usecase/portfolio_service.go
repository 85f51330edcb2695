package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/varun2123/client-wealth-insight/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("trade quantity must be positive")
	ErrInvalidPrice    = errors.New("trade price must be positive")
	ErrInvalidSide     = errors.New("trade type must be BUY or SELL")
)

// PortfolioService owns the canonical portfolio snapshot and orchestrates the
// ledger engine, analytics, persistence and update notifications. All state
// access goes through the mutex; accessors hand out copies so callers can
// never reach the internal slices.
type PortfolioService struct {
	portfolioRepo domain.PortfolioRepository
	tradeRepo     domain.TradeRepository
	benchmarkRepo domain.BenchmarkRepository
	rates         domain.RateTable
	benchmarkKeys []string
	logger        *zap.Logger

	mu           sync.RWMutex
	positions    []domain.Position
	cash         []domain.CashBalance
	trades       []domain.Trade // most-recent-first
	observations []domain.BenchmarkObservation // ascending by date

	listeners []func(domain.PortfolioSummary)
}

func NewPortfolioService(
	portfolioRepo domain.PortfolioRepository,
	tradeRepo domain.TradeRepository,
	benchmarkRepo domain.BenchmarkRepository,
	rates domain.RateTable,
	benchmarkKeys []string,
	logger *zap.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		tradeRepo:     tradeRepo,
		benchmarkRepo: benchmarkRepo,
		rates:         rates,
		benchmarkKeys: benchmarkKeys,
		logger:        logger,
	}
}

// Load hydrates the in-memory snapshot from storage.
func (s *PortfolioService) Load(ctx context.Context) error {
	positions, err := s.portfolioRepo.LoadPositions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}
	cash, err := s.portfolioRepo.LoadCashBalances(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cash balances: %w", err)
	}
	trades, err := s.tradeRepo.ListTrades(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to load trades: %w", err)
	}
	observations, err := s.benchmarkRepo.ListObservations(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to load benchmark observations: %w", err)
	}

	s.mu.Lock()
	s.positions = positions
	s.cash = cash
	s.trades = trades
	s.observations = observations
	s.mu.Unlock()

	s.logger.Info("portfolio snapshot loaded",
		zap.Int("positions", len(positions)),
		zap.Int("cash_balances", len(cash)),
		zap.Int("trades", len(trades)),
		zap.Int("observations", len(observations)))
	return nil
}

// Subscribe registers a callback invoked with the refreshed summary after
// every snapshot change.
func (s *PortfolioService) Subscribe(fn func(domain.PortfolioSummary)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Positions returns a copy of the current positions.
func (s *PortfolioService) Positions() []domain.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePositions(s.positions)
}

// CashBalances returns a copy of the current cash balances.
func (s *PortfolioService) CashBalances() []domain.CashBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CashBalance, len(s.cash))
	copy(out, s.cash)
	return out
}

// Trades returns up to limit trades, most recent first. limit <= 0 returns all.
func (s *PortfolioService) Trades(limit int) []domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.trades)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Trade, n)
	copy(out, s.trades[:n])
	return out
}

// Summary recomputes the aggregate view from the current snapshot. Day change
// is derived from the two most recent portfolio observations.
func (s *PortfolioService) Summary() domain.PortfolioSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

func (s *PortfolioService) summaryLocked() domain.PortfolioSummary {
	summary := Summarize(clonePositions(s.positions), append([]domain.CashBalance(nil), s.cash...))

	if n := len(s.observations); n >= 2 {
		prev := s.observations[n-2].Portfolio
		last := s.observations[n-1].Portfolio
		summary.DayChange = last - prev
		if prev > 0 {
			summary.DayChangePercent = (last - prev) / prev * 100
		}
	}

	recent := 5
	if len(s.trades) < recent {
		recent = len(s.trades)
	}
	summary.RecentTrades = append([]domain.Trade(nil), s.trades[:recent]...)
	return summary
}

// Risk recomputes risk metrics from the current positions.
func (s *PortfolioService) Risk() domain.RiskMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeRiskMetrics(s.positions)
}

// CashTotalInBase converts all cash balances into the configured base currency.
func (s *PortfolioService) CashTotalInBase() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ConvertCashTotal(s.cash, s.rates)
}

// Benchmarks compares the portfolio against every configured benchmark over
// the trailing window of the given period.
func (s *PortfolioService) Benchmarks(period domain.Period) []domain.BenchmarkComparison {
	s.mu.RLock()
	window := windowObservations(s.observations, period)
	keys := s.benchmarkKeys
	s.mu.RUnlock()

	comparisons := make([]domain.BenchmarkComparison, 0, len(keys))
	for _, key := range keys {
		comparisons = append(comparisons, CompareBenchmark(window, key, period))
	}
	return comparisons
}

// windowObservations keeps the observations inside the trailing calendar-day
// window anchored at the latest observation date. Unparseable dates are
// dropped.
func windowObservations(observations []domain.BenchmarkObservation, period domain.Period) []domain.BenchmarkObservation {
	days := period.Days()
	if days == 0 || len(observations) == 0 {
		return nil
	}
	last, err := time.Parse("2006-01-02", observations[len(observations)-1].Date)
	if err != nil {
		return nil
	}
	cutoff := last.AddDate(0, 0, -days)

	window := make([]domain.BenchmarkObservation, 0, len(observations))
	for _, obs := range observations {
		d, err := time.Parse("2006-01-02", obs.Date)
		if err != nil || d.Before(cutoff) {
			continue
		}
		window = append(window, obs)
	}
	return window
}

// RecordTrade validates and applies a manual trade, persists the resulting
// snapshot, and notifies subscribers. The returned trade carries the assigned
// id and defaulted fields.
func (s *PortfolioService) RecordTrade(ctx context.Context, trade domain.Trade) (domain.Trade, error) {
	if trade.Quantity <= 0 {
		return domain.Trade{}, ErrInvalidQuantity
	}
	if trade.Price <= 0 {
		return domain.Trade{}, ErrInvalidPrice
	}
	if trade.Side != domain.TradeBuy && trade.Side != domain.TradeSell {
		return domain.Trade{}, ErrInvalidSide
	}

	if trade.ID == "" {
		trade.ID = fmt.Sprintf("trade-%d", time.Now().UnixNano())
	}
	if trade.Amount == 0 {
		trade.Amount = trade.Quantity * trade.Price
	}
	if trade.Currency == "" {
		trade.Currency = "USD"
	}
	if trade.TradeDate == "" {
		trade.TradeDate = today()
	}
	if trade.SettlementDate == "" {
		trade.SettlementDate = trade.TradeDate
	}
	if trade.Status == "" {
		trade.Status = domain.TradeExecuted
	}

	// The lock is held across persistence so concurrent trades serialize and
	// the in-memory snapshot only ever reflects persisted state.
	s.mu.Lock()
	newPositions, newCash := ApplyTrade(s.positions, s.cash, trade)

	if err := s.portfolioRepo.SaveSnapshot(ctx, newPositions, newCash); err != nil {
		s.mu.Unlock()
		return domain.Trade{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := s.tradeRepo.SaveTrade(ctx, trade); err != nil {
		s.mu.Unlock()
		return domain.Trade{}, fmt.Errorf("failed to save trade: %w", err)
	}

	s.positions = newPositions
	s.cash = newCash
	s.trades = append([]domain.Trade{trade}, s.trades...)
	summary := s.summaryLocked()
	listeners := s.cloneListenersLocked()
	s.mu.Unlock()

	s.logger.Info("trade applied",
		zap.String("id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.String("type", string(trade.Side)),
		zap.Float64("quantity", trade.Quantity),
		zap.Float64("amount", trade.Amount))

	for _, fn := range listeners {
		fn(summary)
	}
	return trade, nil
}

// ImportData replaces positions and cash with the imported sheets and appends
// the imported trades to the blotter.
func (s *PortfolioService) ImportData(ctx context.Context, data ImportResult) error {
	cash := data.Cash
	if len(cash) == 0 {
		cash = DefaultCashBalances()
	}

	positions := clonePositions(data.Positions)
	balances := append([]domain.CashBalance(nil), cash...)

	s.mu.Lock()
	if err := s.portfolioRepo.SaveSnapshot(ctx, positions, balances); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save imported snapshot: %w", err)
	}
	for _, trade := range data.Trades {
		if err := s.tradeRepo.SaveTrade(ctx, trade); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to save imported trade %s: %w", trade.ID, err)
		}
	}

	s.positions = positions
	s.cash = balances
	s.trades = append(append([]domain.Trade(nil), data.Trades...), s.trades...)
	summary := s.summaryLocked()
	listeners := s.cloneListenersLocked()
	s.mu.Unlock()

	s.logger.Info("portfolio data imported",
		zap.Int("positions", len(data.Positions)),
		zap.Int("trades", len(data.Trades)),
		zap.Int("cash_balances", len(cash)))

	for _, fn := range listeners {
		fn(summary)
	}
	return nil
}

// RecordObservation appends one day's portfolio/benchmark values to the series.
func (s *PortfolioService) RecordObservation(ctx context.Context, obs domain.BenchmarkObservation) error {
	if err := s.benchmarkRepo.SaveObservation(ctx, obs); err != nil {
		return fmt.Errorf("failed to save observation: %w", err)
	}

	s.mu.Lock()
	s.observations = append(s.observations, obs)
	s.mu.Unlock()
	return nil
}

func (s *PortfolioService) cloneListenersLocked() []func(domain.PortfolioSummary) {
	listeners := make([]func(domain.PortfolioSummary), len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}

func clonePositions(positions []domain.Position) []domain.Position {
	out := make([]domain.Position, len(positions))
	for i, p := range positions {
		out[i] = p.Clone()
	}
	return out
}
