package domain

import "context"

// PortfolioRepository defines storage operations for the portfolio snapshot.
type PortfolioRepository interface {
	SaveSnapshot(ctx context.Context, positions []Position, cash []CashBalance) error
	LoadPositions(ctx context.Context) ([]Position, error)
	LoadCashBalances(ctx context.Context) ([]CashBalance, error)
}

// TradeRepository defines storage operations for the trade blotter.
type TradeRepository interface {
	SaveTrade(ctx context.Context, trade Trade) error
	ListTrades(ctx context.Context, limit int) ([]Trade, error)
}

// BenchmarkRepository defines storage operations for daily benchmark observations.
type BenchmarkRepository interface {
	SaveObservation(ctx context.Context, obs BenchmarkObservation) error
	ListObservations(ctx context.Context, limit int) ([]BenchmarkObservation, error)
}
