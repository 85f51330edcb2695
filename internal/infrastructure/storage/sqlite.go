package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/varun2123/client-wealth-insight/internal/domain"
)

// SQLiteStore persists the portfolio snapshot, the trade blotter and the
// benchmark series. It implements domain.PortfolioRepository,
// domain.TradeRepository and domain.BenchmarkRepository.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			name TEXT NOT NULL,
			quantity REAL NOT NULL,
			buy_price REAL NOT NULL,
			current_price REAL NOT NULL,
			market_value REAL NOT NULL,
			book_value REAL NOT NULL,
			unrealized_pnl REAL NOT NULL,
			realized_pnl REAL NOT NULL,
			total_return REAL NOT NULL,
			total_return_pct REAL NOT NULL,
			currency TEXT NOT NULL,
			sector TEXT,
			asset_class TEXT NOT NULL,
			purchase_date TEXT,
			holding_period INTEGER NOT NULL DEFAULT 0,
			beta REAL,
			coupon_rate REAL,
			maturity_date TEXT,
			accrued_interest REAL,
			delta REAL,
			contract_size REAL,
			expiry_date TEXT,
			base_currency TEXT,
			quote_currency TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_positions_symbol ON positions(symbol);`,
		`CREATE TABLE IF NOT EXISTS cash_balances (
			currency TEXT PRIMARY KEY,
			balance REAL NOT NULL,
			available_balance REAL NOT NULL,
			reserved_balance REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			quantity REAL NOT NULL,
			price REAL NOT NULL,
			amount REAL NOT NULL,
			currency TEXT NOT NULL,
			trade_date TEXT NOT NULL,
			settlement_date TEXT NOT NULL,
			commission REAL NOT NULL,
			status TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS benchmark_observations (
			date TEXT PRIMARY KEY,
			portfolio REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS benchmark_values (
			date TEXT NOT NULL,
			benchmark TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (date, benchmark)
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

// PortfolioRepository implementation

// SaveSnapshot replaces the stored positions and cash balances in one
// transaction, mirroring the copy-on-write snapshot discipline of the engine.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, positions []domain.Position, cash []domain.CashBalance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM positions`); err != nil {
		return err
	}
	for _, p := range positions {
		if err := insertPosition(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to insert position %s: %w", p.Symbol, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cash_balances`); err != nil {
		return err
	}
	for _, c := range cash {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cash_balances (currency, balance, available_balance, reserved_balance) VALUES (?, ?, ?, ?)`,
			c.Currency, c.Balance, c.AvailableBalance, c.ReservedBalance)
		if err != nil {
			return fmt.Errorf("failed to insert cash balance %s: %w", c.Currency, err)
		}
	}

	return tx.Commit()
}

func insertPosition(ctx context.Context, tx *sql.Tx, p domain.Position) error {
	var beta, couponRate, accruedInterest, delta, contractSize sql.NullFloat64
	var maturityDate, expiryDate, baseCurrency, quoteCurrency sql.NullString

	if p.Equity != nil {
		beta = sql.NullFloat64{Float64: p.Equity.Beta, Valid: true}
	}
	if p.Bond != nil {
		couponRate = sql.NullFloat64{Float64: p.Bond.CouponRate, Valid: true}
		accruedInterest = sql.NullFloat64{Float64: p.Bond.AccruedInterest, Valid: true}
		maturityDate = sql.NullString{String: p.Bond.MaturityDate, Valid: true}
	}
	if p.Commodity != nil {
		expiryDate = sql.NullString{String: p.Commodity.ExpiryDate, Valid: true}
	}
	if p.FX != nil {
		baseCurrency = sql.NullString{String: p.FX.BaseCurrency, Valid: true}
		quoteCurrency = sql.NullString{String: p.FX.QuoteCurrency, Valid: true}
	}
	if p.Derivative != nil {
		delta = sql.NullFloat64{Float64: p.Derivative.Delta, Valid: true}
		contractSize = sql.NullFloat64{Float64: p.Derivative.ContractSize, Valid: true}
		expiryDate = sql.NullString{String: p.Derivative.ExpiryDate, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO positions (id, symbol, name, quantity, buy_price, current_price, market_value, book_value,
			unrealized_pnl, realized_pnl, total_return, total_return_pct, currency, sector, asset_class,
			purchase_date, holding_period, beta, coupon_rate, maturity_date, accrued_interest,
			delta, contract_size, expiry_date, base_currency, quote_currency)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Symbol, p.Name, p.Quantity, p.BuyPrice, p.CurrentPrice, p.MarketValue, p.BookValue,
		p.UnrealizedPnL, p.RealizedPnL, p.TotalReturn, p.TotalReturnPercent, p.Currency, p.Sector, string(p.AssetClass),
		p.PurchaseDate, p.HoldingPeriod, beta, couponRate, maturityDate, accruedInterest,
		delta, contractSize, expiryDate, baseCurrency, quoteCurrency)
	return err
}

func (s *SQLiteStore) LoadPositions(ctx context.Context) ([]domain.Position, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, name, quantity, buy_price, current_price, market_value, book_value,
			unrealized_pnl, realized_pnl, total_return, total_return_pct, currency, sector, asset_class,
			purchase_date, holding_period, beta, coupon_rate, maturity_date, accrued_interest,
			delta, contract_size, expiry_date, base_currency, quote_currency
		 FROM positions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		var sector, purchaseDate sql.NullString
		var beta, couponRate, accruedInterest, delta, contractSize sql.NullFloat64
		var maturityDate, expiryDate, baseCurrency, quoteCurrency sql.NullString
		var assetClass string

		if err := rows.Scan(&p.ID, &p.Symbol, &p.Name, &p.Quantity, &p.BuyPrice, &p.CurrentPrice,
			&p.MarketValue, &p.BookValue, &p.UnrealizedPnL, &p.RealizedPnL, &p.TotalReturn,
			&p.TotalReturnPercent, &p.Currency, &sector, &assetClass, &purchaseDate, &p.HoldingPeriod,
			&beta, &couponRate, &maturityDate, &accruedInterest,
			&delta, &contractSize, &expiryDate, &baseCurrency, &quoteCurrency); err != nil {
			return nil, err
		}

		p.Sector = sector.String
		p.PurchaseDate = purchaseDate.String
		p.AssetClass = domain.AssetClass(assetClass)

		switch p.AssetClass {
		case domain.AssetEquity:
			p.Equity = &domain.EquityDetails{Beta: beta.Float64}
		case domain.AssetBond:
			p.Bond = &domain.BondDetails{
				CouponRate:      couponRate.Float64,
				MaturityDate:    maturityDate.String,
				AccruedInterest: accruedInterest.Float64,
			}
		case domain.AssetCommodity:
			p.Commodity = &domain.CommodityDetails{ExpiryDate: expiryDate.String}
		case domain.AssetFX:
			p.FX = &domain.FXDetails{
				BaseCurrency:  baseCurrency.String,
				QuoteCurrency: quoteCurrency.String,
			}
		case domain.AssetDerivative:
			p.Derivative = &domain.DerivativeDetails{
				Delta:        delta.Float64,
				ContractSize: contractSize.Float64,
				ExpiryDate:   expiryDate.String,
			}
		}

		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *SQLiteStore) LoadCashBalances(ctx context.Context) ([]domain.CashBalance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT currency, balance, available_balance, reserved_balance FROM cash_balances ORDER BY currency`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cash []domain.CashBalance
	for rows.Next() {
		var c domain.CashBalance
		if err := rows.Scan(&c.Currency, &c.Balance, &c.AvailableBalance, &c.ReservedBalance); err != nil {
			return nil, err
		}
		cash = append(cash, c)
	}
	return cash, rows.Err()
}

// TradeRepository implementation

func (s *SQLiteStore) SaveTrade(ctx context.Context, t domain.Trade) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trades (id, symbol, side, quantity, price, amount, currency, trade_date, settlement_date, commission, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, string(t.Side), t.Quantity, t.Price, t.Amount, t.Currency,
		t.TradeDate, t.SettlementDate, t.Commission, string(t.Status))
	return err
}

// ListTrades returns trades most recent first. limit <= 0 returns all.
func (s *SQLiteStore) ListTrades(ctx context.Context, limit int) ([]domain.Trade, error) {
	query := `SELECT id, symbol, side, quantity, price, amount, currency, trade_date, settlement_date, commission, status
		 FROM trades ORDER BY rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side, status string
		if err := rows.Scan(&t.ID, &t.Symbol, &side, &t.Quantity, &t.Price, &t.Amount,
			&t.Currency, &t.TradeDate, &t.SettlementDate, &t.Commission, &status); err != nil {
			return nil, err
		}
		t.Side = domain.TradeSide(side)
		t.Status = domain.TradeStatus(status)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// BenchmarkRepository implementation

func (s *SQLiteStore) SaveObservation(ctx context.Context, obs domain.BenchmarkObservation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO benchmark_observations (date, portfolio) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET portfolio=excluded.portfolio`,
		obs.Date, obs.Portfolio)
	if err != nil {
		return err
	}

	for benchmark, value := range obs.Benchmarks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO benchmark_values (date, benchmark, value) VALUES (?, ?, ?)
			 ON CONFLICT(date, benchmark) DO UPDATE SET value=excluded.value`,
			obs.Date, benchmark, value)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListObservations returns observations in ascending date order. limit > 0
// keeps only the most recent limit entries.
func (s *SQLiteStore) ListObservations(ctx context.Context, limit int) ([]domain.BenchmarkObservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.date, o.portfolio, v.benchmark, v.value
		 FROM benchmark_observations o
		 LEFT JOIN benchmark_values v ON v.date = o.date
		 ORDER BY o.date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []domain.BenchmarkObservation
	index := make(map[string]int)
	for rows.Next() {
		var date string
		var portfolio float64
		var benchmark sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&date, &portfolio, &benchmark, &value); err != nil {
			return nil, err
		}

		i, ok := index[date]
		if !ok {
			observations = append(observations, domain.BenchmarkObservation{
				Date:       date,
				Portfolio:  portfolio,
				Benchmarks: make(map[string]float64),
			})
			i = len(observations) - 1
			index[date] = i
		}
		if benchmark.Valid {
			observations[i].Benchmarks[benchmark.String] = value.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && limit < len(observations) {
		observations = observations[len(observations)-limit:]
	}
	return observations, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
