package usecase_test

import (
	"testing"

	"github.com/varun2123/client-wealth-insight/internal/domain"
	"github.com/varun2123/client-wealth-insight/internal/usecase"
)

func equityPosition(mv, beta float64) domain.Position {
	return domain.Position{
		Symbol: "EQ", AssetClass: domain.AssetEquity,
		MarketValue: mv, Equity: &domain.EquityDetails{Beta: beta},
	}
}

func TestSummarize(t *testing.T) {
	positions := []domain.Position{
		{MarketValue: 7500, BookValue: 7250, UnrealizedPnL: 250, RealizedPnL: 0},
		{MarketValue: 9600, BookValue: 9000, UnrealizedPnL: 600, RealizedPnL: 100},
	}
	cash := []domain.CashBalance{
		{Currency: "USD", Balance: 1000},
		{Currency: "EUR", Balance: 500},
	}

	s := usecase.Summarize(positions, cash)

	if !floatEquals(s.TotalValue, 7500+9600+1000+500) {
		t.Errorf("totalValue = %f", s.TotalValue)
	}
	if !floatEquals(s.TotalCost, 16250) {
		t.Errorf("totalCost = %f", s.TotalCost)
	}
	if !floatEquals(s.TotalPnL, 950) {
		t.Errorf("totalPnL = %f", s.TotalPnL)
	}
	if !floatEquals(s.TotalPnLPercent, 950/16250*100) {
		t.Errorf("totalPnLPercent = %f", s.TotalPnLPercent)
	}
}

func TestSummarizeZeroCost(t *testing.T) {
	s := usecase.Summarize(nil, nil)
	if s.TotalPnLPercent != 0 {
		t.Errorf("zero cost basis must yield 0 percent, got %f", s.TotalPnLPercent)
	}
}

func TestRiskMetricsEmpty(t *testing.T) {
	m := usecase.ComputeRiskMetrics(nil)
	zero := domain.RiskMetrics{}
	if m != zero {
		t.Errorf("empty positions must yield all-zero metrics, got %+v", m)
	}
}

func TestRiskMetricsWeightedBeta(t *testing.T) {
	positions := []domain.Position{
		equityPosition(100, 1.0),
		equityPosition(300, 2.0),
	}

	m := usecase.ComputeRiskMetrics(positions)

	// (100*1 + 300*2) / 400 = 1.75
	if m.PortfolioBeta != 1.75 {
		t.Errorf("portfolioBeta = %f, want 1.75", m.PortfolioBeta)
	}
	// avgBeta 1.5 / portfolioBeta 1.75, rounded.
	if m.Correlation != 0.86 {
		t.Errorf("correlation = %f, want 0.86", m.Correlation)
	}
}

func TestRiskMetricsExcludesUndefinedBeta(t *testing.T) {
	positions := []domain.Position{
		equityPosition(100, 1.0),
		// A bond has no beta; it must not dilute the weighting.
		{Symbol: "UST10Y", AssetClass: domain.AssetBond, MarketValue: 9900,
			Bond: &domain.BondDetails{CouponRate: 3.5}},
	}

	m := usecase.ComputeRiskMetrics(positions)
	if m.PortfolioBeta != 1.0 {
		t.Errorf("portfolioBeta = %f, want 1.00", m.PortfolioBeta)
	}
}

func TestRiskMetricsWeightedDelta(t *testing.T) {
	positions := []domain.Position{
		{AssetClass: domain.AssetDerivative, MarketValue: 3250,
			Derivative: &domain.DerivativeDetails{Delta: 0.65}},
		{AssetClass: domain.AssetDerivative, MarketValue: 2000,
			Derivative: &domain.DerivativeDetails{Delta: -0.4}},
		equityPosition(5000, 1.1),
	}

	m := usecase.ComputeRiskMetrics(positions)
	// (0.65*3250 - 0.4*2000) / 5250 = 0.25; the equity position is excluded.
	if m.PortfolioDelta != 0.25 {
		t.Errorf("portfolioDelta = %f, want 0.25", m.PortfolioDelta)
	}
}

func TestRiskMetricsVolatilityAndSharpe(t *testing.T) {
	positions := []domain.Position{
		equityPosition(100, 1.0),
		equityPosition(300, 1.0),
	}
	positions[0].TotalReturnPercent = 10
	positions[1].TotalReturnPercent = 2

	m := usecase.ComputeRiskMetrics(positions)

	// Weighted return: (10*100 + 2*300)/400 = 4.
	// Population stddev around 4: sqrt((36+4)/2) = 4.4721...
	if m.Volatility != 4.47 {
		t.Errorf("volatility = %f, want 4.47", m.Volatility)
	}
	if m.SharpeRatio != 0.89 {
		t.Errorf("sharpe = %f, want 0.89", m.SharpeRatio)
	}
	if m.VaR95 != -7.38 {
		t.Errorf("var95 = %f, want -7.38", m.VaR95)
	}
	if m.MaxDrawdown != 2 {
		t.Errorf("maxDrawdown = %f, want 2 (worst single-position return)", m.MaxDrawdown)
	}
}

func TestRiskMetricsIdempotent(t *testing.T) {
	positions := []domain.Position{
		equityPosition(100, 1.2),
		equityPosition(250, 0.7),
	}
	positions[0].TotalReturnPercent = 3.45
	positions[1].TotalReturnPercent = -1.25

	first := usecase.ComputeRiskMetrics(positions)
	second := usecase.ComputeRiskMetrics(positions)
	if first != second {
		t.Errorf("risk metrics not idempotent: %+v vs %+v", first, second)
	}

	s1 := usecase.Summarize(positions, nil)
	s2 := usecase.Summarize(positions, nil)
	if s1.TotalValue != s2.TotalValue || s1.TotalPnLPercent != s2.TotalPnLPercent {
		t.Errorf("summary not idempotent")
	}
}

func obs(date string, portfolio, nasdaq float64) domain.BenchmarkObservation {
	return domain.BenchmarkObservation{
		Date:       date,
		Portfolio:  portfolio,
		Benchmarks: map[string]float64{"NASDAQ": nasdaq},
	}
}

func TestCompareBenchmarkReturnsAndAlpha(t *testing.T) {
	series := []domain.BenchmarkObservation{
		obs("2025-01-01", 100, 100),
		obs("2025-01-02", 110, 105),
	}

	cmp := usecase.CompareBenchmark(series, "NASDAQ", domain.Period1M)

	if !floatEquals(cmp.PortfolioReturn, 10) {
		t.Errorf("portfolioReturn = %f, want 10", cmp.PortfolioReturn)
	}
	if !floatEquals(cmp.BenchmarkReturn, 5) {
		t.Errorf("benchmarkReturn = %f, want 5", cmp.BenchmarkReturn)
	}
	if !floatEquals(cmp.Alpha, 5) {
		t.Errorf("alpha = %f, want 5", cmp.Alpha)
	}
}

func TestCompareBenchmarkStatistics(t *testing.T) {
	// pr = [0, 0.10], br = [0, 0.05] (index 0 contributes the conventional
	// zero to every series statistic).
	series := []domain.BenchmarkObservation{
		obs("2025-01-01", 100, 100),
		obs("2025-01-02", 110, 105),
	}

	cmp := usecase.CompareBenchmark(series, "NASDAQ", domain.Period1M)

	if !floatEquals(cmp.Beta, 2) {
		t.Errorf("beta = %f, want 2", cmp.Beta)
	}
	if !floatEquals(cmp.Correlation, 1) {
		t.Errorf("correlation = %f, want 1", cmp.Correlation)
	}
	if !floatEquals(cmp.TrackingError, 2.5) {
		t.Errorf("trackingError = %f, want 2.5", cmp.TrackingError)
	}
	if !floatEquals(cmp.InformationRatio, 2) {
		t.Errorf("informationRatio = %f, want 2", cmp.InformationRatio)
	}
}

func TestCompareBenchmarkDegenerateSeries(t *testing.T) {
	tests := []struct {
		name   string
		series []domain.BenchmarkObservation
	}{
		{"empty", nil},
		{"single observation", []domain.BenchmarkObservation{obs("2025-01-01", 100, 100)}},
		{"flat benchmark", []domain.BenchmarkObservation{
			obs("2025-01-01", 100, 100),
			obs("2025-01-02", 110, 100),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp := usecase.CompareBenchmark(tt.series, "NASDAQ", domain.Period1Y)
			if cmp.Beta != 0 {
				t.Errorf("beta = %f, want 0 on zero benchmark variance", cmp.Beta)
			}
			if cmp.Benchmark != "NASDAQ" || cmp.Period != domain.Period1Y {
				t.Errorf("comparison must carry benchmark and period: %+v", cmp)
			}
		})
	}
}

func TestConvertCashTotal(t *testing.T) {
	rates := domain.RateTable{Base: "USD", Rates: map[string]float64{"EUR": 1.15, "GBP": 1.34}}
	cash := []domain.CashBalance{
		{Currency: "USD", Balance: 100},
		{Currency: "EUR", Balance: 100},
		{Currency: "XXX", Balance: 10}, // unknown rate converts at 1
	}

	got := usecase.ConvertCashTotal(cash, rates)
	if !floatEquals(got, 100+115+10) {
		t.Errorf("converted total = %f, want 225", got)
	}
}
