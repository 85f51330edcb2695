package domain

// PortfolioSummary is the aggregate view rendered at the top of the dashboard.
// It is derived on demand and never persisted.
type PortfolioSummary struct {
	TotalValue       float64       `json:"totalValue"`
	TotalCost        float64       `json:"totalCost"`
	TotalPnL         float64       `json:"totalPnL"`
	TotalPnLPercent  float64       `json:"totalPnLPercent"`
	DayChange        float64       `json:"dayChange"`
	DayChangePercent float64       `json:"dayChangePercent"`
	CashBalances     []CashBalance `json:"cashBalances"`
	Positions        []Position    `json:"positions"`
	RecentTrades     []Trade       `json:"recentTrades"`
}

// RiskMetrics holds cross-sectional risk statistics over the current
// positions. All values are rounded to 2 decimal places.
type RiskMetrics struct {
	PortfolioBeta  float64 `json:"portfolioBeta"`
	PortfolioDelta float64 `json:"portfolioDelta"`
	SharpeRatio    float64 `json:"sharpeRatio"`
	Volatility     float64 `json:"volatility"`
	VaR95          float64 `json:"var95"`
	MaxDrawdown    float64 `json:"maxDrawdown"`
	Correlation    float64 `json:"correlation"`
}

// Period selects the trailing calendar-day window for benchmark comparisons.
type Period string

const (
	Period1M Period = "1M"
	Period3M Period = "3M"
	Period6M Period = "6M"
	Period1Y Period = "1Y"
	Period3Y Period = "3Y"
	Period5Y Period = "5Y"
)

// Days returns the trailing window length in calendar days, or 0 for an
// unknown period.
func (p Period) Days() int {
	switch p {
	case Period1M:
		return 30
	case Period3M:
		return 90
	case Period6M:
		return 180
	case Period1Y:
		return 365
	case Period3Y:
		return 1095
	case Period5Y:
		return 1825
	}
	return 0
}

// BenchmarkObservation is one day's portfolio value alongside the closing
// values of each tracked benchmark, keyed by benchmark name.
type BenchmarkObservation struct {
	Date       string             `json:"date"` // YYYY-MM-DD
	Portfolio  float64            `json:"portfolio"`
	Benchmarks map[string]float64 `json:"benchmarks"`
}

// BenchmarkComparison holds per-period performance statistics of the
// portfolio against one benchmark.
type BenchmarkComparison struct {
	Benchmark        string  `json:"benchmark"`
	PortfolioReturn  float64 `json:"portfolioReturn"`
	BenchmarkReturn  float64 `json:"benchmarkReturn"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
	Correlation      float64 `json:"correlation"`
	TrackingError    float64 `json:"trackingError"`
	InformationRatio float64 `json:"informationRatio"`
	Period           Period  `json:"period"`
}
