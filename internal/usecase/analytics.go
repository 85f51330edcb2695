package usecase

import (
	"math"

	"github.com/varun2123/client-wealth-insight/internal/domain"
)

// Summarize aggregates a snapshot into the dashboard headline figures.
// TotalPnLPercent degrades to 0 when there is no cost basis.
func Summarize(positions []domain.Position, cash []domain.CashBalance) domain.PortfolioSummary {
	var totalValue, totalCost, totalPnL float64
	for _, p := range positions {
		totalValue += p.MarketValue
		totalCost += p.BookValue
		totalPnL += p.UnrealizedPnL + p.RealizedPnL
	}
	for _, c := range cash {
		totalValue += c.Balance
	}

	var totalPnLPercent float64
	if totalCost > 0 {
		totalPnLPercent = totalPnL / totalCost * 100
	}

	return domain.PortfolioSummary{
		TotalValue:      totalValue,
		TotalCost:       totalCost,
		TotalPnL:        totalPnL,
		TotalPnLPercent: totalPnLPercent,
		Positions:       positions,
		CashBalances:    cash,
	}
}

// ComputeRiskMetrics derives cross-sectional risk statistics from the current
// positions. Positions that do not define beta (or delta) are excluded from
// both the numerator and the denominator of the corresponding weighted
// average. Every metric degrades to 0 rather than dividing by zero, so an
// empty snapshot yields all-zero metrics.
//
// MaxDrawdown is the worst single-position return and Correlation is the
// ratio of the unweighted to the value-weighted average beta; both are
// cross-sectional proxies rather than time-series statistics.
func ComputeRiskMetrics(positions []domain.Position) domain.RiskMetrics {
	var totalValue float64
	for _, p := range positions {
		totalValue += p.MarketValue
	}

	var betaWeighted, betaValue, betaSum float64
	var betaCount int
	var deltaWeighted, deltaValue float64
	for _, p := range positions {
		if b, ok := p.Beta(); ok {
			betaWeighted += b * p.MarketValue
			betaValue += p.MarketValue
			betaSum += b
			betaCount++
		}
		if d, ok := p.Delta(); ok {
			deltaWeighted += d * p.MarketValue
			deltaValue += p.MarketValue
		}
	}

	var portfolioBeta float64
	if betaValue > 0 {
		portfolioBeta = betaWeighted / betaValue
	}
	var portfolioDelta float64
	if deltaValue > 0 {
		portfolioDelta = deltaWeighted / deltaValue
	}

	var portfolioReturn float64
	if totalValue > 0 {
		var weighted float64
		for _, p := range positions {
			weighted += p.TotalReturnPercent * p.MarketValue
		}
		portfolioReturn = weighted / totalValue
	}

	// Population standard deviation of position returns around the
	// value-weighted portfolio return.
	var volatility float64
	if len(positions) > 0 {
		var sumSq float64
		for _, p := range positions {
			d := p.TotalReturnPercent - portfolioReturn
			sumSq += d * d
		}
		volatility = math.Sqrt(sumSq / float64(len(positions)))
	}

	var sharpeRatio float64
	if volatility != 0 {
		sharpeRatio = portfolioReturn / volatility
	}

	// Parametric VaR at 95% confidence, z-score fixed at 1.65.
	var95 := -1.65 * volatility

	var maxDrawdown float64
	if len(positions) > 0 {
		maxDrawdown = positions[0].TotalReturnPercent
		for _, p := range positions[1:] {
			if p.TotalReturnPercent < maxDrawdown {
				maxDrawdown = p.TotalReturnPercent
			}
		}
	}

	var avgBeta float64
	if betaCount > 0 {
		avgBeta = betaSum / float64(betaCount)
	}
	var correlation float64
	if portfolioBeta != 0 {
		correlation = avgBeta / portfolioBeta
	}

	return domain.RiskMetrics{
		PortfolioBeta:  round2(portfolioBeta),
		PortfolioDelta: round2(portfolioDelta),
		SharpeRatio:    round2(sharpeRatio),
		Volatility:     round2(volatility),
		VaR95:          round2(var95),
		MaxDrawdown:    round2(maxDrawdown),
		Correlation:    round2(correlation),
	}
}

// CompareBenchmark computes per-period statistics of the portfolio against
// one benchmark over an ordered daily series. Fewer than two observations
// produce a neutral all-zero comparison.
//
// Daily returns use the simple-return convention with r[0] = 0, and that
// zero is deliberately included in every series statistic below.
func CompareBenchmark(series []domain.BenchmarkObservation, key string, period domain.Period) domain.BenchmarkComparison {
	cmp := domain.BenchmarkComparison{Benchmark: key, Period: period}
	if len(series) < 2 {
		return cmp
	}

	portfolio := make([]float64, len(series))
	benchmark := make([]float64, len(series))
	for i, obs := range series {
		portfolio[i] = obs.Portfolio
		benchmark[i] = obs.Benchmarks[key]
	}

	if first := portfolio[0]; first != 0 {
		cmp.PortfolioReturn = (portfolio[len(portfolio)-1] - first) / first * 100
	}
	if first := benchmark[0]; first != 0 {
		cmp.BenchmarkReturn = (benchmark[len(benchmark)-1] - first) / first * 100
	}
	cmp.Alpha = cmp.PortfolioReturn - cmp.BenchmarkReturn

	pr := dailyReturns(portfolio)
	br := dailyReturns(benchmark)

	cov := covariance(pr, br)
	if v := variance(br); v != 0 {
		cmp.Beta = cov / v
	}
	sdP := math.Sqrt(variance(pr))
	sdB := math.Sqrt(variance(br))
	if sdP != 0 && sdB != 0 {
		cmp.Correlation = cov / (sdP * sdB)
	}

	diffs := make([]float64, len(pr))
	for i := range pr {
		diffs[i] = pr[i] - br[i]
	}
	cmp.TrackingError = math.Sqrt(variance(diffs)) * 100

	if cmp.TrackingError != 0 {
		cmp.InformationRatio = cmp.Alpha / cmp.TrackingError
	}

	return cmp
}

func dailyReturns(values []float64) []float64 {
	returns := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns[i] = (values[i] - values[i-1]) / values[i-1]
		}
	}
	return returns
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance is the population variance (N divisor).
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return sumSq / float64(len(xs))
}

// covariance is the population covariance of two equal-length series.
func covariance(xs, ys []float64) float64 {
	if len(xs) == 0 || len(xs) != len(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var sum float64
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs))
}

// ConvertCashTotal sums cash balances converted into the rate table's base
// currency. Used for display only; the summary totals stay unconverted.
func ConvertCashTotal(cash []domain.CashBalance, rates domain.RateTable) float64 {
	var total float64
	for _, c := range cash {
		total += rates.Convert(c.Balance, c.Currency)
	}
	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
