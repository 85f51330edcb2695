package usecase_test

import (
	"testing"

	"github.com/varun2123/client-wealth-insight/internal/domain"
	"github.com/varun2123/client-wealth-insight/internal/usecase"
)

const epsilon = 0.000001

func floatEquals(a, b float64) bool {
	return (a-b) < epsilon && (b-a) < epsilon
}

func buy(symbol string, qty, price float64) domain.Trade {
	return domain.Trade{
		ID:       "t-" + symbol,
		Symbol:   symbol,
		Side:     domain.TradeBuy,
		Quantity: qty,
		Price:    price,
		Amount:   qty * price,
		Currency: "USD",
		Status:   domain.TradeExecuted,
	}
}

func sell(symbol string, qty, price float64) domain.Trade {
	t := buy(symbol, qty, price)
	t.Side = domain.TradeSell
	return t
}

func usd(balance float64) []domain.CashBalance {
	return []domain.CashBalance{{Currency: "USD", Balance: balance}}
}

func TestApplyTradeBuyNewSymbol(t *testing.T) {
	positions, cash := usecase.ApplyTrade(nil, usd(5000), buy("XYZ", 10, 100))

	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	pos := positions[0]
	if pos.Quantity != 10 || pos.BuyPrice != 100 || pos.BookValue != 1000 {
		t.Errorf("position seeded wrong: qty=%f buyPrice=%f bookValue=%f", pos.Quantity, pos.BuyPrice, pos.BookValue)
	}
	if pos.MarketValue != 1000 || pos.UnrealizedPnL != 0 || pos.RealizedPnL != 0 {
		t.Errorf("new position should carry zero P&L: %+v", pos)
	}
	if pos.AssetClass != domain.AssetEquity || pos.Sector != "Unknown" || pos.Name != "XYZ" {
		t.Errorf("new position defaults wrong: %+v", pos)
	}
	if b, ok := pos.Beta(); !ok || b != 1 {
		t.Errorf("new position should default to beta 1, got %f (defined=%v)", b, ok)
	}
	if cash[0].Balance != 4000 {
		t.Errorf("cash after buy = %f, want 4000", cash[0].Balance)
	}
}

func TestApplyTradeAverageCost(t *testing.T) {
	// Two buys at different prices blend into one average cost.
	positions, cash := usecase.ApplyTrade(nil, usd(100000), buy("AAPL", 100, 150))
	positions, cash = usecase.ApplyTrade(positions, cash, buy("AAPL", 100, 170))

	pos := positions[0]
	if !floatEquals(pos.BuyPrice, 160) {
		t.Errorf("average cost = %f, want 160", pos.BuyPrice)
	}
	if !floatEquals(pos.BookValue, 32000) {
		t.Errorf("book value = %f, want 32000", pos.BookValue)
	}
	// Invariant: after buys only, buyPrice*quantity == bookValue.
	if !floatEquals(pos.BuyPrice*pos.Quantity, pos.BookValue) {
		t.Errorf("cost basis invariant broken: %f * %f != %f", pos.BuyPrice, pos.Quantity, pos.BookValue)
	}
	if !floatEquals(cash[0].Balance, 100000-32000) {
		t.Errorf("cash = %f, want 68000", cash[0].Balance)
	}
}

func TestApplyTradeSellRealizesAgainstAverageCost(t *testing.T) {
	positions, cash := usecase.ApplyTrade(nil, usd(100000), buy("MSFT", 100, 280))
	positions, cash = usecase.ApplyTrade(positions, cash, sell("MSFT", 25, 300))

	pos := positions[0]
	if pos.Quantity != 75 {
		t.Errorf("quantity = %f, want 75", pos.Quantity)
	}
	if !floatEquals(pos.RealizedPnL, (300-280)*25) {
		t.Errorf("realized = %f, want 500", pos.RealizedPnL)
	}
	if pos.BuyPrice != 280 {
		t.Errorf("sell must not change average cost, got %f", pos.BuyPrice)
	}
	if !floatEquals(pos.MarketValue, 75*pos.CurrentPrice) {
		t.Errorf("market value not recomputed: %f", pos.MarketValue)
	}
	if !floatEquals(cash[0].Balance, 100000-28000+7500) {
		t.Errorf("cash = %f, want 79500", cash[0].Balance)
	}
}

func TestApplyTradeFullSellRemovesPosition(t *testing.T) {
	positions, _ := usecase.ApplyTrade(nil, usd(50000), buy("VTI", 20, 210))
	positions, _ = usecase.ApplyTrade(positions, usd(0), sell("VTI", 20, 220))

	if len(positions) != 0 {
		t.Fatalf("fully sold position must be removed, got %d positions", len(positions))
	}
}

func TestApplyTradeOversellClosesPosition(t *testing.T) {
	positions, cash := usecase.ApplyTrade(nil, usd(10000), buy("EEM", 30, 40))
	positions, cash = usecase.ApplyTrade(positions, cash, sell("EEM", 50, 42))

	if len(positions) != 0 {
		t.Fatalf("oversell must close the position, got %d positions", len(positions))
	}
	// Cash still moves by the full sell amount.
	if !floatEquals(cash[0].Balance, 10000-1200+2100) {
		t.Errorf("cash = %f, want 10900", cash[0].Balance)
	}
}

func TestApplyTradeSellUnknownSymbolMovesCashOnly(t *testing.T) {
	positions, cash := usecase.ApplyTrade(nil, usd(1000), sell("GHOST", 5, 10))

	if len(positions) != 0 {
		t.Errorf("unknown-symbol sell must not create a position")
	}
	if !floatEquals(cash[0].Balance, 1050) {
		t.Errorf("cash = %f, want 1050", cash[0].Balance)
	}
}

func TestApplyTradeSeedsCashForNewCurrency(t *testing.T) {
	trade := buy("EURUSD", 10000, 1.08)
	trade.Currency = "EUR"

	_, cash := usecase.ApplyTrade(nil, usd(5000), trade)

	if len(cash) != 2 {
		t.Fatalf("expected seeded EUR entry, got %d entries", len(cash))
	}
	if cash[0].Currency != "USD" || cash[0].Balance != 5000 {
		t.Errorf("other currencies must be unaffected: %+v", cash[0])
	}
	if cash[1].Currency != "EUR" || !floatEquals(cash[1].Balance, -10800) {
		t.Errorf("EUR entry = %+v, want balance -10800", cash[1])
	}
}

func TestApplyTradeTrustsAmountOverQuantityTimesPrice(t *testing.T) {
	// Fee-inclusive amount: cash and cost basis follow Amount, not qty*price.
	trade := buy("SPY", 10, 430)
	trade.Amount = 4304.95

	positions, cash := usecase.ApplyTrade(nil, usd(10000), trade)

	if !floatEquals(cash[0].Balance, 10000-4304.95) {
		t.Errorf("cash = %f, want 5695.05", cash[0].Balance)
	}
	if !floatEquals(positions[0].BookValue, 4304.95) {
		t.Errorf("book value = %f, want 4304.95", positions[0].BookValue)
	}
}

func TestApplyTradeDoesNotMutateInputs(t *testing.T) {
	positions := []domain.Position{{
		ID: "1", Symbol: "AAPL", Quantity: 50, BuyPrice: 145, CurrentPrice: 150,
		MarketValue: 7500, BookValue: 7250, Currency: "USD",
		AssetClass: domain.AssetEquity, Equity: &domain.EquityDetails{Beta: 1.2},
	}}
	cash := usd(1000)

	usecase.ApplyTrade(positions, cash, buy("AAPL", 10, 160))
	usecase.ApplyTrade(positions, cash, sell("AAPL", 50, 160))

	if positions[0].Quantity != 50 || positions[0].BookValue != 7250 {
		t.Errorf("input positions mutated: %+v", positions[0])
	}
	if cash[0].Balance != 1000 {
		t.Errorf("input cash mutated: %+v", cash[0])
	}
}

func TestApplyTradeIncrementalRealizedPnL(t *testing.T) {
	// Buys at 100 and 120 blend to 110; selling in two slices realizes
	// against the same average each time.
	positions, cash := usecase.ApplyTrade(nil, usd(100000), buy("GLD", 10, 100))
	positions, cash = usecase.ApplyTrade(positions, cash, buy("GLD", 10, 120))
	positions, cash = usecase.ApplyTrade(positions, cash, sell("GLD", 5, 130))

	if !floatEquals(positions[0].RealizedPnL, (130-110)*5) {
		t.Errorf("first slice realized = %f, want 100", positions[0].RealizedPnL)
	}

	positions, _ = usecase.ApplyTrade(positions, cash, sell("GLD", 15, 90))
	if len(positions) != 0 {
		t.Fatalf("full close must remove the position")
	}
}
