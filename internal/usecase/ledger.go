package usecase

import (
	"github.com/varun2123/client-wealth-insight/internal/domain"
)

// ApplyTrade applies a single executed trade to a portfolio snapshot and
// returns the new snapshot. Inputs are never mutated.
//
// The caller is responsible for validating Quantity > 0 and Price > 0.
// Amount is trusted as supplied for the cash movement and is not re-derived
// from Quantity*Price, so fee-inclusive amounts flow through unchanged.
//
// Cost accounting is average-cost: every BUY blends into one per-unit cost
// (BookValue/Quantity), and a SELL realizes (price - average cost) * quantity
// against that blended basis. A SELL that takes quantity to zero or below
// removes the position; a SELL against an unknown symbol moves cash only.
func ApplyTrade(positions []domain.Position, cash []domain.CashBalance, trade domain.Trade) ([]domain.Position, []domain.CashBalance) {
	newPositions := make([]domain.Position, len(positions))
	copy(newPositions, positions)
	newCash := make([]domain.CashBalance, len(cash))
	copy(newCash, cash)

	// Seed a cash entry on first trade in a new currency.
	ci := findCash(newCash, trade.Currency)
	if ci < 0 {
		newCash = append(newCash, domain.CashBalance{Currency: trade.Currency})
		ci = len(newCash) - 1
	}

	switch trade.Side {
	case domain.TradeBuy:
		newCash[ci].Balance -= trade.Amount

		pi := findPosition(newPositions, trade.Symbol)
		if pi >= 0 {
			pos := newPositions[pi]
			pos.Quantity += trade.Quantity
			pos.BookValue += trade.Amount
			// Average cost reflects total consideration paid to date,
			// irrespective of entry order.
			pos.BuyPrice = pos.BookValue / pos.Quantity
			newPositions[pi] = pos.Revalue()
		} else {
			newPositions = append(newPositions, newPositionFromTrade(trade))
		}

	case domain.TradeSell:
		newCash[ci].Balance += trade.Amount

		pi := findPosition(newPositions, trade.Symbol)
		if pi < 0 {
			// Unknown symbol: cash still moves, positions untouched.
			break
		}
		pos := newPositions[pi]
		newQuantity := pos.Quantity - trade.Quantity
		realized := (trade.Price - pos.BuyPrice) * trade.Quantity

		if newQuantity > 0 {
			pos.Quantity = newQuantity
			pos.RealizedPnL += realized
			newPositions[pi] = pos.Revalue()
		} else {
			// Oversell closes the position entirely; no short is opened.
			newPositions = append(newPositions[:pi], newPositions[pi+1:]...)
		}
	}

	return newPositions, newCash
}

// newPositionFromTrade seeds a position for a BUY in a symbol not yet held.
// MarketValue and BookValue are the trade amount, so a fee-inclusive amount
// becomes part of the cost basis.
func newPositionFromTrade(trade domain.Trade) domain.Position {
	id := "pos-" + trade.ID
	if trade.ID == "" {
		id = "pos-" + trade.Symbol
	}
	return domain.Position{
		ID:            id,
		Symbol:        trade.Symbol,
		Name:          trade.Symbol,
		Quantity:      trade.Quantity,
		BuyPrice:      trade.Price,
		CurrentPrice:  trade.Price,
		MarketValue:   trade.Amount,
		BookValue:     trade.Amount,
		Currency:      trade.Currency,
		Sector:        "Unknown",
		AssetClass:    domain.AssetEquity,
		PurchaseDate:  trade.TradeDate,
		HoldingPeriod: 0,
		Equity:        &domain.EquityDetails{Beta: 1},
	}
}

func findCash(cash []domain.CashBalance, currency string) int {
	for i := range cash {
		if cash[i].Currency == currency {
			return i
		}
	}
	return -1
}

func findPosition(positions []domain.Position, symbol string) int {
	for i := range positions {
		if positions[i].Symbol == symbol {
			return i
		}
	}
	return -1
}
