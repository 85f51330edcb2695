package domain

type TradeSide string

const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

type TradeStatus string

const (
	TradeExecuted  TradeStatus = "Executed"
	TradePending   TradeStatus = "Pending"
	TradeCancelled TradeStatus = "Cancelled"
)

// Trade is an immutable record of a single execution. Amount is the cash
// consideration moved by the trade; it is supplied by the caller and not
// re-derived from Quantity*Price, so fee-inclusive amounts are possible.
type Trade struct {
	ID             string      `json:"id"`
	Symbol         string      `json:"symbol"`
	Side           TradeSide   `json:"type"`
	Quantity       float64     `json:"quantity"`
	Price          float64     `json:"price"`
	Amount         float64     `json:"amount"`
	Currency       string      `json:"currency"`
	TradeDate      string      `json:"tradeDate"`
	SettlementDate string      `json:"settlementDate"`
	Commission     float64     `json:"commission"`
	Status         TradeStatus `json:"status"`
}
