package domain

// CashBalance holds the cash position for one currency. Balance reflects all
// trade cash flows; available/reserved are carried through but the ledger does
// not enforce balance == available + reserved.
type CashBalance struct {
	Currency         string  `json:"currency"`
	Balance          float64 `json:"balance"`
	AvailableBalance float64 `json:"availableBalance"`
	ReservedBalance  float64 `json:"reservedBalance"`
}
