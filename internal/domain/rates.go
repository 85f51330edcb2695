package domain

// RateTable maps currency codes to their conversion rate into a base
// currency. It is injected from configuration so tests can supply arbitrary
// rates; nothing in the core reads a global table.
type RateTable struct {
	Base  string             `json:"base" yaml:"base"`
	Rates map[string]float64 `json:"rates" yaml:"rates"`
}

// Convert converts an amount from the given currency into the base currency.
// Unknown currencies and the base currency itself convert at 1.
func (t RateTable) Convert(amount float64, currency string) float64 {
	if currency == t.Base {
		return amount
	}
	rate, ok := t.Rates[currency]
	if !ok || rate == 0 {
		return amount
	}
	return amount * rate
}
