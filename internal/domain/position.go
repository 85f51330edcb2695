package domain

// AssetClass identifies which variant of class-specific details a position carries.
type AssetClass string

const (
	AssetEquity     AssetClass = "Equity"
	AssetBond       AssetClass = "Bond"
	AssetCommodity  AssetClass = "Commodity"
	AssetFX         AssetClass = "FX"
	AssetETF        AssetClass = "ETF"
	AssetDerivative AssetClass = "Derivative"
)

// EquityDetails are attributes only equity positions carry.
type EquityDetails struct {
	Beta float64 `json:"beta"`
}

// BondDetails are attributes only bond positions carry.
type BondDetails struct {
	CouponRate      float64 `json:"couponRate"`
	MaturityDate    string  `json:"maturityDate"`
	AccruedInterest float64 `json:"accruedInterest"`
}

// CommodityDetails are attributes only commodity futures carry.
type CommodityDetails struct {
	ExpiryDate string `json:"expiryDate"`
}

// FXDetails are attributes only FX positions carry.
type FXDetails struct {
	BaseCurrency  string `json:"baseCurrency"`
	QuoteCurrency string `json:"quoteCurrency"`
}

// DerivativeDetails are attributes only option/future positions carry.
type DerivativeDetails struct {
	Delta        float64 `json:"delta"`
	ContractSize float64 `json:"contractSize"`
	ExpiryDate   string  `json:"expiryDate"`
}

// Position represents a single holding. At most one of the class-specific
// detail pointers is set, matching AssetClass; ETFs carry none.
type Position struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	Quantity     float64 `json:"quantity"`
	BuyPrice     float64 `json:"buyPrice"` // average cost per unit
	CurrentPrice float64 `json:"currentPrice"`
	MarketValue  float64 `json:"marketValue"`
	BookValue    float64 `json:"bookValue"`

	UnrealizedPnL      float64 `json:"unrealizedPnL"`
	RealizedPnL        float64 `json:"realizedPnL"`
	TotalReturn        float64 `json:"totalReturn"`
	TotalReturnPercent float64 `json:"totalReturnPercent"`

	Currency   string     `json:"currency"`
	Sector     string     `json:"sector,omitempty"`
	AssetClass AssetClass `json:"assetClass"`

	PurchaseDate  string `json:"purchaseDate"`
	HoldingPeriod int    `json:"holdingPeriod"` // days held

	Equity     *EquityDetails     `json:"equity,omitempty"`
	Bond       *BondDetails       `json:"bond,omitempty"`
	Commodity  *CommodityDetails  `json:"commodity,omitempty"`
	FX         *FXDetails         `json:"fx,omitempty"`
	Derivative *DerivativeDetails `json:"derivative,omitempty"`
}

// Clone returns a copy that shares no memory with the receiver, including the
// class-specific detail struct.
func (p Position) Clone() Position {
	if p.Equity != nil {
		v := *p.Equity
		p.Equity = &v
	}
	if p.Bond != nil {
		v := *p.Bond
		p.Bond = &v
	}
	if p.Commodity != nil {
		v := *p.Commodity
		p.Commodity = &v
	}
	if p.FX != nil {
		v := *p.FX
		p.FX = &v
	}
	if p.Derivative != nil {
		v := *p.Derivative
		p.Derivative = &v
	}
	return p
}

// Beta reports the position's beta and whether the position defines one.
func (p Position) Beta() (float64, bool) {
	if p.Equity == nil {
		return 0, false
	}
	return p.Equity.Beta, true
}

// Delta reports the position's delta and whether the position defines one.
func (p Position) Delta() (float64, bool) {
	if p.Derivative == nil {
		return 0, false
	}
	return p.Derivative.Delta, true
}

// Revalue returns a copy with MarketValue, UnrealizedPnL, TotalReturn and
// TotalReturnPercent recomputed from Quantity, CurrentPrice and BookValue.
// Must be applied whenever quantity or current price changes.
func (p Position) Revalue() Position {
	p.MarketValue = p.Quantity * p.CurrentPrice
	p.UnrealizedPnL = p.MarketValue - p.BookValue
	p.TotalReturn = p.UnrealizedPnL + p.RealizedPnL
	if p.BookValue != 0 {
		p.TotalReturnPercent = p.TotalReturn / p.BookValue * 100
	} else {
		p.TotalReturnPercent = 0
	}
	return p
}
