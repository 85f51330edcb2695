package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/varun2123/client-wealth-insight/internal/domain"
)

// ImportResult bundles the three sheets of a portfolio workbook.
type ImportResult struct {
	Positions []domain.Position
	Trades    []domain.Trade
	Cash      []domain.CashBalance
}

// sheet is one parsed CSV sheet with alias-aware column lookup. Headers are
// matched case-insensitively with spaces stripped, so "Buy Price", "buyPrice"
// and "BUYPRICE" all resolve to the same column.
type sheet struct {
	columns map[string]int
	rows    [][]string
}

func readSheet(r io.Reader) (*sheet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(records) == 0 {
		return &sheet{columns: map[string]int{}}, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		columns[normalizeHeader(h)] = i
	}
	return &sheet{columns: columns, rows: records[1:]}, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
}

// str returns the first non-empty value among the aliased columns, or fallback.
func (s *sheet) str(row []string, fallback string, aliases ...string) string {
	for _, alias := range aliases {
		if i, ok := s.columns[normalizeHeader(alias)]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
	}
	return fallback
}

// num parses the first non-empty aliased column as a float, or fallback.
// Unparseable values default rather than fail, matching the forgiving
// spreadsheet semantics of the upload flow.
func (s *sheet) num(row []string, fallback float64, aliases ...string) float64 {
	v := s.str(row, "", aliases...)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// ParsePositions parses the Positions sheet. Missing numerics default to 0,
// currency to USD, sector to Unknown, asset class to Equity.
func ParsePositions(r io.Reader) ([]domain.Position, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	positions := make([]domain.Position, 0, len(s.rows))
	for i, row := range s.rows {
		p := domain.Position{
			ID:                 fmt.Sprintf("pos-%d", i),
			Symbol:             s.str(row, "", "Symbol"),
			Name:               s.str(row, "", "Name", "Company"),
			Quantity:           s.num(row, 0, "Quantity"),
			BuyPrice:           s.num(row, 0, "Buy Price", "buyPrice"),
			CurrentPrice:       s.num(row, 0, "Current Price", "currentPrice", "Price"),
			MarketValue:        s.num(row, 0, "Market Value", "marketValue"),
			BookValue:          s.num(row, 0, "Book Value", "bookValue"),
			UnrealizedPnL:      s.num(row, 0, "Unrealized PnL", "unrealizedPnL"),
			RealizedPnL:        s.num(row, 0, "Realized PnL", "realizedPnL"),
			TotalReturn:        s.num(row, 0, "Total Return", "totalReturn"),
			TotalReturnPercent: s.num(row, 0, "Return %", "returnPercent", "totalReturnPercent"),
			Currency:           s.str(row, "USD", "Currency"),
			Sector:             s.str(row, "Unknown", "Sector"),
			AssetClass:         domain.AssetClass(s.str(row, string(domain.AssetEquity), "Asset Class", "assetClass")),
			PurchaseDate:       s.str(row, today(), "Purchase Date", "purchaseDate"),
			HoldingPeriod:      int(s.num(row, 0, "Holding Period", "holdingPeriod")),
		}

		switch p.AssetClass {
		case domain.AssetEquity:
			p.Equity = &domain.EquityDetails{Beta: s.num(row, 1, "Beta")}
		case domain.AssetBond:
			p.Bond = &domain.BondDetails{
				CouponRate:      s.num(row, 0, "Coupon Rate", "couponRate"),
				MaturityDate:    s.str(row, "", "Maturity Date", "maturityDate"),
				AccruedInterest: s.num(row, 0, "Accrued Interest", "accruedInterest"),
			}
		case domain.AssetCommodity:
			p.Commodity = &domain.CommodityDetails{
				ExpiryDate: s.str(row, "", "Expiry Date", "expiryDate"),
			}
		case domain.AssetFX:
			p.FX = &domain.FXDetails{
				BaseCurrency:  s.str(row, "", "Base Currency", "baseCurrency"),
				QuoteCurrency: s.str(row, "", "Quote Currency", "quoteCurrency"),
			}
		case domain.AssetDerivative:
			p.Derivative = &domain.DerivativeDetails{
				Delta:        s.num(row, 0, "Delta"),
				ContractSize: s.num(row, 0, "Contract Size", "contractSize"),
				ExpiryDate:   s.str(row, "", "Expiry Date", "expiryDate"),
			}
		}

		positions = append(positions, p)
	}
	return positions, nil
}

// ParseTrades parses the Trades sheet.
func ParseTrades(r io.Reader) ([]domain.Trade, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	trades := make([]domain.Trade, 0, len(s.rows))
	for i, row := range s.rows {
		trades = append(trades, domain.Trade{
			ID:             fmt.Sprintf("trade-%d", i),
			Symbol:         s.str(row, "", "Symbol"),
			Side:           domain.TradeSide(strings.ToUpper(s.str(row, string(domain.TradeBuy), "Type"))),
			Quantity:       s.num(row, 0, "Quantity"),
			Price:          s.num(row, 0, "Price"),
			Amount:         s.num(row, 0, "Amount"),
			Currency:       s.str(row, "USD", "Currency"),
			TradeDate:      s.str(row, today(), "Trade Date", "tradeDate"),
			SettlementDate: s.str(row, today(), "Settlement Date", "settlementDate"),
			Commission:     s.num(row, 0, "Commission"),
			Status:         domain.TradeStatus(s.str(row, string(domain.TradeExecuted), "Status")),
		})
	}
	return trades, nil
}

// ParseCashBalances parses the Cash sheet.
func ParseCashBalances(r io.Reader) ([]domain.CashBalance, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	cash := make([]domain.CashBalance, 0, len(s.rows))
	for _, row := range s.rows {
		cash = append(cash, domain.CashBalance{
			Currency:         s.str(row, "USD", "Currency"),
			Balance:          s.num(row, 0, "Balance"),
			AvailableBalance: s.num(row, 0, "Available Balance", "availableBalance"),
			ReservedBalance:  s.num(row, 0, "Reserved Balance", "reservedBalance"),
		})
	}
	return cash, nil
}

// DefaultCashBalances is the fallback when a workbook carries no Cash sheet.
func DefaultCashBalances() []domain.CashBalance {
	return []domain.CashBalance{{
		Currency:         "USD",
		Balance:          100000,
		AvailableBalance: 95000,
		ReservedBalance:  5000,
	}}
}
