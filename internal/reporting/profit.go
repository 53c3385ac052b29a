package reporting

import (
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ProfitSummary is the profit/loss breakdown of a trade collection.
type ProfitSummary struct {
	TotalProfit          decimal.Decimal `json:"totalProfit"`
	TotalLoss            decimal.Decimal `json:"totalLoss"`
	NetProfit            decimal.Decimal `json:"netProfit"`
	AverageProfit        decimal.Decimal `json:"averageProfit"`
	ProfitablePercentage decimal.Decimal `json:"profitablePercentage"`
	BestTrade            *domain.Trade   `json:"bestTrade,omitempty"`
	WorstTrade           *domain.Trade   `json:"worstTrade,omitempty"`
	Count                int             `json:"count"`
	ProfitableCount      int             `json:"profitableCount"`
}

// ProfitStats scans trades once. The best trade is the first one with the
// highest positive profit and the worst the first one with the lowest
// negative profit.
func ProfitStats(trades []domain.Trade) ProfitSummary {
	s := ProfitSummary{
		TotalProfit:          decimal.Zero,
		TotalLoss:            decimal.Zero,
		NetProfit:            decimal.Zero,
		AverageProfit:        decimal.Zero,
		ProfitablePercentage: decimal.Zero,
		Count:                len(trades),
	}

	for i := range trades {
		t := trades[i]
		switch {
		case t.Profit.IsPositive():
			s.TotalProfit = s.TotalProfit.Add(t.Profit)
			s.ProfitableCount++
			if s.BestTrade == nil || t.Profit.GreaterThan(s.BestTrade.Profit) {
				s.BestTrade = &t
			}
		case t.Profit.IsNegative():
			s.TotalLoss = s.TotalLoss.Add(t.Profit.Abs())
			if s.WorstTrade == nil || t.Profit.LessThan(s.WorstTrade.Profit) {
				s.WorstTrade = &t
			}
		}
	}

	s.NetProfit = s.TotalProfit.Sub(s.TotalLoss)
	if s.Count > 0 {
		count := decimal.NewFromInt(int64(s.Count))
		s.AverageProfit = s.NetProfit.Div(count)
		s.ProfitablePercentage = decimal.NewFromInt(int64(s.ProfitableCount)).Mul(hundred).Div(count)
	}

	return s
}

// TradesFromEntries extracts the profit-bearing trades from ORDER and
// LP_POSITION entries, preserving input order.
func TradesFromEntries(entries []domain.LedgerEntry) []domain.Trade {
	trades := make([]domain.Trade, 0)
	for _, e := range entries {
		switch {
		case e.OrderDetails != nil && e.OrderDetails.Profit != nil:
			trades = append(trades, domain.Trade{
				Date:    e.Date,
				EntryID: e.ID(),
				Symbol:  e.OrderDetails.Symbol,
				Side:    e.OrderDetails.Side,
				Volume:  e.OrderDetails.Volume,
				Profit:  *e.OrderDetails.Profit,
			})
		case e.PositionDetails != nil && e.PositionDetails.Profit != nil:
			trades = append(trades, domain.Trade{
				Date:    e.Date,
				EntryID: e.ID(),
				Symbol:  e.PositionDetails.Symbol,
				Side:    e.PositionDetails.Side,
				Volume:  e.PositionDetails.Volume,
				Profit:  *e.PositionDetails.Profit,
			})
		}
	}
	return trades
}
