package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fiatEntry(id string, nature domain.EntryNature, amount string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     id,
		EntryType:   domain.EntryTypeTransaction,
		EntryNature: nature,
		Amount:      dec(amount),
		TransactionDetails: &domain.TransactionDetails{
			Type:  "DEPOSIT",
			Asset: "CASH",
		},
	}
}

func metalEntry(id string, nature domain.EntryNature, amount string) domain.LedgerEntry {
	e := fiatEntry(id, nature, amount)
	e.TransactionDetails = &domain.TransactionDetails{Type: "DEPOSIT", Asset: "GOLD"}
	return e
}

func orderEntry(id, status, symbol string, profit string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     id,
		EntryType:   domain.EntryTypeOrder,
		EntryNature: domain.NatureCredit,
		Amount:      dec("10"),
		OrderDetails: &domain.OrderDetails{
			Symbol: symbol,
			Side:   "BUY",
			Status: status,
			Volume: dec("1"),
			Profit: decPtr(profit),
		},
	}
}

func positionEntry(id, status string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     id,
		EntryType:   domain.EntryTypeLPPosition,
		EntryNature: domain.NatureDebit,
		Amount:      dec("5"),
		PositionDetails: &domain.PositionDetails{
			Symbol: "XAUUSD",
			Status: status,
		},
	}
}

func at(e domain.LedgerEntry, t time.Time) domain.LedgerEntry {
	e.Date = t
	return e
}
