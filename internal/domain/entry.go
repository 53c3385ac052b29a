package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the kind of a ledger entry.
type EntryType string

const (
	EntryTypeTransaction EntryType = "TRANSACTION"
	EntryTypeOrder       EntryType = "ORDER"
	EntryTypeLPPosition  EntryType = "LP_POSITION"
)

// EntryNature is the direction of a ledger entry.
type EntryNature string

const (
	NatureCredit  EntryNature = "CREDIT"
	NatureDebit   EntryNature = "DEBIT"
	NatureUnknown EntryNature = ""
)

// Defaults substituted for missing optional fields.
const (
	DefaultEntryID   = "N/A"
	DefaultReference = "N/A"
	DefaultUserLabel = "LP"
)

// TransactionDetails is the payload of a TRANSACTION entry.
type TransactionDetails struct {
	TransactionID string `json:"transactionId,omitempty"`
	Type          string `json:"type,omitempty"`
	Asset         string `json:"asset,omitempty"`
	Status        string `json:"status,omitempty"`
}

// OrderDetails is the payload of an ORDER entry.
type OrderDetails struct {
	OrderID      string           `json:"orderId,omitempty"`
	Symbol       string           `json:"symbol,omitempty"`
	Side         string           `json:"type,omitempty"`
	Volume       decimal.Decimal  `json:"volume"`
	OpeningPrice decimal.Decimal  `json:"openingPrice"`
	ClosingPrice *decimal.Decimal `json:"closingPrice,omitempty"`
	Profit       *decimal.Decimal `json:"profit,omitempty"`
	Status       string           `json:"status,omitempty"`
}

// PositionDetails is the payload of an LP_POSITION entry.
type PositionDetails struct {
	PositionID   string           `json:"positionId,omitempty"`
	Symbol       string           `json:"symbol,omitempty"`
	Side         string           `json:"type,omitempty"`
	Volume       decimal.Decimal  `json:"volume"`
	EntryPrice   decimal.Decimal  `json:"entryPrice"`
	CurrentPrice *decimal.Decimal `json:"currentPrice,omitempty"`
	Profit       *decimal.Decimal `json:"profit,omitempty"`
	Status       string           `json:"status,omitempty"`
}

// LedgerEntry is an immutable record as received from the ledger source.
// Amount is a non-negative magnitude; the sign comes from EntryNature.
type LedgerEntry struct {
	Date               time.Time           `json:"date"`
	TransactionDetails *TransactionDetails `json:"transactionDetails,omitempty"`
	OrderDetails       *OrderDetails       `json:"orderDetails,omitempty"`
	PositionDetails    *PositionDetails    `json:"positionDetails,omitempty"`
	EntryID            string              `json:"entryId,omitempty"`
	EntryType          EntryType           `json:"entryType"`
	EntryNature        EntryNature         `json:"entryNature"`
	ReferenceNumber    string              `json:"referenceNumber,omitempty"`
	Description        string              `json:"description"`
	User               string              `json:"user,omitempty"`
	Amount             decimal.Decimal     `json:"amount"`
	RunningBalance     decimal.Decimal     `json:"runningBalance"`
}

// ID returns the entry ID or DefaultEntryID when absent.
func (e LedgerEntry) ID() string {
	if strings.TrimSpace(e.EntryID) == "" {
		return DefaultEntryID
	}
	return e.EntryID
}

// Reference returns the reference number or DefaultReference when absent.
func (e LedgerEntry) Reference() string {
	if strings.TrimSpace(e.ReferenceNumber) == "" {
		return DefaultReference
	}
	return e.ReferenceNumber
}

// UserLabel returns the user/account label or DefaultUserLabel when absent.
func (e LedgerEntry) UserLabel() string {
	if strings.TrimSpace(e.User) == "" {
		return DefaultUserLabel
	}
	return e.User
}

// SignedAmount returns +Amount for credits, -Amount for debits and zero for
// entries whose nature is unknown.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	switch NormalizeNature(e.EntryNature) {
	case NatureCredit:
		return e.Amount
	case NatureDebit:
		return e.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// Validate reports structurally impossible entries. Missing optional fields
// are not errors.
func (e LedgerEntry) Validate() error {
	if NormalizeNature(e.EntryNature) == NatureUnknown {
		return ErrMissingNature
	}

	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	return nil
}

// NormalizeNature maps a raw nature value to CREDIT, DEBIT or NatureUnknown.
func NormalizeNature(n EntryNature) EntryNature {
	switch EntryNature(strings.ToUpper(strings.TrimSpace(string(n)))) {
	case NatureCredit:
		return NatureCredit
	case NatureDebit:
		return NatureDebit
	default:
		return NatureUnknown
	}
}

// NormalizeEntryType maps a raw type value to a known EntryType, or returns
// it upper-cased when unknown.
func NormalizeEntryType(t EntryType) EntryType {
	return EntryType(strings.ToUpper(strings.TrimSpace(string(t))))
}
