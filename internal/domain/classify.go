package domain

import "strings"

// AssetClass is the unit of account an entry is booked in.
type AssetClass string

const (
	AssetClassFiat  AssetClass = "FIAT"
	AssetClassMetal AssetClass = "METAL"
)

// Asset codes used on the wire and in exports.
const (
	MetalCode = "GOLD"
	FiatCode  = "AED"
	MetalUnit = "g"
)

// Label returns the export label of the asset class.
func (c AssetClass) Label() string {
	if c == AssetClassMetal {
		return MetalCode
	}
	return FiatCode
}

// ParseAssetClass accepts fiat ("AED", "FIAT", "CASH") and metal ("GOLD",
// "METAL") spellings, case-insensitively.
func ParseAssetClass(s string) (AssetClass, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case FiatCode, string(AssetClassFiat), string(AssetCash):
		return AssetClassFiat, true
	case MetalCode, string(AssetClassMetal):
		return AssetClassMetal, true
	default:
		return "", false
	}
}

// Classification is the result of classifying a ledger entry.
type Classification struct {
	Kind       EntryType
	Nature     EntryNature
	AssetClass AssetClass
}

// Classify derives kind, nature and asset class of an entry. An entry is
// METAL only when its transaction details name the metal asset; everything
// else, including orders and LP positions, is FIAT.
func Classify(e LedgerEntry) Classification {
	class := AssetClassFiat
	if e.TransactionDetails != nil && strings.EqualFold(strings.TrimSpace(e.TransactionDetails.Asset), MetalCode) {
		class = AssetClassMetal
	}

	return Classification{
		Kind:       NormalizeEntryType(e.EntryType),
		Nature:     NormalizeNature(e.EntryNature),
		AssetClass: class,
	}
}
