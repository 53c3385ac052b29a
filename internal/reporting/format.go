package reporting

import (
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
)

// Display precision per asset class.
const (
	FiatPrecision  = 2
	MetalPrecision = 3
)

// DateLayout is the layout of dates in exports.
const DateLayout = "2006-01-02 15:04"

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

var (
	fiatFormatter  = money.NewFormatter(FiatPrecision, ".", ",", domain.FiatCode+" ", "$1")
	metalFormatter = money.NewFormatter(MetalPrecision, ".", ",", " "+domain.MetalUnit, "1$")
)

// FormatAmount renders an amount for display: fiat with two decimals and a
// currency prefix ("AED 1,234.50"), metal with three decimals and a unit
// suffix ("1.500 g").
func FormatAmount(class domain.AssetClass, amount decimal.Decimal) string {
	f, precision := fiatFormatter, int32(FiatPrecision)
	if class == domain.AssetClassMetal {
		f, precision = metalFormatter, MetalPrecision
	}

	minor := amount.Round(precision).Shift(precision)
	if minor.Abs().LessThanOrEqual(maxMinorUnits) {
		return f.Format(minor.IntPart())
	}
	return formatWide(f, minor)
}

// formatWide lays out a minor-unit amount that does not fit in an int64 the
// same way money.Formatter does.
func formatWide(f *money.Formatter, minor decimal.Decimal) string {
	sa := minor.Abs().String()

	for i := len(sa) - f.Fraction - 3; i > 0; i -= 3 {
		sa = sa[:i] + f.Thousand + sa[i:]
	}
	sa = sa[:len(sa)-f.Fraction] + f.Decimal + sa[len(sa)-f.Fraction:]
	sa = strings.Replace(f.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", f.Grapheme, 1)

	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}

// FormatDate renders an entry date in UTC, or "N/A" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format(DateLayout)
}
