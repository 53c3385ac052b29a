package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/lpledger/internal/domain"
)

func withBalance(e domain.LedgerEntry, balance string, day int) domain.LedgerEntry {
	e.RunningBalance = dec(balance)
	e.Date = time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	return e
}

func TestCheckRunningBalances_Consistent(t *testing.T) {
	entries := []domain.LedgerEntry{
		withBalance(fiatEntry("f2", domain.NatureDebit, "30"), "70", 2),
		withBalance(fiatEntry("f1", domain.NatureCredit, "100"), "100", 1),
		withBalance(metalEntry("m1", domain.NatureCredit, "1.5"), "1.5", 1),
		withBalance(metalEntry("m2", domain.NatureCredit, "0.25"), "1.75", 3),
	}

	assert.Empty(t, CheckRunningBalances(entries))
}

func TestCheckRunningBalances_ReportsDivergence(t *testing.T) {
	entries := []domain.LedgerEntry{
		withBalance(fiatEntry("f1", domain.NatureCredit, "100"), "100", 1),
		withBalance(fiatEntry("f2", domain.NatureDebit, "30"), "75", 2),
		withBalance(fiatEntry("bad", "", "30"), "0", 3),
		withBalance(fiatEntry("f3", domain.NatureCredit, "5"), "80", 4),
	}

	got := CheckRunningBalances(entries)

	require.Len(t, got, 1)
	assert.Equal(t, "f2", got[0].EntryID)
	assert.Equal(t, domain.AssetClassFiat, got[0].AssetClass)
	assert.True(t, got[0].Expected.Equal(dec("70")))
	assert.True(t, got[0].Reported.Equal(dec("75")))
	assert.True(t, got[0].Difference.Equal(dec("5")))
}
