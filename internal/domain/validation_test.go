package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	valid := decimal.NewFromFloat(100.25)
	if err := ValidateAmount(valid); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("0.0001")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount below minimum, got %v", err)
	}

	tooLarge := decimal.RequireFromString(MaxTransactionAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(tooLarge); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount above maximum, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		page, size       int
		wantPage, wantSz int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize},
		{"negative page", -3, 25, 1, 25},
		{"size capped", 2, MaxPageSize + 1, 2, MaxPageSize},
		{"unchanged", 4, 50, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := ValidatePagination(tt.page, tt.size)
			if page != tt.wantPage || size != tt.wantSz {
				t.Fatalf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, page, size, tt.wantPage, tt.wantSz)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	if got := ParseAmount("12.50"); got == nil || !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5, got %v", got)
	}

	for _, in := range []string{"", "  ", "abc", "1,000"} {
		if got := ParseAmount(in); got != nil {
			t.Fatalf("ParseAmount(%q) = %v, want nil", in, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got := ParseDate("2024-03-15")
	if got == nil || !got.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got)
	}

	got = ParseDate("2024-03-15T10:30:00Z")
	if got == nil || got.Hour() != 10 {
		t.Fatalf("unexpected timestamp: %v", got)
	}

	if ParseDate("15/03/2024") != nil {
		t.Fatal("expected nil for unsupported layout")
	}
}
