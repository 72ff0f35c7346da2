package mintos

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNoteRecord(t *testing.T) {
	raw := map[string]any{
		"isin":         "LV0000800001",
		"interestRate": "12.5%",
		"amount": map[string]any{
			"amount":   "50.25",
			"currency": "EUR",
		},
		"initialAmount": map[string]any{
			"amount":   "100.00",
			"currency": "USD",
		},
		"riskScore": map[string]any{
			"score": float64(8),
			"subscores": map[string]any{
				"loanPortfolioPerformance": float64(7),
				"buybackStrength":          float64(9),
			},
		},
		"maturityDate": float64(1672531200000),
		"badDebt":      nil,
	}

	row := normalizeRecord(KindNotes, raw)

	require.Equal(t, "LV0000800001", row["ISIN"])
	_, hasLowercaseKey := row["isin"]
	require.False(t, hasLowercaseKey)

	require.Equal(t, 12.5, row["interestRate"])
	require.Equal(t, 50.25, row["amount"])
	require.Equal(t, 100.0, row["initialAmount"])
	// nested money objects disagree on currency; the first one flattened wins
	cur, ok := row["currency"].(string)
	require.True(t, ok)
	require.Contains(t, []string{"EUR", "USD"}, cur)

	require.Equal(t, float64(8), row["riskScore"])
	require.Equal(t, float64(7), row["loanPortfolioPerformance"])
	require.Equal(t, float64(9), row["buybackStrength"])
	_, hasSubscores := row["subscores"]
	require.False(t, hasSubscores)

	require.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), row["maturityDate"])
	require.Equal(t, NotAvailable, row["badDebt"])
}

func TestNormalizeClaimRecord(t *testing.T) {
	raw := map[string]any{
		"id":             float64(57183920),
		"interest_rate":  "9.75",
		"purchased_at":   "1650000000000",
		"pending_amount": "€ 102.52",
	}

	row := normalizeRecord(KindClaims, raw)

	require.Equal(t, "57183920", row["ID"])
	require.Equal(t, 9.75, row["interest_rate"])
	require.Equal(t, time.Date(2022, 4, 15, 0, 0, 0, 0, time.UTC), row["purchased_at"])
	// display-formatted amounts split into value and currency
	require.Equal(t, 102.52, row["pending_amount"])
	require.Equal(t, "EUR (€)", row["currency"])
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := map[string]any{
		"isin": "LV0000800002",
		"amount": map[string]any{
			"amount":   "10.50",
			"currency": "EUR",
		},
		"maturityDate": float64(1672531200000),
		"status":       nil,
	}

	once := normalizeRecord(KindNotes, raw)
	twice := normalizeRecord(KindNotes, map[string]any(once))

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("normalizing twice changed the record:\n%s", diff)
	}
}

func TestNormalizeRecordsFillsMissingColumns(t *testing.T) {
	table := NormalizeRecords(KindNotes, []map[string]any{
		{"isin": "A1", "interestRate": float64(10)},
		{"isin": "A2", "term": float64(30)},
	})

	require.Equal(t, "ISIN", table.KeyField)
	require.Equal(t, 2, table.Len())

	first, ok := table.Lookup("A1")
	require.True(t, ok)
	require.Equal(t, NotAvailable, first["term"])

	second, ok := table.Lookup("A2")
	require.True(t, ok)
	require.Equal(t, NotAvailable, second["interestRate"])
}

func TestCoerceScalar(t *testing.T) {
	require.Equal(t, 12.5, coerceScalar("12.5"))
	require.Equal(t, 12.5, coerceScalar("12.5%"))
	require.Equal(t, 12.5, coerceScalar(" 12.5 % "))
	require.Equal(t, "active", coerceScalar("active"))
	require.Equal(t, NotAvailable, coerceScalar(nil))
	require.Equal(t, true, coerceScalar(true))
}

func TestCamelToSnake(t *testing.T) {
	require.Equal(t, "available_funds", camelToSnake("availableFunds"))
	require.Equal(t, "net_annual_returns", camelToSnake("netAnnualReturns"))
	require.Equal(t, "isin", camelToSnake("isin"))
}
