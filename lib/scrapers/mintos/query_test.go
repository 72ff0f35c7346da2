package mintos

import (
	"encoding/json"
	"testing"
	"time"

	"lendfolio/lib/marketdata"

	"github.com/stretchr/testify/require"
)

func TestInvestmentsQueryMinimalBody(t *testing.T) {
	catalog := marketdata.NewCatalog()
	query := InvestmentsQuery{Currency: "EUR", Current: true}

	wire, err := query.validate(catalog)
	require.NoError(t, err)

	body := query.body(wire, 1, 300)
	// only the always-present fields; unset filters stay off the wire
	require.Len(t, body, 3)
	require.Equal(t, 978, body["currency"])
	require.Equal(t, map[string]any{"maxResults": 300, "page": 1}, body["pagination"])
	require.Equal(t, map[string]any{"sortField": "interestRate", "sortOrder": "DESC"}, body["sorting"])
}

func TestInvestmentsQueryResolvesFriendlyNames(t *testing.T) {
	catalog := marketdata.NewCatalog()
	maxRate := 14.5
	query := InvestmentsQuery{
		Currency:        "KZT",
		Countries:       []string{"Estonia", "Latvia"},
		LenderCompanies: []string{"DelfinGroup"},
		ScheduleTypes:   []string{"bullet"},
		MaxInterestRate: &maxRate,
		Sort:            "risk_score",
		Ascending:       true,
	}

	wire, err := query.validate(catalog)
	require.NoError(t, err)

	body := query.body(wire, 2, 300)
	require.Equal(t, 398, body["currency"])
	require.Equal(t, []int{8, 17}, body["countries"])
	require.Equal(t, []int{101}, body["lenderCompanies"])
	require.Equal(t, []int{8}, body["scheduleTypes"])
	require.Equal(t, 14.5, body["maxInterestRate"])
	require.Equal(t, map[string]any{"sortField": "mintosRiskScoreDecimal", "sortOrder": "ASC"}, body["sorting"])
}

func TestInvestmentsQueryRejectsUnknownValues(t *testing.T) {
	catalog := marketdata.NewCatalog()

	cases := []struct {
		name  string
		query InvestmentsQuery
		param string
	}{
		{"currency", InvestmentsQuery{Currency: "DOGE"}, "currency"},
		{"country", InvestmentsQuery{Currency: "EUR", Countries: []string{"Atlantis"}}, "countries"},
		{"lender", InvestmentsQuery{Currency: "EUR", LenderCompanies: []string{"Nope Capital"}}, "lender_companies"},
		{"sort", InvestmentsQuery{Currency: "EUR", Sort: "favorite_color"}, "sort"},
		{"schedule type", InvestmentsQuery{Currency: "EUR", ScheduleTypes: []string{"weekly"}}, "schedule_types"},
		{"risk score", InvestmentsQuery{Currency: "EUR", RiskScores: []RiskScore{11}}, "risk_scores"},
		{"exposure", InvestmentsQuery{Currency: "EUR", LateLoanExposure: []string{"90_110"}}, "late_loan_exposure"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.query.validate(catalog)
			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, c.param, validationErr.Param)
		})
	}
}

func TestInvestmentsQueryIsinAndClaimIdAreExclusive(t *testing.T) {
	catalog := marketdata.NewCatalog()
	query := InvestmentsQuery{Currency: "EUR", Isin: "LV0000800001", ClaimID: "123"}

	_, err := query.validate(catalog)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestInvestmentsQueryDateOrdering(t *testing.T) {
	catalog := marketdata.NewCatalog()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	query := InvestmentsQuery{Currency: "EUR", StartDate: &start, EndDate: &end}

	_, err := query.validate(catalog)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "end_date", validationErr.Param)
}

func TestRiskScoreSuspendedOnTheWire(t *testing.T) {
	serialized, err := json.Marshal([]RiskScore{7, RiskScoreSuspended})
	require.NoError(t, err)
	require.JSONEq(t, `[7, "SW"]`, string(serialized))
	require.Equal(t, "SW", RiskScoreSuspended.wire())
}

func TestClaimsQueryParams(t *testing.T) {
	catalog := marketdata.NewCatalog()
	query := ClaimsQuery{
		Currency:   "EUR",
		Current:    true,
		Countries:  []string{"Estonia", "Poland"},
		RiskScores: []RiskScore{5, RiskScoreSuspended},
	}

	params, err := query.params(catalog, 1, 300)
	require.NoError(t, err)

	encoded := encodeParams(params)
	require.Contains(t, encoded, "currency=978")
	require.Contains(t, encoded, "status=current")
	require.Contains(t, encoded, "sort_field=interest_rate")
	require.Contains(t, encoded, "max_results=300")
	// array filters repeat the key once per value
	require.Contains(t, encoded, "countries%5B%5D=8")
	require.Contains(t, encoded, "countries%5B%5D=37")
	require.Contains(t, encoded, "risk_scores%5B%5D=5")
	require.Contains(t, encoded, "risk_scores%5B%5D=SW")
}

func TestClaimsQueryStatusFollowsCurrent(t *testing.T) {
	catalog := marketdata.NewCatalog()

	params, err := ClaimsQuery{Currency: "EUR"}.params(catalog, 1, 300)
	require.NoError(t, err)
	require.Contains(t, encodeParams(params), "status=finished")
}

func TestLoansQueryForm(t *testing.T) {
	catalog := marketdata.NewCatalog()
	minRate := 9.0
	query := LoansQuery{
		Currency:        "EUR",
		LoanTypes:       []string{"car", "pawnbroking"},
		MinInterestRate: &minRate,
		Sort:            "remaining_term",
	}

	form, err := query.form(catalog, 3, 300)
	require.NoError(t, err)
	require.Equal(t, "978", form.Get("currency"))
	require.Equal(t, "3", form.Get("page"))
	require.Equal(t, "maturityDate", form.Get("sort_field"))
	require.Equal(t, []string{"car", "pawnbroking"}, form["loan_types[]"])
	require.Equal(t, "9", form.Get("min_interest_rate"))
}

func TestLoansQueryRejectsUnknownLoanType(t *testing.T) {
	catalog := marketdata.NewCatalog()
	query := LoansQuery{Currency: "EUR", LoanTypes: []string{"yacht"}}

	_, err := query.form(catalog, 1, 300)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "loan_types", validationErr.Param)
}

func TestQueryDefaults(t *testing.T) {
	query := InvestmentsQuery{Currency: "EUR"}
	require.Equal(t, 30, query.quantity())
	require.Equal(t, 1, query.startPage())
	require.Equal(t, "interest_rate", query.sortField())
}
