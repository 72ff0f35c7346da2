package mintos

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"lendfolio/lib/marketdata"
)

// RiskScore is a 1-10 marketplace risk bracket, or Suspended for scores the
// marketplace has withdrawn.
type RiskScore int

const RiskScoreSuspended RiskScore = -1

func (r RiskScore) MarshalJSON() ([]byte, error) {
	if r == RiskScoreSuspended {
		return []byte(`"SW"`), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

func (r RiskScore) wire() string {
	if r == RiskScoreSuspended {
		return "SW"
	}
	return strconv.Itoa(int(r))
}

// Param is one query-string pair. Claims filters serialize to a flat pair
// list because the endpoint takes repeated keys for array parameters.
type Param struct {
	Key   string
	Value string
}

// InvestmentsQuery filters the notes investments listing. All fields other
// than Currency are optional; unset fields never reach the wire.
type InvestmentsQuery struct {
	Currency string
	// how many records to retrieve overall, defaults to 30
	Quantity int
	// friendly sort field name, defaults to "interest_rate"
	Sort      string
	Ascending bool
	// first page to fetch, defaults to 1
	StartPage int

	Countries                []string
	PendingPayments          *bool
	IncludeManualInvestments *bool
	StartDate                *time.Time
	EndDate                  *time.Time
	Isin                     string
	ClaimID                  string
	LateLoanExposure         []string
	LenderCompanies          []string
	LenderGroups             []string
	LenderStatuses           []string
	ListedForSale            *bool
	MaxInterestRate          *float64
	MinInterestRate          *float64
	MinAmount                *float64
	MaxRiskScore             *int
	MinRiskScore             *int
	RiskScores               []RiskScore
	PledgeTypeGroups         []string
	ScheduleTypes            []string
	Strategies               []string
	TermFrom                 *int
	TermTo                   *int

	// finished investments are queried when false
	Current bool
}

func (q InvestmentsQuery) quantity() int {
	if q.Quantity <= 0 {
		return 30
	}
	return q.Quantity
}

func (q InvestmentsQuery) startPage() int {
	if q.StartPage <= 0 {
		return 1
	}
	return q.StartPage
}

func (q InvestmentsQuery) sortField() string {
	if q.Sort == "" {
		return "interest_rate"
	}
	return q.Sort
}

func sortChoices(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("sort field must be one of the following: %v", keys)
}

func validateRiskScores(scores []RiskScore) error {
	for _, s := range scores {
		if s == RiskScoreSuspended {
			continue
		}
		if s < 1 || s > 10 {
			return ValidationError{
				Param:  "risk_scores",
				Reason: "risk score must be an integer between 1 and 10, or suspended",
			}
		}
	}
	return nil
}

func validateChoices(param string, values []string, valid []string) error {
	allowed := map[string]bool{}
	for _, v := range valid {
		allowed[v] = true
	}
	for _, v := range values {
		if !allowed[v] {
			return ValidationError{
				Param:  param,
				Reason: fmt.Sprintf("%q is not recognized, valid choices: %v", v, valid),
			}
		}
	}
	return nil
}

// validate checks every set filter against the lookup tables and resolves
// friendly names to wire identifiers. No network calls happen here.
func (q InvestmentsQuery) validate(catalog *marketdata.Catalog) (investmentsWire, error) {
	var w investmentsWire

	code, err := catalog.CurrencyCode(q.Currency)
	if err != nil {
		return w, ValidationError{Param: "currency", Reason: err.Error()}
	}
	w.currency = code

	if q.Isin != "" && q.ClaimID != "" {
		return w, ValidationError{
			Param:  "isin",
			Reason: "filtering by note ISIN and claim ID at the same time is not supported",
		}
	}

	for _, country := range q.Countries {
		id, err := catalog.CountryID(country)
		if err != nil {
			return w, ValidationError{Param: "countries", Reason: err.Error()}
		}
		w.countries = append(w.countries, id)
	}
	for _, lender := range q.LenderCompanies {
		id, err := catalog.LenderID(lender)
		if err != nil {
			return w, ValidationError{Param: "lender_companies", Reason: err.Error()}
		}
		w.lenderCompanies = append(w.lenderCompanies, id)
	}
	for _, method := range q.ScheduleTypes {
		id, err := marketdata.AmortizationMethodID(method)
		if err != nil {
			return w, ValidationError{Param: "schedule_types", Reason: err.Error()}
		}
		w.scheduleTypes = append(w.scheduleTypes, id)
	}

	err = validateChoices("late_loan_exposure", q.LateLoanExposure, marketdata.LateLoanExposures)
	if err != nil {
		return w, err
	}
	err = validateChoices("lender_statuses", q.LenderStatuses, marketdata.LenderStatuses)
	if err != nil {
		return w, err
	}
	err = validateRiskScores(q.RiskScores)
	if err != nil {
		return w, err
	}
	if q.MinRiskScore != nil && (*q.MinRiskScore < 1 || *q.MinRiskScore > 10) {
		return w, ValidationError{Param: "min_risk_score", Reason: "must be between 1 and 10"}
	}
	if q.MaxRiskScore != nil && (*q.MaxRiskScore < 1 || *q.MaxRiskScore > 10) {
		return w, ValidationError{Param: "max_risk_score", Reason: "must be between 1 and 10"}
	}
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return w, ValidationError{Param: "end_date", Reason: "end date precedes start date"}
	}
	if q.TermFrom != nil && q.TermTo != nil && *q.TermTo < *q.TermFrom {
		return w, ValidationError{Param: "term_to", Reason: "upper term bound precedes lower bound"}
	}

	sortField, ok := marketdata.NotesSortFields[q.sortField()]
	if !ok {
		return w, ValidationError{Param: "sort", Reason: sortChoices(marketdata.NotesSortFields)}
	}
	w.sortField = sortField

	return w, nil
}

// investmentsWire carries validated, identifier-resolved filter values.
type investmentsWire struct {
	currency        int
	countries       []int
	lenderCompanies []int
	scheduleTypes   []int
	sortField       string
}

const wireDateLayout = "2006-01-02"

// body builds the nested camelCase request shape the notes endpoint takes.
// Unset filters are left out entirely.
func (q InvestmentsQuery) body(w investmentsWire, page, pageSize int) map[string]any {
	sortOrder := "DESC"
	if q.Ascending {
		sortOrder = "ASC"
	}

	body := map[string]any{
		"currency": w.currency,
		"pagination": map[string]any{
			"maxResults": pageSize,
			"page":       page,
		},
		"sorting": map[string]any{
			"sortField": w.sortField,
			"sortOrder": sortOrder,
		},
	}

	if len(w.countries) > 0 {
		body["countries"] = w.countries
	}
	if q.PendingPayments != nil {
		body["hasPendingPayments"] = *q.PendingPayments
	}
	if q.IncludeManualInvestments != nil {
		body["includeManualInvestments"] = *q.IncludeManualInvestments
	}
	if q.StartDate != nil {
		body["investmentDateFrom"] = q.StartDate.Format(wireDateLayout)
	}
	if q.EndDate != nil {
		body["investmentDateTo"] = q.EndDate.Format(wireDateLayout)
	}
	if q.Isin != "" {
		body["isin"] = q.Isin
	}
	if q.ClaimID != "" {
		body["claimId"] = q.ClaimID
	}
	if len(q.LateLoanExposure) > 0 {
		body["lateLoanExposure"] = q.LateLoanExposure
	}
	if len(w.lenderCompanies) > 0 {
		body["lenderCompanies"] = w.lenderCompanies
	}
	if len(q.LenderGroups) > 0 {
		body["lenderGroups"] = q.LenderGroups
	}
	if len(q.LenderStatuses) > 0 {
		body["lenderStatuses"] = q.LenderStatuses
	}
	if q.ListedForSale != nil {
		body["listedForSale"] = *q.ListedForSale
	}
	if q.MaxInterestRate != nil {
		body["maxInterestRate"] = *q.MaxInterestRate
	}
	if q.MinInterestRate != nil {
		body["minInterestRate"] = *q.MinInterestRate
	}
	if q.MinAmount != nil {
		body["minAmount"] = *q.MinAmount
	}
	if q.MaxRiskScore != nil {
		body["maxLendingCompanyRiskScore"] = *q.MaxRiskScore
	}
	if q.MinRiskScore != nil {
		body["minLendingCompanyRiskScore"] = *q.MinRiskScore
	}
	if len(q.RiskScores) > 0 {
		body["riskScores"] = q.RiskScores
	}
	if len(q.PledgeTypeGroups) > 0 {
		body["pledgeTypeGroups"] = q.PledgeTypeGroups
	}
	if len(w.scheduleTypes) > 0 {
		body["scheduleTypes"] = w.scheduleTypes
	}
	if len(q.Strategies) > 0 {
		body["strategies"] = q.Strategies
	}
	if q.TermFrom != nil {
		body["termFrom"] = *q.TermFrom
	}
	if q.TermTo != nil {
		body["termTo"] = *q.TermTo
	}

	return body
}

// ClaimsQuery filters the claims listing. The claims endpoint predates the
// notes one and takes flat snake_case query parameters with repeated keys
// for arrays.
type ClaimsQuery struct {
	Currency  string
	Quantity  int
	Sort      string
	Ascending bool
	StartPage int

	Countries       []string
	LenderCompanies []string
	LenderStatuses  []string
	ClaimID         string
	Isin            string
	MaxInterestRate *float64
	MinInterestRate *float64
	RiskScores      []RiskScore
	StartDate       *time.Time
	EndDate         *time.Time
	TermFrom        *int
	TermTo          *int

	Current bool
}

func (q ClaimsQuery) quantity() int {
	if q.Quantity <= 0 {
		return 30
	}
	return q.Quantity
}

func (q ClaimsQuery) startPage() int {
	if q.StartPage <= 0 {
		return 1
	}
	return q.StartPage
}

func (q ClaimsQuery) sortField() string {
	if q.Sort == "" {
		return "interest_rate"
	}
	return q.Sort
}

// params validates the claim filters and builds the flat pair list.
func (q ClaimsQuery) params(catalog *marketdata.Catalog, page, pageSize int) ([]Param, error) {
	code, err := catalog.CurrencyCode(q.Currency)
	if err != nil {
		return nil, ValidationError{Param: "currency", Reason: err.Error()}
	}

	if q.Isin != "" && q.ClaimID != "" {
		return nil, ValidationError{
			Param:  "claim_id",
			Reason: "filtering by note ISIN and claim ID at the same time is not supported",
		}
	}
	err = validateChoices("lender_statuses", q.LenderStatuses, marketdata.LenderStatuses)
	if err != nil {
		return nil, err
	}
	err = validateRiskScores(q.RiskScores)
	if err != nil {
		return nil, err
	}

	sortField, ok := marketdata.ClaimsSortFields[q.sortField()]
	if !ok {
		return nil, ValidationError{Param: "sort", Reason: sortChoices(marketdata.ClaimsSortFields)}
	}

	sortOrder := "DESC"
	if q.Ascending {
		sortOrder = "ASC"
	}

	params := []Param{
		{"currency", strconv.Itoa(code)},
		{"status", map[bool]string{true: "current", false: "finished"}[q.Current]},
		{"sort_field", sortField},
		{"sort_order", sortOrder},
		{"max_results", strconv.Itoa(pageSize)},
		{"page", strconv.Itoa(page)},
	}

	for _, country := range q.Countries {
		id, err := catalog.CountryID(country)
		if err != nil {
			return nil, ValidationError{Param: "countries", Reason: err.Error()}
		}
		params = append(params, Param{"countries[]", strconv.Itoa(id)})
	}
	for _, lender := range q.LenderCompanies {
		id, err := catalog.LenderID(lender)
		if err != nil {
			return nil, ValidationError{Param: "lender_companies", Reason: err.Error()}
		}
		params = append(params, Param{"lender_companies[]", strconv.Itoa(id)})
	}
	for _, status := range q.LenderStatuses {
		params = append(params, Param{"lender_statuses[]", status})
	}
	for _, score := range q.RiskScores {
		params = append(params, Param{"risk_scores[]", score.wire()})
	}
	if q.ClaimID != "" {
		params = append(params, Param{"id", q.ClaimID})
	}
	if q.Isin != "" {
		params = append(params, Param{"isin", q.Isin})
	}
	if q.MaxInterestRate != nil {
		params = append(params, Param{"max_interest_rate", strconv.FormatFloat(*q.MaxInterestRate, 'f', -1, 64)})
	}
	if q.MinInterestRate != nil {
		params = append(params, Param{"min_interest_rate", strconv.FormatFloat(*q.MinInterestRate, 'f', -1, 64)})
	}
	if q.StartDate != nil {
		params = append(params, Param{"date_from", q.StartDate.Format(wireDateLayout)})
	}
	if q.EndDate != nil {
		params = append(params, Param{"date_to", q.EndDate.Format(wireDateLayout)})
	}
	if q.TermFrom != nil {
		params = append(params, Param{"term_from", strconv.Itoa(*q.TermFrom)})
	}
	if q.TermTo != nil {
		params = append(params, Param{"term_to", strconv.Itoa(*q.TermTo)})
	}

	return params, nil
}

func encodeParams(params []Param) string {
	values := url.Values{}
	for _, p := range params {
		values.Add(p.Key, p.Value)
	}
	return values.Encode()
}

// LoansQuery filters the primary-market loan listing. That endpoint takes a
// form-encoded snake_case body.
type LoansQuery struct {
	Currency  string
	Quantity  int
	Sort      string
	Ascending bool
	StartPage int

	Countries       []string
	LenderCompanies []string
	LoanTypes       []string
	RiskScores      []RiskScore
	MaxInterestRate *float64
	MinInterestRate *float64
	TermFrom        *int
	TermTo          *int
}

func (q LoansQuery) quantity() int {
	if q.Quantity <= 0 {
		return 30
	}
	return q.Quantity
}

func (q LoansQuery) startPage() int {
	if q.StartPage <= 0 {
		return 1
	}
	return q.StartPage
}

func (q LoansQuery) sortField() string {
	if q.Sort == "" {
		return "interest_rate"
	}
	return q.Sort
}

// form validates the loan filters and builds the form-encoded body.
func (q LoansQuery) form(catalog *marketdata.Catalog, page, pageSize int) (url.Values, error) {
	code, err := catalog.CurrencyCode(q.Currency)
	if err != nil {
		return nil, ValidationError{Param: "currency", Reason: err.Error()}
	}
	err = validateChoices("loan_types", q.LoanTypes, marketdata.LoanTypes)
	if err != nil {
		return nil, err
	}
	err = validateRiskScores(q.RiskScores)
	if err != nil {
		return nil, err
	}

	sortField, ok := marketdata.LoansSortFields[q.sortField()]
	if !ok {
		return nil, ValidationError{Param: "sort", Reason: sortChoices(marketdata.LoansSortFields)}
	}

	sortOrder := "DESC"
	if q.Ascending {
		sortOrder = "ASC"
	}

	form := url.Values{}
	form.Set("currency", strconv.Itoa(code))
	form.Set("sort_field", sortField)
	form.Set("sort_order", sortOrder)
	form.Set("max_results", strconv.Itoa(pageSize))
	form.Set("page", strconv.Itoa(page))

	for _, country := range q.Countries {
		id, err := catalog.CountryID(country)
		if err != nil {
			return nil, ValidationError{Param: "countries", Reason: err.Error()}
		}
		form.Add("countries[]", strconv.Itoa(id))
	}
	for _, lender := range q.LenderCompanies {
		id, err := catalog.LenderID(lender)
		if err != nil {
			return nil, ValidationError{Param: "lender_companies", Reason: err.Error()}
		}
		form.Add("lender_companies[]", strconv.Itoa(id))
	}
	for _, loanType := range q.LoanTypes {
		form.Add("loan_types[]", loanType)
	}
	for _, score := range q.RiskScores {
		form.Add("risk_scores[]", score.wire())
	}
	if q.MaxInterestRate != nil {
		form.Set("max_interest_rate", strconv.FormatFloat(*q.MaxInterestRate, 'f', -1, 64))
	}
	if q.MinInterestRate != nil {
		form.Set("min_interest_rate", strconv.FormatFloat(*q.MinInterestRate, 'f', -1, 64))
	}
	if q.TermFrom != nil {
		form.Set("term_from", strconv.Itoa(*q.TermFrom))
	}
	if q.TermTo != nil {
		form.Set("term_to", strconv.Itoa(*q.TermTo))
	}

	return form, nil
}

func marshalBody(body map[string]any) (string, error) {
	serialized, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(serialized), nil
}
