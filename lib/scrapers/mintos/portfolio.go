package mintos

import (
	"context"
	"strconv"

	"lendfolio/lib/marketdata"

	"go.opentelemetry.io/otel/codes"
)

// snakeSummary rewrites a summary payload into snake_case keys with numeric
// strings coerced to floats, recursively. The account summary endpoints emit
// camelCase with stringly-typed amounts; reporting them snake_case keeps all
// client output in one naming convention.
func snakeSummary(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		key := camelToSnake(k)
		if nested, ok := v.(map[string]any); ok {
			out[key] = snakeSummary(nested)
			continue
		}
		out[key] = coerceScalar(v)
	}
	return out
}

func (c *Client) summary(ctx context.Context, path, currency string) (map[string]any, error) {
	code, err := c.Catalog.CurrencyCode(currency)
	if err != nil {
		return nil, ValidationError{Param: "currency", Reason: err.Error()}
	}
	c.ensureCatalog(ctx)

	var raw map[string]any
	err = c.request(ctx, requestSpec{
		method: "GET",
		path:   path,
		query:  "currencyIsoCode=" + strconv.Itoa(code),
		out:    &raw,
	})
	if err != nil {
		return nil, err
	}
	return snakeSummary(raw), nil
}

// GetPortfolioData retrieves the account's portfolio summary in the given
// currency: funds, outstanding principal and payment state.
func (c *Client) GetPortfolioData(ctx context.Context, currency string) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "client:GetPortfolioData")
	defer span.End()

	data, err := c.summary(ctx, portfolioPath, currency)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve the portfolio summary")
		return nil, err
	}
	return data, nil
}

// GetNetAnnualReturn retrieves the account's net annual return percentages,
// keyed by currency name.
func (c *Client) GetNetAnnualReturn(ctx context.Context) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "client:GetNetAnnualReturn")
	defer span.End()

	var parsed struct {
		NetAnnualReturns map[string]any `json:"netAnnualReturns"`
	}
	err := c.request(ctx, requestSpec{method: "GET", path: narPath, out: &parsed})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve net annual returns")
		return nil, err
	}

	// the endpoint keys returns by ISO 4217 numeric code
	out := make(map[string]any, len(parsed.NetAnnualReturns))
	for code, value := range parsed.NetAnnualReturns {
		out[currencyName(code)] = coerceScalar(value)
	}
	return out, nil
}

func currencyName(isoCode string) string {
	code, err := strconv.Atoi(isoCode)
	if err != nil {
		return isoCode
	}
	for name, c := range marketdata.Currencies {
		if c == code {
			return name
		}
	}
	return isoCode
}

// GetOverview retrieves aggregate figures for the account in the given
// currency: total invested, earnings and interest breakdowns.
func (c *Client) GetOverview(ctx context.Context, currency string) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "client:GetOverview")
	defer span.End()

	data, err := c.summary(ctx, overviewPath, currency)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve the account overview")
		return nil, err
	}
	return data, nil
}
