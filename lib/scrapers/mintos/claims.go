package mintos

import (
	"context"

	"lendfolio/lib/marketdata"

	"go.opentelemetry.io/otel/codes"
)

// GetClaims retrieves the account's legacy claim investments matching the
// query, as a normalized table keyed by claim ID.
func (c *Client) GetClaims(ctx context.Context, query ClaimsQuery) (Table, error) {
	ctx, span := tracer.Start(ctx, "client:GetClaims")
	defer span.End()

	// validate once up front so bad filters never reach the network
	_, err := query.params(c.Catalog, query.startPage(), marketdata.MaxPageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected claim filters")
		return Table{}, err
	}
	c.ensureCatalog(ctx)

	fetch := func(ctx context.Context, page int) (pageData, error) {
		params, err := query.params(c.Catalog, page, marketdata.MaxPageSize)
		if err != nil {
			return pageData{}, err
		}
		return c.listPage(ctx, requestSpec{
			method: "GET",
			path:   claimsPath,
			query:  encodeParams(params),
		})
	}

	items, err := fetchPages(ctx, fetch, query.startPage(), query.quantity(), marketdata.MaxPageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve claims")
		return Table{}, err
	}
	return NormalizeRecords(KindClaims, items), nil
}
