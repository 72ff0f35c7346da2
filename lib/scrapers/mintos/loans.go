package mintos

import (
	"context"

	"lendfolio/lib/marketdata"

	"go.opentelemetry.io/otel/codes"
)

// GetLoans retrieves primary-market note offerings matching the query, as a
// normalized table keyed by ISIN. This listing is market-wide, not scoped to
// the account's holdings.
func (c *Client) GetLoans(ctx context.Context, query LoansQuery) (Table, error) {
	ctx, span := tracer.Start(ctx, "client:GetLoans")
	defer span.End()

	_, err := query.form(c.Catalog, query.startPage(), marketdata.MaxPageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected loan filters")
		return Table{}, err
	}
	c.ensureCatalog(ctx)

	fetch := func(ctx context.Context, page int) (pageData, error) {
		form, err := query.form(c.Catalog, page, marketdata.MaxPageSize)
		if err != nil {
			return pageData{}, err
		}
		return c.listPage(ctx, requestSpec{
			method:   "POST",
			path:     loansPath,
			formBody: form,
		})
	}

	items, err := fetchPages(ctx, fetch, query.startPage(), query.quantity(), marketdata.MaxPageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve loan offerings")
		return Table{}, err
	}
	return NormalizeRecords(KindLoans, items), nil
}
