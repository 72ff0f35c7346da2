package mintos

import (
	"context"

	"lendfolio/lib/marketdata"

	"go.opentelemetry.io/otel/codes"
)

// GetInvestments retrieves the account's note investments matching the query,
// as a normalized table keyed by ISIN. Current and finished holdings live on
// separate endpoints selected by the query.
func (c *Client) GetInvestments(ctx context.Context, query InvestmentsQuery) (Table, error) {
	ctx, span := tracer.Start(ctx, "client:GetInvestments")
	defer span.End()

	wire, err := query.validate(c.Catalog)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected investment filters")
		return Table{}, err
	}
	c.ensureCatalog(ctx)

	path := finishedInvestmentsPath
	if query.Current {
		path = currentInvestmentsPath
	}

	fetch := func(ctx context.Context, page int) (pageData, error) {
		body, err := marshalBody(query.body(wire, page, marketdata.MaxPageSize))
		if err != nil {
			return pageData{}, err
		}
		return c.listPage(ctx, requestSpec{
			method:   "POST",
			path:     path,
			jsonBody: body,
		})
	}

	items, err := fetchPages(ctx, fetch, query.startPage(), query.quantity(), marketdata.MaxPageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve investments")
		return Table{}, err
	}
	return NormalizeRecords(KindNotes, items), nil
}
