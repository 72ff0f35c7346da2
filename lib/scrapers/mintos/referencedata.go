package mintos

import (
	"context"
	"log/slog"

	"lendfolio/lib/marketdata"
)

// GetCurrencies lists the currencies the marketplace currently accepts.
func (c *Client) GetCurrencies(ctx context.Context) ([]marketdata.Currency, error) {
	ctx, span := tracer.Start(ctx, "client:GetCurrencies")
	defer span.End()

	var parsed struct {
		Items []marketdata.Currency `json:"items"`
	}
	err := c.request(ctx, requestSpec{method: "GET", path: currenciesPath, out: &parsed})
	if err != nil {
		return nil, err
	}
	return parsed.Items, nil
}

// GetLendingCompanies lists the lending companies active on the marketplace.
func (c *Client) GetLendingCompanies(ctx context.Context) ([]marketdata.LendingCompany, error) {
	ctx, span := tracer.Start(ctx, "client:GetLendingCompanies")
	defer span.End()

	var parsed struct {
		Items []marketdata.LendingCompany `json:"items"`
	}
	err := c.request(ctx, requestSpec{method: "GET", path: lendingCompaniesPath, out: &parsed})
	if err != nil {
		return nil, err
	}
	return parsed.Items, nil
}

// RefreshCatalog overlays live marketplace reference data on the static
// lookup tables so filter validation accepts newly listed lenders and
// currencies.
func (c *Client) RefreshCatalog(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:RefreshCatalog")
	defer span.End()

	currencies, err := c.GetCurrencies(ctx)
	if err != nil {
		return err
	}
	lenders, err := c.GetLendingCompanies(ctx)
	if err != nil {
		return err
	}
	c.Catalog.Populate(currencies, lenders)
	return nil
}

// ensureCatalog refreshes the catalog once per client. The static tables are
// a workable fallback, so a refresh failure only costs recently listed
// entries and is not fatal.
func (c *Client) ensureCatalog(ctx context.Context) {
	if c.Catalog.Populated() {
		return
	}
	err := c.RefreshCatalog(ctx)
	if err != nil {
		slog.WarnContext(ctx, "catalog refresh failed, using static tables", "err", err)
	}
}
