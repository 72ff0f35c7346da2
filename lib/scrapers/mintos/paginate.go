package mintos

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// pageData is one page of a listing response.
type pageData struct {
	Items   []map[string]any
	Page    int
	Total   int
	HasNext *bool
}

type pageFetcher func(ctx context.Context, page int) (pageData, error)

// fetchPages drives a paged listing until `quantity` records are gathered or
// the server runs out of data, then truncates to exactly `quantity` (fewer if
// fewer exist, never padded).
//
// Only the first page is fetched alone: its pagination metadata decides how
// many more pages can yield data, and those are requested as one concurrent
// batch since later pages don't depend on each other. A failure on any page
// fails the whole retrieval; no partial result is returned.
func fetchPages(ctx context.Context, fetch pageFetcher, startPage, quantity, pageSize int) ([]map[string]any, error) {
	first, err := fetch(ctx, startPage)
	if err != nil {
		return nil, err
	}

	items := first.Items
	if len(items) >= quantity {
		return items[:quantity], nil
	}
	if first.HasNext != nil && !*first.HasNext {
		return items, nil
	}
	if len(first.Items) < pageSize {
		// a short page means the server is out of data regardless of the
		// reported total
		return items, nil
	}

	remaining := first.Total - startPage*pageSize
	if remaining <= 0 {
		return items, nil
	}

	want := quantity - len(items)
	if remaining < want {
		want = remaining
	}
	extraPages := (want + pageSize - 1) / pageSize

	slog.DebugContext(
		ctx, "fanning out page fetches",
		"start_page", startPage,
		"extra_pages", extraPages,
		"reported_total", first.Total,
	)

	results := make([]pageData, extraPages)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < extraPages; i++ {
		g.Go(func() error {
			page, err := fetch(gctx, startPage+1+i)
			if err != nil {
				return err
			}
			results[i] = page
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return nil, err
	}

	for _, page := range results {
		items = append(items, page.Items...)
	}
	if len(items) > quantity {
		items = items[:quantity]
	}
	return items, nil
}
