package mintos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// detail fetches one record endpoint with a short-lived cache in front of it.
// Detail lookups tend to repeat within a session (the same note inspected
// from several listings), and the underlying records barely change.
func (c *Client) detail(ctx context.Context, cacheKey, path string, kind EntityKind) (Row, error) {
	if cached, ok := c.detailCache.Get(cacheKey); ok {
		return cached, nil
	}

	var raw map[string]any
	err := c.request(ctx, requestSpec{method: "GET", path: path, out: &raw})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNotFound
	}

	row := normalizeRecord(kind, raw)
	c.detailCache.Add(cacheKey, row)
	return row, nil
}

func notFound(err error) bool {
	var serverErr ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	message := strings.ToLower(serverErr.Message)
	return strings.Contains(message, "404") || strings.Contains(message, "not found")
}

// GetNoteDetail retrieves the full record of one note investment by ISIN.
func (c *Client) GetNoteDetail(ctx context.Context, isin string) (Row, error) {
	ctx, span := tracer.Start(ctx, "client:GetNoteDetail")
	defer span.End()

	if isin == "" {
		return nil, ValidationError{Param: "isin", Reason: "must not be empty"}
	}

	row, err := c.detail(ctx, "note:"+isin, fmt.Sprintf(noteDetailPath, isin), KindNotes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve the note detail")
		return nil, err
	}
	return row, nil
}

// GetClaimDetail retrieves the full record of one legacy claim by its ID.
func (c *Client) GetClaimDetail(ctx context.Context, claimId string) (Row, error) {
	ctx, span := tracer.Start(ctx, "client:GetClaimDetail")
	defer span.End()

	if claimId == "" {
		return nil, ValidationError{Param: "claim_id", Reason: "must not be empty"}
	}

	row, err := c.detail(ctx, "claim:"+claimId, fmt.Sprintf(claimDetailPath, claimId), KindClaims)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve the claim detail")
		return nil, err
	}
	return row, nil
}

// GetNoteSchedule retrieves the payment schedule of one note by ISIN, one row
// per planned payment in server order.
func (c *Client) GetNoteSchedule(ctx context.Context, isin string) ([]Row, error) {
	ctx, span := tracer.Start(ctx, "client:GetNoteSchedule")
	defer span.End()

	if isin == "" {
		return nil, ValidationError{Param: "isin", Reason: "must not be empty"}
	}

	var parsed struct {
		Items []map[string]any `json:"items"`
	}
	err := c.request(ctx, requestSpec{
		method: "GET",
		path:   fmt.Sprintf(noteSchedulePath, isin),
		out:    &parsed,
	})
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve the note schedule")
		return nil, err
	}
	if len(parsed.Items) == 0 {
		return nil, ErrNotFound
	}

	rows := make([]Row, len(parsed.Items))
	for i, item := range parsed.Items {
		rows[i] = normalizeRecord(KindNotes, item)
	}
	return rows, nil
}
