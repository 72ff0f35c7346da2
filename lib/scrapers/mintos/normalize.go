package mintos

import (
	"strconv"
	"strings"
	"time"

	"lendfolio/lib/marketdata"
)

// EntityKind selects the normalizer variant. The three entity families are
// not uniform: notes and primary-market loans come back camelCase with
// nested money objects, claims come back snake_case. Each family keeps the
// field naming its endpoint emits.
type EntityKind int

const (
	KindNotes EntityKind = iota
	KindClaims
	KindLoans
)

func (k EntityKind) keyField() (raw string, index string) {
	if k == KindClaims {
		return "id", "ID"
	}
	return "isin", "ISIN"
}

// Known date-bearing fields per family. The server emits these as
// millisecond epoch integers.
var dateFields = map[EntityKind]map[string]bool{
	KindNotes: {
		"createdAt":       true,
		"maturityDate":    true,
		"deletedAt":       true,
		"nextPaymentDate": true,
		"purchaseDate":    true,
		// payment schedule rows
		"date":               true,
		"plannedPaymentDate": true,
	},
	KindClaims: {
		"purchased_at":              true,
		"next_planned_payment_date": true,
		"finished_at":               true,
		"created_at":                true,
	},
	KindLoans: {
		"createdAt":    true,
		"maturityDate": true,
		"closingDate":  true,
	},
}

// NormalizeRecords converts raw server records into a flat typed table
// indexed by the family's natural key.
func NormalizeRecords(kind EntityKind, items []map[string]any) Table {
	_, index := kind.keyField()
	table := Table{KeyField: index}
	for _, item := range items {
		table.Rows = append(table.Rows, normalizeRecord(kind, item))
	}
	table.fillMissing()
	return table
}

// normalizeRecord flattens one raw record. Flattening is idempotent: running
// it over an already-flat record changes nothing.
func normalizeRecord(kind EntityKind, raw map[string]any) Row {
	out := Row{}
	for k, v := range raw {
		flattenField(out, kind, k, v)
	}

	rawKey, index := kind.keyField()
	if v, ok := out[rawKey]; ok {
		delete(out, rawKey)
		out[index] = keyString(v)
	} else if v, ok := out[index]; ok {
		out[index] = keyString(v)
	}

	return out
}

func keyString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

func flattenField(out Row, kind EntityKind, key string, value any) {
	switch v := value.(type) {
	case map[string]any:
		if amount, ok := moneyObject(v); ok {
			out[key] = coerceScalar(amount)
			// first-seen currency wins when nested money fields disagree;
			// this matches the upstream behavior, see DESIGN.md
			if cur, ok := v["currency"]; ok {
				if _, exists := out["currency"]; !exists {
					out["currency"] = cur
				}
			}
			return
		}
		if score, subscores, ok := scoreObject(v); ok {
			out[key] = coerceScalar(score)
			for sk, sv := range subscores {
				out[sk] = coerceScalar(sv)
			}
			return
		}
		// other nested objects dissolve into their children
		for ck, cv := range v {
			flattenField(out, kind, ck, cv)
		}
	case []any:
		coerced := make([]any, len(v))
		for i, item := range v {
			if m, ok := item.(map[string]any); ok {
				flat := Row{}
				for ck, cv := range m {
					flattenField(flat, kind, ck, cv)
				}
				coerced[i] = map[string]any(flat)
				continue
			}
			coerced[i] = coerceScalar(item)
		}
		out[key] = coerced
	default:
		if dateFields[kind][key] {
			if t, ok := coerceDate(value); ok {
				out[key] = t
				return
			}
		}
		// the claims endpoint formats some money fields for display,
		// symbol included
		if kind == KindClaims {
			if s, ok := value.(string); ok {
				if parsed, err := marketdata.ParseDisplayAmount(s); err == nil {
					out[key] = parsed.Amount
					if _, exists := out["currency"]; !exists {
						out["currency"] = parsed.Currency
					}
					return
				}
			}
		}
		out[key] = coerceScalar(value)
	}
}

func moneyObject(m map[string]any) (any, bool) {
	amount, hasAmount := m["amount"]
	_, hasCurrency := m["currency"]
	if hasAmount && hasCurrency && len(m) == 2 {
		return amount, true
	}
	return nil, false
}

func scoreObject(m map[string]any) (any, map[string]any, bool) {
	score, hasScore := m["score"]
	subscores, hasSubscores := m["subscores"].(map[string]any)
	if hasScore && hasSubscores {
		return score, subscores, true
	}
	return nil, nil, false
}

// coerceScalar turns numeric strings (including percentages) into floats and
// nulls into the explicit sentinel; everything else passes through.
func coerceScalar(v any) any {
	switch x := v.(type) {
	case string:
		trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		f, err := strconv.ParseFloat(trimmed, 64)
		if err == nil && trimmed != "" {
			return f
		}
		return x
	case nil:
		return NotAvailable
	default:
		return v
	}
}

// coerceDate interprets a millisecond-epoch value as a calendar date.
// Already-converted time values are kept as is.
func coerceDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case float64:
		return msToDate(int64(x)), true
	case int64:
		return msToDate(x), true
	case string:
		ms, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return msToDate(ms), true
	default:
		return time.Time{}, false
	}
}

func msToDate(ms int64) time.Time {
	t := time.UnixMilli(ms).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// camelToSnake rewrites a camelCase field name into snake_case. Account
// summary endpoints emit camelCase but the client reports those maps in
// snake_case, matching the entity families that already use it.
func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
