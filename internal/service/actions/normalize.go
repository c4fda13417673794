package actions

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/venturalabs/ventura/internal/domain/models"
)

// Disambiguation policies preserved from the upstream behavior. They
// are deliberately named so they stay visible and revisitable instead
// of being buried in control flow.
const (
	// relativeExpiryWins: when a payload carries both an absolute
	// expiry_date and a relative_expiry offset, the resolved relative
	// date silently replaces the absolute one.
	relativeExpiryWins = true

	// firstCandidateWins: a product_id list is narrowed to its first
	// element, discarding the remaining candidates.
	firstCandidateWins = true

	// zeroIsMissing: a zero price or quantity is treated the same as an
	// absent one and downgrades a CREATE to a clarification question.
	// A legitimately free item therefore still triggers a follow-up.
	zeroIsMissing = true
)

// nameKeys lists the synonymous keys a product name may arrive under,
// in priority order.
var nameKeys = []string{"product_name", "name", "item_name"}

// Normalize converts raw decoded model output into the canonical action
// shape. The action keyword is matched case-insensitively and ADD is a
// synonym for CREATE. An unrecognized or missing action yields the zero
// Action; callers must treat that as "no actionable proposal". All keys
// outside the canonical shape are dropped here so hallucinated fields
// never leak downstream.
func Normalize(raw map[string]any, today time.Time) models.Action {
	keyword, _ := raw["action"].(string)

	switch strings.ToUpper(strings.TrimSpace(keyword)) {
	case "ADD", "CREATE":
		return normalizeCreate(raw, today)
	case "UPDATE":
		return normalizeUpdate(raw, today)
	case "DELETE":
		return models.Action{
			Kind:      models.ActionDelete,
			ProductID: resolveProductID(raw["product_id"]),
		}
	case "BULK_DELETE_EXPIRED":
		return models.Action{Kind: models.ActionBulkDeleteExpired}
	case "QUERY_RESPONSE":
		answer, _ := raw["answer"].(string)
		return models.Action{Kind: models.ActionQueryResponse, Answer: answer}
	default:
		return models.Action{}
	}
}

func normalizeCreate(raw map[string]any, today time.Time) models.Action {
	// Prefer a nested data object; fall back to reading the same field
	// names from the top level for models that answer flat.
	source := raw
	if nested, ok := raw["data"].(map[string]any); ok {
		source = nested
	}

	draft := models.ProductDraft{
		Name:     firstString(source, nameKeys...),
		Quantity: 1,
	}
	if price, ok := anyFloat(source["price"]); ok {
		draft.Price = &price
	}
	if qty, ok := anyInt(source["quantity"]); ok {
		draft.Quantity = qty
	}
	draft.ExpiryDate = resolveExpiry(source, today)

	return models.Action{Kind: models.ActionCreate, Draft: &draft}
}

func normalizeUpdate(raw map[string]any, today time.Time) models.Action {
	updates, ok := raw["data"].(map[string]any)
	if !ok {
		updates = map[string]any{}
	}

	if rel, ok := updates["relative_expiry"].(map[string]any); ok {
		resolved, err := ResolveRelativeDate(today, rel["days"])
		delete(updates, "relative_expiry")
		if err != nil {
			updates["expiry_date"] = nil
		} else {
			updates["expiry_date"] = resolved
		}
	}

	return models.Action{
		Kind:      models.ActionUpdate,
		ProductID: resolveProductID(raw["product_id"]),
		Updates:   updates,
	}
}

// resolveExpiry picks the expiry date for a candidate payload. A
// relative offset, when present, takes precedence over any absolute
// date; an unparsable offset leaves the expiry unset rather than
// failing the whole proposal.
func resolveExpiry(source map[string]any, today time.Time) string {
	if rel, ok := source["relative_expiry"].(map[string]any); ok && relativeExpiryWins {
		resolved, err := ResolveRelativeDate(today, rel["days"])
		if err != nil {
			return ""
		}
		return resolved
	}
	expiry, _ := source["expiry_date"].(string)
	return expiry
}

// resolveProductID accepts a scalar identifier or a list of candidate
// identifiers; lists are narrowed to their first element.
func resolveProductID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case json.Number:
		return id.String()
	case []any:
		if len(id) == 0 || !firstCandidateWins {
			return ""
		}
		return resolveProductID(id[0])
	default:
		return ""
	}
}

func firstString(source map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := source[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func anyFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func anyInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}
