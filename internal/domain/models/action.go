package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ActionKind enumerates the canonical action variants produced by the
// response normalizer. Every downstream component branches on this tag
// only, never on raw model output.
type ActionKind string

const (
	ActionCreate            ActionKind = "CREATE"
	ActionUpdate            ActionKind = "UPDATE"
	ActionDelete            ActionKind = "DELETE"
	ActionBulkDeleteExpired ActionKind = "BULK_DELETE_EXPIRED"
	ActionQueryResponse     ActionKind = "QUERY_RESPONSE"
)

// ProductDraft is a candidate product without identifier, carried by
// CREATE actions and scan candidates. Price stays nil when the model
// did not supply one.
type ProductDraft struct {
	Name       string
	Price      *float64
	Quantity   int
	ExpiryDate string
}

// Action is the canonical in-memory representation of a proposed or
// confirmed mutation. It is short-lived and never persisted.
type Action struct {
	Kind        ActionKind
	ProductID   string
	ProductIDs  []string // frozen id set for BULK_DELETE_EXPIRED
	ProductName string
	Draft       *ProductDraft  // CREATE payload
	Updates     map[string]any // UPDATE field merge
	Answer      string         // QUERY_RESPONSE text
	Description string
}

// Proposal is the wire shape surfaced to the confirmation UI and echoed
// back verbatim on confirmation. Only the keys action, product_id,
// product_name, data, answer and description ever appear; anything else
// the model produced is stripped during normalization.
type Proposal struct {
	Action      string         `json:"action"`
	ProductID   string         `json:"product_id,omitempty"`
	ProductName string         `json:"product_name,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	Answer      string         `json:"answer,omitempty"`
	Description string         `json:"description,omitempty"`
}

// Proposal converts the canonical action into its wire shape.
func (a Action) Proposal() Proposal {
	p := Proposal{
		Action:      string(a.Kind),
		ProductID:   a.ProductID,
		ProductName: a.ProductName,
		Answer:      a.Answer,
		Description: a.Description,
	}

	switch a.Kind {
	case ActionCreate:
		if a.Draft != nil {
			data := map[string]any{
				"product_name": a.Draft.Name,
				"quantity":     a.Draft.Quantity,
				"expiry_date":  a.Draft.ExpiryDate,
			}
			if a.Draft.Price != nil {
				data["price"] = *a.Draft.Price
			} else {
				data["price"] = nil
			}
			p.Data = data
		}
	case ActionUpdate:
		p.Data = a.Updates
	case ActionBulkDeleteExpired:
		ids := make([]any, 0, len(a.ProductIDs))
		for _, id := range a.ProductIDs {
			ids = append(ids, id)
		}
		p.Data = map[string]any{"ids_to_delete": ids}
	}

	return p
}

// ParseConfirmed decodes a confirmed proposal back into a canonical
// action. Only the shape is trusted; target existence is re-checked by
// the executor before any mutation.
func ParseConfirmed(p Proposal) (Action, error) {
	kind := ActionKind(p.Action)

	act := Action{
		Kind:        kind,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Answer:      p.Answer,
		Description: p.Description,
	}

	switch kind {
	case ActionCreate:
		draft := ProductDraft{Quantity: 1}
		if name, ok := p.Data["product_name"].(string); ok {
			draft.Name = name
		}
		if price, ok := toFloat(p.Data["price"]); ok {
			draft.Price = &price
		}
		if qty, ok := toInt(p.Data["quantity"]); ok {
			draft.Quantity = qty
		}
		if expiry, ok := p.Data["expiry_date"].(string); ok {
			draft.ExpiryDate = expiry
		}
		act.Draft = &draft
	case ActionUpdate:
		act.Updates = p.Data
	case ActionBulkDeleteExpired:
		raw, ok := p.Data["ids_to_delete"].([]any)
		if !ok {
			return Action{}, fmt.Errorf("confirmed %s action carries no ids_to_delete", kind)
		}
		for _, v := range raw {
			if id, ok := v.(string); ok && id != "" {
				act.ProductIDs = append(act.ProductIDs, id)
			}
		}
	case ActionDelete, ActionQueryResponse:
	default:
		return Action{}, fmt.Errorf("invalid action %q", p.Action)
	}

	return act, nil
}

// PriceString renders a price the way it is shown in confirmation
// descriptions, without trailing zeros.
func PriceString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
