package actions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/venturalabs/ventura/internal/domain/models"
)

// validate checks a canonical action against the required-field policy
// and enriches it with the human-readable description shown for
// confirmation. A CREATE missing required data is downgraded to a
// QUERY_RESPONSE clarification rather than failing; this is control
// flow, not an error path.
func (p *Proposer) validate(ctx context.Context, act models.Action) (models.Action, error) {
	switch act.Kind {
	case models.ActionCreate:
		return p.validateCreate(act), nil
	case models.ActionBulkDeleteExpired:
		return p.resolveBulkDelete(ctx, act)
	case models.ActionUpdate, models.ActionDelete:
		return p.describeTargeted(ctx, act)
	default:
		return act, nil
	}
}

func (p *Proposer) validateCreate(act models.Action) models.Action {
	draft := act.Draft
	if draft == nil {
		draft = &models.ProductDraft{}
	}

	var missing []string
	if draft.Name == "" {
		missing = append(missing, "product name")
	}
	if zeroIsMissing && (draft.Price == nil || *draft.Price == 0) {
		missing = append(missing, "price")
	}
	if zeroIsMissing && draft.Quantity == 0 {
		missing = append(missing, "quantity")
	}
	if draft.ExpiryDate == "" {
		missing = append(missing, "expiry date")
	}

	if len(missing) > 0 {
		return models.Action{
			Kind:   models.ActionQueryResponse,
			Answer: missingFieldsAnswer(draft, missing),
		}
	}

	act.Description = fmt.Sprintf(
		"Create new product '%s' (Quantity: %d) with price ₹%s and expiry date %s.",
		draft.Name, draft.Quantity, models.PriceString(*draft.Price), draft.ExpiryDate)
	return act
}

// missingFieldsAnswer builds the clarification question, reusing
// whatever fields were captured. Every missing field is named, joined
// with "and"; an expiry date missing on its own gets a more specific
// prompt asking for the exact format.
func missingFieldsAnswer(draft *models.ProductDraft, missing []string) string {
	var got []string
	if draft.Name != "" {
		got = append(got, fmt.Sprintf("'%s'", draft.Name))
	}
	if draft.Price != nil && *draft.Price != 0 {
		got = append(got, fmt.Sprintf("at ₹%s", models.PriceString(*draft.Price)))
	}
	if draft.Quantity != 0 {
		got = append(got, fmt.Sprintf("(%d units)", draft.Quantity))
	}

	gotStr := "the product"
	if len(got) > 0 {
		gotStr = strings.Join(got, " ")
	}

	if len(missing) == 1 && missing[0] == "expiry date" {
		return fmt.Sprintf("I can add %s, but I need the exact expiry date. Please provide it in YYYY-MM-DD format.", gotStr)
	}

	return fmt.Sprintf("I can add %s, but I'm missing the %s. Could you please provide it?",
		gotStr, strings.Join(missing, " and "))
}

// resolveBulkDelete freezes the id set of currently expired products
// into the action so the executor deletes exactly what the human
// confirmed, even if more items expire in between. It never
// auto-deletes; the enriched proposal still requires confirmation.
func (p *Proposer) resolveBulkDelete(ctx context.Context, act models.Action) (models.Action, error) {
	today := p.now().Format(models.DateFormat)
	expired, err := p.repo.FindExpiringBefore(ctx, today)
	if err != nil {
		return models.Action{}, fmt.Errorf("resolving expired products: %w", err)
	}

	if len(expired) == 0 {
		return models.Action{
			Kind:   models.ActionQueryResponse,
			Answer: "There are no expired products to delete.",
		}, nil
	}

	names := make([]string, 0, len(expired))
	for _, product := range expired {
		act.ProductIDs = append(act.ProductIDs, product.ID.Hex())
		names = append(names, fmt.Sprintf("'%s'", product.Name))
	}
	act.Description = fmt.Sprintf(
		"Are you sure you want to permanently delete %d expired product(s): %s?",
		len(expired), strings.Join(names, ", "))
	return act, nil
}

// describeTargeted confirms the target exists and attaches the
// human-readable summary for UPDATE and DELETE proposals. A missing
// target surfaces the store's not-found condition untouched.
func (p *Proposer) describeTargeted(ctx context.Context, act models.Action) (models.Action, error) {
	if act.ProductID == "" {
		return act, nil
	}

	product, err := p.repo.GetByID(ctx, act.ProductID)
	if err != nil {
		return models.Action{}, err
	}

	act.ProductName = product.Name
	switch act.Kind {
	case models.ActionDelete:
		act.Description = fmt.Sprintf("Delete the product '%s' (All %d of them).", product.Name, product.Quantity)
	case models.ActionUpdate:
		fields := make([]string, 0, len(act.Updates))
		for field := range act.Updates {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		changes := make([]string, 0, len(fields))
		for _, field := range fields {
			changes = append(changes, fmt.Sprintf("set %s to '%v'", field, act.Updates[field]))
		}
		act.Description = fmt.Sprintf("Update the product '%s': %s.", product.Name, strings.Join(changes, ", "))
	}
	return act, nil
}
