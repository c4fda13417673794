package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidateCreateReady(t *testing.T) {
	p := newTestProposer(newMemRepo(), &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{
		Kind: models.ActionCreate,
		Draft: &models.ProductDraft{
			Name:       "sourdough",
			Price:      floatPtr(8.99),
			Quantity:   5,
			ExpiryDate: "2025-01-15",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ActionCreate, act.Kind)
	assert.Equal(t, "Create new product 'sourdough' (Quantity: 5) with price ₹8.99 and expiry date 2025-01-15.", act.Description)
}

func TestValidateCreateMissingFieldsEnumeratesAll(t *testing.T) {
	p := newTestProposer(newMemRepo(), &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{
		Kind:  models.ActionCreate,
		Draft: &models.ProductDraft{Name: "brown bread"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ActionQueryResponse, act.Kind, "missing fields downgrade to a clarification")
	assert.Contains(t, act.Answer, "price")
	assert.Contains(t, act.Answer, "quantity")
	assert.Contains(t, act.Answer, "expiry date")
	assert.Contains(t, act.Answer, "'brown bread'", "captured fields are echoed back")
	assert.Contains(t, act.Answer, " and ")
}

func TestValidateCreateZeroPriceAndQuantityCountAsMissing(t *testing.T) {
	p := newTestProposer(newMemRepo(), &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{
		Kind: models.ActionCreate,
		Draft: &models.ProductDraft{
			Name:       "freebie",
			Price:      floatPtr(0),
			Quantity:   0,
			ExpiryDate: "2025-06-01",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ActionQueryResponse, act.Kind)
	assert.Contains(t, act.Answer, "price and quantity")
}

func TestValidateCreateMissingExpiryOnlyAsksForFormat(t *testing.T) {
	p := newTestProposer(newMemRepo(), &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{
		Kind: models.ActionCreate,
		Draft: &models.ProductDraft{
			Name:     "milk",
			Price:    floatPtr(4.5),
			Quantity: 2,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ActionQueryResponse, act.Kind)
	assert.Contains(t, act.Answer, "YYYY-MM-DD")
}

func TestValidateBulkDeleteFreezesExpiredSet(t *testing.T) {
	repo := newMemRepo()
	expired1 := repo.seed("Sourdough Loaf", 5.50, 1, "2024-12-30")
	expired2 := repo.seed("Imported Olives", 8.50, 3, "2024-12-02")
	repo.seed("Fresh Pasta", 6.00, 1, "2025-01-01") // expires today, not yet expired
	repo.seed("Coffee Beans", 18.00, 9, "2026-01-01")

	p := newTestProposer(repo, &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{Kind: models.ActionBulkDeleteExpired})

	require.NoError(t, err)
	assert.Equal(t, models.ActionBulkDeleteExpired, act.Kind)
	assert.ElementsMatch(t, []string{expired1.ID.Hex(), expired2.ID.Hex()}, act.ProductIDs)
	assert.Contains(t, act.Description, "2 expired product(s)")
	assert.Contains(t, act.Description, "'Sourdough Loaf'")
	assert.Contains(t, act.Description, "'Imported Olives'")
	assert.Contains(t, act.Description, "Are you sure", "bulk delete always requires confirmation")
}

func TestValidateBulkDeleteNothingExpired(t *testing.T) {
	repo := newMemRepo()
	repo.seed("Coffee Beans", 18.00, 9, "2026-01-01")

	p := newTestProposer(repo, &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{Kind: models.ActionBulkDeleteExpired})

	require.NoError(t, err)
	assert.Equal(t, models.ActionQueryResponse, act.Kind)
	assert.Equal(t, "There are no expired products to delete.", act.Answer)
}

func TestValidateDeleteDescribesTarget(t *testing.T) {
	repo := newMemRepo()
	target := repo.seed("Hummus", 4.20, 7, "2025-02-01")

	p := newTestProposer(repo, &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{
		Kind:      models.ActionDelete,
		ProductID: target.ID.Hex(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Hummus", act.ProductName)
	assert.Equal(t, "Delete the product 'Hummus' (All 7 of them).", act.Description)
}

func TestValidateUpdateDescribesChanges(t *testing.T) {
	repo := newMemRepo()
	target := repo.seed("Desi Eggs", 380, 12, "2025-03-01")

	p := newTestProposer(repo, &stubLLM{}, "2025-01-01")

	act, err := p.validate(context.Background(), models.Action{
		Kind:      models.ActionUpdate,
		ProductID: target.ID.Hex(),
		Updates:   map[string]any{"price": 420.0, "quantity": 10.0},
	})

	require.NoError(t, err)
	assert.Equal(t, "Update the product 'Desi Eggs': set price to '420', set quantity to '10'.", act.Description)
}

func TestValidateTargetNotFound(t *testing.T) {
	p := newTestProposer(newMemRepo(), &stubLLM{}, "2025-01-01")

	_, err := p.validate(context.Background(), models.Action{
		Kind:      models.ActionUpdate,
		ProductID: "bfbfbfbfbfbfbfbfbfbfbfbf",
		Updates:   map[string]any{"price": 1.0},
	})

	assert.ErrorIs(t, err, mongodb.ErrNotFound)
}
