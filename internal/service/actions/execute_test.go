package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
)

func TestExecuteCreateRoundTrip(t *testing.T) {
	repo := newMemRepo()
	e := NewExecutor(repo, nil)

	confirmed := models.Proposal{
		Action: "CREATE",
		Data: map[string]any{
			"product_name": "sourdough",
			"price":        8.99,
			"quantity":     5.0, // JSON numbers decode as float64
			"expiry_date":  "2025-01-15",
		},
	}

	result, err := e.Execute(context.Background(), confirmed)

	require.NoError(t, err)
	assert.Equal(t, "Product 'sourdough' created successfully.", result.Message)
	require.NotEmpty(t, result.ProductID)

	persisted, err := repo.GetByID(context.Background(), result.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "sourdough", persisted.Name)
	assert.Equal(t, 8.99, persisted.Price)
	assert.Equal(t, 5, persisted.Quantity)
	assert.Equal(t, "2025-01-15", persisted.ExpiryDate)
}

func TestExecuteCreateRejectsBadDrafts(t *testing.T) {
	e := NewExecutor(newMemRepo(), nil)

	tests := []struct {
		name string
		data map[string]any
	}{
		{"missing name", map[string]any{"price": 1.0, "quantity": 1.0, "expiry_date": "2025-01-15"}},
		{"negative price", map[string]any{"product_name": "x", "price": -1.0, "quantity": 1.0, "expiry_date": "2025-01-15"}},
		{"bad expiry format", map[string]any{"product_name": "x", "price": 1.0, "quantity": 1.0, "expiry_date": "15/01/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Execute(context.Background(), models.Proposal{Action: "CREATE", Data: tt.data})
			assert.ErrorIs(t, err, ErrInvalidAction)
		})
	}
}

func TestExecuteUpdateMergesFields(t *testing.T) {
	repo := newMemRepo()
	target := repo.seed("Desi Eggs", 380, 12, "2025-03-01")
	e := NewExecutor(repo, nil)

	result, err := e.Execute(context.Background(), models.Proposal{
		Action:    "UPDATE",
		ProductID: target.ID.Hex(),
		Data:      map[string]any{"price": 420.0},
	})

	require.NoError(t, err)
	assert.Equal(t, "Product 'Desi Eggs' updated successfully.", result.Message)

	updated, err := repo.GetByID(context.Background(), target.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 420.0, updated.Price)
	assert.Equal(t, 12, updated.Quantity, "untouched fields survive the merge")
}

func TestExecuteUpdateNotFoundLeavesStoreUnchanged(t *testing.T) {
	repo := newMemRepo()
	repo.seed("Hummus", 4.20, 7, "2025-02-01")
	e := NewExecutor(repo, nil)

	before := repo.count()
	_, err := e.Execute(context.Background(), models.Proposal{
		Action:    "UPDATE",
		ProductID: "bfbfbfbfbfbfbfbfbfbfbfbf",
		Data:      map[string]any{"price": 1.0},
	})

	assert.ErrorIs(t, err, mongodb.ErrNotFound)
	assert.Equal(t, before, repo.count())
}

func TestExecuteDeleteReportsRemovedName(t *testing.T) {
	repo := newMemRepo()
	target := repo.seed("Hummus", 4.20, 7, "2025-02-01")
	e := NewExecutor(repo, nil)

	result, err := e.Execute(context.Background(), models.Proposal{
		Action:    "DELETE",
		ProductID: target.ID.Hex(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Product 'Hummus' deleted successfully.", result.Message)
	assert.Equal(t, 0, repo.count())
}

func TestExecuteBulkDeleteAppliesFrozenSetOnly(t *testing.T) {
	repo := newMemRepo()
	frozen1 := repo.seed("Sourdough Loaf", 5.50, 1, "2024-12-30")
	frozen2 := repo.seed("Imported Olives", 8.50, 3, "2024-12-02")
	// Expired after the proposal was made; not part of the confirmed set.
	lateExpiry := repo.seed("Salmon Fillet", 15.00, 2, "2024-12-31")

	e := NewExecutor(repo, nil)

	result, err := e.Execute(context.Background(), models.Proposal{
		Action: "BULK_DELETE_EXPIRED",
		Data:   map[string]any{"ids_to_delete": []any{frozen1.ID.Hex(), frozen2.ID.Hex()}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.DeletedCount)
	assert.Equal(t, "2 expired product(s) deleted successfully.", result.Message)

	_, err = repo.GetByID(context.Background(), lateExpiry.ID.Hex())
	assert.NoError(t, err, "items outside the frozen set survive")
}

func TestExecuteBulkDeleteWithoutIDs(t *testing.T) {
	e := NewExecutor(newMemRepo(), nil)

	_, err := e.Execute(context.Background(), models.Proposal{
		Action: "BULK_DELETE_EXPIRED",
		Data:   map[string]any{"ids_to_delete": []any{}},
	})

	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestExecuteRejectsUnusableShapes(t *testing.T) {
	e := NewExecutor(newMemRepo(), nil)

	tests := []struct {
		name      string
		confirmed models.Proposal
	}{
		{"missing action", models.Proposal{}},
		{"unknown action", models.Proposal{Action: "EXPLODE"}},
		{"query response is not executable", models.Proposal{Action: "QUERY_RESPONSE", Answer: "hi"}},
		{"update without target", models.Proposal{Action: "UPDATE", Data: map[string]any{"price": 1.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Execute(context.Background(), tt.confirmed)
			assert.ErrorIs(t, err, ErrInvalidAction)
		})
	}
}
