package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
)

// ErrInvalidAction indicates a confirmed action whose shape cannot be
// executed (missing action keyword, missing target, empty bulk set).
var ErrInvalidAction = errors.New("invalid action")

// ExecuteResult reports the outcome of applying a confirmed action.
type ExecuteResult struct {
	Message      string `json:"message"`
	ProductID    string `json:"product_id,omitempty"`
	DeletedCount int64  `json:"deleted_count,omitempty"`
}

// Executor applies confirmed actions to the store. It never re-derives
// dates or re-resolves ambiguous identifiers; it operates strictly on
// the concrete fields handed back by the confirming party, re-checking
// only that targets still exist.
type Executor struct {
	repo   mongodb.ProductRepository
	logger *zap.Logger
}

// NewExecutor wires an executor instance.
func NewExecutor(repo mongodb.ProductRepository, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{repo: repo, logger: logger}
}

// Execute applies one confirmed proposal and reports the outcome.
func (e *Executor) Execute(ctx context.Context, confirmed models.Proposal) (ExecuteResult, error) {
	if confirmed.Action == "" {
		return ExecuteResult{}, fmt.Errorf("%w: 'action' is missing", ErrInvalidAction)
	}

	act, err := models.ParseConfirmed(confirmed)
	if err != nil {
		return ExecuteResult{}, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	switch act.Kind {
	case models.ActionCreate:
		return e.executeCreate(ctx, act)
	case models.ActionBulkDeleteExpired:
		return e.executeBulkDelete(ctx, act)
	case models.ActionUpdate, models.ActionDelete:
		if act.ProductID == "" {
			return ExecuteResult{}, fmt.Errorf("%w: 'product_id' is missing for %s", ErrInvalidAction, act.Kind)
		}
		if act.Kind == models.ActionUpdate {
			return e.executeUpdate(ctx, act)
		}
		return e.executeDelete(ctx, act)
	default:
		return ExecuteResult{}, fmt.Errorf("%w: %q is not executable", ErrInvalidAction, confirmed.Action)
	}
}

func (e *Executor) executeCreate(ctx context.Context, act models.Action) (ExecuteResult, error) {
	draft := act.Draft
	if draft == nil {
		return ExecuteResult{}, fmt.Errorf("%w: CREATE carries no product data", ErrInvalidAction)
	}
	if err := validateDraft(draft); err != nil {
		return ExecuteResult{}, err
	}

	product := models.Product{
		Name:       draft.Name,
		Quantity:   draft.Quantity,
		ExpiryDate: draft.ExpiryDate,
	}
	if draft.Price != nil {
		product.Price = *draft.Price
	}

	created, err := e.repo.Create(ctx, product)
	if err != nil {
		return ExecuteResult{}, err
	}

	e.logger.Info("product created",
		zap.String("product_id", created.ID.Hex()),
		zap.String("name", created.Name))

	return ExecuteResult{
		Message:   fmt.Sprintf("Product '%s' created successfully.", created.Name),
		ProductID: created.ID.Hex(),
	}, nil
}

func (e *Executor) executeUpdate(ctx context.Context, act models.Action) (ExecuteResult, error) {
	if err := validateUpdateValues(act.Updates); err != nil {
		return ExecuteResult{}, err
	}

	updated, err := e.repo.Update(ctx, act.ProductID, act.Updates)
	if err != nil {
		return ExecuteResult{}, err
	}

	e.logger.Info("product updated", zap.String("product_id", act.ProductID))

	return ExecuteResult{
		Message:   fmt.Sprintf("Product '%s' updated successfully.", updated.Name),
		ProductID: act.ProductID,
	}, nil
}

func (e *Executor) executeDelete(ctx context.Context, act models.Action) (ExecuteResult, error) {
	removed, err := e.repo.Delete(ctx, act.ProductID)
	if err != nil {
		return ExecuteResult{}, err
	}

	e.logger.Info("product deleted",
		zap.String("product_id", act.ProductID),
		zap.String("name", removed.Name))

	return ExecuteResult{
		Message:   fmt.Sprintf("Product '%s' deleted successfully.", removed.Name),
		ProductID: act.ProductID,
	}, nil
}

// executeBulkDelete removes exactly the id set frozen into the
// confirmed action; it is never re-queried here, so the human confirms
// against a fixed set even if more items expired in the meantime. The
// actual deleted count is reported, not the assumed one.
func (e *Executor) executeBulkDelete(ctx context.Context, act models.Action) (ExecuteResult, error) {
	if len(act.ProductIDs) == 0 {
		return ExecuteResult{}, fmt.Errorf("%w: no expired product IDs were provided for deletion", ErrInvalidAction)
	}

	count, err := e.repo.DeleteByIDs(ctx, act.ProductIDs)
	if err != nil {
		return ExecuteResult{}, err
	}

	e.logger.Info("expired products deleted", zap.Int64("count", count))

	return ExecuteResult{
		Message:      fmt.Sprintf("%d expired product(s) deleted successfully.", count),
		DeletedCount: count,
	}, nil
}

// validateDraft applies field-level constraints before persisting a
// CREATE payload. Scan-originated proposals legitimately carry a zero
// price, so only negatives are rejected here.
func validateDraft(draft *models.ProductDraft) error {
	if draft.Name == "" {
		return fmt.Errorf("%w: product_name is required", ErrInvalidAction)
	}
	if draft.Price != nil && *draft.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidAction)
	}
	if draft.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidAction)
	}
	if _, err := time.Parse(models.DateFormat, draft.ExpiryDate); err != nil {
		return fmt.Errorf("%w: expiry_date must be a valid %s date", ErrInvalidAction, models.DateFormat)
	}
	return nil
}

// validateUpdateValues type-checks the partial merge before it reaches
// the store, normalizing JSON numbers to the stored types. Unknown
// field names are left for the store to reject.
func validateUpdateValues(updates map[string]any) error {
	for field, value := range updates {
		switch field {
		case "product_name":
			if s, ok := value.(string); !ok || s == "" {
				return fmt.Errorf("%w: product_name must be a non-empty string", ErrInvalidAction)
			}
		case "price":
			price, ok := anyFloat(value)
			if !ok || price < 0 {
				return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidAction)
			}
			updates[field] = price
		case "quantity":
			qty, ok := anyInt(value)
			if !ok {
				return fmt.Errorf("%w: quantity must be an integer", ErrInvalidAction)
			}
			updates[field] = qty
		case "expiry_date":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: expiry_date must be a %s date", ErrInvalidAction, models.DateFormat)
			}
			if _, err := time.Parse(models.DateFormat, s); err != nil {
				return fmt.Errorf("%w: expiry_date must be a %s date", ErrInvalidAction, models.DateFormat)
			}
		}
	}
	return nil
}
