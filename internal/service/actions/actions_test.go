package actions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
)

// memRepo is an in-memory stand-in for the Mongo product repository,
// preserving insertion order for deterministic snapshots.
type memRepo struct {
	mu       sync.RWMutex
	products []models.Product
}

func newMemRepo() *memRepo { return &memRepo{} }

func (m *memRepo) List(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, mongodb.ErrNotFound)
}

func (m *memRepo) Create(_ context.Context, product models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products = append(m.products, product)
	return product, nil
}

func (m *memRepo) Update(_ context.Context, id string, fields map[string]any) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID.Hex() != id {
			continue
		}
		for field, value := range fields {
			switch field {
			case "product_name":
				p.Name = value.(string)
			case "price":
				switch v := value.(type) {
				case float64:
					p.Price = v
				case int:
					p.Price = float64(v)
				}
			case "quantity":
				switch v := value.(type) {
				case int:
					p.Quantity = v
				case float64:
					p.Quantity = int(v)
				}
			case "expiry_date":
				p.ExpiryDate = value.(string)
			default:
				return models.Product{}, fmt.Errorf("field %q: %w", field, mongodb.ErrUnknownField)
			}
		}
		m.products[i] = p
		return p, nil
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, mongodb.ErrNotFound)
}

func (m *memRepo) Delete(_ context.Context, id string) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID.Hex() == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, mongodb.ErrNotFound)
}

func (m *memRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var kept []models.Product
	var removed int64
	for _, p := range m.products {
		if wanted[p.ID.Hex()] {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	m.products = kept
	return removed, nil
}

func (m *memRepo) FindExpiringBefore(_ context.Context, cutoff string) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Product
	for _, p := range m.products {
		if p.ExpiryDate < cutoff {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) FindLowStock(_ context.Context, threshold int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Product
	for _, p := range m.products {
		if p.Quantity < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

func (m *memRepo) seed(name string, price float64, quantity int, expiry string) models.Product {
	p, _ := m.Create(context.Background(), models.Product{
		Name:       name,
		Price:      price,
		Quantity:   quantity,
		ExpiryDate: expiry,
	})
	return p
}

// stubLLM answers every Generate call with a canned response.
type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func fixedClock(iso string) func() time.Time {
	t, err := time.Parse(models.DateFormat, iso)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestProposer(repo mongodb.ProductRepository, llm *stubLLM, today string) *Proposer {
	p := NewProposer(repo, llm, nil)
	p.now = fixedClock(today)
	return p
}
