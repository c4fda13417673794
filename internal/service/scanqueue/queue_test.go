package scanqueue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturalabs/ventura/internal/domain/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestQueueDeliversInOrderExactlyOnce(t *testing.T) {
	q := New()
	q.Enqueue(models.ScannedCandidate{Name: "A"})
	q.Enqueue(models.ScannedCandidate{Name: "B"})

	first, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "A", first.Name)

	second, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "B", second.Name)

	_, ok = q.TryDequeue()
	assert.False(t, ok)

	// Still empty on a repeated attempt; nothing is replayed.
	_, ok = q.TryDequeue()
	assert.False(t, ok)
}

func TestQueueLen(t *testing.T) {
	q := New()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(models.ScannedCandidate{Name: "A"})
	q.Enqueue(models.ScannedCandidate{Name: "B"})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}

func TestNextProposalCompleteCandidate(t *testing.T) {
	q := New()
	q.Enqueue(models.ScannedCandidate{
		Name:       "Amul Butter",
		Price:      floatPtr(58),
		Quantity:   intPtr(3),
		ExpiryDate: "2025-09-01",
	})

	proposal, ok := q.NextProposal()

	require.True(t, ok)
	assert.Equal(t, "CREATE", proposal.Action)
	assert.Equal(t, "Amul Butter", proposal.Data["product_name"])
	assert.Equal(t, 58.0, proposal.Data["price"])
	assert.Equal(t, 3, proposal.Data["quantity"])
	assert.Equal(t, "2025-09-01", proposal.Data["expiry_date"])
	assert.Equal(t,
		"Confirm Scanned Product: Add 'Amul Butter' (Quantity: 3) with price ₹58 and expiry date 2025-09-01?",
		proposal.Description)
}

func TestNextProposalDefaultsSparseCandidate(t *testing.T) {
	q := New()
	q.Enqueue(models.ScannedCandidate{Name: "Mystery Jar"})

	proposal, ok := q.NextProposal()

	require.True(t, ok)
	assert.Equal(t, 0.0, proposal.Data["price"], "absent price defaults to zero")
	assert.Equal(t, 1, proposal.Data["quantity"], "absent quantity defaults to one")
	assert.Equal(t, "", proposal.Data["expiry_date"])
	assert.Contains(t, proposal.Description, "expiry date N/A", "placeholders only in the description")
}

func TestNextProposalEmptyQueue(t *testing.T) {
	_, ok := New().NextProposal()
	assert.False(t, ok)
}

func TestQueueConcurrentProducersLoseNothing(t *testing.T) {
	q := New()
	const producers, perProducer = 8, 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Enqueue(models.ScannedCandidate{Name: fmt.Sprintf("p%d-%d", i, j)})
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for {
		candidate, ok := q.TryDequeue()
		if !ok {
			break
		}
		assert.False(t, seen[candidate.Name], "candidate %s delivered twice", candidate.Name)
		seen[candidate.Name] = true
	}
	assert.Len(t, seen, producers*perProducer)
}
