// Package scanqueue holds the hand-off buffer between the asynchronous
// photo-ingestion producer and the polling review consumer.
package scanqueue

import (
	"fmt"
	"sync"

	"github.com/venturalabs/ventura/internal/domain/models"
)

// Queue is an unbounded first-in-first-out buffer of scan candidates.
// Enqueue never blocks and never fails; dequeue is non-blocking and
// delivers each item to at most one caller. There is no peek and no
// replay. The buffer is unbounded: a producer outpacing the consumer
// grows it without limit, matching the source contract.
type Queue struct {
	mu    sync.Mutex
	items []models.ScannedCandidate
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends a candidate to the tail of the queue.
func (q *Queue) Enqueue(candidate models.ScannedCandidate) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, candidate)
}

// TryDequeue removes and returns the oldest candidate, or reports an
// empty queue immediately instead of waiting.
func (q *Queue) TryDequeue() (models.ScannedCandidate, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return models.ScannedCandidate{}, false
	}
	candidate := q.items[0]
	q.items = q.items[1:]
	return candidate, true
}

// Len reports the number of queued candidates.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// NextProposal dequeues the oldest candidate and reshapes it into a
// CREATE proposal mirroring the proposer's output, so the same
// confirmation and execution path applies. An absent price defaults to
// 0.00 and an absent quantity to 1.
func (q *Queue) NextProposal() (models.Proposal, bool) {
	candidate, ok := q.TryDequeue()
	if !ok {
		return models.Proposal{}, false
	}

	price := 0.0
	if candidate.Price != nil {
		price = *candidate.Price
	}
	quantity := 1
	if candidate.Quantity != nil {
		quantity = *candidate.Quantity
	}

	name := candidate.Name
	if name == "" {
		name = "N/A"
	}
	expiry := candidate.ExpiryDate
	if expiry == "" {
		expiry = "N/A"
	}

	return models.Proposal{
		Action: string(models.ActionCreate),
		Data: map[string]any{
			"product_name": candidate.Name,
			"price":        price,
			"quantity":     quantity,
			"expiry_date":  candidate.ExpiryDate,
		},
		Description: fmt.Sprintf(
			"Confirm Scanned Product: Add '%s' (Quantity: %d) with price ₹%s and expiry date %s?",
			name, quantity, models.PriceString(price), expiry),
	}, true
}
