package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
	"github.com/venturalabs/ventura/pkg/clients/reasoning"
)

// ErrBackendUnavailable indicates the reasoning backend could not be
// reached or answered with a non-success status. Never retried here;
// retry policy, if any, belongs to the caller.
var ErrBackendUnavailable = errors.New("reasoning backend unavailable")

// ErrMalformedModelOutput indicates the backend answered but the
// response was not valid JSON or carried no recognizable action.
var ErrMalformedModelOutput = errors.New("malformed model output")

// Proposer turns a free-text user query into a single confirmed-ready
// proposal. It reads the store but never mutates it, and invokes the
// reasoning backend exactly once per call.
type Proposer struct {
	repo   mongodb.ProductRepository
	llm    reasoning.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewProposer wires a proposer instance.
func NewProposer(repo mongodb.ProductRepository, llm reasoning.Client, logger *zap.Logger) *Proposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proposer{
		repo:   repo,
		llm:    llm,
		logger: logger,
		now:    time.Now,
	}
}

// Propose runs the full pipeline: inventory snapshot → prompt → one
// reasoning call → normalize → validate → describe. The returned
// proposal is surfaced to a human for confirmation and echoed back
// verbatim to the executor.
func (p *Proposer) Propose(ctx context.Context, query string) (models.Proposal, error) {
	inventory, err := p.repo.List(ctx)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("loading inventory snapshot: %w", err)
	}

	today := p.now()
	prompt, err := buildPrompt(query, inventory, today)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("building prompt: %w", err)
	}

	responseText, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		p.logger.Warn("model returned invalid json", zap.String("response", responseText))
		return models.Proposal{}, fmt.Errorf("%w: %v", ErrMalformedModelOutput, err)
	}

	act := Normalize(raw, today)
	if act.Kind == "" {
		return models.Proposal{}, fmt.Errorf("%w: model did not propose a valid action", ErrMalformedModelOutput)
	}

	act, err = p.validate(ctx, act)
	if err != nil {
		return models.Proposal{}, err
	}

	p.logger.Info("action proposed",
		zap.String("action", string(act.Kind)),
		zap.String("product_id", act.ProductID))

	return act.Proposal(), nil
}
