// Package discount runs the scheduled reasoning pass that tags the
// product closest to its expiry date for discounting.
package discount

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
	"github.com/venturalabs/ventura/pkg/clients/reasoning"
)

// discountTag is appended to a product name exactly once.
const discountTag = "[DISCOUNT]"

// Service asks the reasoning backend to pick the product nearest to
// expiry (but not yet expired) and marks it for discount.
type Service struct {
	repo   mongodb.ProductRepository
	llm    reasoning.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the discount service.
func NewService(repo mongodb.ProductRepository, llm reasoning.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, llm: llm, logger: logger, now: time.Now}
}

// Run performs one discount-candidate pass.
func (s *Service) Run(ctx context.Context) error {
	inventory, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}
	if len(inventory) == 0 {
		s.logger.Info("inventory empty, skipping discount pass")
		return nil
	}

	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return fmt.Errorf("serializing inventory: %w", err)
	}

	prompt := fmt.Sprintf(discountPrompt, s.now().Format(models.DateFormat), string(inventoryJSON))

	responseText, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("discount reasoning call: %w", err)
	}

	var result struct {
		ProductID string `json:"product_id"`
		Action    string `json:"action"`
	}
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		return fmt.Errorf("failed to unmarshal discount response: %w. Response was: %s", err, responseText)
	}

	if result.Action != "MARK_FOR_DISCOUNT" || result.ProductID == "" {
		s.logger.Info("no discount action recommended by the model")
		return nil
	}

	product, err := s.repo.GetByID(ctx, result.ProductID)
	if err != nil {
		return err
	}

	if strings.Contains(product.Name, discountTag) {
		s.logger.Info("product already marked for discount", zap.String("product_id", result.ProductID))
		return nil
	}

	tagged := fmt.Sprintf("%s %s", product.Name, discountTag)
	if _, err := s.repo.Update(ctx, result.ProductID, map[string]any{"product_name": tagged}); err != nil {
		return err
	}

	s.logger.Info("product marked for discount",
		zap.String("product_id", result.ProductID),
		zap.String("name", tagged))
	return nil
}

const discountPrompt = `You are an inventory management assistant. The current date is %s.
Based on the following JSON data of products, identify the single product that is closest to its expiration date but not yet expired.

Your task is to return a single, clean JSON object with two keys:
1. "product_id": The id of the product you have identified.
2. "action": A string suggesting an action. For the identified product, the action should be "MARK_FOR_DISCOUNT".

Do not provide any explanation or introductory text, only the JSON object.

Inventory Data:
%s
`
