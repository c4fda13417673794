// Package alerts implements the scheduled scan for expired and
// low-stock products and the email report built from it.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
)

// EmailSender abstracts the outbound mail channel.
type EmailSender interface {
	SendHTML(ctx context.Context, subject, htmlBody string) error
}

// Service scans the inventory and emails a combined expired/low-stock
// report.
type Service struct {
	repo        mongodb.ProductRepository
	sender      EmailSender
	minQuantity int
	logger      *zap.Logger
	now         func() time.Time
}

// NewService constructs the alert service. minQuantity is the threshold
// below which stock counts as low.
func NewService(repo mongodb.ProductRepository, sender EmailSender, minQuantity int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		sender:      sender,
		minQuantity: minQuantity,
		logger:      logger,
		now:         time.Now,
	}
}

// Run performs one alert pass. It is a no-op when nothing needs
// attention.
func (s *Service) Run(ctx context.Context) error {
	today := s.now().Format(models.DateFormat)

	expired, err := s.repo.FindExpiringBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("scanning for expired products: %w", err)
	}
	lowStock, err := s.repo.FindLowStock(ctx, s.minQuantity)
	if err != nil {
		return fmt.Errorf("scanning for low stock: %w", err)
	}

	// Combine uniquely; a product can be both expired and low on stock.
	seen := make(map[string]bool, len(expired))
	combined := make([]models.Product, 0, len(expired)+len(lowStock))
	for _, p := range expired {
		seen[p.ID.Hex()] = true
		combined = append(combined, p)
	}
	for _, p := range lowStock {
		if !seen[p.ID.Hex()] {
			combined = append(combined, p)
		}
	}

	if len(combined) == 0 {
		s.logger.Info("no expired or low-stock items found")
		return nil
	}

	subject := fmt.Sprintf("Inventory Alert: %d item(s) need attention (%s)", len(combined), today)
	body := buildHTMLBody(expired, lowStock, s.minQuantity, today)

	if err := s.sender.SendHTML(ctx, subject, body); err != nil {
		return err
	}

	s.logger.Info("inventory alert sent",
		zap.Int("expired", len(expired)),
		zap.Int("low_stock", len(lowStock)))
	return nil
}

func buildHTMLBody(expired, lowStock []models.Product, minQuantity int, today string) string {
	var b strings.Builder

	b.WriteString("<html><body>")
	b.WriteString(fmt.Sprintf("<h2>Inventory Alert Report (%s)</h2>", today))

	if len(expired) > 0 {
		b.WriteString(fmt.Sprintf("<h3>Expired items (%d)</h3>", len(expired)))
		writeTable(&b, expired)
	}
	if len(lowStock) > 0 {
		b.WriteString(fmt.Sprintf("<h3>Low stock items (quantity below %d)</h3>", minQuantity))
		writeTable(&b, lowStock)
	}

	b.WriteString("<p>Review these items in the dashboard or ask the assistant to delete all expired items.</p>")
	b.WriteString("</body></html>")
	return b.String()
}

func writeTable(b *strings.Builder, products []models.Product) {
	b.WriteString(`<table border="1" cellpadding="4" cellspacing="0">`)
	b.WriteString("<tr><th>Name</th><th>Quantity</th><th>Price</th><th>Expiry date</th></tr>")
	for _, p := range products {
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>₹%s</td><td>%s</td></tr>",
			p.Name, p.Quantity, models.PriceString(p.Price), p.ExpiryDate))
	}
	b.WriteString("</table>")
}
