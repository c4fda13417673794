// Command seed resets the product collection and loads the demo
// fixture set, with expiry dates computed relative to today.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/config"
	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
	"github.com/venturalabs/ventura/pkg/logger"
)

type fixture struct {
	name       string
	price      float64
	expiryDays int
}

var fixtures = []fixture{
	{"Organic Milk", 4.99, 45},
	{"Cheddar Cheese", 6.50, 60},
	{"Whole Wheat Bread", 3.25, 5},
	{"Greek Yogurt", 1.75, 25},
	{"Free-Range Eggs", 5.00, 28},
	{"Apple Juice", 3.99, 180},
	{"Baby Spinach", 2.99, 8},
	{"Chicken Breast", 12.50, 3},
	{"Avocado", 2.10, 6},
	{"Sourdough Loaf", 5.50, -2},
	{"Hummus", 4.20, 15},
	{"Almond Milk", 3.50, 50},
	{"Salmon Fillet", 15.00, 1},
	{"Craft Beer 6-Pack", 14.99, 90},
	{"Bag of Oranges", 7.00, 12},
	{"Imported Olives", 8.50, -30},
	{"Artisanal Salami", 11.25, 40},
	{"Kombucha", 4.75, 20},
	{"Fresh Pasta", 6.00, 0},
	{"Premium Coffee Beans", 18.00, 365},
}

func main() {
	envFile := flag.String("env", "", "optional .env file to load")
	keep := flag.Bool("keep", false, "keep existing products instead of purging")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := mongodb.NewMongoProductRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() { _ = repo.Close(context.Background()) }()

	if !*keep {
		removed, err := repo.Purge(ctx)
		if err != nil {
			baseLogger.Fatal("failed to purge products", zap.Error(err))
		}
		baseLogger.Info("existing products deleted", zap.Int64("count", removed))
	}

	today := time.Now()
	for _, f := range fixtures {
		product := models.Product{
			Name:       f.name,
			Price:      f.price,
			Quantity:   1,
			ExpiryDate: today.AddDate(0, 0, f.expiryDays).Format(models.DateFormat),
		}
		if _, err := repo.Create(ctx, product); err != nil {
			baseLogger.Fatal("failed to insert fixture", zap.String("name", f.name), zap.Error(err))
		}
	}

	baseLogger.Info("products seeded", zap.Int("count", len(fixtures)))
}
