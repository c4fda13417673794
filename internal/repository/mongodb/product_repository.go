package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/venturalabs/ventura/internal/domain/models"
)

// ErrNotFound is returned when the referenced product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrUnknownField is returned when an update names a field outside the
// product schema. Unknown fields are rejected, never silently dropped.
var ErrUnknownField = errors.New("unknown product field")

// allowedUpdateFields is the set of mutable product fields.
var allowedUpdateFields = map[string]bool{
	"product_name": true,
	"price":        true,
	"quantity":     true,
	"expiry_date":  true,
}

// ProductRepository defines the persistence operations the action
// pipeline and the alert jobs rely on.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, id string, fields map[string]any) (models.Product, error)
	Delete(ctx context.Context, id string) (models.Product, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	FindExpiringBefore(ctx context.Context, cutoff string) ([]models.Product, error)
	FindLowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

// MongoProductRepository implements ProductRepository on MongoDB.
type MongoProductRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoProductRepository connects to MongoDB and verifies the
// connection with a ping.
func NewMongoProductRepository(ctx context.Context, uri, dbName string) (*MongoProductRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoProductRepository{
		client:     client,
		collection: client.Database(dbName).Collection("products"),
	}, nil
}

// List returns the full inventory ordered by expiry date.
func (r *MongoProductRepository) List(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "expiry_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return models.Product{}, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return product, nil
}

func (r *MongoProductRepository) Create(ctx context.Context, product models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return product, nil
}

// Update applies a partial field merge onto the existing record.
func (r *MongoProductRepository) Update(ctx context.Context, id string, fields map[string]any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	set := bson.M{}
	for field, value := range fields {
		if !allowedUpdateFields[field] {
			return models.Product{}, fmt.Errorf("field %q: %w", field, ErrUnknownField)
		}
		set[field] = value
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return models.Product{}, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the product and returns the removed record.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	var removed models.Product
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&removed)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return models.Product{}, fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return removed, nil
}

// DeleteByIDs removes exactly the given id set in one operation and
// reports the actual number of deleted records.
func (r *MongoProductRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete products: %w", err)
	}
	return result.DeletedCount, nil
}

// FindExpiringBefore returns products whose expiry date is strictly
// before the cutoff. ISO dates compare lexicographically.
func (r *MongoProductRepository) FindExpiringBefore(ctx context.Context, cutoff string) ([]models.Product, error) {
	return r.find(ctx, bson.M{"expiry_date": bson.M{"$lt": cutoff}})
}

// FindLowStock returns products whose quantity is strictly below the
// threshold.
func (r *MongoProductRepository) FindLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	return r.find(ctx, bson.M{"quantity": bson.M{"$lt": threshold}})
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Purge removes every product. Used by the seeder to reset fixtures.
func (r *MongoProductRepository) Purge(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to purge products: %w", err)
	}
	return result.DeletedCount, nil
}

// Close closes the MongoDB connection.
func (r *MongoProductRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
