package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zypso/storefront-service/internal/domain"
)

// ProductRepository implements domain.ProductRepository using MongoDB
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *mongo.Database) *ProductRepository {
	collection := db.Collection("products")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "featured", Value: -1},
				{Key: "name", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ProductRepository{collection: collection}
}

// Save upserts a product by id
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": product.ID}
	update := bson.M{"$set": product}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves a product by id, nil when absent
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &product, nil
}

// Find retrieves products matching the filter, featured first then by name.
// Search matches name and description case-insensitively.
func (r *ProductRepository) Find(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	mongoFilter := bson.M{}
	if filter.Category != "" {
		mongoFilter["category"] = filter.Category
	}
	if filter.Search != "" {
		mongoFilter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "featured", Value: -1},
		{Key: "name", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	return products, nil
}

// Delete removes a product from the catalog
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CategoryRepository implements domain.CategoryRepository using MongoDB
type CategoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	collection := db.Collection("categories")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "rank", Value: 1}},
	})

	return &CategoryRepository{collection: collection}
}

// Save upserts a category by id
func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": category.ID}
	update := bson.M{"$set": category}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindAll retrieves all categories in rank order
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []*domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}
