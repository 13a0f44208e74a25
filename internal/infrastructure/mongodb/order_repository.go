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

// OrderRepository implements domain.OrderRepository using MongoDB
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	collection := db.Collection("orders")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "customer.phone", Value: 1},
				{Key: "placedAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "sessionId", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "placedAt", Value: -1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &OrderRepository{collection: collection}
}

// Save upserts an order by id
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": order.ID}
	update := bson.M{"$set": order}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves an order by id, nil when absent
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

// FindByPhone retrieves a customer's orders, newest first
func (r *OrderRepository) FindByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	filter := bson.M{"customer.phone": phone}
	opts := options.Find().SetSort(bson.D{{Key: "placedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}
