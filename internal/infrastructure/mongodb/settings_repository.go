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

// The shop has a single settings document, kept under a fixed id so the
// config feed can replace it wholesale.
const settingsDocumentID = "shop"

// SettingsRepository implements domain.SettingsRepository using MongoDB
type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection("settings")}
}

// Load retrieves the settings document, nil when it has never been written
func (r *SettingsRepository) Load(ctx context.Context) (*domain.ShopSettings, error) {
	var doc struct {
		ID       string              `bson:"_id"`
		Settings domain.ShopSettings `bson:"settings"`
	}

	err := r.collection.FindOne(ctx, bson.M{"_id": settingsDocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &doc.Settings, nil
}

// Save replaces the settings document wholesale
func (r *SettingsRepository) Save(ctx context.Context, settings *domain.ShopSettings) error {
	settings.UpdatedAt = time.Now().UTC()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": settingsDocumentID}
	update := bson.M{"$set": bson.M{"settings": settings}}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}
