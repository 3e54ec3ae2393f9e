package cart

import (
	"context"
	"errors"
	"time"

	"agromarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store against the carts collection, one document per
// consumer keyed by user.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := m.col.FindOne(ctx, bson.M{"user": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *MongoStore) Save(ctx context.Context, c *models.Cart) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.col.ReplaceOne(ctx, bson.M{"user": c.UserID}, c, opts)
	return err
}

func (m *MongoStore) Clear(ctx context.Context, userID string) error {
	_, err := m.col.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
		"$set": bson.M{"items": []models.CartItem{}, "totalAmount": 0, "updatedAt": time.Now()},
	})
	return err
}
