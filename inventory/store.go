package inventory

import (
	"context"
	"errors"
	"time"

	"agromarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProducts implements ProductStore against the products collection.
type MongoProducts struct {
	col *mongo.Collection
}

func NewMongoProducts(col *mongo.Collection) *MongoProducts {
	return &MongoProducts{col: col}
}

func (m *MongoProducts) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := m.col.FindOne(ctx, bson.M{"productId": productID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock is the conditional decrement closing the concurrent-checkout
// race: the filter only matches while stock still covers qty, so two
// simultaneous reservations can never drive stock negative.
func (m *MongoProducts) DecrementStock(ctx context.Context, productID string, qty int) (int, error) {
	filter := bson.M{
		"productId": productID,
		"stock":     bson.M{"$gte": qty},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the product is gone or the stock ran out; look it up to tell.
		count, cerr := m.col.CountDocuments(ctx, bson.M{"productId": productID})
		if cerr != nil {
			return 0, cerr
		}
		if count == 0 {
			return 0, ErrProductNotFound
		}
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}

func (m *MongoProducts) IncrementStock(ctx context.Context, productID string, qty int) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"productId": productID}, bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
