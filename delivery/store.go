package delivery

import (
	"context"
	"errors"
	"time"

	"agromarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store against the deliveries collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) Insert(ctx context.Context, d *models.Delivery) error {
	_, err := m.col.InsertOne(ctx, d)
	return err
}

func (m *MongoStore) GetByID(ctx context.Context, deliveryID string) (*models.Delivery, error) {
	var d models.Delivery
	err := m.col.FindOne(ctx, bson.M{"deliveryId": deliveryID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDeliveryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *MongoStore) GetByOrder(ctx context.Context, orderID string) (*models.Delivery, error) {
	var d models.Delivery
	err := m.col.FindOne(ctx, bson.M{"order": orderID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDeliveryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *MongoStore) Update(ctx context.Context, d *models.Delivery) error {
	d.UpdatedAt = time.Now()
	res, err := m.col.ReplaceOne(ctx, bson.M{"deliveryId": d.DeliveryID}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrDeliveryNotFound
	}
	return nil
}

func (m *MongoStore) List(ctx context.Context, status models.DeliveryStatus) ([]models.Delivery, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return m.find(ctx, filter)
}

func (m *MongoStore) ListByDeliverer(ctx context.Context, delivererID string, status models.DeliveryStatus) ([]models.Delivery, error) {
	filter := bson.M{"deliverer": delivererID}
	if status != "" {
		filter["status"] = status
	}
	return m.find(ctx, filter)
}

func (m *MongoStore) find(ctx context.Context, filter bson.M) ([]models.Delivery, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Delivery
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Delivery{}
	}
	return out, nil
}
