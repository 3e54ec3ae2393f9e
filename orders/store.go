package orders

import (
	"context"
	"errors"
	"time"

	"agromarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store against the orders collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) Insert(ctx context.Context, o *models.Order) error {
	_, err := m.col.InsertOne(ctx, o)
	return err
}

func (m *MongoStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	err := m.col.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Transition flips the status and appends the history entry in one
// conditional update. The filter on the current status makes concurrent
// writers lose cleanly instead of double-applying.
func (m *MongoStore) Transition(ctx context.Context, orderID string, from []models.OrderStatus, to models.OrderStatus, entry models.StatusEntry, stampDelivered bool) (bool, error) {
	filter := bson.M{
		"orderId": orderID,
		"status":  bson.M{"$in": from},
	}
	set := bson.M{"status": to, "updatedAt": time.Now()}
	if stampDelivered {
		set["deliveryInfo.actualDeliveryDate"] = time.Now()
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"statusHistory": entry},
	}

	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// AssignDeliverer atomically claims an unassigned order for a deliverer and
// mirrors the processing status. Two racing accepts can match at most once.
func (m *MongoStore) AssignDeliverer(ctx context.Context, orderID, delivererID string, entry models.StatusEntry) (bool, error) {
	filter := bson.M{
		"orderId": orderID,
		"status":  bson.M{"$in": []models.OrderStatus{models.OrderPending, models.OrderConfirmed, models.OrderProcessing}},
		"$or": []bson.M{
			{"deliveryInfo.deliverer": ""},
			{"deliveryInfo.deliverer": bson.M{"$exists": false}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"deliveryInfo.deliverer": delivererID,
			"status":                 models.OrderProcessing,
			"updatedAt":              time.Now(),
		},
		"$push": bson.M{"statusHistory": entry},
	}

	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (m *MongoStore) List(ctx context.Context, q ListQuery) ([]models.Order, int64, error) {
	filter := bson.M{}
	if q.ConsumerID != "" {
		filter["consumer"] = q.ConsumerID
	}
	if q.ProducerID != "" {
		filter["items.producer"] = q.ProducerID
	}
	if q.DelivererID != "" {
		filter["deliveryInfo.deliverer"] = q.DelivererID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.From != nil || q.To != nil {
		created := bson.M{}
		if q.From != nil {
			created["$gte"] = *q.From
		}
		if q.To != nil {
			created["$lte"] = *q.To
		}
		filter["createdAt"] = created
	}

	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip((q.Page - 1) * q.Limit).
		SetLimit(q.Limit)

	cursor, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	if out == nil {
		out = []models.Order{}
	}
	return out, total, nil
}

// FindAvailable lists unassigned home-delivery orders still worth claiming.
// Deliverer zone is stored on the profile but deliberately not used as a
// filter, to keep the deliverer pool as wide as possible.
func (m *MongoStore) FindAvailable(ctx context.Context) ([]models.Order, error) {
	filter := bson.M{
		"status":              bson.M{"$in": []models.OrderStatus{models.OrderPending, models.OrderConfirmed, models.OrderProcessing}},
		"deliveryInfo.method": models.DeliverHome,
		"$or": []bson.M{
			{"deliveryInfo.deliverer": ""},
			{"deliveryInfo.deliverer": bson.M{"$exists": false}},
		},
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Order{}
	}
	return out, nil
}
