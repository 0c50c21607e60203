package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medirural/internal/domain"
)

// MongoOrders заказы в коллекции orders
type MongoOrders struct{ coll *mongo.Collection }

func NewMongoOrders(db *mongo.Database) *MongoOrders {
	return &MongoOrders{coll: db.Collection(ordersCollection)}
}

var _ OrderRepository = (*MongoOrders)(nil)

func (r *MongoOrders) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

func (r *MongoOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func orderQuery(f OrderFilter) bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user"] = f.UserID
	}
	if f.Pincode != "" {
		q["shipping.pincode"] = f.Pincode
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.IsSubscription != nil {
		q["isSubscription"] = *f.IsSubscription
	}
	return q
}

func (r *MongoOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, orderQuery(f), opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoOrders) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o domain.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	ok, err := exists(ctx, r.coll, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}

func (r *MongoOrders) DueSubscriptions(ctx context.Context, now time.Time, limit int) ([]domain.Order, error) {
	filter := bson.M{
		"isSubscription":                       true,
		"status":                               bson.M{"$ne": domain.OrderStatusCancelled},
		"subscriptionDetails.nextDeliveryDate": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "subscriptionDetails.nextDeliveryDate", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoOrders) ClaimSubscription(ctx context.Context, id string, expected, next time.Time) (bool, error) {
	filter := bson.M{"_id": id, "subscriptionDetails.nextDeliveryDate": expected}
	update := bson.M{"$set": bson.M{
		"subscriptionDetails.nextDeliveryDate": next,
		"updatedAt":                            time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	ok, err := exists(ctx, r.coll, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNotFound
	}
	return false, nil
}
