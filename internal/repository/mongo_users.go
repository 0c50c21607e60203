package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medirural/internal/domain"
)

// MongoUsers учётные записи в коллекции users; рецепты хранятся внутри документа
type MongoUsers struct{ coll *mongo.Collection }

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{coll: db.Collection(usersCollection)}
}

var _ UserRepository = (*MongoUsers)(nil)

func (r *MongoUsers) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	// $push needs an array, not null
	if u.Prescriptions == nil {
		u.Prescriptions = []domain.Prescription{}
	}
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *MongoUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *MongoUsers) GetMany(ctx context.Context, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var list []domain.User
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	for _, u := range list {
		out[u.ID] = u
	}
	return out, nil
}

func (r *MongoUsers) Update(ctx context.Context, u *domain.User) error {
	set := bson.M{
		"name":                    u.Name,
		"phone":                   u.Phone,
		"address":                 u.Address,
		"subscriptionPreferences": u.SubscriptionPreferences,
		"updatedAt":               time.Now().UTC(),
	}
	if u.PasswordHash != "" {
		set["password"] = u.PasswordHash
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": u.ID}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return notFound(err)
	}
	*u = updated
	return nil
}

func (r *MongoUsers) IncrementOrderCount(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"orderCount": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUsers) AddPrescription(ctx context.Context, userID string, p domain.Prescription) error {
	update := bson.M{
		"$push": bson.M{"prescriptions": p},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUsers) UpdatePrescription(ctx context.Context, userID string, p domain.Prescription) error {
	filter := bson.M{"_id": userID, "prescriptions._id": p.ID}
	update := bson.M{"$set": bson.M{
		"prescriptions.$": p,
		"updatedAt":       time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUsers) WithPendingPrescriptions(ctx context.Context) ([]domain.User, error) {
	filter := bson.M{"prescriptions.status": domain.PrescriptionPending}
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
