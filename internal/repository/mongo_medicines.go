package repository

import (
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medirural/internal/domain"
)

// MongoMedicines каталог в коллекции medicines
type MongoMedicines struct{ coll *mongo.Collection }

func NewMongoMedicines(db *mongo.Database) *MongoMedicines {
	return &MongoMedicines{coll: db.Collection(medicinesCollection)}
}

var _ MedicineRepository = (*MongoMedicines)(nil)

func (r *MongoMedicines) Create(ctx context.Context, m *domain.Medicine) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *MongoMedicines) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	var m domain.Medicine
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *MongoMedicines) GetMany(ctx context.Context, ids []string) (map[string]domain.Medicine, error) {
	out := make(map[string]domain.Medicine, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var list []domain.Medicine
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

func (r *MongoMedicines) FindByName(ctx context.Context, name string) (*domain.Medicine, error) {
	filter := bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"}}
	var m domain.Medicine
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *MongoMedicines) Update(ctx context.Context, m *domain.Medicine) error {
	m.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":         m.Name,
		"description":  m.Description,
		"price":        m.Price,
		"stock":        m.Stock,
		"category":     m.Category,
		"manufacturer": m.Manufacturer,
		"expiryDate":   m.ExpiryDate,
		"imageUrl":     m.ImageURL,
		"updatedAt":    m.UpdatedAt,
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoMedicines) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func medicineQuery(f MedicineFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		rx := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		q["$or"] = bson.A{bson.M{"name": rx}, bson.M{"category": rx}, bson.M{"manufacturer": rx}}
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	return q
}

func (r *MongoMedicines) List(ctx context.Context, f MedicineFilter) ([]domain.Medicine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, medicineQuery(f), opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Medicine, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoMedicines) Categories(ctx context.Context) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// AdjustStock списание: условный $inc со stock >= -delta
func (r *MongoMedicines) AdjustStock(ctx context.Context, id string, delta int64) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	ok, err := exists(ctx, r.coll, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return ErrInsufficientStock
}
