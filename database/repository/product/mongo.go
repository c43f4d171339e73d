package productRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"discts/database"
	"discts/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepo implements ProductRepository using MongoDB.
type MongoProductRepo struct {
	coll *mongo.Collection
}

// NewMongoProductRepo creates a ProductRepository on the given collection
// and makes sure productId is uniquely indexed.
func NewMongoProductRepo(db *mongo.Database, collection string) (ProductRepository, error) {
	r := &MongoProductRepo{coll: db.Collection(collection)}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MongoProductRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "productId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func (r *MongoProductRepo) Create(ctx context.Context, product *models.Product) error {
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product %s: %w", product.ProductID, err)
	}
	return nil
}

func (r *MongoProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, bson.M{"productId": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &product, nil
}

func (r *MongoProductRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProductRepo) SearchByName(ctx context.Context, fragment string) ([]models.Product, error) {
	return r.find(ctx, bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(fragment)}})
}

func (r *MongoProductRepo) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepo) Update(ctx context.Context, id string, upd models.ProductUpdate) error {
	sets := updateFields(upd)
	if len(sets) == 0 {
		return nil
	}
	fields := bson.M{}
	for _, s := range sets {
		fields[s.name] = s.value
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"productId": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoProductRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	filter := bson.M{"productId": id, "stock": bson.M{"$gte": qty}}
	update := bson.M{"$inc": bson.M{"stock": -qty}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, countErr := r.coll.CountDocuments(ctx, bson.M{"productId": id})
		if countErr != nil {
			return 0, fmt.Errorf("failed to check product %s: %w", id, countErr)
		}
		if n == 0 {
			return 0, database.ErrNotFound
		}
		return 0, database.ErrConditionFailed
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock of %s: %w", id, err)
	}
	return product.Stock, nil
}

func (r *MongoProductRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"productId": id}, bson.M{"$inc": bson.M{"stock": qty}})
	if err != nil {
		return fmt.Errorf("failed to increment stock of %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"productId": id}); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

func (r *MongoProductRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
