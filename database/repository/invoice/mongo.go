package invoiceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"discts/database"
	"discts/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInvoiceRepo implements InvoiceRepository using MongoDB.
type MongoInvoiceRepo struct {
	coll *mongo.Collection
}

// NewMongoInvoiceRepo creates an InvoiceRepository on the given collection.
func NewMongoInvoiceRepo(db *mongo.Database, collection string) (InvoiceRepository, error) {
	r := &MongoInvoiceRepo{coll: db.Collection(collection)}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

// ensureIndexes covers the key lookup, the customer filter and the
// retention scan.
func (r *MongoInvoiceRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "invoiceId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create invoice indexes: %w", err)
	}
	return nil
}

func (r *MongoInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	if _, err := r.coll.InsertOne(ctx, invoice); err != nil {
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

func (r *MongoInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.coll.FindOne(ctx, bson.M{"invoiceId": id}).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice %s: %w", id, err)
	}
	return &invoice, nil
}

func (r *MongoInvoiceRepo) GetAll(ctx context.Context) ([]models.Invoice, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoInvoiceRepo) GetByCustomerID(ctx context.Context, customerID string) ([]models.Invoice, error) {
	return r.find(ctx, bson.M{"customerId": customerID})
}

func (r *MongoInvoiceRepo) GetCreatedBefore(ctx context.Context, cutoff string) ([]models.Invoice, error) {
	return r.find(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
}

func (r *MongoInvoiceRepo) find(ctx context.Context, filter bson.M) ([]models.Invoice, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}
	defer cursor.Close(ctx)

	invoices := []models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

func (r *MongoInvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"invoiceId": id}); err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", id, err)
	}
	return nil
}

func (r *MongoInvoiceRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
