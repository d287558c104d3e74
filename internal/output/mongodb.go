// internal/output/mongodb.go
package output

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evscout/evscout/internal/vehicle"
)

const mongoOpTimeout = 30 * time.Second

// MongoDBWriter persists records into a MongoDB collection. Records
// with a VIN are upserted on it so re-runs refresh listings in place;
// VIN-less records are plain inserts.
type MongoDBWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDBWriter connects using cfg.ConnString. Database defaults
// to "evscout", the collection to cfg.Table or "vehicles".
func NewMongoDBWriter(cfg Config) (*MongoDBWriter, error) {
	if cfg.ConnString == "" {
		return nil, fmt.Errorf("MongoDB connection URI is required")
	}
	database := cfg.Database
	if database == "" {
		database = "evscout"
	}
	collection := cfg.Table
	if collection == "" {
		collection = "vehicles"
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.ConnString))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	coll := client.Database(database).Collection(collection)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer idxCancel()
	_, err = coll.Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "vin", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: "vin", Value: bson.D{{Key: "$gt", Value: ""}}}}),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("creating VIN index: %w", err)
	}

	return &MongoDBWriter{client: client, collection: coll}, nil
}

// Append writes records as one bulk operation.
func (w *MongoDBWriter) Append(records []*vehicle.Record) error {
	if w.client == nil {
		return fmt.Errorf("writer already closed")
	}
	if len(records) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(records))
	for _, r := range records {
		doc := mongoDocument(r)
		if key := r.VINKey(); key != "" {
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.D{{Key: "vin", Value: key}}).
				SetReplacement(doc).
				SetUpsert(true))
		} else {
			models = append(models, mongo.NewInsertOneModel().SetDocument(doc))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	if _, err := w.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk writing records: %w", err)
	}
	return nil
}

// mongoDocument maps a record onto the shared column layout. The VIN
// is stored normalized so upsert filters match stored documents.
func mongoDocument(r *vehicle.Record) bson.D {
	values := fieldValues(r)
	doc := make(bson.D, 0, len(fieldNames))
	for i, name := range fieldNames {
		v := values[i]
		if name == "vin" {
			v = r.VINKey()
		}
		doc = append(doc, bson.E{Key: name, Value: v})
	}
	return doc
}

// Close disconnects the client.
func (w *MongoDBWriter) Close() error {
	if w.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	err := w.client.Disconnect(ctx)
	w.client = nil
	return err
}
