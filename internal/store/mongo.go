package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"covidapi/internal/record"
)

// ── Mongo record store ─────────────────────────────────────
// A connected, collection-scoped handle to the persistent record
// collection. Constructed once at bootstrap and injected into the
// ingestion pipeline and the query layer — no package-level state.

// Mongo wraps one MongoDB collection holding dataset records.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.SugaredLogger
}

// Connect dials MongoDB and scopes the handle to dbName/collName.
// The connection is verified with a ping; a store that cannot be
// reached is an error, not a degraded mode.
func Connect(ctx context.Context, uri, dbName, collName string, logger *zap.SugaredLogger) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Infow("connected to record store", "database", dbName, "collection", collName)
	return &Mongo{
		client: client,
		coll:   client.Database(dbName).Collection(collName),
		logger: logger,
	}, nil
}

// Count returns the number of records in the collection.
func (m *Mongo) Count(ctx context.Context) (int64, error) {
	n, err := m.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// InsertMany bulk-writes records and returns the number actually inserted.
func (m *Mongo) InsertMany(ctx context.Context, recs []record.Record) (int64, error) {
	res, err := m.coll.InsertMany(ctx, recs)
	if err != nil {
		return 0, fmt.Errorf("insert records: %w", err)
	}
	return int64(len(res.InsertedIDs)), nil
}

// Aggregate runs a pipeline and decodes every result document into out,
// which must be a pointer to a slice.
func (m *Mongo) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode aggregation: %w", err)
	}
	return nil
}

// Distinct returns the distinct values of one string field across the
// whole collection.
func (m *Mongo) Distinct(ctx context.Context, field string) ([]string, error) {
	var values []string
	if err := m.coll.Distinct(ctx, field, bson.D{}).Decode(&values); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	return values, nil
}

// Ping verifies the store is still reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
