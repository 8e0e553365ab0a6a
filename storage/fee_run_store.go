package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"commission/feecalculator/appcontext"
	"commission/feecalculator/commission/model"
)

const (
	dbName = "commission"
)

// FeeRunStore is the write side of the fee audit database.
type FeeRunStore interface {
	// WriteFees applies fee record writes and returns how many documents
	// were inserted or changed.
	WriteFees(ctx context.Context, writes []mongo.WriteModel) (int64, error)
	InsertRun(ctx context.Context, run model.FeeRun) error
}

// MongoFeeRunStore keeps fee records and runs in two collections of the
// commission database.
type MongoFeeRunStore struct {
	client *mongo.Client
	fees   *mongo.Collection
	runs   *mongo.Collection
}

// OpenFeeRunStore connects to uri, pings the server and makes sure the
// unique keys of both collections exist.
func OpenFeeRunStore(ctx context.Context, uri string) (*MongoFeeRunStore, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Attempting to connect to MongoDB", "uri", uri)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	store := &MongoFeeRunStore{
		client: client,
		fees:   db.Collection(FeesCollection),
		runs:   db.Collection(feeRunsCollection),
	}
	if err = store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.InfoContext(ctx, "Successfully established connection to MongoDB", "database", dbName)
	return store, nil
}

// ensureIndexes backs the run_id+line upsert key with a unique index so a
// re-run of SaveFeeRun can never duplicate a fee record.
func (s *MongoFeeRunStore) ensureIndexes(ctx context.Context) error {
	_, err := s.fees.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "line", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create index on %s: %w", FeesCollection, err)
	}

	_, err = s.runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create index on %s: %w", feeRunsCollection, err)
	}

	return nil
}

func (s *MongoFeeRunStore) WriteFees(ctx context.Context, writes []mongo.WriteModel) (int64, error) {
	result, err := s.fees.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to perform bulk write for collection %s: %w", FeesCollection, err)
	}

	return result.UpsertedCount + result.ModifiedCount, nil
}

func (s *MongoFeeRunStore) InsertRun(ctx context.Context, run model.FeeRun) error {
	if _, err := s.runs.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to insert into %s collection: %w", feeRunsCollection, err)
	}

	return nil
}

// Close disconnects the underlying client.
func (s *MongoFeeRunStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
