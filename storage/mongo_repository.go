package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"commission/feecalculator/appcontext"
	"commission/feecalculator/commission/model"
)

const (
	FeesCollection    = "commissionFees"
	feeRunsCollection = "feeRuns"
)

// MongoRepository implements repository.Repository on top of a FeeRunStore.
type MongoRepository struct {
	store FeeRunStore
}

func NewMongoRepository(store FeeRunStore) *MongoRepository {
	return &MongoRepository{
		store: store,
	}
}

// SaveFeeRun upserts the run's fee records, keyed by run id and input line,
// then records the run itself.
func (r *MongoRepository) SaveFeeRun(ctx context.Context, run model.FeeRun, fees []model.FeeRecord) error {
	logger := appcontext.LoggerFromContext(ctx)

	if len(fees) > 0 {
		written, err := r.store.WriteFees(ctx, feeWrites(fees))
		if err != nil {
			return fmt.Errorf("saving fees of run %s: %w", run.RunID, err)
		}
		logger.DebugContext(ctx, "Wrote fee records", "runID", run.RunID, "written", written)
	}

	if err := r.store.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("saving run %s: %w", run.RunID, err)
	}

	return nil
}

func feeWrites(fees []model.FeeRecord) []mongo.WriteModel {
	writes := make([]mongo.WriteModel, 0, len(fees))
	for _, fee := range fees {
		filter := bson.M{
			"run_id": fee.RunID,
			"line":   fee.Line,
		}
		writes = append(writes,
			mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(bson.M{"$set": fee}).SetUpsert(true))
	}

	return writes
}
