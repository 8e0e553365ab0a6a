package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"commission/feecalculator/commission/model"
	"commission/feecalculator/commission/repository"
	"commission/feecalculator/storage"
)

var _ repository.Repository = (*storage.MongoRepository)(nil)
var _ storage.FeeRunStore = (*storage.MongoFeeRunStore)(nil)

// Mock for FeeRunStore interface.
type mockFeeRunStore struct {
	writeFeesFunc func(ctx context.Context, writes []mongo.WriteModel) (int64, error)
	insertRunFunc func(ctx context.Context, run model.FeeRun) error
	calls         []string
}

func (m *mockFeeRunStore) WriteFees(ctx context.Context, writes []mongo.WriteModel) (int64, error) {
	m.calls = append(m.calls, "WriteFees")
	if m.writeFeesFunc != nil {
		return m.writeFeesFunc(ctx, writes)
	}
	return int64(len(writes)), nil
}

func (m *mockFeeRunStore) InsertRun(ctx context.Context, run model.FeeRun) error {
	m.calls = append(m.calls, "InsertRun")
	if m.insertRunFunc != nil {
		return m.insertRunFunc(ctx, run)
	}
	return nil
}

func testRun() (model.FeeRun, []model.FeeRecord) {
	run := model.FeeRun{RunID: "run-1", InputFile: "input.csv", FeesCalculated: 2, BaseCurrency: "EUR"}
	fees := []model.FeeRecord{
		{RunID: "run-1", Line: 1, Date: "2016-01-05", CustomerID: 1, Kind: "deposit", Amount: "200.00", Currency: "EUR", Fee: "0.06"},
		{RunID: "run-1", Line: 2, Date: "2016-01-06", CustomerID: 2, Kind: "withdraw", Amount: "300.00", Currency: "EUR", Fee: "1.50"},
	}
	return run, fees
}

func TestNewMongoRepository(t *testing.T) {
	repo := storage.NewMongoRepository(&mockFeeRunStore{})
	if repo == nil {
		t.Error("NewMongoRepository returned nil")
	}
}

func TestSaveFeeRun_Success(t *testing.T) {
	ctx := context.Background()
	run, fees := testRun()

	store := &mockFeeRunStore{
		writeFeesFunc: func(ctx context.Context, writes []mongo.WriteModel) (int64, error) {
			if len(writes) != 2 {
				t.Fatalf("Expected 2 write models, got %d", len(writes))
			}
			upsert, ok := writes[1].(*mongo.UpdateOneModel)
			if !ok {
				t.Fatalf("Expected an update model, got %T", writes[1])
			}
			filter, ok := upsert.Filter.(bson.M)
			if !ok || filter["run_id"] != "run-1" || filter["line"] != 2 {
				t.Errorf("Unexpected filter %v", upsert.Filter)
			}
			if upsert.Upsert == nil || !*upsert.Upsert {
				t.Error("Expected fee writes to upsert")
			}
			return 2, nil
		},
		insertRunFunc: func(ctx context.Context, saved model.FeeRun) error {
			if saved.RunID != "run-1" || saved.FeesCalculated != 2 {
				t.Errorf("Unexpected run document %+v", saved)
			}
			return nil
		},
	}

	repo := storage.NewMongoRepository(store)
	if err := repo.SaveFeeRun(ctx, run, fees); err != nil {
		t.Errorf("SaveFeeRun failed: %v", err)
	}
	if strings.Join(store.calls, ",") != "WriteFees,InsertRun" {
		t.Errorf("Unexpected store calls: %v", store.calls)
	}
}

func TestSaveFeeRun_NoFeesStillRecordsRun(t *testing.T) {
	run, _ := testRun()
	store := &mockFeeRunStore{}

	repo := storage.NewMongoRepository(store)
	if err := repo.SaveFeeRun(context.Background(), run, nil); err != nil {
		t.Errorf("SaveFeeRun failed for empty fees: %v", err)
	}
	if strings.Join(store.calls, ",") != "InsertRun" {
		t.Errorf("Expected only the run to be inserted, got calls %v", store.calls)
	}
}

func TestSaveFeeRun_WriteFeesError(t *testing.T) {
	run, fees := testRun()
	expectedErr := errors.New("bulk write error")

	store := &mockFeeRunStore{
		writeFeesFunc: func(ctx context.Context, writes []mongo.WriteModel) (int64, error) {
			return 0, expectedErr
		},
	}

	err := storage.NewMongoRepository(store).SaveFeeRun(context.Background(), run, fees)
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected bulk write error, got: %v", err)
	}
	if len(store.calls) != 1 {
		t.Errorf("Run should not be inserted after a failed fee write, calls %v", store.calls)
	}
}

func TestSaveFeeRun_InsertRunError(t *testing.T) {
	run, fees := testRun()
	expectedErr := errors.New("insert run error")

	store := &mockFeeRunStore{
		insertRunFunc: func(ctx context.Context, run model.FeeRun) error {
			return expectedErr
		},
	}

	err := storage.NewMongoRepository(store).SaveFeeRun(context.Background(), run, fees)
	if err == nil || !strings.Contains(err.Error(), expectedErr.Error()) {
		t.Errorf("Expected insert run error, got: %v", err)
	}
}
