package repository

import (
	"context"

	"commission/feecalculator/commission/model"
)

// Repository stores the audit trail of fee calculation runs.
type Repository interface {
	SaveFeeRun(ctx context.Context, run model.FeeRun, fees []model.FeeRecord) error
}
