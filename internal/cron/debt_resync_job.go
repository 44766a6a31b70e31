package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/logger"
)

const debtResyncLookbackHours = 48

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type DebtResyncJobParams struct {
	Logger   *logger.Logger
	DB       txRunner
	Lookback int
}

func NewDebtResyncJob(params DebtResyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	lookback := params.Lookback
	if lookback <= 0 {
		lookback = debtResyncLookbackHours
	}
	return &debtResyncJob{
		logg:     params.Logger,
		db:       params.DB,
		lookback: lookback,
		now:      time.Now,
	}, nil
}

// debtResyncJob recomputes debt_amount from the other monetary columns for
// recently touched accepted orders. Payments keep the column in sync on the
// hot path; this catches drift from manual data fixes.
type debtResyncJob struct {
	logg     *logger.Logger
	db       txRunner
	lookback int
	now      func() time.Time
}

func (j *debtResyncJob) Name() string { return "debt-resync" }

func (j *debtResyncJob) Run(ctx context.Context) error {
	since := j.now().UTC().Add(-time.Duration(j.lookback) * time.Hour)
	var corrected int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Exec(`
			UPDATE store_orders
			SET debt_amount = CASE
				WHEN total_amount - prepayment_amount - paid_amount > 0
				THEN total_amount - prepayment_amount - paid_amount
				ELSE 0
			END,
			updated_at = CURRENT_TIMESTAMP
			WHERE status = 'accepted'
			  AND updated_at >= ?
			  AND debt_amount <> CASE
				WHEN total_amount - prepayment_amount - paid_amount > 0
				THEN total_amount - prepayment_amount - paid_amount
				ELSE 0
			END`, since)
		if result.Error != nil {
			return result.Error
		}
		corrected = result.RowsAffected
		return nil
	})
	if err != nil {
		return fmt.Errorf("debt resync: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"since":          since,
		"lookback_hours": j.lookback,
		"rows_corrected": corrected,
	})
	j.logg.Info(logCtx, "debt resync complete")
	return nil
}
