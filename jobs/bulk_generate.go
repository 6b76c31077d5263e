package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/leadhub-crm/leadhub-crm/internal/observability"
	"github.com/leadhub-crm/leadhub-crm/internal/pricing"
	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

// BulkPriceJob processes TaskBulkPriceGenerate tasks.
type BulkPriceJob struct {
	service *pricing.Service
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewBulkPriceJob(service *pricing.Service, metrics *observability.Metrics, logger *slog.Logger) *BulkPriceJob {
	return &BulkPriceJob{service: service, metrics: metrics, logger: logger}
}

// Handle runs a bulk pricing pass for the payload's rate card. A run already
// holding the lock is retried by the queue; a missing rate card is not.
func (j *BulkPriceJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload BulkPricePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	result, err := j.service.BulkGeneratePrices(ctx, payload.RateCardID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			j.logger.Warn("bulk pricing rate card missing", slog.String("rate_card_id", payload.RateCardID))
			return asynq.SkipRetry
		}
		return err
	}

	if j.metrics != nil {
		j.metrics.RecordBulkRun(result.Created, result.Skipped, result.Failed)
	}
	j.logger.Info("bulk pricing run finished",
		slog.String("rate_card_id", payload.RateCardID),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed))
	return nil
}
