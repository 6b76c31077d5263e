package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBulkPriceGenerate fills missing sales prices for one rate card.
	TaskBulkPriceGenerate = "pricing:bulk_generate"
)

// BulkPricePayload identifies the rate card a bulk run targets.
type BulkPricePayload struct {
	RateCardID  string    `json:"rate_card_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewBulkPriceTask constructs an Asynq task for bulk price generation.
func NewBulkPriceTask(payload BulkPricePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBulkPriceGenerate, data, asynq.Queue(QueueDefault)), nil
}
