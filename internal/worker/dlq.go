package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that exhaust their retries land in a per-queue dead letter list
// ("dlq:" + source queue). Entries are kept for manual inspection; the sweep
// is idempotent, so an operator can re-push an entry's payload onto the
// source queue once the underlying failure is fixed.

const DLQPrefix = "dlq:"

// DLQEntry is the stored form of a failed job.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	Attempts      int             `json:"attempts"`
	FailedAt      time.Time       `json:"failed_at"`
}

// SendToDLQ parks a job that exceeded maxJobAttempts. Errors here are logged
// and swallowed: losing a DLQ entry must not take the worker down.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		Attempts:      attempts,
		FailedAt:      time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: no se pudo serializar la entrada")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: no se pudo guardar la entrada")
		return
	}

	log.Warn().Str("queue", queue).Str("job_type", jobType).
		Str("reason", reason).Int("attempts", attempts).
		Msg("trabajo movido a la cola de fallidos")
}

// DLQLength reports the dead-letter depth of a queue (exposed by /health).
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
