package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueAlertas = "jobs:alertas"

const maxJobAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// BarridoPayload names the products a committed sale (or cancellation)
// touched; the worker re-evaluates each one against the alert rules.
type BarridoPayload struct {
	ProductoIDs []string `json:"producto_ids"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueBarrido pushes an alert-sweep job for the given products.
func (d *Dispatcher) EnqueueBarrido(ctx context.Context, productoIDs []uuid.UUID) error {
	if len(productoIDs) == 0 {
		return nil
	}
	ids := make([]string, len(productoIDs))
	for i, id := range productoIDs {
		ids[i] = id.String()
	}
	return d.enqueue(ctx, QueueAlertas, "barrido", BarridoPayload{ProductoIDs: ids}, 0)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}, attempts int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data, Attempts: attempts}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, alertas service.AlertaService, numWorkers int) {
	d := NewDispatcher(rdb)
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, d, alertas, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, d *Dispatcher, alertas service.AlertaService, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAlertas).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, d, alertas, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, d *Dispatcher, alertas service.AlertaService, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	if job.Type != "barrido" {
		log.Warn().Str("type", job.Type).Msg("unknown job type, dropping")
		return
	}

	var payload BarridoPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal barrido payload")
		return
	}

	var fallados []string
	for _, raw := range payload.ProductoIDs {
		pid, err := uuid.Parse(raw)
		if err != nil {
			log.Error().Str("producto_id", raw).Msg("invalid producto id in barrido job")
			continue
		}
		if err := alertas.EjecutarBarridoProducto(ctx, pid); err != nil {
			log.Error().Err(err).Str("producto_id", raw).Msg("barrido de producto falló")
			fallados = append(fallados, raw)
		}
	}

	// The sweep is idempotent, so failed products are simply re-enqueued.
	if len(fallados) > 0 {
		job.Attempts++
		if job.Attempts >= maxJobAttempts {
			data, _ := json.Marshal(BarridoPayload{ProductoIDs: fallados})
			SendToDLQ(ctx, rdb, queue, job.Type, data, "max attempts exceeded", job.Attempts)
			return
		}
		if err := d.enqueue(ctx, queue, job.Type, BarridoPayload{ProductoIDs: fallados}, job.Attempts); err != nil {
			log.Error().Err(err).Msg("failed to re-enqueue barrido job")
		}
	}
}
