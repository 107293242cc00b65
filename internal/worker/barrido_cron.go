package worker

// barrido_cron.go
// Background goroutine that periodically runs the full alert sweep, catching
// conditions no sale touched (expiring lotes, manual stock adjustments). The
// sweep is idempotent, so overlapping with the per-product worker jobs is
// harmless.

import (
	"context"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"

	"github.com/rs/zerolog/log"
)

// StartBarridoCron launches a goroutine that runs the full sweep every
// intervalo. It respects the context for graceful shutdown.
func StartBarridoCron(ctx context.Context, alertas service.AlertaService, intervalo time.Duration) {
	go func() {
		ticker := time.NewTicker(intervalo)
		defer ticker.Stop()

		log.Info().Str("intervalo", intervalo.String()).Msg("barrido_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("barrido_cron: shutting down")
				return
			case <-ticker.C:
				resp, err := alertas.EjecutarBarrido(ctx)
				if err != nil {
					log.Error().Err(err).Msg("barrido_cron: sweep failed")
					continue
				}
				if resp.AlertasCreadas > 0 || resp.AlertasResueltas > 0 {
					log.Info().
						Int("creadas", resp.AlertasCreadas).
						Int("resueltas", resp.AlertasResueltas).
						Msg("barrido_cron: sweep completed")
				}
			}
		}
	}()
}
