package worker

// seguimiento_cron.go
// Background loop that refreshes open paquetes against the carrier API.
// Runs every interval, fetches paquetes with an external tracking code that
// are not yet delivered, and appends a historial event when the carrier-side
// status changed. Carrier calls go through the circuit breaker; when it is
// open the whole cycle is skipped.

import (
	"context"
	"time"

	"tiendapos/internal/infra"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/rs/zerolog/log"
)

const seguimientoInterval = 15 * time.Minute

// SeguimientoCron polls the carrier for status changes on open paquetes.
type SeguimientoCron struct {
	repo    repository.PaqueteRepository
	carrier *infra.CarrierClient
	cb      *infra.CircuitBreaker
}

func NewSeguimientoCron(repo repository.PaqueteRepository, carrier *infra.CarrierClient, cb *infra.CircuitBreaker) *SeguimientoCron {
	return &SeguimientoCron{repo: repo, carrier: carrier, cb: cb}
}

// Start blocks until ctx is cancelled; run it in a goroutine.
func (c *SeguimientoCron) Start(ctx context.Context) {
	if c.carrier == nil || !c.carrier.Enabled() {
		log.Info().Msg("seguimiento_cron: carrier not configured — disabled")
		return
	}
	log.Info().Dur("interval", seguimientoInterval).Msg("seguimiento_cron: started")

	ticker := time.NewTicker(seguimientoInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("seguimiento_cron: shutting down")
			return
		case <-ticker.C:
			c.refresh(ctx)
		}
	}
}

func (c *SeguimientoCron) refresh(ctx context.Context) {
	if c.cb.State() == infra.CBOpen {
		log.Debug().Msg("seguimiento_cron: carrier breaker open — skipping cycle")
		return
	}

	paquetes, err := c.repo.ListAbiertos(ctx)
	if err != nil {
		log.Error().Err(err).Msg("seguimiento_cron: failed to list open paquetes")
		return
	}

	for _, p := range paquetes {
		if p.TrackingExterno == nil {
			continue
		}

		var status *infra.CarrierStatus
		err := c.cb.Execute(func() error {
			var cerr error
			status, cerr = c.carrier.Estado(ctx, *p.TrackingExterno)
			return cerr
		})
		if err != nil {
			log.Warn().Err(err).Str("tracking", *p.TrackingExterno).
				Msg("seguimiento_cron: carrier lookup failed")
			continue
		}

		if status.Estado == "" || status.Estado == p.Estado {
			continue
		}

		p.Estado = status.Estado
		if err := c.repo.Update(ctx, &p); err != nil {
			log.Error().Err(err).Str("paquete_id", p.ID.String()).
				Msg("seguimiento_cron: failed to update paquete")
			continue
		}
		evento := &model.EventoPaquete{
			PaqueteID:   p.ID,
			Estado:      status.Estado,
			Descripcion: status.Detalle,
		}
		if err := c.repo.AddEvento(ctx, evento); err != nil {
			log.Error().Err(err).Str("paquete_id", p.ID.String()).
				Msg("seguimiento_cron: failed to append evento")
		}
	}
}
