package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaqueteRepository interface {
	Create(ctx context.Context, p *model.Paquete) error
	FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Paquete, error)
	Update(ctx context.Context, p *model.Paquete) error
	AddEvento(ctx context.Context, e *model.EventoPaquete) error
	ListAbiertos(ctx context.Context) ([]model.Paquete, error)
}

type paqueteRepo struct{ db *gorm.DB }

func NewPaqueteRepository(db *gorm.DB) PaqueteRepository { return &paqueteRepo{db: db} }

func (r *paqueteRepo) Create(ctx context.Context, p *model.Paquete) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paqueteRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Paquete, error) {
	var p model.Paquete
	err := r.db.WithContext(ctx).
		Where("venta_id = ?", ventaID).
		Preload("Historial", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&p).Error
	return &p, err
}

func (r *paqueteRepo) Update(ctx context.Context, p *model.Paquete) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *paqueteRepo) AddEvento(ctx context.Context, e *model.EventoPaquete) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListAbiertos returns paquetes not yet delivered or returned — the set the
// tracking refresh cron polls the carrier for.
func (r *paqueteRepo) ListAbiertos(ctx context.Context) ([]model.Paquete, error) {
	var paquetes []model.Paquete
	err := r.db.WithContext(ctx).
		Where("estado NOT IN ('entregado', 'devuelto') AND tracking_externo IS NOT NULL").
		Find(&paquetes).Error
	return paquetes, err
}
