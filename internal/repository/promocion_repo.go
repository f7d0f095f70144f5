package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromocionRepository interface {
	Create(ctx context.Context, p *model.Promocion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error)
	List(ctx context.Context) ([]model.Promocion, error)
	ListVigentes(ctx context.Context, en time.Time) ([]model.Promocion, error)
	Update(ctx context.Context, p *model.Promocion) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActivas(ctx context.Context) (int64, error)
}

type promocionRepo struct{ db *gorm.DB }

func NewPromocionRepository(db *gorm.DB) PromocionRepository { return &promocionRepo{db: db} }

func (r *promocionRepo) Create(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promocionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error) {
	var p model.Promocion
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *promocionRepo) List(ctx context.Context) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).Order("desde DESC").Find(&promos).Error
	return promos, err
}

func (r *promocionRepo) ListVigentes(ctx context.Context, en time.Time) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).
		Where("activa = true AND desde <= ? AND (hasta IS NULL OR hasta >= ?)", en, en).
		Find(&promos).Error
	return promos, err
}

func (r *promocionRepo) Update(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *promocionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Promocion{}, id).Error
}

func (r *promocionRepo) CountActivas(ctx context.Context) (int64, error) {
	now := time.Now()
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Promocion{}).
		Where("activa = true AND desde <= ? AND (hasta IS NULL OR hasta >= ?)", now, now).
		Count(&n).Error
	return n, err
}
