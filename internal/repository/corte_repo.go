package repository

import (
	"context"
	"errors"
	"strings"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrCorteYaAbierto signals the partial-unique-index violation on double-open.
var ErrCorteYaAbierto = errors.New("ya existe un corte abierto para este usuario")

type CorteRepository interface {
	Create(ctx context.Context, c *model.Corte) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Corte, error)
	FindAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Corte, error)
	Update(ctx context.Context, c *model.Corte) error
	CountAbiertos(ctx context.Context) (int64, error)
}

type corteRepo struct{ db *gorm.DB }

func NewCorteRepository(db *gorm.DB) CorteRepository { return &corteRepo{db: db} }

func (r *corteRepo) Create(ctx context.Context, c *model.Corte) error {
	err := r.db.WithContext(ctx).Create(c).Error
	// Two concurrent opens race past the service pre-check; the partial unique
	// index is the real guarantee and surfaces here.
	if err != nil && strings.Contains(err.Error(), "idx_cortes_abierto_por_usuario") {
		return ErrCorteYaAbierto
	}
	return err
}

func (r *corteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Corte, error) {
	var c model.Corte
	err := r.db.WithContext(ctx).Preload("Ventas").First(&c, id).Error
	return &c, err
}

func (r *corteRepo) FindAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Corte, error) {
	var c model.Corte
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado = 'abierto'", usuarioID).
		Preload("Ventas").
		First(&c).Error
	return &c, err
}

func (r *corteRepo) Update(ctx context.Context, c *model.Corte) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *corteRepo) CountAbiertos(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Corte{}).Where("estado = 'abierto'").Count(&n).Error
	return n, err
}
