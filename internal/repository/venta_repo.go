package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaFilter bounds report queries by date (inclusive range).
type VentaFilter struct {
	Desde  time.Time
	Hasta  time.Time
	Estado string
}

type VentaRepository interface {
	// Create accepts the tx instance when used inside a transaction; a nil tx
	// falls back to the repository connection.
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	ListByRange(ctx context.Context, filter VentaFilter) ([]model.Venta, error)
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Venta, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	SumCorteEfectivo(ctx context.Context, corteID uuid.UUID) (decimal.Decimal, error)
	CountHoy(ctx context.Context) (int64, float64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items").Preload("Usuario").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ListByRange(ctx context.Context, filter VentaFilter) ([]model.Venta, error) {
	q := r.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", filter.Desde, filter.Hasta)
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	var ventas []model.Venta
	err := q.Order("created_at ASC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Preload("Items").
		Where("usuario_id = ? AND estado = 'completada'", usuarioID).
		Order("created_at DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("id = ?", id).Update("estado", estado).Error
}

// SumCorteEfectivo returns the cash total of completed sales in a corte.
func (r *ventaRepo) SumCorteEfectivo(ctx context.Context, corteID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("corte_id = ? AND estado = 'completada' AND metodo_pago = 'efectivo'", corteID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

// inicioDelDia returns midnight of t in t's own location. Truncate would give
// UTC midnight, which is the wrong business day for most timezones.
func inicioDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (r *ventaRepo) CountHoy(ctx context.Context) (int64, float64, error) {
	hoy := inicioDelDia(time.Now())
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("created_at >= ? AND estado = 'completada'", hoy).
		Count(&n).Error; err != nil {
		return 0, 0, err
	}
	var monto float64
	if err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("created_at >= ? AND estado = 'completada'", hoy).
		Select("COALESCE(SUM(total), 0)").Scan(&monto).Error; err != nil {
		return 0, 0, err
	}
	return n, monto, nil
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
