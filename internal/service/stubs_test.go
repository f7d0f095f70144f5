package service_test

import (
	"context"
	"strings"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[string]*model.Producto

	aplicados int // AplicarDescuento calls
	quitados  int // QuitarDescuento calls
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[string]*model.Producto)}
}

func (r *stubProductoRepo) add(p *model.Producto) string {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.productos[p.ID.Hex()] = p
	return p.ID.Hex()
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	for _, existing := range r.productos {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return repository.ErrSKUDuplicado
		}
	}
	r.add(p)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id string) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, repository.ErrProductoNoEncontrado
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var result []model.Producto
	for _, p := range r.productos {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

// Update mirrors the store's targeted $set: stock and the discount stamp on
// the stored document survive the write.
func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	actual, ok := r.productos[p.ID.Hex()]
	if !ok {
		return repository.ErrProductoNoEncontrado
	}
	for id, otro := range r.productos {
		if id != p.ID.Hex() && strings.EqualFold(otro.SKU, p.SKU) {
			return repository.ErrSKUDuplicado
		}
	}
	cp := *p
	cp.StockQty = actual.StockQty
	cp.Descuento = actual.Descuento
	r.productos[p.ID.Hex()] = &cp
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.productos[id]; !ok {
		return repository.ErrProductoNoEncontrado
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) LowStock(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.BajoStock() {
			result = append(result, *p)
		}
	}
	return result, nil
}

// AjustarStock mirrors the store semantics: clamp at zero, return the
// document as it was before the update.
func (r *stubProductoRepo) AjustarStock(_ context.Context, id string, delta int) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, repository.ErrProductoNoEncontrado
	}
	before := *p
	nuevo := p.StockQty + delta
	if nuevo < 0 {
		nuevo = 0
	}
	p.StockQty = nuevo
	return &before, nil
}

func (r *stubProductoRepo) AplicarDescuento(_ context.Context, _ string, _ *string, _ model.Descuento) (int64, error) {
	r.aplicados++
	return int64(len(r.productos)), nil
}

func (r *stubProductoRepo) QuitarDescuento(_ context.Context, _ string) (int64, error) {
	r.quitados++
	return 0, nil
}

func (r *stubProductoRepo) CountActivos(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.Activo {
			n++
		}
	}
	return n, nil
}

func (r *stubProductoRepo) CountBajoStock(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.BajoStock() {
			n++
		}
	}
	return n, nil
}

// ── In-memory MovimientoStockRepository stub ─────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	var result []model.MovimientoStock
	for _, m := range r.movimientos {
		if filter.ProductoID != "" && m.ProductoID != filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

// ── In-memory PromocionRepository stub ───────────────────────────────────────

type stubPromocionRepo struct {
	promos map[uuid.UUID]*model.Promocion
}

func newStubPromocionRepo() *stubPromocionRepo {
	return &stubPromocionRepo{promos: make(map[uuid.UUID]*model.Promocion)}
}

func (r *stubPromocionRepo) Create(_ context.Context, p *model.Promocion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.promos[p.ID] = p
	return nil
}

func (r *stubPromocionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Promocion, error) {
	p, ok := r.promos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPromocionRepo) List(_ context.Context) ([]model.Promocion, error) {
	var result []model.Promocion
	for _, p := range r.promos {
		result = append(result, *p)
	}
	return result, nil
}

func (r *stubPromocionRepo) ListVigentes(_ context.Context, en time.Time) ([]model.Promocion, error) {
	var result []model.Promocion
	for _, p := range r.promos {
		if p.VigenteEn(en) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubPromocionRepo) Update(_ context.Context, p *model.Promocion) error {
	if _, ok := r.promos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.promos[p.ID] = p
	return nil
}

func (r *stubPromocionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.promos, id)
	return nil
}

func (r *stubPromocionRepo) CountActivas(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.promos {
		if p.VigenteEn(time.Now()) {
			n++
		}
	}
	return n, nil
}

// ── In-memory CorteRepository stub ───────────────────────────────────────────

type stubCorteRepo struct {
	cortes map[uuid.UUID]*model.Corte
}

func newStubCorteRepo() *stubCorteRepo {
	return &stubCorteRepo{cortes: make(map[uuid.UUID]*model.Corte)}
}

func (r *stubCorteRepo) Create(_ context.Context, c *model.Corte) error {
	// One open corte per user, as the partial unique index enforces.
	for _, existing := range r.cortes {
		if existing.UsuarioID == c.UsuarioID && existing.Estado == "abierto" {
			return repository.ErrCorteYaAbierto
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cortes[c.ID] = c
	return nil
}

func (r *stubCorteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Corte, error) {
	c, ok := r.cortes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCorteRepo) FindAbiertoPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.Corte, error) {
	for _, c := range r.cortes {
		if c.UsuarioID == usuarioID && c.Estado == "abierto" {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCorteRepo) Update(_ context.Context, c *model.Corte) error {
	if _, ok := r.cortes[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.cortes[c.ID] = c
	return nil
}

func (r *stubCorteRepo) CountAbiertos(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.cortes {
		if c.Estado == "abierto" {
			n++
		}
	}
	return n, nil
}

// ── In-memory VentaRepository stub ───────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) ListByRange(_ context.Context, filter repository.VentaFilter) ([]model.Venta, error) {
	var result []model.Venta
	for _, v := range r.ventas {
		if v.CreatedAt.Before(filter.Desde) || !v.CreatedAt.Before(filter.Hasta) {
			continue
		}
		if filter.Estado != "" && v.Estado != filter.Estado {
			continue
		}
		result = append(result, *v)
	}
	return result, nil
}

func (r *stubVentaRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.Venta, error) {
	var result []model.Venta
	for _, v := range r.ventas {
		if v.UsuarioID == usuarioID && v.Estado == "completada" {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (r *stubVentaRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) SumCorteEfectivo(_ context.Context, corteID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range r.ventas {
		if v.CorteID != nil && *v.CorteID == corteID && v.Estado == "completada" && v.MetodoPago == "efectivo" {
			total = total.Add(v.Total)
		}
	}
	return total, nil
}

func (r *stubVentaRepo) CountHoy(_ context.Context) (int64, float64, error) {
	var n int64
	var monto float64
	for _, v := range r.ventas {
		if v.Estado == "completada" {
			n++
			f, _ := v.Total.Float64()
			monto += f
		}
	}
	return n, monto, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// ── In-memory PaqueteRepository stub ─────────────────────────────────────────

type stubPaqueteRepo struct {
	paquetes map[uuid.UUID]*model.Paquete // keyed by VentaID
}

func newStubPaqueteRepo() *stubPaqueteRepo {
	return &stubPaqueteRepo{paquetes: make(map[uuid.UUID]*model.Paquete)}
}

func (r *stubPaqueteRepo) Create(_ context.Context, p *model.Paquete) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.paquetes[p.VentaID] = p
	return nil
}

func (r *stubPaqueteRepo) FindByVentaID(_ context.Context, ventaID uuid.UUID) (*model.Paquete, error) {
	p, ok := r.paquetes[ventaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPaqueteRepo) Update(_ context.Context, p *model.Paquete) error {
	r.paquetes[p.VentaID] = p
	return nil
}

func (r *stubPaqueteRepo) AddEvento(_ context.Context, e *model.EventoPaquete) error {
	for _, p := range r.paquetes {
		if p.ID == e.PaqueteID {
			e.CreatedAt = time.Now()
			p.Historial = append(p.Historial, *e)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPaqueteRepo) ListAbiertos(_ context.Context) ([]model.Paquete, error) {
	var result []model.Paquete
	for _, p := range r.paquetes {
		if p.Estado != "entregado" && p.Estado != "devuelto" && p.TrackingExterno != nil {
			result = append(result, *p)
		}
	}
	return result, nil
}
