package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCorteRequerido   = errors.New("las ventas de caja requieren un corte abierto")
	ErrCorteAjeno       = errors.New("el corte no pertenece al usuario")
	ErrVentaAnulada     = errors.New("la venta ya está anulada")
	ErrProductoInactivo = errors.New("el producto no está disponible")
)

// ErrStockInsuficiente carries the offending product so the handler can name it.
type ErrStockInsuficiente struct {
	ProductoID string
	Nombre     string
	Disponible int
	Solicitado int
}

func (e *ErrStockInsuficiente) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d",
		e.Nombre, e.Disponible, e.Solicitado)
}

// VentaService records sales from the register and the storefront. Register
// sales belong to an open corte; storefront sales create a trackable paquete.
type VentaService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, rol string, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Anular(ctx context.Context, id uuid.UUID, usuarioID *uuid.UUID) error
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	promoRepo    repository.PromocionRepository
	corteRepo    repository.CorteRepository
	paqueteRepo  repository.PaqueteRepository
	movRepo      repository.MovimientoStockRepository
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	promoRepo repository.PromocionRepository,
	corteRepo repository.CorteRepository,
	paqueteRepo repository.PaqueteRepository,
	movRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		promoRepo:    promoRepo,
		corteRepo:    corteRepo,
		paqueteRepo:  paqueteRepo,
		movRepo:      movRepo,
		dispatcher:   dispatcher,
	}
}

// Registrar applies the best vigente promotion per line, decrements catalog
// stock and persists the sale. The two stores cannot share a transaction:
// stock is decremented first document-by-document (each decrement is atomic),
// and already-applied decrements are compensated if a later step fails.
func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, rol string, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	var corteID *uuid.UUID
	if rol == "cajero" {
		if req.CorteID == nil {
			return nil, ErrCorteRequerido
		}
		cid, err := uuid.Parse(*req.CorteID)
		if err != nil {
			return nil, ErrCorteRequerido
		}
		corte, err := s.corteRepo.FindAbiertoPorUsuario(ctx, usuarioID)
		if err != nil {
			return nil, ErrCorteRequerido
		}
		if corte.ID != cid {
			return nil, ErrCorteAjeno
		}
		corteID = &cid
	}

	promos, err := s.promoRepo.ListVigentes(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		items          []model.VentaItem
		decrementados  []lineaDecrementada // for compensation and the post-commit ledger
		subtotal       = decimal.Zero
		descuentoTotal = decimal.Zero
	)

	revertir := func() {
		for _, l := range decrementados {
			if _, err := s.productoRepo.AjustarStock(ctx, l.productoID, l.cantidad); err != nil {
				log.Error().Err(err).Str("producto_id", l.productoID).
					Msg("failed to restore stock after aborted sale")
			}
		}
	}

	for _, it := range req.Items {
		p, err := s.productoRepo.FindByID(ctx, it.ProductoID)
		if err != nil {
			revertir()
			return nil, err
		}
		if !p.Activo {
			revertir()
			return nil, ErrProductoInactivo
		}

		before, err := s.productoRepo.AjustarStock(ctx, it.ProductoID, -it.Cantidad)
		if err != nil {
			revertir()
			return nil, err
		}
		if before.StockQty < it.Cantidad {
			// The clamp already floored at zero; put back what was taken.
			if _, err := s.productoRepo.AjustarStock(ctx, it.ProductoID, before.StockQty); err != nil {
				log.Error().Err(err).Str("producto_id", it.ProductoID).
					Msg("failed to restore stock after insufficient-stock sale")
			}
			revertir()
			return nil, &ErrStockInsuficiente{
				ProductoID: it.ProductoID,
				Nombre:     p.Nombre,
				Disponible: before.StockQty,
				Solicitado: it.Cantidad,
			}
		}

		precio := decimal.NewFromFloat(p.Precio)
		bruto := precio.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		descuento, _ := MejorDescuento(promos, p, it.Cantidad, now)

		linea := model.VentaItem{
			ProductoID:     it.ProductoID,
			Nombre:         p.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: precio,
			Descuento:      descuento,
			Subtotal:       bruto.Sub(descuento).Round(2),
		}
		items = append(items, linea)
		decrementados = append(decrementados, lineaDecrementada{
			productoID: it.ProductoID,
			cantidad:   it.Cantidad,
			before:     before,
		})
		subtotal = subtotal.Add(bruto)
		descuentoTotal = descuentoTotal.Add(descuento)
	}

	venta := &model.Venta{
		CorteID:        corteID,
		UsuarioID:      usuarioID,
		Subtotal:       subtotal.Round(2),
		DescuentoTotal: descuentoTotal.Round(2),
		Total:          subtotal.Sub(descuentoTotal).Round(2),
		MetodoPago:     req.MetodoPago,
		Estado:         "completada",
		Items:          items,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, venta); err != nil {
			return err
		}
		if rol != "cliente" {
			return nil
		}
		paquete := &model.Paquete{
			VentaID: venta.ID,
			Estado:  "preparando",
			Historial: []model.EventoPaquete{{
				Estado:      "preparando",
				Descripcion: "Pedido recibido, preparando envío",
			}},
		}
		if tx != nil {
			return tx.Create(paquete).Error
		}
		return s.paqueteRepo.Create(ctx, paquete)
	})
	if txErr != nil {
		revertir()
		return nil, txErr
	}

	// Ledger rows and low-stock alerts are written only once the sale stands;
	// an aborted sale restores stock and leaves no trace in the ledger.
	for _, l := range decrementados {
		s.registrarMovimientoVenta(ctx, l.productoID, l.before, l.cantidad, &usuarioID, venta.ID)
	}

	return ventaToResponse(venta), nil
}

// lineaDecrementada snapshots a decremented line so an aborted sale can be
// compensated and a committed one can write its ledger rows.
type lineaDecrementada struct {
	productoID string
	cantidad   int
	before     *model.Producto
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ventaToResponse(v), nil
}

// Anular voids a sale and restores the decremented stock, one ledger row per
// line.
func (s *ventaService) Anular(ctx context.Context, id uuid.UUID, usuarioID *uuid.UUID) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if v.Estado == "anulada" {
		return ErrVentaAnulada
	}

	if err := s.repo.UpdateEstado(ctx, id, "anulada"); err != nil {
		return err
	}

	for _, it := range v.Items {
		before, err := s.productoRepo.AjustarStock(ctx, it.ProductoID, it.Cantidad)
		if err != nil {
			log.Error().Err(err).Str("producto_id", it.ProductoID).
				Msg("failed to restore stock for voided sale")
			continue
		}
		refID := v.ID
		mov := &model.MovimientoStock{
			ProductoID:    it.ProductoID,
			Tipo:          "restore_anulacion",
			Cantidad:      it.Cantidad,
			StockAnterior: before.StockQty,
			StockNuevo:    before.StockQty + it.Cantidad,
			Motivo:        "anulación de venta",
			UsuarioID:     usuarioID,
			ReferenciaID:  &refID,
		}
		if err := s.movRepo.Create(ctx, mov); err != nil {
			log.Error().Err(err).Str("producto_id", it.ProductoID).
				Msg("failed to append restore movement")
		}
	}
	return nil
}

func (s *ventaService) registrarMovimientoVenta(ctx context.Context, productoID string, before *model.Producto, cantidad int, usuarioID *uuid.UUID, ventaID uuid.UUID) {
	mov := &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          "venta",
		Cantidad:      -cantidad,
		StockAnterior: before.StockQty,
		StockNuevo:    before.StockQty - cantidad,
		Motivo:        "venta",
		UsuarioID:     usuarioID,
		ReferenciaID:  &ventaID,
	}
	if err := s.movRepo.Create(ctx, mov); err != nil {
		log.Error().Err(err).Str("producto_id", productoID).Msg("failed to append sale movement")
	}

	if mov.StockNuevo <= before.MinStock && s.dispatcher != nil {
		payload := worker.AlertaStockPayload{
			ProductoID: productoID,
			SKU:        before.SKU,
			Nombre:     before.Nombre,
			StockQty:   mov.StockNuevo,
			MinStock:   before.MinStock,
		}
		if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Error().Err(err).Str("producto_id", productoID).Msg("failed to enqueue low-stock alert")
		}
	}
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:             v.ID.String(),
		Subtotal:       v.Subtotal,
		DescuentoTotal: v.DescuentoTotal,
		Total:          v.Total,
		MetodoPago:     v.MetodoPago,
		Estado:         v.Estado,
		CreatedAt:      v.CreatedAt.Format(time.RFC3339),
	}
	if v.CorteID != nil {
		cid := v.CorteID.String()
		resp.CorteID = &cid
	}
	for _, it := range v.Items {
		resp.Items = append(resp.Items, dto.ItemVentaResponse{
			ProductoID:     it.ProductoID,
			Producto:       it.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Descuento:      it.Descuento,
			Subtotal:       it.Subtotal,
		})
	}
	return resp
}
