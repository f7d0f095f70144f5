package service

import (
	"context"
	"errors"
	"math"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrCantidadInvalida = errors.New("la cantidad debe ser un número positivo")

// CatalogoService defines the business logic contract for the product catalog
// and its stock.
type CatalogoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest, imagenURL string) (*model.Producto, error)
	ObtenerPorID(ctx context.Context, id string) (*model.Producto, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id string, req dto.ActualizarProductoRequest, imagenURL string) (*model.Producto, error)
	Eliminar(ctx context.Context, id string) error
	BajoStock(ctx context.Context) ([]model.Producto, error)
	AjustarStock(ctx context.Context, usuarioID *uuid.UUID, req dto.AjustarStockRequest) (*dto.AjustarStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error)
}

type catalogoService struct {
	repo       repository.ProductoRepository
	movRepo    repository.MovimientoStockRepository
	dispatcher *worker.Dispatcher
}

func NewCatalogoService(
	repo repository.ProductoRepository,
	movRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
) CatalogoService {
	return &catalogoService{repo: repo, movRepo: movRepo, dispatcher: dispatcher}
}

func (s *catalogoService) Crear(ctx context.Context, req dto.CrearProductoRequest, imagenURL string) (*model.Producto, error) {
	if math.IsNaN(req.Precio) || math.IsInf(req.Precio, 0) || req.Precio < 0 {
		return nil, errors.New("precio inválido")
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}
	p := &model.Producto{
		SKU:         req.SKU,
		Nombre:      req.Nombre,
		Marca:       req.Marca,
		Precio:      req.Precio,
		StockQty:    req.StockQty,
		MinStock:    req.MinStock,
		Descripcion: req.Descripcion,
		Activo:      activo,
	}
	if imagenURL != "" {
		p.Imagenes = []string{imagenURL}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogoService) ObtenerPorID(ctx context.Context, id string) (*model.Producto, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *catalogoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ProductoListResponse{Items: productos, Total: total}, nil
}

func (s *catalogoService) Actualizar(ctx context.Context, id string, req dto.ActualizarProductoRequest, imagenURL string) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Marca != nil {
		p.Marca = *req.Marca
	}
	if req.Precio != nil {
		if math.IsNaN(*req.Precio) || math.IsInf(*req.Precio, 0) || *req.Precio < 0 {
			return nil, errors.New("precio inválido")
		}
		p.Precio = *req.Precio
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.Descripcion != nil {
		p.Descripcion = *req.Descripcion
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if imagenURL != "" {
		p.Imagenes = append(p.Imagenes, imagenURL)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// A stock edit is applied as a delta through the atomic adjustment path,
	// so a concurrent sale or adjustment is never overwritten, and it leaves
	// a ledger row like any other movement.
	if req.StockQty != nil && *req.StockQty != p.StockQty {
		delta := *req.StockQty - p.StockQty
		tipo := "IN"
		if delta < 0 {
			tipo = "OUT"
		}
		before, err := s.repo.AjustarStock(ctx, id, delta)
		if err != nil {
			return nil, err
		}
		nuevo := before.StockQty + delta
		if nuevo < 0 {
			nuevo = 0
		}
		mov := &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          tipo,
			Cantidad:      nuevo - before.StockQty,
			StockAnterior: before.StockQty,
			StockNuevo:    nuevo,
			Motivo:        "edición de producto",
		}
		if err := s.movRepo.Create(ctx, mov); err != nil {
			log.Error().Err(err).Str("producto_id", id).Msg("failed to append stock movement")
		}
		p.StockQty = nuevo
	}
	return p, nil
}

func (s *catalogoService) Eliminar(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *catalogoService) BajoStock(ctx context.Context) ([]model.Producto, error) {
	bajos, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	if bajos == nil {
		bajos = []model.Producto{}
	}
	return bajos, nil
}

// AjustarStock applies an IN/OUT adjustment. The delta sign comes from Tipo,
// the store clamps at zero atomically, and every call appends a ledger row.
// A result at or below the minimum enqueues a low-stock alert job.
func (s *catalogoService) AjustarStock(ctx context.Context, usuarioID *uuid.UUID, req dto.AjustarStockRequest) (*dto.AjustarStockResponse, error) {
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}
	delta := req.Cantidad
	if req.Tipo == "OUT" {
		delta = -delta
	}

	before, err := s.repo.AjustarStock(ctx, req.ProductoID, delta)
	if err != nil {
		return nil, err
	}

	// Mirror the store-side clamp for the ledger and the response
	nuevo := before.StockQty + delta
	if nuevo < 0 {
		nuevo = 0
	}

	mov := &model.MovimientoStock{
		ProductoID:    req.ProductoID,
		Tipo:          req.Tipo,
		Cantidad:      nuevo - before.StockQty,
		StockAnterior: before.StockQty,
		StockNuevo:    nuevo,
		Motivo:        req.Motivo,
		UsuarioID:     usuarioID,
	}
	if err := s.movRepo.Create(ctx, mov); err != nil {
		// The adjustment already applied; a ledger write failure must not
		// report a failed adjustment.
		log.Error().Err(err).Str("producto_id", req.ProductoID).Msg("failed to append stock movement")
	}

	if nuevo <= before.MinStock && s.dispatcher != nil {
		payload := worker.AlertaStockPayload{
			ProductoID: req.ProductoID,
			SKU:        before.SKU,
			Nombre:     before.Nombre,
			StockQty:   nuevo,
			MinStock:   before.MinStock,
		}
		if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Error().Err(err).Str("producto_id", req.ProductoID).Msg("failed to enqueue low-stock alert")
		}
	}

	return &dto.AjustarStockResponse{OK: true, StockQty: nuevo}, nil
}

func (s *catalogoService) ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error) {
	movimientos, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoStockResponse, 0, len(movimientos))
	for _, m := range movimientos {
		item := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m.UsuarioID != nil {
			uid := m.UsuarioID.String()
			item.UsuarioID = &uid
		}
		items = append(items, item)
	}
	return &dto.MovimientoStockListResponse{Items: items, Total: total}, nil
}
