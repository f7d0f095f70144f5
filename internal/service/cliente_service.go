package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/infra"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrPedidoNoEncontrado = errors.New("pedido no encontrado")

// ClienteService serves the storefront account features: order tracking,
// favorites and purchase history.
type ClienteService interface {
	Seguimiento(ctx context.Context, pedidoID uuid.UUID) (*dto.SeguimientoResponse, error)
	AgregarEvento(ctx context.Context, pedidoID uuid.UUID, req dto.AgregarEventoRequest) (*dto.SeguimientoResponse, error)
	AgregarFavorito(ctx context.Context, usuarioID uuid.UUID, productoID string) error
	QuitarFavorito(ctx context.Context, usuarioID uuid.UUID, productoID string) error
	ListarFavoritos(ctx context.Context, usuarioID uuid.UUID) (*dto.FavoritosResponse, error)
	HistorialCompras(ctx context.Context, usuarioID uuid.UUID) (*dto.HistorialComprasResponse, error)
}

type clienteService struct {
	paqueteRepo  repository.PaqueteRepository
	favoritoRepo repository.FavoritoRepository
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	carrier      *infra.CarrierClient
	breaker      *infra.CircuitBreaker
}

func NewClienteService(
	paqueteRepo repository.PaqueteRepository,
	favoritoRepo repository.FavoritoRepository,
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	carrier *infra.CarrierClient,
	breaker *infra.CircuitBreaker,
) ClienteService {
	return &clienteService{
		paqueteRepo:  paqueteRepo,
		favoritoRepo: favoritoRepo,
		ventaRepo:    ventaRepo,
		productoRepo: productoRepo,
		carrier:      carrier,
		breaker:      breaker,
	}
}

// Seguimiento returns the tracking detail for an order. When the paquete has
// an external tracking code the live carrier status is attached; a carrier
// outage degrades to the local historial instead of failing the request.
func (s *clienteService) Seguimiento(ctx context.Context, pedidoID uuid.UUID) (*dto.SeguimientoResponse, error) {
	p, err := s.paqueteRepo.FindByVentaID(ctx, pedidoID)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}

	resp := paqueteToSeguimiento(p)

	if p.TrackingExterno != nil && s.carrier != nil && s.carrier.Enabled() {
		estado, err := s.consultarCarrier(ctx, *p.TrackingExterno)
		if err != nil {
			log.Warn().Err(err).Str("pedido_id", pedidoID.String()).Msg("carrier status unavailable")
		} else {
			resp.CarrierEstado = &estado.Estado
		}
	}
	return resp, nil
}

// AgregarEvento appends an estado change to the paquete historial and moves the
// paquete to the new estado.
func (s *clienteService) AgregarEvento(ctx context.Context, pedidoID uuid.UUID, req dto.AgregarEventoRequest) (*dto.SeguimientoResponse, error) {
	p, err := s.paqueteRepo.FindByVentaID(ctx, pedidoID)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}

	evento := &model.EventoPaquete{
		PaqueteID:   p.ID,
		Estado:      req.Estado,
		Descripcion: req.Descripcion,
		Ubicacion:   req.Ubicacion,
	}
	if err := s.paqueteRepo.AddEvento(ctx, evento); err != nil {
		return nil, err
	}

	p.Estado = req.Estado
	if err := s.paqueteRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	refreshed, err := s.paqueteRepo.FindByVentaID(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	return paqueteToSeguimiento(refreshed), nil
}

func (s *clienteService) AgregarFavorito(ctx context.Context, usuarioID uuid.UUID, productoID string) error {
	// Validate the product exists before pinning it.
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return err
	}
	return s.favoritoRepo.Add(ctx, &model.Favorito{UsuarioID: usuarioID, ProductoID: productoID})
}

func (s *clienteService) QuitarFavorito(ctx context.Context, usuarioID uuid.UUID, productoID string) error {
	return s.favoritoRepo.Remove(ctx, usuarioID, productoID)
}

// ListarFavoritos resolves favorites against the catalog. Entries whose
// product has since been deleted are silently skipped.
func (s *clienteService) ListarFavoritos(ctx context.Context, usuarioID uuid.UUID) (*dto.FavoritosResponse, error) {
	favs, err := s.favoritoRepo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resp := &dto.FavoritosResponse{Items: []model.Producto{}}
	for _, f := range favs {
		p, err := s.productoRepo.FindByID(ctx, f.ProductoID)
		if err != nil {
			continue
		}
		resp.Items = append(resp.Items, *p)
	}
	return resp, nil
}

func (s *clienteService) HistorialCompras(ctx context.Context, usuarioID uuid.UUID) (*dto.HistorialComprasResponse, error) {
	ventas, err := s.ventaRepo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resp := &dto.HistorialComprasResponse{Ventas: []dto.VentaResponse{}}
	for i := range ventas {
		resp.Ventas = append(resp.Ventas, *ventaToResponse(&ventas[i]))
	}
	return resp, nil
}

func (s *clienteService) consultarCarrier(ctx context.Context, tracking string) (*infra.CarrierStatus, error) {
	if s.breaker == nil {
		return s.carrier.Estado(ctx, tracking)
	}
	var estado *infra.CarrierStatus
	err := s.breaker.Execute(func() error {
		var err error
		estado, err = s.carrier.Estado(ctx, tracking)
		return err
	})
	return estado, err
}

func paqueteToSeguimiento(p *model.Paquete) *dto.SeguimientoResponse {
	resp := &dto.SeguimientoResponse{
		PedidoID:        p.VentaID.String(),
		Estado:          p.Estado,
		Carrier:         p.Carrier,
		TrackingExterno: p.TrackingExterno,
		Historial:       []dto.EventoPaqueteResponse{},
	}
	for _, e := range p.Historial {
		resp.Historial = append(resp.Historial, dto.EventoPaqueteResponse{
			Estado:      e.Estado,
			Descripcion: e.Descripcion,
			Ubicacion:   e.Ubicacion,
			Fecha:       e.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}
