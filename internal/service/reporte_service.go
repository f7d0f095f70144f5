package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/infra"
	"tiendapos/internal/repository"

	"github.com/shopspring/decimal"
)

var ErrRangoReporte = errors.New("rango de fechas inválido: use startDate y endDate como YYYY-MM-DD")

// ReporteService aggregates dashboard counters and sales reports.
type ReporteService interface {
	StatsFull(ctx context.Context) (*dto.StatsFullResponse, error)
	ReporteVentas(ctx context.Context, filter dto.ReporteVentasFilter) (*dto.ReporteVentasResponse, error)
	ReporteVentasPDF(ctx context.Context, filter dto.ReporteVentasFilter) (string, error)
}

type reporteService struct {
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	promoRepo    repository.PromocionRepository
	corteRepo    repository.CorteRepository
	usuarioRepo  repository.UsuarioRepository
	pdfPath      string
}

func NewReporteService(
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	promoRepo repository.PromocionRepository,
	corteRepo repository.CorteRepository,
	usuarioRepo repository.UsuarioRepository,
	pdfPath string,
) ReporteService {
	return &reporteService{
		ventaRepo:    ventaRepo,
		productoRepo: productoRepo,
		promoRepo:    promoRepo,
		corteRepo:    corteRepo,
		usuarioRepo:  usuarioRepo,
		pdfPath:      pdfPath,
	}
}

func (s *reporteService) StatsFull(ctx context.Context) (*dto.StatsFullResponse, error) {
	activos, err := s.productoRepo.CountActivos(ctx)
	if err != nil {
		return nil, err
	}
	bajoStock, err := s.productoRepo.CountBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	ventasHoy, montoHoy, err := s.ventaRepo.CountHoy(ctx)
	if err != nil {
		return nil, err
	}
	promos, err := s.promoRepo.CountActivas(ctx)
	if err != nil {
		return nil, err
	}
	cortes, err := s.corteRepo.CountAbiertos(ctx)
	if err != nil {
		return nil, err
	}
	usuarios, err := s.usuarioRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsFullResponse{
		ProductosActivos:    activos,
		ProductosBajoStock:  bajoStock,
		VentasHoy:           ventasHoy,
		MontoHoy:            decimal.NewFromFloat(montoHoy).Round(2),
		PromocionesActivas:  promos,
		CortesAbiertos:      cortes,
		UsuariosRegistrados: usuarios,
	}, nil
}

// parseRango turns startDate/endDate into an inclusive day range. The end
// bound is exclusive (endDate + 1 day) so the whole last day counts.
func parseRango(filter dto.ReporteVentasFilter) (time.Time, time.Time, error) {
	desde, err := time.Parse("2006-01-02", filter.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, ErrRangoReporte
	}
	hasta, err := time.Parse("2006-01-02", filter.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, ErrRangoReporte
	}
	if hasta.Before(desde) {
		return time.Time{}, time.Time{}, ErrRangoReporte
	}
	return desde, hasta.AddDate(0, 0, 1), nil
}

func (s *reporteService) ReporteVentas(ctx context.Context, filter dto.ReporteVentasFilter) (*dto.ReporteVentasResponse, error) {
	desde, hasta, err := parseRango(filter)
	if err != nil {
		return nil, err
	}
	ventas, err := s.ventaRepo.ListByRange(ctx, repository.VentaFilter{
		Desde:  desde,
		Hasta:  hasta,
		Estado: "completada",
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ReporteVentasResponse{
		Desde:          filter.StartDate,
		Hasta:          filter.EndDate,
		TotalVentas:    len(ventas),
		MontoTotal:     decimal.Zero,
		DescuentoTotal: decimal.Zero,
	}
	for i := range ventas {
		resp.MontoTotal = resp.MontoTotal.Add(ventas[i].Total)
		resp.DescuentoTotal = resp.DescuentoTotal.Add(ventas[i].DescuentoTotal)
		resp.Ventas = append(resp.Ventas, *ventaToResponse(&ventas[i]))
	}
	return resp, nil
}

// ReporteVentasPDF renders the range report to a PDF file and returns its path.
func (s *reporteService) ReporteVentasPDF(ctx context.Context, filter dto.ReporteVentasFilter) (string, error) {
	desde, hasta, err := parseRango(filter)
	if err != nil {
		return "", err
	}
	ventas, err := s.ventaRepo.ListByRange(ctx, repository.VentaFilter{
		Desde:  desde,
		Hasta:  hasta,
		Estado: "completada",
	})
	if err != nil {
		return "", err
	}
	return infra.GenerateSalesReportPDF(ventas, filter.StartDate, filter.EndDate, s.pdfPath)
}
