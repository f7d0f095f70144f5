package dto

import "github.com/shopspring/decimal"

// ─── Filters ─────────────────────────────────────────────────────────────────

// ReporteVentasFilter binds startDate / endDate as YYYY-MM-DD.
type ReporteVentasFilter struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReporteVentasResponse struct {
	Desde          string          `json:"startDate"`
	Hasta          string          `json:"endDate"`
	TotalVentas    int             `json:"total_ventas"`
	MontoTotal     decimal.Decimal `json:"monto_total"`
	DescuentoTotal decimal.Decimal `json:"descuento_total"`
	Ventas         []VentaResponse `json:"ventas"`
}

// StatsFullResponse feeds the admin dashboard counters.
type StatsFullResponse struct {
	ProductosActivos    int64           `json:"productos_activos"`
	ProductosBajoStock  int64           `json:"productos_bajo_stock"`
	VentasHoy           int64           `json:"ventas_hoy"`
	MontoHoy            decimal.Decimal `json:"monto_hoy"`
	PromocionesActivas  int64           `json:"promociones_activas"`
	CortesAbiertos      int64           `json:"cortes_abiertos"`
	UsuariosRegistrados int64           `json:"usuarios_registrados"`
}
