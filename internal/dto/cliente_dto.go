package dto

import "tiendapos/internal/model"

// ─── Seguimiento ─────────────────────────────────────────────────────────────

type EventoPaqueteResponse struct {
	Estado      string  `json:"estado"`
	Descripcion string  `json:"descripcion"`
	Ubicacion   *string `json:"ubicacion,omitempty"`
	Fecha       string  `json:"fecha"`
}

// SeguimientoResponse is the tracking detail for a pedido, historial
// oldest-first. CarrierEstado is the live carrier status when reachable.
type SeguimientoResponse struct {
	PedidoID        string                  `json:"pedidoId"`
	Estado          string                  `json:"estado"`
	Carrier         string                  `json:"carrier,omitempty"`
	TrackingExterno *string                 `json:"tracking_externo,omitempty"`
	CarrierEstado   *string                 `json:"carrier_estado,omitempty"`
	Historial       []EventoPaqueteResponse `json:"historial"`
}

type AgregarEventoRequest struct {
	Estado      string  `json:"estado"      validate:"required,oneof=preparando en_transito entregado devuelto"`
	Descripcion string  `json:"descripcion" validate:"required,min=3,max=300"`
	Ubicacion   *string `json:"ubicacion"   validate:"omitempty,max=120"`
}

// ─── Favoritos / historial de compras ────────────────────────────────────────

type FavoritosResponse struct {
	Items []model.Producto `json:"items"`
}

type HistorialComprasResponse struct {
	Ventas []VentaResponse `json:"ventas"`
}
