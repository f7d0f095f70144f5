package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"productId" validate:"required"`
	Cantidad   int    `json:"quantity"  validate:"required,gt=0"`
}

// RegistrarVentaRequest records a sale. CorteID is required for register sales
// (cajero); storefront checkouts (cliente) omit it and get a trackable paquete.
type RegistrarVentaRequest struct {
	CorteID    *string            `json:"corteId"    validate:"omitempty,uuid"`
	Items      []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
	MetodoPago string             `json:"metodoPago" validate:"required,oneof=efectivo debito credito transferencia"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"productId"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"quantity"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	CorteID        *string             `json:"corteId,omitempty"`
	Items          []ItemVentaResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DescuentoTotal decimal.Decimal     `json:"descuento_total"`
	Total          decimal.Decimal     `json:"total"`
	MetodoPago     string              `json:"metodoPago"`
	Estado         string              `json:"estado"`
	CreatedAt      string              `json:"createdAt"`
}
