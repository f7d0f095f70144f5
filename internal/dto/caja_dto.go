package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCorteRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type CerrarCorteRequest struct {
	MontoDeclarado decimal.Decimal `json:"monto_declarado" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AbrirCorteResponse struct {
	CorteID string `json:"corteId"`
}

type CorteResponse struct {
	CorteID        string           `json:"corteId"`
	Usuario        string           `json:"usuario"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	MontoEsperado  *decimal.Decimal `json:"monto_esperado,omitempty"`
	MontoDeclarado *decimal.Decimal `json:"monto_declarado,omitempty"`
	Desvio         *decimal.Decimal `json:"desvio,omitempty"`
	TotalVentas    int              `json:"total_ventas"`
	Estado         string           `json:"estado"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       *string          `json:"closed_at,omitempty"`
}
