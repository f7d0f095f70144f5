package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPromocionRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2,max=120"`
	TipoDescuento string          `json:"tipo_descuento" validate:"required,oneof=PERCENTAGE AMOUNT"`
	Valor         decimal.Decimal `json:"valor"          validate:"required"`
	TipoRegla     string          `json:"tipo_regla"     validate:"required,oneof=GLOBAL REBAJAS FECHA_ESPECIAL MARCA SKU"`
	ValorRegla    *string         `json:"valor_regla"`
	Desde         string          `json:"desde"          validate:"required"`
	Hasta         *string         `json:"hasta"`
	Activa        *bool           `json:"activa"`
}

type ActualizarPromocionRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=120"`
	TipoDescuento *string          `json:"tipo_descuento" validate:"omitempty,oneof=PERCENTAGE AMOUNT"`
	Valor         *decimal.Decimal `json:"valor"`
	TipoRegla     *string          `json:"tipo_regla"     validate:"omitempty,oneof=GLOBAL REBAJAS FECHA_ESPECIAL MARCA SKU"`
	ValorRegla    *string          `json:"valor_regla"`
	Desde         *string          `json:"desde"`
	Hasta         *string          `json:"hasta"`
	Activa        *bool            `json:"activa"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PromocionResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	TipoDescuento string          `json:"tipo_descuento"`
	Valor         decimal.Decimal `json:"valor"`
	TipoRegla     string          `json:"tipo_regla"`
	ValorRegla    *string         `json:"valor_regla"`
	Desde         string          `json:"desde"`
	Hasta         *string         `json:"hasta"`
	Activa        bool            `json:"activa"`
}
