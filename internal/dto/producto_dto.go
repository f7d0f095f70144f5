package dto

import "tiendapos/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest binds the multipart admin form. The optional image file
// is read from the request separately by the handler.
type CrearProductoRequest struct {
	SKU         string  `form:"sku"         validate:"required,min=2,max=40"`
	Nombre      string  `form:"name"        validate:"required,min=2,max=120"`
	Marca       string  `form:"brand"       validate:"max=60"`
	Precio      float64 `form:"price"       validate:"min=0"`
	StockQty    int     `form:"stockQty"    validate:"min=0"`
	MinStock    int     `form:"minStock"    validate:"min=0"`
	Descripcion string  `form:"description" validate:"max=2000"`
	Activo      *bool   `form:"active"`
}

// ActualizarProductoRequest has the same multipart shape; absent fields are
// treated as "leave unchanged". A stockQty edit is applied as a delta through
// the atomic adjustment path, never as a blind overwrite.
type ActualizarProductoRequest struct {
	SKU         *string  `form:"sku"         validate:"omitempty,min=2,max=40"`
	Nombre      *string  `form:"name"        validate:"omitempty,min=2,max=120"`
	Marca       *string  `form:"brand"       validate:"omitempty,max=60"`
	Precio      *float64 `form:"price"       validate:"omitempty,min=0"`
	StockQty    *int     `form:"stockQty"    validate:"omitempty,min=0"`
	MinStock    *int     `form:"minStock"    validate:"omitempty,min=0"`
	Descripcion *string  `form:"description" validate:"omitempty,max=2000"`
	Activo      *bool    `form:"active"`
}

// AjustarStockRequest is the wire shape of POST /api/stock/adjust.
// The sign of the delta is derived from Tipo, never supplied directly.
type AjustarStockRequest struct {
	ProductoID string `json:"productId" validate:"required"`
	Tipo       string `json:"type"      validate:"required,oneof=IN OUT"`
	Cantidad   int    `json:"quantity"  validate:"required,gt=0"`
	Motivo     string `json:"reason"    validate:"max=300"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Search string `form:"search"`
	// Activo: "false" = inactivos, "all" = todos, anything else = activos
	Activo string `form:"active"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoListResponse struct {
	Items []model.Producto `json:"items"`
	Total int64            `json:"total"`
}

type AjustarStockResponse struct {
	OK       bool `json:"ok"`
	StockQty int  `json:"stockQty"`
}

type MovimientoStockFilter struct {
	ProductoID string `form:"productId"`
	Tipo       string `form:"type"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"productId"`
	Tipo          string  `json:"type"`
	Cantidad      int     `json:"quantity"`
	StockAnterior int     `json:"stockBefore"`
	StockNuevo    int     `json:"stockAfter"`
	Motivo        string  `json:"reason"`
	UsuarioID     *string `json:"userId,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

type MovimientoStockListResponse struct {
	Items []MovimientoStockResponse `json:"items"`
	Total int64                     `json:"total"`
}
