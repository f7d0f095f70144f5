package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a completed sale, either from a register (CorteID set) or from the
// storefront checkout (CorteID nil, a Paquete is created for tracking).
// Estado: "completada" | "anulada"
type Venta struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CorteID        *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago     string          `gorm:"type:varchar(20);not null"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt      time.Time       `gorm:"index"`

	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
	Items   []VentaItem `gorm:"foreignKey:VentaID"`
}

// VentaItem is a sale line. ProductoID is the catalog document id (hex);
// Nombre and PrecioUnitario are denormalized at sale time so the line survives
// later catalog edits.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     string          `gorm:"not null;index"`
	Nombre         string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
