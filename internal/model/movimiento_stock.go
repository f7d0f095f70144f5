package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio de stock en un producto del catálogo.
// Se crea en cada ajuste manual y en cada venta. Movements are NEVER modified
// or deleted — the ledger is append-only.
// Tipo: "IN" | "OUT" | "venta" | "restore_anulacion"
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID string    `gorm:"not null;index"`
	Tipo       string    `gorm:"type:varchar(20);not null"`
	Cantidad   int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int    `gorm:"not null"`
	StockNuevo    int    `gorm:"not null"`
	Motivo        string
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_id if applicable
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }
