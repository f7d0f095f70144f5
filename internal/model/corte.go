package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Corte represents the lifecycle of a cash register session, from opening the
// till to the declared-count close.
// Estado: "abierto" | "cerrado"
// At most one open corte per cashier, enforced by a partial unique index
// (see infra.applySchemaPatches).
type Corte struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoEsperado is computed on close: MontoInicial + cash sales in session
	MontoEsperado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado         string           `gorm:"type:varchar(20);not null;default:'abierto'"`
	OpenedAt       time.Time
	ClosedAt       *time.Time

	Ventas []Venta `gorm:"foreignKey:CorteID"`
}
