package model

import (
	"time"

	"github.com/google/uuid"
)

// Paquete tracks the fulfillment of a storefront order (pedido = venta id).
// Estado: "preparando" | "en_transito" | "entregado" | "devuelto"
type Paquete struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Estado  string    `gorm:"type:varchar(20);not null;default:'preparando'"`
	Carrier string    `gorm:"type:varchar(40)"`
	// TrackingExterno is the carrier-side tracking code, when one exists.
	TrackingExterno *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Historial []EventoPaquete `gorm:"foreignKey:PaqueteID"`
}

// EventoPaquete is one entry in a paquete's historial. Events are immutable
// and returned oldest-first.
type EventoPaquete struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaqueteID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado      string    `gorm:"type:varchar(20);not null"`
	Descripcion string    `gorm:"not null"`
	Ubicacion   *string
	CreatedAt   time.Time
}
