package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rule types whose promotions apply without a rule value.
const (
	ReglaGlobal        = "GLOBAL"
	ReglaRebajas       = "REBAJAS"
	ReglaFechaEspecial = "FECHA_ESPECIAL"
	ReglaMarca         = "MARCA"
	ReglaSKU           = "SKU"
)

// Promocion carries discount metadata applied to sale lines.
// TipoDescuento: "PERCENTAGE" | "AMOUNT"
// ValorRegla is required for rule types that target a subset of the catalog
// (MARCA, SKU) and must be empty for GLOBAL / REBAJAS / FECHA_ESPECIAL.
type Promocion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string          `gorm:"not null"`
	TipoDescuento string          `gorm:"type:varchar(20);not null"`
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoRegla     string          `gorm:"type:varchar(30);not null"`
	ValorRegla    *string
	Desde         time.Time `gorm:"not null"`
	// Hasta nil = open-ended promotion
	Hasta     *time.Time
	Activa    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VigenteEn reports whether the promotion is active at t.
func (p *Promocion) VigenteEn(t time.Time) bool {
	if !p.Activa {
		return false
	}
	if t.Before(p.Desde) {
		return false
	}
	if p.Hasta != nil && t.After(*p.Hasta) {
		return false
	}
	return true
}

// RequiereValorRegla reports whether the rule type demands a rule value.
func RequiereValorRegla(tipoRegla string) bool {
	switch tipoRegla {
	case ReglaGlobal, ReglaRebajas, ReglaFechaEspecial:
		return false
	}
	return true
}
