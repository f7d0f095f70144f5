package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Descuento is the discount sub-document embedded in a Producto.
// Tipo: "PERCENTAGE" | "AMOUNT"
type Descuento struct {
	Tipo        string  `bson:"tipo" json:"tipo"`
	Valor       float64 `bson:"valor" json:"valor"`
	Promocion   string  `bson:"promocion" json:"promocion"`
	Activo      bool    `bson:"activo" json:"activo"`
	PromocionID string  `bson:"promocion_id,omitempty" json:"promocionId,omitempty"`
}

// Producto is a catalog document stored in MongoDB.
// SKULower is a case-folded copy of SKU backing the unique index — SKU
// uniqueness is case-insensitive and enforced at the store layer.
type Producto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SKU         string             `bson:"sku" json:"sku"`
	SKULower    string             `bson:"sku_lower" json:"-"`
	Nombre      string             `bson:"nombre" json:"name"`
	Marca       string             `bson:"marca" json:"brand"`
	Precio      float64            `bson:"precio" json:"price"`
	StockQty    int                `bson:"stock_qty" json:"stockQty"`
	MinStock    int                `bson:"min_stock" json:"minStock"`
	Descripcion string             `bson:"descripcion,omitempty" json:"description"`
	// Imagenes preserves upload order; the first entry is the cover image.
	Imagenes  []string   `bson:"imagenes,omitempty" json:"images"`
	Activo    bool       `bson:"activo" json:"active"`
	Descuento *Descuento `bson:"descuento,omitempty" json:"descuento,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

// BajoStock reports whether the product is at or below its minimum.
func (p *Producto) BajoStock() bool { return p.StockQty <= p.MinStock }
