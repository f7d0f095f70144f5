package model

import (
	"time"

	"github.com/google/uuid"
)

// Favorito links a storefront user to a catalog product.
type Favorito struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usuario_producto"`
	ProductoID string    `gorm:"not null;uniqueIndex:idx_usuario_producto"`
	CreatedAt  time.Time
}
