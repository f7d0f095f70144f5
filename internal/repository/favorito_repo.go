package repository

import (
	"context"
	"errors"
	"strings"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrFavoritoDuplicado = errors.New("el producto ya está en favoritos")

type FavoritoRepository interface {
	Add(ctx context.Context, f *model.Favorito) error
	Remove(ctx context.Context, usuarioID uuid.UUID, productoID string) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Favorito, error)
}

type favoritoRepo struct{ db *gorm.DB }

func NewFavoritoRepository(db *gorm.DB) FavoritoRepository { return &favoritoRepo{db: db} }

func (r *favoritoRepo) Add(ctx context.Context, f *model.Favorito) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if err != nil && strings.Contains(err.Error(), "idx_usuario_producto") {
		return ErrFavoritoDuplicado
	}
	return err
}

func (r *favoritoRepo) Remove(ctx context.Context, usuarioID uuid.UUID, productoID string) error {
	return r.db.WithContext(ctx).
		Where("usuario_id = ? AND producto_id = ?", usuarioID, productoID).
		Delete(&model.Favorito{}).Error
}

func (r *favoritoRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Favorito, error) {
	var favoritos []model.Favorito
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Find(&favoritos).Error
	return favoritos, err
}
