package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrValorReglaRequerido = errors.New("el tipo de regla requiere un valor de regla")
	ErrValorReglaSobrante  = errors.New("el tipo de regla no admite valor de regla")
	ErrRangoFechasInvalido = errors.New("la fecha de fin debe ser posterior a la de inicio")
	ErrValorPromocion      = errors.New("el valor del descuento es inválido")
)

// PromocionService manages promotions and keeps the discount sub-documents of
// the catalog in sync with them.
type PromocionService interface {
	Crear(ctx context.Context, req dto.CrearPromocionRequest) (*model.Promocion, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Promocion, error)
	Listar(ctx context.Context) ([]model.Promocion, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPromocionRequest) (*model.Promocion, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Vigentes(ctx context.Context) ([]model.Promocion, error)
}

type promocionService struct {
	repo         repository.PromocionRepository
	productoRepo repository.ProductoRepository
}

func NewPromocionService(repo repository.PromocionRepository, productoRepo repository.ProductoRepository) PromocionService {
	return &promocionService{repo: repo, productoRepo: productoRepo}
}

func validarRegla(tipoRegla string, valorRegla *string) error {
	requiere := model.RequiereValorRegla(tipoRegla)
	tiene := valorRegla != nil && *valorRegla != ""
	if requiere && !tiene {
		return ErrValorReglaRequerido
	}
	if !requiere && tiene {
		return ErrValorReglaSobrante
	}
	return nil
}

func validarValor(tipoDescuento string, valor decimal.Decimal) error {
	if valor.LessThanOrEqual(decimal.Zero) {
		return ErrValorPromocion
	}
	if tipoDescuento == "PERCENTAGE" && valor.GreaterThan(decimal.NewFromInt(100)) {
		return ErrValorPromocion
	}
	return nil
}

func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (s *promocionService) Crear(ctx context.Context, req dto.CrearPromocionRequest) (*model.Promocion, error) {
	if err := validarRegla(req.TipoRegla, req.ValorRegla); err != nil {
		return nil, err
	}
	if err := validarValor(req.TipoDescuento, req.Valor); err != nil {
		return nil, err
	}

	desde, err := parseFecha(req.Desde)
	if err != nil {
		return nil, errors.New("fecha de inicio inválida")
	}
	var hasta *time.Time
	if req.Hasta != nil && *req.Hasta != "" {
		h, err := parseFecha(*req.Hasta)
		if err != nil {
			return nil, errors.New("fecha de fin inválida")
		}
		if !h.After(desde) {
			return nil, ErrRangoFechasInvalido
		}
		hasta = &h
	}

	activa := true
	if req.Activa != nil {
		activa = *req.Activa
	}
	p := &model.Promocion{
		Nombre:        req.Nombre,
		TipoDescuento: req.TipoDescuento,
		Valor:         req.Valor,
		TipoRegla:     req.TipoRegla,
		ValorRegla:    req.ValorRegla,
		Desde:         desde,
		Hasta:         hasta,
		Activa:        activa,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.sincronizarCatalogo(ctx, p)
	return p, nil
}

func (s *promocionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Promocion, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *promocionService) Listar(ctx context.Context) ([]model.Promocion, error) {
	return s.repo.List(ctx)
}

func (s *promocionService) Vigentes(ctx context.Context) ([]model.Promocion, error) {
	return s.repo.ListVigentes(ctx, time.Now())
}

func (s *promocionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPromocionRequest) (*model.Promocion, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.TipoDescuento != nil {
		p.TipoDescuento = *req.TipoDescuento
	}
	if req.Valor != nil {
		p.Valor = *req.Valor
	}
	if req.TipoRegla != nil {
		p.TipoRegla = *req.TipoRegla
	}
	if req.ValorRegla != nil {
		p.ValorRegla = req.ValorRegla
	}
	if req.Desde != nil {
		desde, err := parseFecha(*req.Desde)
		if err != nil {
			return nil, errors.New("fecha de inicio inválida")
		}
		p.Desde = desde
	}
	if req.Hasta != nil {
		if *req.Hasta == "" {
			p.Hasta = nil
		} else {
			h, err := parseFecha(*req.Hasta)
			if err != nil {
				return nil, errors.New("fecha de fin inválida")
			}
			p.Hasta = &h
		}
	}
	if req.Activa != nil {
		p.Activa = *req.Activa
	}

	if err := validarRegla(p.TipoRegla, p.ValorRegla); err != nil {
		return nil, err
	}
	if err := validarValor(p.TipoDescuento, p.Valor); err != nil {
		return nil, err
	}
	if p.Hasta != nil && !p.Hasta.After(p.Desde) {
		return nil, ErrRangoFechasInvalido
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// Re-sync from scratch: remove stale discount stamps, then re-apply.
	if _, err := s.productoRepo.QuitarDescuento(ctx, p.ID.String()); err != nil {
		log.Error().Err(err).Str("promocion_id", p.ID.String()).Msg("failed to clear catalog discounts")
	}
	s.sincronizarCatalogo(ctx, p)
	return p, nil
}

func (s *promocionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productoRepo.QuitarDescuento(ctx, id.String()); err != nil {
		log.Error().Err(err).Str("promocion_id", id.String()).Msg("failed to clear catalog discounts")
	}
	return s.repo.Delete(ctx, id)
}

// sincronizarCatalogo stamps the promotion's discount onto the matching catalog
// documents so the storefront can render prices without a JOIN across stores.
// Sale-time discounting still evaluates promotions directly; the stamp is a
// display cache.
func (s *promocionService) sincronizarCatalogo(ctx context.Context, p *model.Promocion) {
	if !p.VigenteEn(time.Now()) {
		return
	}
	valor, _ := p.Valor.Float64()
	d := model.Descuento{
		Tipo:        p.TipoDescuento,
		Valor:       valor,
		Promocion:   p.Nombre,
		Activo:      true,
		PromocionID: p.ID.String(),
	}
	n, err := s.productoRepo.AplicarDescuento(ctx, p.TipoRegla, p.ValorRegla, d)
	if err != nil {
		log.Error().Err(err).Str("promocion_id", p.ID.String()).Msg("failed to stamp catalog discounts")
		return
	}
	log.Info().Str("promocion", p.Nombre).Int64("productos", n).Msg("catalog discounts stamped")
}

// MejorDescuento returns the largest discount among the given promotions for a
// single sale line, along with the promotion that produced it. Promotions that
// do not match the product, or are not in their window, contribute nothing.
func MejorDescuento(promos []model.Promocion, p *model.Producto, cantidad int, en time.Time) (decimal.Decimal, *model.Promocion) {
	precio := decimal.NewFromFloat(p.Precio)
	bruto := precio.Mul(decimal.NewFromInt(int64(cantidad)))

	mejor := decimal.Zero
	var elegida *model.Promocion
	for i := range promos {
		promo := &promos[i]
		if !promo.VigenteEn(en) || !aplicaAProducto(promo, p) {
			continue
		}
		var d decimal.Decimal
		switch promo.TipoDescuento {
		case "PERCENTAGE":
			d = bruto.Mul(promo.Valor).Div(decimal.NewFromInt(100))
		case "AMOUNT":
			d = promo.Valor
			if d.GreaterThan(bruto) {
				d = bruto
			}
		default:
			continue
		}
		if d.GreaterThan(mejor) {
			mejor = d
			elegida = promo
		}
	}
	return mejor.Round(2), elegida
}

func aplicaAProducto(promo *model.Promocion, p *model.Producto) bool {
	switch promo.TipoRegla {
	case model.ReglaGlobal, model.ReglaRebajas, model.ReglaFechaEspecial:
		return true
	case model.ReglaMarca:
		return promo.ValorRegla != nil && *promo.ValorRegla == p.Marca
	case model.ReglaSKU:
		return promo.ValorRegla != nil && *promo.ValorRegla == p.SKU
	}
	return false
}
