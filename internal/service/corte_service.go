package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
)

var ErrCorteNoAbierto = errors.New("el usuario no tiene un corte abierto")

// CorteService manages cash register sessions: one open session per cashier,
// cash reconciliation on close.
type CorteService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCorteRequest) (*dto.AbrirCorteResponse, error)
	Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCorteRequest) (*dto.CorteResponse, error)
	Activa(ctx context.Context, usuarioID uuid.UUID) (*dto.CorteResponse, error)
}

type corteService struct {
	repo      repository.CorteRepository
	ventaRepo repository.VentaRepository
}

func NewCorteService(repo repository.CorteRepository, ventaRepo repository.VentaRepository) CorteService {
	return &corteService{repo: repo, ventaRepo: ventaRepo}
}

// Abrir opens a corte for the cashier. The partial unique index on cortes
// rejects a second open session; the repository surfaces that as
// repository.ErrCorteYaAbierto, which the handler maps to 409.
func (s *corteService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCorteRequest) (*dto.AbrirCorteResponse, error) {
	c := &model.Corte{
		UsuarioID:    usuarioID,
		MontoInicial: req.MontoInicial,
		Estado:       "abierto",
		OpenedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.AbrirCorteResponse{CorteID: c.ID.String()}, nil
}

// Cerrar closes the cashier's open corte. Expected cash is the opening float
// plus completed cash sales of the session; the desvío is declared minus
// expected.
func (s *corteService) Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCorteRequest) (*dto.CorteResponse, error) {
	c, err := s.repo.FindAbiertoPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, ErrCorteNoAbierto
	}

	efectivo, err := s.ventaRepo.SumCorteEfectivo(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	esperado := c.MontoInicial.Add(efectivo)
	declarado := req.MontoDeclarado
	desvio := declarado.Sub(esperado)
	now := time.Now()

	c.MontoEsperado = &esperado
	c.MontoDeclarado = &declarado
	c.Desvio = &desvio
	c.Estado = "cerrado"
	c.ClosedAt = &now

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// Activa returns the cashier's open corte, or ErrCorteNoAbierto.
func (s *corteService) Activa(ctx context.Context, usuarioID uuid.UUID) (*dto.CorteResponse, error) {
	c, err := s.repo.FindAbiertoPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, ErrCorteNoAbierto
	}
	return s.toResponse(c), nil
}

func (s *corteService) toResponse(c *model.Corte) *dto.CorteResponse {
	resp := &dto.CorteResponse{
		CorteID:        c.ID.String(),
		Usuario:        c.UsuarioID.String(),
		MontoInicial:   c.MontoInicial,
		MontoEsperado:  c.MontoEsperado,
		MontoDeclarado: c.MontoDeclarado,
		Desvio:         c.Desvio,
		TotalVentas:    len(c.Ventas),
		Estado:         c.Estado,
		OpenedAt:       c.OpenedAt.Format(time.RFC3339),
	}
	if c.ClosedAt != nil {
		cerrado := c.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &cerrado
	}
	return resp
}
