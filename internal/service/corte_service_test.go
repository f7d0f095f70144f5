package service_test

import (
	"context"
	"testing"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCorteFixture() (service.CorteService, *stubCorteRepo, *stubVentaRepo) {
	corteRepo := newStubCorteRepo()
	ventaRepo := newStubVentaRepo()
	svc := service.NewCorteService(corteRepo, ventaRepo)
	return svc, corteRepo, ventaRepo
}

func TestAbrirCorte(t *testing.T) {
	svc, repo, _ := newCorteFixture()
	usuario := uuid.New()

	resp, err := svc.Abrir(context.Background(), usuario, dto.AbrirCorteRequest{
		MontoInicial: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.CorteID)
	assert.Len(t, repo.cortes, 1)
}

func TestAbrirCorteDobleApertura(t *testing.T) {
	svc, _, _ := newCorteFixture()
	usuario := uuid.New()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, usuario, dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(5000)})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, usuario, dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(1000)})
	assert.ErrorIs(t, err, repository.ErrCorteYaAbierto)
}

func TestAbrirCorteOtroCajeroNoConflicta(t *testing.T) {
	svc, _, _ := newCorteFixture()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	_, err = svc.Abrir(ctx, uuid.New(), dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(5000)})
	assert.NoError(t, err)
}

func TestCerrarCorteCalculaDesvio(t *testing.T) {
	svc, _, ventaRepo := newCorteFixture()
	usuario := uuid.New()
	ctx := context.Background()

	abierto, err := svc.Abrir(ctx, usuario, dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	corteID := uuid.MustParse(abierto.CorteID)

	// Two cash sales and one card sale in the session
	require.NoError(t, ventaRepo.Create(ctx, nil, &model.Venta{
		CorteID: &corteID, UsuarioID: usuario, Total: decimal.NewFromInt(1200),
		MetodoPago: "efectivo", Estado: "completada",
	}))
	require.NoError(t, ventaRepo.Create(ctx, nil, &model.Venta{
		CorteID: &corteID, UsuarioID: usuario, Total: decimal.NewFromInt(800),
		MetodoPago: "efectivo", Estado: "completada",
	}))
	require.NoError(t, ventaRepo.Create(ctx, nil, &model.Venta{
		CorteID: &corteID, UsuarioID: usuario, Total: decimal.NewFromInt(9999),
		MetodoPago: "debito", Estado: "completada",
	}))

	resp, err := svc.Cerrar(ctx, usuario, dto.CerrarCorteRequest{
		MontoDeclarado: decimal.NewFromInt(6900),
	})
	require.NoError(t, err)

	// Expected: 5000 + 1200 + 800 = 7000; declared 6900 → desvío -100
	require.NotNil(t, resp.MontoEsperado)
	assert.True(t, resp.MontoEsperado.Equal(decimal.NewFromInt(7000)), "got %s", resp.MontoEsperado)
	require.NotNil(t, resp.Desvio)
	assert.True(t, resp.Desvio.Equal(decimal.NewFromInt(-100)), "got %s", resp.Desvio)
	assert.Equal(t, "cerrado", resp.Estado)
	assert.NotNil(t, resp.ClosedAt)
}

func TestCerrarCorteSinAbierto(t *testing.T) {
	svc, _, _ := newCorteFixture()

	_, err := svc.Cerrar(context.Background(), uuid.New(), dto.CerrarCorteRequest{
		MontoDeclarado: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, service.ErrCorteNoAbierto)
}

func TestReabrirDespuesDeCerrar(t *testing.T) {
	svc, _, _ := newCorteFixture()
	usuario := uuid.New()
	ctx := context.Background()

	_, err := svc.Abrir(ctx, usuario, dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = svc.Cerrar(ctx, usuario, dto.CerrarCorteRequest{MontoDeclarado: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, usuario, dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(200)})
	assert.NoError(t, err)
}

func TestCorteActiva(t *testing.T) {
	svc, _, _ := newCorteFixture()
	usuario := uuid.New()
	ctx := context.Background()

	_, err := svc.Activa(ctx, usuario)
	assert.ErrorIs(t, err, service.ErrCorteNoAbierto)

	abierto, err := svc.Abrir(ctx, usuario, dto.AbrirCorteRequest{MontoInicial: decimal.NewFromInt(100)})
	require.NoError(t, err)

	resp, err := svc.Activa(ctx, usuario)
	require.NoError(t, err)
	assert.Equal(t, abierto.CorteID, resp.CorteID)
	assert.Equal(t, "abierto", resp.Estado)
}
