package service_test

import (
	"context"
	"testing"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	svc          service.VentaService
	ventaRepo    *stubVentaRepo
	productoRepo *stubProductoRepo
	promoRepo    *stubPromocionRepo
	corteRepo    *stubCorteRepo
	paqueteRepo  *stubPaqueteRepo
	movRepo      *stubMovimientoRepo
}

func newVentaFixture() *ventaFixture {
	f := &ventaFixture{
		ventaRepo:    newStubVentaRepo(),
		productoRepo: newStubProductoRepo(),
		promoRepo:    newStubPromocionRepo(),
		corteRepo:    newStubCorteRepo(),
		paqueteRepo:  newStubPaqueteRepo(),
		movRepo:      &stubMovimientoRepo{},
	}
	f.svc = service.NewVentaService(f.ventaRepo, f.productoRepo, f.promoRepo,
		f.corteRepo, f.paqueteRepo, f.movRepo, nil)
	return f
}

func (f *ventaFixture) abrirCorte(t *testing.T, usuario uuid.UUID) uuid.UUID {
	t.Helper()
	corte := &model.Corte{UsuarioID: usuario, MontoInicial: decimal.NewFromInt(1000), Estado: "abierto", OpenedAt: time.Now()}
	require.NoError(t, f.corteRepo.Create(context.Background(), corte))
	return corte.ID
}

func TestRegistrarVentaCaja(t *testing.T) {
	f := newVentaFixture()
	usuario := uuid.New()
	corteID := f.abrirCorte(t, usuario)
	id := f.productoRepo.add(&model.Producto{SKU: "A", Nombre: "Camiseta", Precio: 1500, StockQty: 10, Activo: true})

	cid := corteID.String()
	resp, err := f.svc.Registrar(context.Background(), usuario, "cajero", dto.RegistrarVentaRequest{
		CorteID:    &cid,
		Items:      []dto.ItemVentaRequest{{ProductoID: id, Cantidad: 2}},
		MetodoPago: "efectivo",
	})
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(3000)), "got %s", resp.Subtotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, "completada", resp.Estado)
	require.NotNil(t, resp.CorteID)
	assert.Equal(t, cid, *resp.CorteID)

	// Stock decremented and ledger row written, referencing the sale
	assert.Equal(t, 8, f.productoRepo.productos[id].StockQty)
	require.Len(t, f.movRepo.movimientos, 1)
	assert.Equal(t, "venta", f.movRepo.movimientos[0].Tipo)
	assert.Equal(t, -2, f.movRepo.movimientos[0].Cantidad)
	require.NotNil(t, f.movRepo.movimientos[0].ReferenciaID)
	assert.Equal(t, resp.ID, f.movRepo.movimientos[0].ReferenciaID.String())

	// Register sales do not create a paquete
	assert.Empty(t, f.paqueteRepo.paquetes)
}

func TestRegistrarVentaAplicaMejorPromocion(t *testing.T) {
	f := newVentaFixture()
	usuario := uuid.New()
	corteID := f.abrirCorte(t, usuario)
	id := f.productoRepo.add(&model.Producto{SKU: "CAM-001", Marca: "Norte", Nombre: "Camiseta", Precio: 1000, StockQty: 10, Activo: true})

	require.NoError(t, f.promoRepo.Create(context.Background(), &model.Promocion{
		Nombre: "10 off", TipoDescuento: "PERCENTAGE", Valor: decimal.NewFromInt(10),
		TipoRegla: "GLOBAL", Desde: time.Now().AddDate(0, 0, -1), Activa: true,
	}))

	cid := corteID.String()
	resp, err := f.svc.Registrar(context.Background(), usuario, "cajero", dto.RegistrarVentaRequest{
		CorteID:    &cid,
		Items:      []dto.ItemVentaRequest{{ProductoID: id, Cantidad: 2}},
		MetodoPago: "debito",
	})
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, resp.DescuentoTotal.Equal(decimal.NewFromInt(200)), "got %s", resp.DescuentoTotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1800)), "got %s", resp.Total)
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	f := newVentaFixture()
	usuario := uuid.New()
	corteID := f.abrirCorte(t, usuario)
	id := f.productoRepo.add(&model.Producto{SKU: "A", Nombre: "Escaso", Precio: 100, StockQty: 1, Activo: true})

	cid := corteID.String()
	_, err := f.svc.Registrar(context.Background(), usuario, "cajero", dto.RegistrarVentaRequest{
		CorteID:    &cid,
		Items:      []dto.ItemVentaRequest{{ProductoID: id, Cantidad: 5}},
		MetodoPago: "efectivo",
	})

	var stockErr *service.ErrStockInsuficiente
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Disponible)
	assert.Equal(t, 5, stockErr.Solicitado)
	// Stock restored after the aborted sale, with no ledger rows
	assert.Equal(t, 1, f.productoRepo.productos[id].StockQty)
	assert.Empty(t, f.movRepo.movimientos)
}

func TestRegistrarVentaCompensaItemsPrevios(t *testing.T) {
	f := newVentaFixture()
	usuario := uuid.New()
	corteID := f.abrirCorte(t, usuario)
	idOK := f.productoRepo.add(&model.Producto{SKU: "A", Nombre: "Con stock", Precio: 100, StockQty: 10, Activo: true})
	idEscaso := f.productoRepo.add(&model.Producto{SKU: "B", Nombre: "Escaso", Precio: 100, StockQty: 0, Activo: true})

	cid := corteID.String()
	_, err := f.svc.Registrar(context.Background(), usuario, "cajero", dto.RegistrarVentaRequest{
		CorteID: &cid,
		Items: []dto.ItemVentaRequest{
			{ProductoID: idOK, Cantidad: 3},
			{ProductoID: idEscaso, Cantidad: 1},
		},
		MetodoPago: "efectivo",
	})
	require.Error(t, err)

	// The first item's decrement is rolled back, and the aborted sale left
	// nothing in the ledger: stock and ledger stay consistent.
	assert.Equal(t, 10, f.productoRepo.productos[idOK].StockQty)
	assert.Equal(t, 0, f.productoRepo.productos[idEscaso].StockQty)
	assert.Empty(t, f.movRepo.movimientos)
}

func TestRegistrarVentaCajeroSinCorte(t *testing.T) {
	f := newVentaFixture()
	id := f.productoRepo.add(&model.Producto{SKU: "A", Nombre: "P", Precio: 100, StockQty: 10, Activo: true})

	_, err := f.svc.Registrar(context.Background(), uuid.New(), "cajero", dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: id, Cantidad: 1}},
		MetodoPago: "efectivo",
	})
	assert.ErrorIs(t, err, service.ErrCorteRequerido)
}

func TestRegistrarVentaClienteCreaPaquete(t *testing.T) {
	f := newVentaFixture()
	usuario := uuid.New()
	id := f.productoRepo.add(&model.Producto{SKU: "A", Nombre: "P", Precio: 100, StockQty: 10, Activo: true})

	resp, err := f.svc.Registrar(context.Background(), usuario, "cliente", dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: id, Cantidad: 1}},
		MetodoPago: "credito",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.CorteID)

	ventaID := uuid.MustParse(resp.ID)
	paquete, err := f.paqueteRepo.FindByVentaID(context.Background(), ventaID)
	require.NoError(t, err)
	assert.Equal(t, "preparando", paquete.Estado)
	require.Len(t, paquete.Historial, 1)
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	f := newVentaFixture()
	usuario := uuid.New()
	corteID := f.abrirCorte(t, usuario)
	id := f.productoRepo.add(&model.Producto{SKU: "A", Nombre: "Retirado", Precio: 100, StockQty: 10, Activo: false})

	cid := corteID.String()
	_, err := f.svc.Registrar(context.Background(), usuario, "cajero", dto.RegistrarVentaRequest{
		CorteID:    &cid,
		Items:      []dto.ItemVentaRequest{{ProductoID: id, Cantidad: 1}},
		MetodoPago: "efectivo",
	})
	assert.ErrorIs(t, err, service.ErrProductoInactivo)
}

func TestAnularVentaRestauraStock(t *testing.T) {
	f := newVentaFixture()
	usuario := uuid.New()
	corteID := f.abrirCorte(t, usuario)
	id := f.productoRepo.add(&model.Producto{SKU: "A", Nombre: "P", Precio: 100, StockQty: 10, Activo: true})

	cid := corteID.String()
	resp, err := f.svc.Registrar(context.Background(), usuario, "cajero", dto.RegistrarVentaRequest{
		CorteID:    &cid,
		Items:      []dto.ItemVentaRequest{{ProductoID: id, Cantidad: 4}},
		MetodoPago: "efectivo",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, f.productoRepo.productos[id].StockQty)

	ventaID := uuid.MustParse(resp.ID)
	require.NoError(t, f.svc.Anular(context.Background(), ventaID, &usuario))

	assert.Equal(t, 10, f.productoRepo.productos[id].StockQty)
	v, err := f.ventaRepo.FindByID(context.Background(), ventaID)
	require.NoError(t, err)
	assert.Equal(t, "anulada", v.Estado)

	// venta + restore ledger rows
	require.Len(t, f.movRepo.movimientos, 2)
	assert.Equal(t, "restore_anulacion", f.movRepo.movimientos[1].Tipo)
	assert.Equal(t, 4, f.movRepo.movimientos[1].Cantidad)

	// Second void is rejected
	assert.ErrorIs(t, f.svc.Anular(context.Background(), ventaID, &usuario), service.ErrVentaAnulada)
}
