//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests for TiendaPOS using real Postgres + Mongo +
// Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   - Full sale cycle (login → crear producto → abrir caja → venta → detalle)
//   - Double caja open returns 409
//   - Insufficient stock rejects the sale and leaves stock untouched
//   - Stock adjustment clamps at zero and records the applied movement
//   - Anular venta restores stock
//   - Cliente flow: register → favoritos → compra → seguimiento → historial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tiendapos/internal/config"
	"tiendapos/internal/infra"
	"tiendapos/internal/model"
	"tiendapos/internal/router"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcMongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

// doForm posts url-encoded form data (product writes bind form fields, the
// image part is optional).
func doForm(t *testing.T, srv *httptest.Server, method, path string, form url.Values, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tiendapos_test"),
		tcPostgres.WithUsername("tiendapos"),
		tcPostgres.WithPassword("tiendapos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Mongo container
	moC, err := tcMongo.RunContainer(ctx,
		testcontainers.WithImage("mongo:7"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = moC.Terminate(ctx) })

	moURL, err := moC.ConnectionString(ctx)
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		MongoURL:           moURL,
		MongoDB:            "tiendapos_test",
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		ImageStoragePath:   t.TempDir(),
		PDFStoragePath:     t.TempDir(),
	}

	// NewDatabase runs AutoMigrate plus the partial-index patches
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	mdb, err := infra.NewMongo(cfg.MongoURL, cfg.MongoDB)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL, cfg.WorkerPoolSize)
	require.NoError(t, err)

	images, err := infra.NewImageStore(cfg.ImageStoragePath)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-e2e-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		ID:           uuid.New(),
		Username:     "admin@e2e.test",
		PasswordHash: string(hash),
		Rol:          "admin",
		Activo:       true,
	}).Error)

	carrierCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, mdb, rdb, carrierCB, images)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Login as admin
	loginResp := do(t, srv, "POST", "/api/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "admin-e2e-secret"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		Token string `json:"token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.Token)

	return &testEnv{server: srv, token: loginBody.Token}
}

func (env *testEnv) crearProducto(t *testing.T, sku, nombre string, precio float64, stock, minStock int) string {
	t.Helper()
	resp := doForm(t, env.server, "POST", "/api/products", url.Values{
		"sku":      {sku},
		"name":     {nombre},
		"price":    {fmt.Sprintf("%.2f", precio)},
		"stockQty": {fmt.Sprintf("%d", stock)},
		"minStock": {fmt.Sprintf("%d", minStock)},
	}, env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	require.NotEmpty(t, prod.ID)
	return prod.ID
}

func (env *testEnv) abrirCaja(t *testing.T, montoInicial float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": montoInicial}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var corte struct {
		CorteID string `json:"corteId"`
	}
	decodeJSON(t, resp, &corte)
	require.NotEmpty(t, corte.CorteID)
	return corte.CorteID
}

func (env *testEnv) stockActual(t *testing.T, productoID string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/api/products/"+productoID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod struct {
		StockQty int `json:"stockQty"`
	}
	decodeJSON(t, resp, &prod)
	return prod.StockQty
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "GAS-500", "Gaseosa 500ml", 250, 20, 5)
	corteID := env.abrirCaja(t, 1000)

	ventaResp := do(t, env.server, "POST", "/api/ventas",
		jsonBody(t, map[string]any{
			"corteId":    corteID,
			"items":      []map[string]any{{"productId": prodID, "quantity": 3}},
			"metodoPago": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID     string `json:"id"`
		Total  string `json:"total"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "completada", venta.Estado)
	assert.Equal(t, "750", venta.Total)

	// Stock decremented
	assert.Equal(t, 17, env.stockActual(t, prodID))

	// Detail lookup
	detResp := do(t, env.server, "GET", "/api/ventas/"+venta.ID, nil, env.token)
	require.Equal(t, http.StatusOK, detResp.StatusCode)
	var det struct {
		Items []struct {
			Cantidad int `json:"quantity"`
		} `json:"items"`
	}
	decodeJSON(t, detResp, &det)
	require.Len(t, det.Items, 1)
	assert.Equal(t, 3, det.Items[0].Cantidad)
}

func TestE2E_DobleAperturaCaja(t *testing.T) {
	env := setupTestEnv(t)

	env.abrirCaja(t, 500)

	// Second open for the same user hits the partial unique index
	resp := do(t, env.server, "POST", "/api/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": 500}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_VentaStockInsuficiente(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "JUG-1L", "Jugo 1L", 150, 2, 1)
	corteID := env.abrirCaja(t, 500)

	resp := do(t, env.server, "POST", "/api/ventas",
		jsonBody(t, map[string]any{
			"corteId":    corteID,
			"items":      []map[string]any{{"productId": prodID, "quantity": 5}},
			"metodoPago": "efectivo",
		}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Compensation restored the units the clamp had taken
	assert.Equal(t, 2, env.stockActual(t, prodID))
}

func TestE2E_AjusteStockClampeaEnCero(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "LCH-1L", "Leche 1L", 200, 4, 2)

	resp := do(t, env.server, "POST", "/api/stock/adjust",
		jsonBody(t, map[string]any{
			"productId": prodID,
			"type":      "OUT",
			"quantity":  10,
			"reason":    "merma",
		}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var adj struct {
		OK       bool `json:"ok"`
		StockQty int  `json:"stockQty"`
	}
	decodeJSON(t, resp, &adj)
	assert.True(t, adj.OK)
	assert.Equal(t, 0, adj.StockQty)

	// Ledger records the applied delta (-4), not the requested one
	movResp := do(t, env.server, "GET", "/api/stock/movimientos?productId="+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movs struct {
		Items []struct {
			Cantidad int `json:"quantity"`
		} `json:"items"`
	}
	decodeJSON(t, movResp, &movs)
	require.Len(t, movs.Items, 1)
	assert.Equal(t, -4, movs.Items[0].Cantidad)
}

func TestE2E_AnularVentaRestauraStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "YOG-200", "Yogur 200g", 120, 10, 2)
	corteID := env.abrirCaja(t, 500)

	ventaResp := do(t, env.server, "POST", "/api/ventas",
		jsonBody(t, map[string]any{
			"corteId":    corteID,
			"items":      []map[string]any{{"productId": prodID, "quantity": 3}},
			"metodoPago": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)
	require.Equal(t, 7, env.stockActual(t, prodID))

	anularResp := do(t, env.server, "DELETE", "/api/ventas/"+venta.ID, nil, env.token)
	assert.Equal(t, http.StatusNoContent, anularResp.StatusCode)
	anularResp.Body.Close()

	assert.Equal(t, 10, env.stockActual(t, prodID))

	// Second void is rejected
	againResp := do(t, env.server, "DELETE", "/api/ventas/"+venta.ID, nil, env.token)
	assert.Equal(t, http.StatusConflict, againResp.StatusCode)
	againResp.Body.Close()
}

func TestE2E_ClienteCompraYSeguimiento(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "REM-001", "Remera basica", 2000, 15, 3)

	// Public register always lands on rol cliente
	regResp := do(t, env.server, "POST", "/api/register",
		jsonBody(t, map[string]any{
			"username": "cliente@e2e.test",
			"password": "cliente-secret",
			"role":     "admin", // ignored
		}), "")
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	var reg struct {
		Rol string `json:"role"`
	}
	decodeJSON(t, regResp, &reg)
	assert.Equal(t, "cliente", reg.Rol)

	loginResp := do(t, env.server, "POST", "/api/login",
		jsonBody(t, map[string]string{"username": "cliente@e2e.test", "password": "cliente-secret"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeJSON(t, loginResp, &login)

	// Favoritos
	favResp := do(t, env.server, "POST", "/api/favorites",
		jsonBody(t, map[string]any{"productId": prodID}), login.Token)
	require.Equal(t, http.StatusCreated, favResp.StatusCode)
	favResp.Body.Close()

	listFavResp := do(t, env.server, "GET", "/api/favorites", nil, login.Token)
	require.Equal(t, http.StatusOK, listFavResp.StatusCode)
	var favs struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decodeJSON(t, listFavResp, &favs)
	require.Len(t, favs.Items, 1)
	assert.Equal(t, prodID, favs.Items[0].ID)

	// Online purchase: no corte, creates a paquete in preparando
	ventaResp := do(t, env.server, "POST", "/api/ventas",
		jsonBody(t, map[string]any{
			"items":      []map[string]any{{"productId": prodID, "quantity": 2}},
			"metodoPago": "credito",
		}), login.Token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)

	segResp := do(t, env.server, "GET", "/api/paquetes/seguimiento/"+venta.ID, nil, login.Token)
	require.Equal(t, http.StatusOK, segResp.StatusCode)
	var seg struct {
		Estado    string `json:"estado"`
		Historial []struct {
			Estado string `json:"estado"`
		} `json:"historial"`
	}
	decodeJSON(t, segResp, &seg)
	assert.Equal(t, "preparando", seg.Estado)
	require.NotEmpty(t, seg.Historial)

	// Admin advances the package; the client sees the new estado
	evResp := do(t, env.server, "POST", "/api/paquetes/seguimiento/"+venta.ID+"/eventos",
		jsonBody(t, map[string]any{
			"estado":      "en_transito",
			"descripcion": "Despachado desde el deposito central",
		}), env.token)
	require.Equal(t, http.StatusCreated, evResp.StatusCode)
	evResp.Body.Close()

	segResp2 := do(t, env.server, "GET", "/api/paquetes/seguimiento/"+venta.ID, nil, login.Token)
	require.Equal(t, http.StatusOK, segResp2.StatusCode)
	decodeJSON(t, segResp2, &seg)
	assert.Equal(t, "en_transito", seg.Estado)

	// Historial de compras
	histResp := do(t, env.server, "GET", "/api/historial_compras", nil, login.Token)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var hist struct {
		Ventas []struct {
			ID string `json:"id"`
		} `json:"ventas"`
	}
	decodeJSON(t, histResp, &hist)
	require.Len(t, hist.Ventas, 1)
	assert.Equal(t, venta.ID, hist.Ventas[0].ID)
}
