//go:build integration

package infra

// End-to-end test against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/infra/... -v
//
// Covers the full sale cycle: login → alta de producto y lote → apertura de
// caja → turno → venta FIFO → encolado del barrido → anulación con reintegro.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/config"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/router"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	rdb    *redis.Client
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("agroshop_test"),
		tcPostgres.WithUsername("agroshop"),
		tcPostgres.WithPassword("agroshop"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(ctx) })

	redisEndpoint, err := redisC.Endpoint(ctx, "")
	require.NoError(t, err)

	db, err := NewDatabase(pgURL)
	require.NoError(t, err)
	rdb, err := NewRedis("redis://" + redisEndpoint)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("agroshop2026"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin",
		Nombre:       "Administrador",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	cfg := &config.Config{
		Env:                     "development",
		JWTSecret:               "clave-de-prueba-e2e",
		JWTExpirationHours:      1,
		JWTRefreshHours:         2,
		IVAPorcentaje:           18.0,
		VencimientoDias:         7,
		ToleranciaArqueo:        100.0,
		MontoMinimoAutorizacion: 50.0,
		AlertaDedupHoras:        24,
	}
	engine, _ := router.New(cfg, db, rdb)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv, db: db, rdb: rdb}

	var login dto.LoginResponse
	resp := env.do(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"username": "admin",
		"password": "agroshop2026",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &login)
	env.token = login.AccessToken
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, e.server.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestE2E_CicloCompletoDeVenta(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// Producto y lote.
	var producto dto.ProductoResponse
	resp := env.do(t, http.MethodPost, "/v1/productos", map[string]any{
		"codigo":       "FER-100",
		"nombre":       "Fertilizante 15-15-15",
		"categoria":    "fertilizantes",
		"precio_venta": 100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &producto)

	resp = env.do(t, http.MethodPost, "/v1/lotes", map[string]any{
		"producto_id":      producto.ID,
		"codigo":           "L-FER-1",
		"cantidad":         10,
		"fecha_produccion": time.Now().UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Caja y turno.
	var sesion dto.SesionCajaResponse
	resp = env.do(t, http.MethodPost, "/v1/caja/abrir", map[string]any{
		"punto_de_venta": 1,
		"monto_inicial":  500,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &sesion)

	var turno dto.TurnoResponse
	resp = env.do(t, http.MethodPost, "/v1/turnos", map[string]any{
		"sesion_caja_id": sesion.SesionCajaID,
		"tipo_entrega":   "inicio_dia",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &turno)

	// Venta: 4 × 100 + IVA 18% = 472; paga 500 efectivo → vuelto 28.
	var venta dto.VentaResponse
	resp = env.do(t, http.MethodPost, "/v1/ventas", map[string]any{
		"sesion_caja_id": sesion.SesionCajaID,
		"items": []map[string]any{{
			"producto_id":     producto.ID,
			"cantidad":        4,
			"precio_unitario": 100,
		}},
		"pagos": []map[string]any{{
			"metodo": "Efectivo",
			"monto":  500,
		}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &venta)
	assert.True(t, venta.Total.Equal(decimal.RequireFromString("472.00")), "total: %s", venta.Total)
	assert.True(t, venta.Vuelto.Equal(decimal.RequireFromString("28.00")), "vuelto: %s", venta.Vuelto)
	require.Len(t, venta.Detalles, 1)

	// Consulta pública de precio y stock.
	var consulta dto.ConsultaProductoResponse
	resp = env.do(t, http.MethodGet, "/v1/consulta/FER-100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &consulta)
	assert.Equal(t, 6, consulta.StockDisponible)

	// La venta encoló el barrido de alertas del producto tocado.
	pendientes, err := env.rdb.LLen(ctx, worker.QueueAlertas).Result()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pendientes, int64(1))

	// El efectivo disponible quedó neto de vuelto: 500 + 472.
	var efectivo struct {
		EfectivoDisponible decimal.Decimal `json:"efectivo_disponible"`
	}
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/v1/caja/%s/efectivo", sesion.SesionCajaID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &efectivo)
	assert.True(t, efectivo.EfectivoDisponible.Equal(decimal.RequireFromString("972.00")),
		"disponible: %s", efectivo.EfectivoDisponible)

	// Anulación con reintegro de stock.
	resp = env.do(t, http.MethodPost, "/v1/ventas/"+venta.ID+"/anular", map[string]any{
		"motivo":           "cliente devolvió la compra",
		"reintegrar_stock": true,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var listado dto.ProductoListResponse
	resp = env.do(t, http.MethodGet, "/v1/productos?codigo=FER-100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &listado)
	require.Len(t, listado.Data, 1)
	assert.Equal(t, 10, listado.Data[0].StockActual)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/v1/caja/%s/efectivo", sesion.SesionCajaID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &efectivo)
	assert.True(t, efectivo.EfectivoDisponible.Equal(decimal.RequireFromString("500.00")),
		"disponible tras anular: %s", efectivo.EfectivoDisponible)
}

func TestE2E_CierreDeCajaConConteo(t *testing.T) {
	env := setupTestEnv(t)

	var sesion dto.SesionCajaResponse
	resp := env.do(t, http.MethodPost, "/v1/caja/abrir", map[string]any{
		"punto_de_venta": 2,
		"monto_inicial":  1000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &sesion)

	var cierre dto.CierreCajaResponse
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/v1/caja/%s/cerrar", sesion.SesionCajaID), map[string]any{
		"conteo": []map[string]any{
			{"denominacion": 500, "cantidad": 1},
			{"denominacion": 100, "cantidad": 5},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &cierre)
	assert.True(t, cierre.Balanceada)
	assert.True(t, cierre.Desvio.Equal(decimal.Zero), "desvio: %s", cierre.Desvio)

	// Una segunda apertura en el mismo punto de venta vuelve a ser válida.
	resp = env.do(t, http.MethodPost, "/v1/caja/abrir", map[string]any{
		"punto_de_venta": 2,
		"monto_inicial":  800,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}
