package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventarioFixture struct {
	svc       InventarioService
	productos *stubProductoRepo
	lotes     *stubLoteRepo
	movs      *stubMovimientoStockRepo
}

func newInventarioFixture() *inventarioFixture {
	productos := newStubProductoRepo()
	lotes := newStubLoteRepo(productos)
	movs := &stubMovimientoStockRepo{}
	return &inventarioFixture{
		svc:       NewInventarioService(productos, lotes, movs),
		productos: productos,
		lotes:     lotes,
		movs:      movs,
	}
}

func fechaEn(dias int) *time.Time {
	t := time.Now().AddDate(0, 0, dias)
	return &t
}

func TestAsignarLotes_FIFOPorVencimiento(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{
		Codigo: "HRB-001", Nombre: "Herbicida", Perecedero: true,
		PrecioVenta: decimal.NewFromInt(100), Activo: true,
	})
	// Created in reverse expiry order: allocation must still take the
	// soonest-expiring lot first.
	tarde := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-TARDE", Cantidad: 10,
		FechaVencimiento: fechaEn(60), CreatedAt: time.Now().Add(-2 * time.Hour)})
	pronto := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-PRONTO", Cantidad: 10,
		FechaVencimiento: fechaEn(10), CreatedAt: time.Now().Add(-1 * time.Hour)})

	asig, err := f.svc.AsignarLotesTx(ctx, nil, p.ID, 4)
	require.NoError(t, err)
	require.Len(t, asig, 1)
	assert.Equal(t, pronto.ID, asig[0].Lote.ID)
	assert.Equal(t, 4, asig[0].Cantidad)
	assert.Equal(t, 20, asig[0].StockAnterior)
	assert.Equal(t, 16, asig[0].StockNuevo)

	quedaPronto, _ := f.lotes.FindByID(ctx, pronto.ID)
	assert.Equal(t, 6, quedaPronto.Cantidad)
	quedaTarde, _ := f.lotes.FindByID(ctx, tarde.ID)
	assert.Equal(t, 10, quedaTarde.Cantidad)
}

func TestAsignarLotes_NoPerecederoPorCreacion(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{
		Codigo: "ALM-001", Nombre: "Alambre", Perecedero: false,
		PrecioVenta: decimal.NewFromInt(50), Activo: true,
	})
	viejo := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-VIEJO", Cantidad: 5,
		CreatedAt: time.Now().Add(-48 * time.Hour)})
	f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-NUEVO", Cantidad: 5,
		CreatedAt: time.Now().Add(-1 * time.Hour)})

	asig, err := f.svc.AsignarLotesTx(ctx, nil, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, asig, 1)
	assert.Equal(t, viejo.ID, asig[0].Lote.ID)
}

func TestAsignarLotes_CruzaVariosLotes(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{
		Codigo: "SEM-001", Nombre: "Semilla de maíz", Perecedero: true,
		PrecioVenta: decimal.NewFromInt(30), Activo: true,
	})
	primero := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-1", Cantidad: 3,
		FechaVencimiento: fechaEn(5), CreatedAt: time.Now().Add(-3 * time.Hour)})
	segundo := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-2", Cantidad: 5,
		FechaVencimiento: fechaEn(20), CreatedAt: time.Now().Add(-2 * time.Hour)})

	asig, err := f.svc.AsignarLotesTx(ctx, nil, p.ID, 5)
	require.NoError(t, err)
	require.Len(t, asig, 2)
	assert.Equal(t, primero.ID, asig[0].Lote.ID)
	assert.Equal(t, 3, asig[0].Cantidad)
	assert.Equal(t, segundo.ID, asig[1].Lote.ID)
	assert.Equal(t, 2, asig[1].Cantidad)

	// The drained lot is retired, the partial one stays available.
	l1, _ := f.lotes.FindByID(ctx, primero.ID)
	assert.Equal(t, model.LoteRetirado, l1.Estado)
	assert.Equal(t, 0, l1.Cantidad)
	l2, _ := f.lotes.FindByID(ctx, segundo.ID)
	assert.Equal(t, model.LoteDisponible, l2.Estado)
	assert.Equal(t, 3, l2.Cantidad)

	prod, _ := f.productos.FindByID(ctx, p.ID)
	assert.Equal(t, 3, prod.StockActual)
}

func TestAsignarLotes_StockInsuficienteNoMuta(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{
		Codigo: "FER-001", Nombre: "Fertilizante", Perecedero: true,
		PrecioVenta: decimal.NewFromInt(80), Activo: true,
	})
	lote := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-1", Cantidad: 4,
		FechaVencimiento: fechaEn(30)})

	_, err := f.svc.AsignarLotesTx(ctx, nil, p.ID, 10)
	var stockErr *ErrStockInsuficiente
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Solicitado)
	assert.Equal(t, 4, stockErr.Disponible)
	assert.Equal(t, 6, stockErr.Faltante())

	// Nothing was consumed.
	l, _ := f.lotes.FindByID(ctx, lote.ID)
	assert.Equal(t, 4, l.Cantidad)
	assert.Equal(t, model.LoteDisponible, l.Estado)
}

func TestAsignarLotes_TodosVencidos(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{
		Codigo: "LAC-001", Nombre: "Suplemento lácteo", Perecedero: true,
		PrecioVenta: decimal.NewFromInt(45), Activo: true,
	})
	caduco := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-VENC", Cantidad: 8,
		FechaVencimiento: fechaEn(-2)})

	_, err := f.svc.AsignarLotesTx(ctx, nil, p.ID, 1)
	var vencErr *ErrLotesVencidos
	require.ErrorAs(t, err, &vencErr)

	// The expire pass transitioned the lot out of disponible.
	l, _ := f.lotes.FindByID(ctx, caduco.ID)
	assert.Equal(t, model.LoteVencido, l.Estado)
}

func TestAsignarLotes_SaltaVencidosYUsaVigentes(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{
		Codigo: "VAC-001", Nombre: "Vacuna aviar", Perecedero: true,
		PrecioVenta: decimal.NewFromInt(120), Activo: true,
	})
	f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-VENC", Cantidad: 8,
		FechaVencimiento: fechaEn(-1)})
	vigente := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-OK", Cantidad: 8,
		FechaVencimiento: fechaEn(15)})

	asig, err := f.svc.AsignarLotesTx(ctx, nil, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, asig, 1)
	assert.Equal(t, vigente.ID, asig[0].Lote.ID)

	// El rastro de auditoría parte del agregado del producto: el lote vencido
	// no es vendible pero sigue contando en stock_actual.
	assert.Equal(t, 16, asig[0].StockAnterior)
	assert.Equal(t, 14, asig[0].StockNuevo)
	prod, _ := f.productos.FindByID(ctx, p.ID)
	assert.Equal(t, 14, prod.StockActual)
}

func TestAsignarLotes_ProductoInactivo(t *testing.T) {
	f := newInventarioFixture()
	p := f.productos.seed(model.Producto{Codigo: "X-1", Nombre: "Descontinuado", Activo: false})
	f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-1", Cantidad: 5})

	_, err := f.svc.AsignarLotesTx(context.Background(), nil, p.ID, 1)
	assert.ErrorIs(t, err, ErrProductoInactivo)
}

func TestCrearLote_VencimientoCalculado(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	vida := 30
	p := f.productos.seed(model.Producto{
		Codigo: "QUE-001", Nombre: "Queso de hoja", Perecedero: true,
		VidaUtilDias: &vida, Activo: true,
	})
	produccion := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	resp, err := f.svc.CrearLote(ctx, dto.CrearLoteRequest{
		ProductoID:      p.ID.String(),
		Codigo:          "L-Q1",
		Cantidad:        12,
		FechaProduccion: produccion,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.FechaVencimiento)

	lote, err := f.lotes.FindByCodigo(ctx, "L-Q1")
	require.NoError(t, err)
	assert.True(t, lote.FechaVencimiento.Equal(produccion.AddDate(0, 0, 30)))

	prod, _ := f.productos.FindByID(ctx, p.ID)
	assert.Equal(t, 12, prod.StockActual)
}

func TestCrearLote_FechaExplicitaGana(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	vida := 30
	p := f.productos.seed(model.Producto{
		Codigo: "LEC-001", Nombre: "Leche cruda", Perecedero: true,
		VidaUtilDias: &vida, Activo: true,
	})
	produccion := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	etiqueta := produccion.AddDate(0, 0, 10)

	_, err := f.svc.CrearLote(ctx, dto.CrearLoteRequest{
		ProductoID:       p.ID.String(),
		Codigo:           "L-E1",
		Cantidad:         6,
		FechaProduccion:  produccion,
		FechaVencimiento: &etiqueta,
	})
	require.NoError(t, err)

	lote, _ := f.lotes.FindByCodigo(ctx, "L-E1")
	assert.True(t, lote.FechaVencimiento.Equal(etiqueta))
}

func TestReactivarLote_VencidoRechazado(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{Codigo: "P-1", Nombre: "Perecible", Activo: true})
	lote := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-1", Cantidad: 5,
		Estado: model.LoteRetirado, FechaVencimiento: fechaEn(-3)})

	err := f.svc.ReactivarLote(ctx, lote.ID)
	assert.ErrorIs(t, err, ErrLoteVencido)

	l, _ := f.lotes.FindByID(ctx, lote.ID)
	assert.Equal(t, model.LoteRetirado, l.Estado)
}

func TestReactivarLote_RetiradoVigente(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{Codigo: "P-2", Nombre: "Grano", Activo: true})
	lote := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-2", Cantidad: 7,
		Estado: model.LoteRetirado, FechaVencimiento: fechaEn(40)})

	require.NoError(t, f.svc.ReactivarLote(ctx, lote.ID))

	l, _ := f.lotes.FindByID(ctx, lote.ID)
	assert.Equal(t, model.LoteDisponible, l.Estado)
	prod, _ := f.productos.FindByID(ctx, p.ID)
	assert.Equal(t, 7, prod.StockActual)
}

func TestRetirarLote_Idempotente(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{Codigo: "P-3", Nombre: "Abono", Activo: true})
	lote := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-3", Cantidad: 9})

	require.NoError(t, f.svc.RetirarLote(ctx, lote.ID, "dañado en bodega"))
	require.NoError(t, f.svc.RetirarLote(ctx, lote.ID, "dañado en bodega"))

	prod, _ := f.productos.FindByID(ctx, p.ID)
	assert.Equal(t, 0, prod.StockActual)

	// Exactly one audit row despite the repeated call.
	retiros := 0
	for _, m := range f.movs.movimientos {
		if m.Tipo == "retiro_lote" {
			retiros++
		}
	}
	assert.Equal(t, 1, retiros)
}

func TestReintegrarLote_ReviveRetiradoNoVencido(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{Codigo: "P-4", Nombre: "Sal mineral", Activo: true})
	lote := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-4", Cantidad: 0,
		Estado: model.LoteRetirado, FechaVencimiento: fechaEn(25)})

	require.NoError(t, f.svc.ReintegrarLoteTx(ctx, nil, lote.ID, 3))

	l, _ := f.lotes.FindByID(ctx, lote.ID)
	assert.Equal(t, 3, l.Cantidad)
	assert.Equal(t, model.LoteDisponible, l.Estado)
}

func TestReintegrarLote_VencidoQuedaFuera(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()

	p := f.productos.seed(model.Producto{Codigo: "P-5", Nombre: "Levadura", Activo: true})
	lote := f.lotes.seed(model.Lote{ProductoID: p.ID, Codigo: "L-5", Cantidad: 0,
		Estado: model.LoteRetirado, FechaVencimiento: fechaEn(-1)})

	require.NoError(t, f.svc.ReintegrarLoteTx(ctx, nil, lote.ID, 3))

	l, _ := f.lotes.FindByID(ctx, lote.ID)
	assert.Equal(t, 3, l.Cantidad)
	assert.Equal(t, model.LoteRetirado, l.Estado)
}

func TestCrearLote_ProductoNoEncontrado(t *testing.T) {
	f := newInventarioFixture()
	_, err := f.svc.CrearLote(context.Background(), dto.CrearLoteRequest{
		ProductoID:      uuid.NewString(),
		Codigo:          "L-X",
		Cantidad:        1,
		FechaProduccion: time.Now(),
	})
	var noEnc *ErrNoEncontrado
	assert.True(t, errors.As(err, &noEnc))
}
