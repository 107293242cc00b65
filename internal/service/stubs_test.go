package service

// In-memory repository stubs. Services run with a nil *gorm.DB so runTx
// short-circuits and every Tx method receives tx == nil; the stubs maintain
// the product stock aggregate themselves on each lot mutation.

import (
	"context"
	"strings"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/config"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		IVAPorcentaje:           18.0,
		VencimientoDias:         7,
		ToleranciaArqueo:        100.0,
		MontoMinimoAutorizacion: 50.0,
		AlertaDedupHoras:        24,
	}
}

// ── productos ─────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) seed(p model.Producto) *model.Producto {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := p
	r.productos[cp.ID] = &cp
	return &cp
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) SincronizarStockTx(_ *gorm.DB, _ uuid.UUID) error { return nil }

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── lotes ─────────────────────────────────────────────────────────────────────

type stubLoteRepo struct {
	lotes     map[uuid.UUID]*model.Lote
	productos *stubProductoRepo
}

func newStubLoteRepo(productos *stubProductoRepo) *stubLoteRepo {
	return &stubLoteRepo{lotes: make(map[uuid.UUID]*model.Lote), productos: productos}
}

func (r *stubLoteRepo) seed(l model.Lote) *model.Lote {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Estado == "" {
		l.Estado = model.LoteDisponible
	}
	cp := l
	r.lotes[cp.ID] = &cp
	r.sync(cp.ProductoID)
	return &cp
}

// sync mirrors the SQL stock synchronizer: stock_actual = SUM of non-retired
// lot quantities.
func (r *stubLoteRepo) sync(productoID uuid.UUID) {
	total := 0
	for _, l := range r.lotes {
		if l.ProductoID == productoID && l.Estado != model.LoteRetirado {
			total += l.Cantidad
		}
	}
	if p, ok := r.productos.productos[productoID]; ok {
		p.StockActual = total
	}
}

func (r *stubLoteRepo) Create(_ context.Context, l *model.Lote) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	cp := *l
	r.lotes[l.ID] = &cp
	r.sync(l.ProductoID)
	return nil
}

func (r *stubLoteRepo) CreateTx(_ *gorm.DB, l *model.Lote) error {
	return r.Create(context.Background(), l)
}

func (r *stubLoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubLoteRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Lote, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubLoteRepo) FindByCodigo(_ context.Context, codigo string) (*model.Lote, error) {
	for _, l := range r.lotes {
		if l.Codigo == codigo {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLoteRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.ProductoID == productoID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLoteRepo) FindDisponiblesTx(_ *gorm.DB, productoID uuid.UUID, perecedero bool) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.ProductoID == productoID && l.Estado == model.LoteDisponible {
			out = append(out, *l)
		}
	}
	ordenarFIFO(out, perecedero)
	return out, nil
}

func (r *stubLoteRepo) Update(_ context.Context, l *model.Lote) error {
	cp := *l
	r.lotes[l.ID] = &cp
	r.sync(l.ProductoID)
	return nil
}

func (r *stubLoteRepo) UpdateTx(_ *gorm.DB, l *model.Lote) error {
	return r.Update(context.Background(), l)
}

func (r *stubLoteRepo) ListPorVencer(_ context.Context, hasta time.Time) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.Estado == model.LoteDisponible && l.FechaVencimiento != nil && !l.FechaVencimiento.After(hasta) {
			out = append(out, *l)
		}
	}
	return out, nil
}

// ── movimientos de stock ──────────────────────────────────────────────────────

type stubMovimientoStockRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoStockRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoStockRepo) ListByProducto(_ context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── ventas ────────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	codigo int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	cp := *v
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) NextCodigo(_ context.Context, _ *gorm.DB) (int, error) {
	r.codigo++
	return r.codigo, nil
}

func (r *stubVentaRepo) AnularTx(_ *gorm.DB, id uuid.UUID, motivo string, cuando time.Time) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = "anulada"
	v.MotivoAnulacion = &motivo
	v.AnuladaEn = &cuando
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// ── caja ──────────────────────────────────────────────────────────────────────

type stubCajaRepo struct {
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja

	// failMovimiento makes every movement insert fail, to exercise the
	// services' all-or-nothing paths.
	failMovimiento error
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *stubCajaRepo) seed(s model.SesionCaja) *model.SesionCaja {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Estado == "" {
		s.Estado = "abierta"
	}
	cp := s
	r.sesiones[cp.ID] = &cp
	return &cp
}

func (r *stubCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.OpenedAt = time.Now()
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *stubCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubCajaRepo) FindSesionByIDTx(_ *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	return r.FindSesionByID(context.Background(), id)
}

func (r *stubCajaRepo) FindSesionAbiertaPorPDV(_ context.Context, pdv int) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.PuntoDeVenta == pdv && s.Estado == "abierta" {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) FindSesionAbiertaPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.UsuarioID == usuarioID && s.Estado == "abierta" {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *stubCajaRepo) UpdateSesionTx(_ *gorm.DB, s *model.SesionCaja) error {
	return r.UpdateSesion(context.Background(), s)
}

func (r *stubCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	if r.failMovimiento != nil {
		return r.failMovimiento
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubCajaRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	return r.CreateMovimiento(context.Background(), m)
}

func (r *stubCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

var tiposLedger = map[string]bool{
	model.MovVenta:         true,
	model.MovAnulacion:     true,
	model.MovIngresoManual: true,
	model.MovEgresoManual:  true,
}

func (r *stubCajaRepo) SumMovimientosPorCategoria(_ context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID && tiposLedger[m.Tipo] {
			sums[m.Categoria] = sums[m.Categoria].Add(m.Monto)
		}
	}
	return sums, nil
}

func (r *stubCajaRepo) SumMovimientosEfectivoPorTurno(_ context.Context, turnoID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.movimientos {
		if m.TurnoID != nil && *m.TurnoID == turnoID && m.Categoria == model.CategoriaEfectivo {
			sums[m.Tipo] = sums[m.Tipo].Add(m.Monto)
		}
	}
	return sums, nil
}

func (r *stubCajaRepo) AcumularVentas(_ context.Context, sesionID uuid.UUID, porCategoria map[string]decimal.Decimal) error {
	s, ok := r.sesiones[sesionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for cat, monto := range porCategoria {
		switch cat {
		case model.CategoriaEfectivo:
			s.TotalVentasEfectivo = s.TotalVentasEfectivo.Add(monto)
		case model.CategoriaBilletera:
			s.TotalVentasBilletera = s.TotalVentasBilletera.Add(monto)
		case model.CategoriaTarjeta:
			s.TotalVentasTarjeta = s.TotalVentasTarjeta.Add(monto)
		case model.CategoriaTransferencia:
			s.TotalVentasTransferencia = s.TotalVentasTransferencia.Add(monto)
		}
	}
	return nil
}

func (r *stubCajaRepo) DB() *gorm.DB { return nil }

func (r *stubCajaRepo) AcumularRetiros(_ context.Context, sesionID uuid.UUID, monto decimal.Decimal) error {
	if s, ok := r.sesiones[sesionID]; ok {
		s.TotalRetiros = s.TotalRetiros.Add(monto)
	}
	return nil
}

// ── turnos ────────────────────────────────────────────────────────────────────

type stubTurnoRepo struct {
	turnos map[uuid.UUID]*model.Turno
}

func newStubTurnoRepo() *stubTurnoRepo {
	return &stubTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
}

func (r *stubTurnoRepo) seed(t model.Turno) *model.Turno {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Estado == "" {
		t.Estado = model.TurnoActivo
	}
	cp := t
	r.turnos[cp.ID] = &cp
	return &cp
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.turnos[t.ID] = &cp
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTurnoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubTurnoRepo) FindVigentePorSesion(_ context.Context, sesionID uuid.UUID) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.SesionCajaID == sesionID && t.Estado != model.TurnoFinalizado {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTurnoRepo) FindUltimoFinalizado(_ context.Context, sesionID uuid.UUID, desde time.Time) (*model.Turno, error) {
	var ultimo *model.Turno
	for _, t := range r.turnos {
		if t.SesionCajaID != sesionID || t.Estado != model.TurnoFinalizado ||
			t.EndedAt == nil || t.EndedAt.Before(desde) {
			continue
		}
		if ultimo == nil || t.EndedAt.After(*ultimo.EndedAt) {
			ultimo = t
		}
	}
	if ultimo == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ultimo
	return &cp, nil
}

func (r *stubTurnoRepo) Update(_ context.Context, t *model.Turno) error {
	cp := *t
	r.turnos[t.ID] = &cp
	return nil
}

func (r *stubTurnoRepo) UpdateTx(_ *gorm.DB, t *model.Turno) error {
	return r.Update(context.Background(), t)
}

func (r *stubTurnoRepo) ListPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.Turno, error) {
	var out []model.Turno
	for _, t := range r.turnos {
		if t.SesionCajaID == sesionID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// ── retiros ───────────────────────────────────────────────────────────────────

type stubRetiroRepo struct {
	retiros map[uuid.UUID]*model.Retiro
}

func newStubRetiroRepo() *stubRetiroRepo {
	return &stubRetiroRepo{retiros: make(map[uuid.UUID]*model.Retiro)}
}

func (r *stubRetiroRepo) Create(_ context.Context, ret *model.Retiro) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	ret.CreatedAt = time.Now()
	cp := *ret
	r.retiros[ret.ID] = &cp
	return nil
}

func (r *stubRetiroRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Retiro, error) {
	ret, ok := r.retiros[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ret
	return &cp, nil
}

func (r *stubRetiroRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Retiro, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubRetiroRepo) Update(_ context.Context, ret *model.Retiro) error {
	cp := *ret
	r.retiros[ret.ID] = &cp
	return nil
}

func (r *stubRetiroRepo) UpdateTx(_ *gorm.DB, ret *model.Retiro) error {
	return r.Update(context.Background(), ret)
}

func (r *stubRetiroRepo) ListPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.Retiro, error) {
	var out []model.Retiro
	for _, ret := range r.retiros {
		if ret.SesionCajaID == sesionID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *stubRetiroRepo) CountPendientesPorTurno(_ context.Context, turnoID uuid.UUID) (int64, error) {
	var n int64
	for _, ret := range r.retiros {
		if ret.TurnoID != nil && *ret.TurnoID == turnoID && ret.Estado == model.RetiroPendiente {
			n++
		}
	}
	return n, nil
}

func (r *stubRetiroRepo) SumCompletadosPorSesion(_ context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ret := range r.retiros {
		if ret.SesionCajaID == sesionID && ret.Estado == model.RetiroCompletado {
			total = total.Add(ret.Monto)
		}
	}
	return total, nil
}

func (r *stubRetiroRepo) SumCompletadosPorTurno(_ context.Context, turnoID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ret := range r.retiros {
		if ret.TurnoID != nil && *ret.TurnoID == turnoID && ret.Estado == model.RetiroCompletado {
			total = total.Add(ret.Monto)
		}
	}
	return total, nil
}

// ── gastos ────────────────────────────────────────────────────────────────────

type stubGastoRepo struct {
	gastos []model.Gasto
}

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.CreatedAt = time.Now()
	r.gastos = append(r.gastos, *g)
	return nil
}

func (r *stubGastoRepo) CreateTx(_ *gorm.DB, g *model.Gasto) error {
	return r.Create(context.Background(), g)
}

func (r *stubGastoRepo) ListPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.SesionCajaID == sesionID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubGastoRepo) SumEfectivoPorSesion(_ context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, g := range r.gastos {
		if g.SesionCajaID == sesionID && g.CategoriaMetodo == model.CategoriaEfectivo {
			total = total.Add(g.Monto)
		}
	}
	return total, nil
}

func (r *stubGastoRepo) SumEfectivoPorTurno(_ context.Context, turnoID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, g := range r.gastos {
		if g.TurnoID != nil && *g.TurnoID == turnoID && g.CategoriaMetodo == model.CategoriaEfectivo {
			total = total.Add(g.Monto)
		}
	}
	return total, nil
}

// ── alertas ───────────────────────────────────────────────────────────────────

type stubAlertaRepo struct {
	alertas map[uuid.UUID]*model.Alerta
}

func newStubAlertaRepo() *stubAlertaRepo {
	return &stubAlertaRepo{alertas: make(map[uuid.UUID]*model.Alerta)}
}

func (r *stubAlertaRepo) Create(_ context.Context, a *model.Alerta) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	r.alertas[a.ID] = &cp
	return nil
}

func (r *stubAlertaRepo) ExisteReciente(_ context.Context, tipo string, productoID, loteID *uuid.UUID, desde time.Time) (bool, error) {
	for _, a := range r.alertas {
		if a.Tipo != tipo || a.CreatedAt.Before(desde) {
			continue
		}
		if loteID != nil {
			if a.LoteID != nil && *a.LoteID == *loteID {
				return true, nil
			}
			continue
		}
		if productoID != nil && a.ProductoID != nil && *a.ProductoID == *productoID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAlertaRepo) List(_ context.Context, filter dto.AlertaFilter) ([]model.Alerta, int64, error) {
	var out []model.Alerta
	for _, a := range r.alertas {
		if filter.Tipo != "" && a.Tipo != filter.Tipo {
			continue
		}
		if filter.SoloNoLeidas && a.Leida {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAlertaRepo) ListStock(_ context.Context) ([]model.Alerta, error) {
	var out []model.Alerta
	for _, a := range r.alertas {
		if a.Tipo != model.AlertaVencimiento {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAlertaRepo) ListVencimiento(_ context.Context) ([]model.Alerta, error) {
	var out []model.Alerta
	for _, a := range r.alertas {
		if a.Tipo == model.AlertaVencimiento {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAlertaRepo) MarcarLeida(_ context.Context, id uuid.UUID) error {
	if a, ok := r.alertas[id]; ok {
		a.Leida = true
	}
	return nil
}

func (r *stubAlertaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.alertas, id)
	return nil
}

// ── métodos de pago ───────────────────────────────────────────────────────────

type stubMetodoPagoRepo struct {
	metodos map[uuid.UUID]*model.MetodoPago
}

func newStubMetodoPagoRepo() *stubMetodoPagoRepo {
	return &stubMetodoPagoRepo{metodos: make(map[uuid.UUID]*model.MetodoPago)}
}

func (r *stubMetodoPagoRepo) seed(nombre, categoria string) {
	id := uuid.New()
	r.metodos[id] = &model.MetodoPago{ID: id, Nombre: nombre, Categoria: categoria, Activo: true}
}

func (r *stubMetodoPagoRepo) Create(_ context.Context, m *model.MetodoPago) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.metodos[m.ID] = &cp
	return nil
}

func (r *stubMetodoPagoRepo) FindByNombre(_ context.Context, nombre string) (*model.MetodoPago, error) {
	for _, m := range r.metodos {
		if m.Nombre == nombre && m.Activo {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMetodoPagoRepo) List(_ context.Context, incluirInactivos bool) ([]model.MetodoPago, error) {
	var out []model.MetodoPago
	for _, m := range r.metodos {
		if m.Activo || incluirInactivos {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMetodoPagoRepo) Update(_ context.Context, m *model.MetodoPago) error {
	cp := *m
	r.metodos[m.ID] = &cp
	return nil
}

func (r *stubMetodoPagoRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if m, ok := r.metodos[id]; ok {
		m.Activo = false
	}
	return nil
}

// ── dispatcher ────────────────────────────────────────────────────────────────

type stubDispatcher struct {
	encolados []uuid.UUID
}

func (d *stubDispatcher) EnqueueBarrido(_ context.Context, productoIDs []uuid.UUID) error {
	d.encolados = append(d.encolados, productoIDs...)
	return nil
}
