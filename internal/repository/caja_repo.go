package repository

import (
	"context"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error)
	FindSesionAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, s *model.SesionCaja) error
	UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error

	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error)

	// SumMovimientosPorCategoria aggregates venta/anulacion/ingreso/egreso
	// rows (retiro and gasto rows are audit-only; their tables are the source
	// of truth for the ledger). Outflows are stored negative, so a plain SUM
	// yields the net contribution per payment category.
	SumMovimientosPorCategoria(ctx context.Context, sesionCajaID uuid.UUID) (map[string]decimal.Decimal, error)

	// SumMovimientosEfectivoPorTurno is the shift-scoped cash aggregate split
	// by movement tipo, used when closing a turno.
	SumMovimientosEfectivoPorTurno(ctx context.Context, turnoID uuid.UUID) (map[string]decimal.Decimal, error)

	// AcumularVentas bumps the session's cached per-category sale totals.
	// Display optimization only — never read for cash decisions.
	AcumularVentas(ctx context.Context, sesionCajaID uuid.UUID, porCategoria map[string]decimal.Decimal) error
	AcumularRetiros(ctx context.Context, sesionCajaID uuid.UUID, monto decimal.Decimal) error

	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) FindSesionByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("punto_de_venta = ? AND estado = 'abierta'", puntoDeVenta).First(&s).Error
	return &s, err
}

func (r *cajaRepo) FindSesionAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado = 'abierta'", usuarioID).First(&s).Error
	return &s, err
}

func (r *cajaRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cajaRepo) UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Save(s).Error
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionCajaID).
		Order("created_at ASC").Find(&movs).Error
	return movs, err
}

type sumaCategoria struct {
	Categoria string
	Total     decimal.Decimal
}

func (r *cajaRepo) SumMovimientosPorCategoria(ctx context.Context, sesionCajaID uuid.UUID) (map[string]decimal.Decimal, error) {
	var filas []sumaCategoria
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("categoria, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ? AND tipo IN ?", sesionCajaID,
			[]string{model.MovVenta, model.MovAnulacion, model.MovIngresoManual, model.MovEgresoManual}).
		Group("categoria").Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		sums[f.Categoria] = f.Total
	}
	return sums, nil
}

type sumaTipo struct {
	Tipo  string
	Total decimal.Decimal
}

func (r *cajaRepo) SumMovimientosEfectivoPorTurno(ctx context.Context, turnoID uuid.UUID) (map[string]decimal.Decimal, error) {
	var filas []sumaTipo
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("turno_id = ? AND categoria = ?", turnoID, model.CategoriaEfectivo).
		Group("tipo").Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		sums[f.Tipo] = f.Total
	}
	return sums, nil
}

func (r *cajaRepo) AcumularVentas(ctx context.Context, sesionCajaID uuid.UUID, porCategoria map[string]decimal.Decimal) error {
	columnas := map[string]string{
		model.CategoriaEfectivo:      "total_ventas_efectivo",
		model.CategoriaBilletera:     "total_ventas_billetera",
		model.CategoriaTarjeta:       "total_ventas_tarjeta",
		model.CategoriaTransferencia: "total_ventas_transferencia",
	}
	for cat, monto := range porCategoria {
		col, ok := columnas[cat]
		if !ok || monto.IsZero() {
			continue // unrecognized method: recorded as payment, no bucket
		}
		err := r.db.WithContext(ctx).Model(&model.SesionCaja{}).
			Where("id = ?", sesionCajaID).
			Update(col, gorm.Expr(col+" + ?", monto)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) AcumularRetiros(ctx context.Context, sesionCajaID uuid.UUID, monto decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.SesionCaja{}).
		Where("id = ?", sesionCajaID).
		Update("total_retiros", gorm.Expr("total_retiros + ?", monto)).Error
}
