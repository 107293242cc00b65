package repository

import (
	"context"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	CreateTx(tx *gorm.DB, g *model.Gasto) error
	ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]model.Gasto, error)
	SumEfectivoPorSesion(ctx context.Context, sesionCajaID uuid.UUID) (decimal.Decimal, error)
	SumEfectivoPorTurno(ctx context.Context, turnoID uuid.UUID) (decimal.Decimal, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) CreateTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Create(g).Error
}

func (r *gastoRepo) ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionCajaID).
		Order("created_at ASC").Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) SumEfectivoPorSesion(ctx context.Context, sesionCajaID uuid.UUID) (decimal.Decimal, error) {
	return r.sumEfectivo("sesion_caja_id", sesionCajaID)
}

func (r *gastoRepo) SumEfectivoPorTurno(ctx context.Context, turnoID uuid.UUID) (decimal.Decimal, error) {
	return r.sumEfectivo("turno_id", turnoID)
}

func (r *gastoRepo) sumEfectivo(col string, id uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Gasto{}).
		Select("COALESCE(SUM(monto), 0)").
		Where(col+" = ? AND categoria_metodo = ?", id, model.CategoriaEfectivo).
		Scan(&total).Error
	return total, err
}
