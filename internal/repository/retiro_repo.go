package repository

import (
	"context"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RetiroRepository interface {
	Create(ctx context.Context, ret *model.Retiro) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Retiro, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Retiro, error)
	Update(ctx context.Context, ret *model.Retiro) error
	UpdateTx(tx *gorm.DB, ret *model.Retiro) error
	ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]model.Retiro, error)
	CountPendientesPorTurno(ctx context.Context, turnoID uuid.UUID) (int64, error)
	// SumCompletadosPorSesion feeds the cash ledger: only completed retiros
	// have actually removed money from the drawer.
	SumCompletadosPorSesion(ctx context.Context, sesionCajaID uuid.UUID) (decimal.Decimal, error)
	SumCompletadosPorTurno(ctx context.Context, turnoID uuid.UUID) (decimal.Decimal, error)
}

type retiroRepo struct{ db *gorm.DB }

func NewRetiroRepository(db *gorm.DB) RetiroRepository { return &retiroRepo{db: db} }

func (r *retiroRepo) Create(ctx context.Context, ret *model.Retiro) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *retiroRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Retiro, error) {
	var ret model.Retiro
	err := r.db.WithContext(ctx).First(&ret, id).Error
	return &ret, err
}

func (r *retiroRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Retiro, error) {
	var ret model.Retiro
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ret, id).Error
	return &ret, err
}

func (r *retiroRepo) Update(ctx context.Context, ret *model.Retiro) error {
	return r.db.WithContext(ctx).Save(ret).Error
}

func (r *retiroRepo) UpdateTx(tx *gorm.DB, ret *model.Retiro) error {
	return tx.Save(ret).Error
}

func (r *retiroRepo) ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]model.Retiro, error) {
	var retiros []model.Retiro
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionCajaID).
		Order("created_at ASC").Find(&retiros).Error
	return retiros, err
}

func (r *retiroRepo) CountPendientesPorTurno(ctx context.Context, turnoID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Retiro{}).
		Where("turno_id = ? AND estado = ?", turnoID, model.RetiroPendiente).Count(&n).Error
	return n, err
}

func (r *retiroRepo) SumCompletadosPorSesion(ctx context.Context, sesionCajaID uuid.UUID) (decimal.Decimal, error) {
	return r.sumCompletados("sesion_caja_id", sesionCajaID)
}

func (r *retiroRepo) SumCompletadosPorTurno(ctx context.Context, turnoID uuid.UUID) (decimal.Decimal, error) {
	return r.sumCompletados("turno_id", turnoID)
}

func (r *retiroRepo) sumCompletados(col string, id uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Retiro{}).
		Select("COALESCE(SUM(monto), 0)").
		Where(col+" = ? AND estado = ?", id, model.RetiroCompletado).
		Scan(&total).Error
	return total, err
}
