package repository

import (
	"context"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	CreateTx(tx *gorm.DB, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Lote, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Lote, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Lote, error)

	// FindDisponiblesTx returns the product's "disponible" lotes locked FOR
	// UPDATE, in FIFO order: soonest expiry first for perishables (nulls
	// last), creation time as tiebreaker and as the sole key otherwise.
	FindDisponiblesTx(tx *gorm.DB, productoID uuid.UUID, perecedero bool) ([]model.Lote, error)

	Update(ctx context.Context, l *model.Lote) error
	UpdateTx(tx *gorm.DB, l *model.Lote) error

	// ListPorVencer returns available lotes expiring on or before hasta.
	ListPorVencer(ctx context.Context, hasta time.Time) ([]model.Lote, error)
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) CreateTx(tx *gorm.DB, l *model.Lote) error {
	return tx.Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *loteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&l, id).Error
	return &l, err
}

func (r *loteRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&l).Error
	return &l, err
}

func (r *loteRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Lote, error) {
	var lotes []model.Lote
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).
		Order("created_at ASC").Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) FindDisponiblesTx(tx *gorm.DB, productoID uuid.UUID, perecedero bool) ([]model.Lote, error) {
	var lotes []model.Lote
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("producto_id = ? AND estado = ?", productoID, model.LoteDisponible)
	if perecedero {
		q = q.Order("fecha_vencimiento ASC NULLS LAST").Order("created_at ASC")
	} else {
		q = q.Order("created_at ASC")
	}
	err := q.Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) Update(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *loteRepo) UpdateTx(tx *gorm.DB, l *model.Lote) error {
	return tx.Save(l).Error
}

func (r *loteRepo) ListPorVencer(ctx context.Context, hasta time.Time) ([]model.Lote, error) {
	var lotes []model.Lote
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento <= ?",
			model.LoteDisponible, hasta).
		Order("fecha_vencimiento ASC").Find(&lotes).Error
	return lotes, err
}
