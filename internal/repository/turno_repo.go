package repository

import (
	"context"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error)
	// FindVigentePorSesion returns the turno currently occupying the session:
	// the one not yet finalizado, whether activo or suspendido. A suspended
	// turno still blocks a second cashier from starting.
	FindVigentePorSesion(ctx context.Context, sesionCajaID uuid.UUID) (*model.Turno, error)
	// FindUltimoFinalizado returns the most recently ended turno of the
	// session that finished on or after desde (used for same-day hand-offs).
	FindUltimoFinalizado(ctx context.Context, sesionCajaID uuid.UUID, desde time.Time) (*model.Turno, error)
	Update(ctx context.Context, t *model.Turno) error
	UpdateTx(tx *gorm.DB, t *model.Turno) error
	ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]model.Turno, error)
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindVigentePorSesion(ctx context.Context, sesionCajaID uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ? AND estado <> ?", sesionCajaID, model.TurnoFinalizado).First(&t).Error
	return &t, err
}

func (r *turnoRepo) FindUltimoFinalizado(ctx context.Context, sesionCajaID uuid.UUID, desde time.Time) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ? AND estado = ? AND ended_at >= ?",
			sesionCajaID, model.TurnoFinalizado, desde).
		Order("ended_at DESC").First(&t).Error
	return &t, err
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *turnoRepo) UpdateTx(tx *gorm.DB, t *model.Turno) error {
	return tx.Save(t).Error
}

func (r *turnoRepo) ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionCajaID).
		Order("started_at ASC").Find(&turnos).Error
	return turnos, err
}
