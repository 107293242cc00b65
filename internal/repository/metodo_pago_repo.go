package repository

import (
	"context"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetodoPagoRepository interface {
	Create(ctx context.Context, m *model.MetodoPago) error
	FindByNombre(ctx context.Context, nombre string) (*model.MetodoPago, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.MetodoPago, error)
	Update(ctx context.Context, m *model.MetodoPago) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type metodoPagoRepo struct{ db *gorm.DB }

func NewMetodoPagoRepository(db *gorm.DB) MetodoPagoRepository { return &metodoPagoRepo{db: db} }

func (r *metodoPagoRepo) Create(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *metodoPagoRepo) FindByNombre(ctx context.Context, nombre string) (*model.MetodoPago, error) {
	var m model.MetodoPago
	err := r.db.WithContext(ctx).Where("nombre = ? AND activo = true", nombre).First(&m).Error
	return &m, err
}

func (r *metodoPagoRepo) List(ctx context.Context, incluirInactivos bool) ([]model.MetodoPago, error) {
	var metodos []model.MetodoPago
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&metodos).Error
	return metodos, err
}

func (r *metodoPagoRepo) Update(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *metodoPagoRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MetodoPago{}).
		Where("id = ?", id).Update("activo", false).Error
}
