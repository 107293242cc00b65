package repository

import (
	"context"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertaRepository interface {
	Create(ctx context.Context, a *model.Alerta) error
	// ExisteReciente reports whether an alert of the same tipo and reference
	// (producto or lote) was created after desde — read or unread alike.
	ExisteReciente(ctx context.Context, tipo string, productoID, loteID *uuid.UUID, desde time.Time) (bool, error)
	List(ctx context.Context, filter dto.AlertaFilter) ([]model.Alerta, int64, error)
	ListStock(ctx context.Context) ([]model.Alerta, error)
	ListVencimiento(ctx context.Context) ([]model.Alerta, error)
	MarcarLeida(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaRepository(db *gorm.DB) AlertaRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) Create(ctx context.Context, a *model.Alerta) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertaRepo) ExisteReciente(ctx context.Context, tipo string, productoID, loteID *uuid.UUID, desde time.Time) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Alerta{}).
		Where("tipo = ? AND created_at >= ?", tipo, desde)
	if loteID != nil {
		q = q.Where("lote_id = ?", *loteID)
	} else if productoID != nil {
		q = q.Where("producto_id = ?", *productoID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *alertaRepo) List(ctx context.Context, filter dto.AlertaFilter) ([]model.Alerta, int64, error) {
	var alertas []model.Alerta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Alerta{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.SoloNoLeidas {
		q = q.Where("leida = false")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&alertas).Error
	return alertas, total, err
}

func (r *alertaRepo) ListStock(ctx context.Context) ([]model.Alerta, error) {
	var alertas []model.Alerta
	err := r.db.WithContext(ctx).
		Where("tipo IN ?", []string{model.AlertaStockAgotado, model.AlertaStockBajo, model.AlertaSobreStock}).
		Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) ListVencimiento(ctx context.Context) ([]model.Alerta, error) {
	var alertas []model.Alerta
	err := r.db.WithContext(ctx).
		Where("tipo = ?", model.AlertaVencimiento).Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) MarcarLeida(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Alerta{}).
		Where("id = ?", id).Update("leida", true).Error
}

func (r *alertaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Alerta{}, id).Error
}
