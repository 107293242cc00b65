package service

import (
	"context"
	"errors"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"

	"github.com/google/uuid"
)

// MetodoPagoService manages the payment-method catalog. Each method carries
// an explicit category set at configuration time; name matching survives only
// as a fallback for methods never registered.
type MetodoPagoService interface {
	Crear(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.MetodoPagoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type metodoPagoService struct {
	repo repository.MetodoPagoRepository
}

func NewMetodoPagoService(repo repository.MetodoPagoRepository) MetodoPagoService {
	return &metodoPagoService{repo: repo}
}

var categoriasValidas = map[string]bool{
	model.CategoriaEfectivo:      true,
	model.CategoriaBilletera:     true,
	model.CategoriaTarjeta:       true,
	model.CategoriaTransferencia: true,
}

func (s *metodoPagoService) Crear(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error) {
	if !categoriasValidas[req.Categoria] {
		return nil, errors.New("categoría de método de pago inválida")
	}
	m := &model.MetodoPago{Nombre: req.Nombre, Categoria: req.Categoria, Activo: true}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return metodoToResponse(m), nil
}

func (s *metodoPagoService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.MetodoPagoResponse, error) {
	metodos, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MetodoPagoResponse, 0, len(metodos))
	for i := range metodos {
		out = append(out, *metodoToResponse(&metodos[i]))
	}
	return out, nil
}

func (s *metodoPagoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func metodoToResponse(m *model.MetodoPago) *dto.MetodoPagoResponse {
	return &dto.MetodoPagoResponse{
		ID:        m.ID.String(),
		Nombre:    m.Nombre,
		Categoria: m.Categoria,
		Activo:    m.Activo,
	}
}

// ResolvedorCategorias maps a payment method's display name to its canonical
// category: catalog first, substring matching as legacy fallback, "" when
// neither recognizes the name.
type ResolvedorCategorias struct {
	repo repository.MetodoPagoRepository
}

func NewResolvedorCategorias(repo repository.MetodoPagoRepository) *ResolvedorCategorias {
	return &ResolvedorCategorias{repo: repo}
}

func (r *ResolvedorCategorias) Resolver(ctx context.Context, nombre string) string {
	if r.repo != nil {
		if m, err := r.repo.FindByNombre(ctx, nombre); err == nil && m != nil {
			return m.Categoria
		}
	}
	return model.CategoriaPorNombre(nombre)
}
