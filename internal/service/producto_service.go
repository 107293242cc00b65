package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	List(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if existente, err := s.repo.FindByCodigo(ctx, req.Codigo); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un producto con código %s", req.Codigo)
	}
	if req.Perecedero && req.VidaUtilDias == nil {
		return nil, errors.New("un producto perecedero requiere vida_util_dias")
	}

	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}
	producto := &model.Producto{
		Codigo:       req.Codigo,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Categoria:    req.Categoria,
		PrecioVenta:  req.PrecioVenta,
		Perecedero:   req.Perecedero,
		VidaUtilDias: req.VidaUtilDias,
		StockMinimo:  req.StockMinimo,
		StockMaximo:  req.StockMaximo,
		UnidadMedida: unidad,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, err
	}

	log.Info().Str("codigo", req.Codigo).Str("nombre", req.Nombre).Msg("producto creado")
	return productoToResponse(producto), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &ErrNoEncontrado{Entidad: "producto"}
	}
	if req.Nombre != nil {
		producto.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.Categoria != nil {
		producto.Categoria = *req.Categoria
	}
	if req.PrecioVenta != nil {
		producto.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		producto.StockMinimo = *req.StockMinimo
	}
	if req.StockMaximo != nil {
		producto.StockMaximo = *req.StockMaximo
	}
	if req.VidaUtilDias != nil {
		producto.VidaUtilDias = req.VidaUtilDias
	}
	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) List(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return &ErrNoEncontrado{Entidad: "producto"}
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return &ErrNoEncontrado{Entidad: "producto"}
	}
	return s.repo.Reactivar(ctx, id)
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Categoria:    p.Categoria,
		PrecioVenta:  p.PrecioVenta,
		Perecedero:   p.Perecedero,
		VidaUtilDias: p.VidaUtilDias,
		StockActual:  p.StockActual,
		StockMinimo:  p.StockMinimo,
		StockMaximo:  p.StockMaximo,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
	}
}
