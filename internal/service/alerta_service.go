package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/config"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AlertaService interface {
	// EjecutarBarrido runs the full stock + expiry sweep followed by the
	// resolution pass. Safe to run redundantly and concurrently — dedup is a
	// time window on (tipo, reference), not a read-state check.
	EjecutarBarrido(ctx context.Context) (*dto.BarridoResponse, error)

	// EjecutarBarridoProducto re-evaluates a single product (post-sale async
	// path). Same classification and dedup rules as the full sweep.
	EjecutarBarridoProducto(ctx context.Context, productoID uuid.UUID) error

	List(ctx context.Context, filter dto.AlertaFilter) (*dto.AlertaListResponse, error)
	MarcarLeida(ctx context.Context, id uuid.UUID) error
}

type alertaService struct {
	repo         repository.AlertaRepository
	productoRepo repository.ProductoRepository
	loteRepo     repository.LoteRepository
	cfg          *config.Config
}

func NewAlertaService(
	repo repository.AlertaRepository,
	productoRepo repository.ProductoRepository,
	loteRepo repository.LoteRepository,
	cfg *config.Config,
) AlertaService {
	return &alertaService{repo: repo, productoRepo: productoRepo, loteRepo: loteRepo, cfg: cfg}
}

// ── Barrido completo ──────────────────────────────────────────────────────────

func (s *alertaService) EjecutarBarrido(ctx context.Context) (*dto.BarridoResponse, error) {
	ahora := time.Now()
	resp := &dto.BarridoResponse{}

	productos, err := s.productoRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range productos {
		creada, err := s.evaluarStock(ctx, &productos[i], ahora)
		if err != nil {
			log.Error().Err(err).Str("producto", productos[i].ID.String()).
				Msg("barrido: evaluación de stock falló")
			continue
		}
		if creada {
			resp.AlertasCreadas++
		}
	}

	hasta := ahora.AddDate(0, 0, s.cfg.VencimientoDias)
	lotes, err := s.loteRepo.ListPorVencer(ctx, hasta)
	if err != nil {
		return nil, err
	}
	for i := range lotes {
		creada, err := s.evaluarVencimiento(ctx, &lotes[i], ahora)
		if err != nil {
			log.Error().Err(err).Str("lote", lotes[i].ID.String()).
				Msg("barrido: evaluación de vencimiento falló")
			continue
		}
		if creada {
			resp.AlertasCreadas++
		}
	}

	resueltas, err := s.resolver(ctx, nil)
	if err != nil {
		return nil, err
	}
	resp.AlertasResueltas = resueltas

	log.Info().Int("creadas", resp.AlertasCreadas).Int("resueltas", resueltas).
		Msg("barrido de alertas ejecutado")
	return resp, nil
}

func (s *alertaService) EjecutarBarridoProducto(ctx context.Context, productoID uuid.UUID) error {
	ahora := time.Now()
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return &ErrNoEncontrado{Entidad: "producto"}
	}
	if producto.Activo {
		if _, err := s.evaluarStock(ctx, producto, ahora); err != nil {
			return err
		}
		hasta := ahora.AddDate(0, 0, s.cfg.VencimientoDias)
		lotes, err := s.loteRepo.ListByProducto(ctx, productoID)
		if err != nil {
			return err
		}
		for i := range lotes {
			l := &lotes[i]
			if l.Estado != model.LoteDisponible || l.FechaVencimiento == nil ||
				l.FechaVencimiento.After(hasta) {
				continue
			}
			if _, err := s.evaluarVencimiento(ctx, l, ahora); err != nil {
				return err
			}
		}
	}
	_, err = s.resolver(ctx, &productoID)
	return err
}

// ── Clasificación ─────────────────────────────────────────────────────────────
// Stock conditions in priority order, at most one per product per pass:
// agotado (crítica) > sobre-stock (normal) > bajo (alta).

func (s *alertaService) evaluarStock(ctx context.Context, p *model.Producto, ahora time.Time) (bool, error) {
	var tipo, prioridad, mensaje string
	switch {
	case p.StockActual == 0:
		tipo, prioridad = model.AlertaStockAgotado, model.PrioridadCritica
		mensaje = fmt.Sprintf("%s (%s) está agotado", p.Nombre, p.Codigo)
	case p.StockMaximo > 0 && p.StockActual >= p.StockMaximo:
		tipo, prioridad = model.AlertaSobreStock, model.PrioridadNormal
		mensaje = fmt.Sprintf("%s (%s) supera el stock máximo: %d/%d",
			p.Nombre, p.Codigo, p.StockActual, p.StockMaximo)
	case p.StockActual < p.StockMinimo:
		tipo, prioridad = model.AlertaStockBajo, model.PrioridadAlta
		mensaje = fmt.Sprintf("%s (%s) bajo stock mínimo: %d/%d",
			p.Nombre, p.Codigo, p.StockActual, p.StockMinimo)
	default:
		return false, nil
	}
	return s.crearConDedup(ctx, &model.Alerta{
		Tipo:       tipo,
		Prioridad:  prioridad,
		ProductoID: &p.ID,
		Mensaje:    mensaje,
	}, ahora)
}

func (s *alertaService) evaluarVencimiento(ctx context.Context, l *model.Lote, ahora time.Time) (bool, error) {
	if l.FechaVencimiento == nil {
		return false, nil
	}
	dias := diasRestantes(*l.FechaVencimiento, ahora)
	var prioridad string
	switch {
	case dias <= 3:
		prioridad = model.PrioridadCritica
	case dias <= 5:
		prioridad = model.PrioridadAlta
	default:
		prioridad = model.PrioridadNormal
	}
	return s.crearConDedup(ctx, &model.Alerta{
		Tipo:       model.AlertaVencimiento,
		Prioridad:  prioridad,
		ProductoID: &l.ProductoID,
		LoteID:     &l.ID,
		Mensaje:    fmt.Sprintf("Lote %s vence en %d días", l.Codigo, dias),
	}, ahora)
}

func (s *alertaService) crearConDedup(ctx context.Context, a *model.Alerta, ahora time.Time) (bool, error) {
	desde := ahora.Add(-time.Duration(s.cfg.AlertaDedupHoras) * time.Hour)
	existe, err := s.repo.ExisteReciente(ctx, a.Tipo, a.ProductoID, a.LoteID, desde)
	if err != nil {
		return false, err
	}
	if existe {
		return false, nil
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return false, err
	}
	return true, nil
}

// ── Resolución ────────────────────────────────────────────────────────────────
// Deletes every stock alert whose condition cleared and every expiry alert
// whose lote is no longer disponible. Deletion, not mark-read: a stale alert
// row would poison the dedup window of the next legitimate detection.

func (s *alertaService) resolver(ctx context.Context, soloProducto *uuid.UUID) (int, error) {
	resueltas := 0

	stock, err := s.repo.ListStock(ctx)
	if err != nil {
		return 0, err
	}
	for i := range stock {
		a := &stock[i]
		if a.ProductoID == nil || (soloProducto != nil && *a.ProductoID != *soloProducto) {
			continue
		}
		p, err := s.productoRepo.FindByID(ctx, *a.ProductoID)
		if err != nil {
			continue
		}
		if s.condicionStockVigente(a.Tipo, p) {
			continue
		}
		if err := s.repo.Delete(ctx, a.ID); err != nil {
			return resueltas, err
		}
		resueltas++
	}

	vencimiento, err := s.repo.ListVencimiento(ctx)
	if err != nil {
		return resueltas, err
	}
	for i := range vencimiento {
		a := &vencimiento[i]
		if a.LoteID == nil || (soloProducto != nil && (a.ProductoID == nil || *a.ProductoID != *soloProducto)) {
			continue
		}
		l, err := s.loteRepo.FindByID(ctx, *a.LoteID)
		if err != nil || l == nil || l.Estado == model.LoteDisponible {
			continue
		}
		if err := s.repo.Delete(ctx, a.ID); err != nil {
			return resueltas, err
		}
		resueltas++
	}

	return resueltas, nil
}

func (s *alertaService) condicionStockVigente(tipo string, p *model.Producto) bool {
	switch tipo {
	case model.AlertaStockAgotado:
		return p.StockActual == 0
	case model.AlertaSobreStock:
		return p.StockMaximo > 0 && p.StockActual >= p.StockMaximo
	case model.AlertaStockBajo:
		return p.StockActual > 0 && p.StockActual < p.StockMinimo
	default:
		return true
	}
}

func diasRestantes(vencimiento, ahora time.Time) int {
	d := int(math.Ceil(vencimiento.Sub(ahora).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// ── Consulta ──────────────────────────────────────────────────────────────────

func (s *alertaService) List(ctx context.Context, filter dto.AlertaFilter) (*dto.AlertaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	alertas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertaResponse, 0, len(alertas))
	for i := range alertas {
		a := &alertas[i]
		item := dto.AlertaResponse{
			ID:        a.ID.String(),
			Tipo:      a.Tipo,
			Prioridad: a.Prioridad,
			Mensaje:   a.Mensaje,
			Leida:     a.Leida,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
		if a.ProductoID != nil {
			p := a.ProductoID.String()
			item.ProductoID = &p
		}
		if a.LoteID != nil {
			l := a.LoteID.String()
			item.LoteID = &l
		}
		items = append(items, item)
	}
	return &dto.AlertaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *alertaService) MarcarLeida(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarcarLeida(ctx, id)
}
