package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AsignacionLote is one (lote, cantidad) pair produced by the FIFO allocator,
// with the product aggregate captured around the mutation for the audit trail.
type AsignacionLote struct {
	Lote          model.Lote
	Cantidad      int
	StockAnterior int
	StockNuevo    int
}

// InventarioService owns every lot mutation. AsignarLotesTx is the FIFO
// allocator; sincronizarStock is the sole writer of productos.stock_actual.
type InventarioService interface {
	CrearLote(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error)
	RetirarLote(ctx context.Context, loteID uuid.UUID, motivo string) error
	ReactivarLote(ctx context.Context, loteID uuid.UUID) error
	ListarLotes(ctx context.Context, productoID uuid.UUID) ([]dto.LoteResponse, error)

	// AsignarLotesTx selects and decrements lotes for cantidad units of the
	// product, FIFO by expiry/creation. All-or-nothing: on insufficient stock
	// nothing is mutated and the returned error carries the exact shortfall.
	// Must run inside the caller's sale transaction.
	AsignarLotesTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidad int) ([]AsignacionLote, error)

	// ReintegrarLoteTx restores cantidad units to a lote (sale cancellation),
	// reviving a retired lot when it is not expired.
	ReintegrarLoteTx(ctx context.Context, tx *gorm.DB, loteID uuid.UUID, cantidad int) error
}

type inventarioService struct {
	productoRepo repository.ProductoRepository
	loteRepo     repository.LoteRepository
	movRepo      repository.MovimientoStockRepository
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	loteRepo repository.LoteRepository,
	movRepo repository.MovimientoStockRepository,
) InventarioService {
	return &inventarioService{productoRepo: productoRepo, loteRepo: loteRepo, movRepo: movRepo}
}

// ── CrearLote ─────────────────────────────────────────────────────────────────
// Expiry resolution: an explicit date always wins (the physical label is
// authoritative). Without one, perishables compute produccion + vida útil.

func (s *inventarioService) CrearLote(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, &ErrNoEncontrado{Entidad: "producto"}
	}
	if !producto.Activo {
		return nil, ErrProductoInactivo
	}

	vencimiento := req.FechaVencimiento
	if vencimiento == nil && producto.Perecedero && producto.VidaUtilDias != nil {
		v := req.FechaProduccion.AddDate(0, 0, *producto.VidaUtilDias)
		vencimiento = &v
	}

	lote := &model.Lote{
		ProductoID:       productoID,
		Codigo:           req.Codigo,
		Cantidad:         req.Cantidad,
		FechaProduccion:  req.FechaProduccion,
		FechaVencimiento: vencimiento,
		Estado:           model.LoteDisponible,
	}

	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.loteRepo.CreateTx(tx, lote); err != nil {
			return err
		}
		stockAntes := producto.StockActual
		if err := s.sincronizarStock(tx, productoID); err != nil {
			return err
		}
		loteRef := lote.ID
		return s.movRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    productoID,
			LoteID:        &loteRef,
			Tipo:          "alta_lote",
			Cantidad:      req.Cantidad,
			StockAnterior: stockAntes,
			StockNuevo:    stockAntes + req.Cantidad,
			Motivo:        fmt.Sprintf("Alta de lote %s", req.Codigo),
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return loteToResponse(lote), nil
}

// ── RetirarLote / ReactivarLote ───────────────────────────────────────────────

func (s *inventarioService) RetirarLote(ctx context.Context, loteID uuid.UUID, motivo string) error {
	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		lote, err := s.loteRepoFindTx(ctx, tx, loteID)
		if err != nil {
			return err
		}
		if lote.Estado == model.LoteRetirado {
			return nil // idempotent
		}
		producto, err := s.productoFindTx(ctx, tx, lote.ProductoID)
		if err != nil {
			return err
		}

		stockAntes := producto.StockActual
		lote.Estado = model.LoteRetirado
		if err := s.loteUpdateTx(ctx, tx, lote); err != nil {
			return err
		}
		if err := s.sincronizarStock(tx, lote.ProductoID); err != nil {
			return err
		}
		loteRef := lote.ID
		return s.movRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    lote.ProductoID,
			LoteID:        &loteRef,
			Tipo:          "retiro_lote",
			Cantidad:      -lote.Cantidad,
			StockAnterior: stockAntes,
			StockNuevo:    stockAntes - lote.Cantidad,
			Motivo:        motivo,
		})
	})
}

// ReactivarLote re-validates state invariants before reviving a retired lot:
// expired lots stay out, and the owning product must still be active.
func (s *inventarioService) ReactivarLote(ctx context.Context, loteID uuid.UUID) error {
	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		lote, err := s.loteRepoFindTx(ctx, tx, loteID)
		if err != nil {
			return err
		}
		if lote.Estado == model.LoteDisponible {
			return nil
		}
		if lote.Vencido(time.Now()) || lote.Estado == model.LoteVencido {
			return ErrLoteVencido
		}
		producto, err := s.productoFindTx(ctx, tx, lote.ProductoID)
		if err != nil {
			return err
		}
		if !producto.Activo {
			return ErrProductoInactivo
		}

		stockAntes := producto.StockActual
		lote.Estado = model.LoteDisponible
		if err := s.loteUpdateTx(ctx, tx, lote); err != nil {
			return err
		}
		if err := s.sincronizarStock(tx, lote.ProductoID); err != nil {
			return err
		}
		loteRef := lote.ID
		return s.movRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    lote.ProductoID,
			LoteID:        &loteRef,
			Tipo:          "ajuste",
			Cantidad:      lote.Cantidad,
			StockAnterior: stockAntes,
			StockNuevo:    stockAntes + lote.Cantidad,
			Motivo:        fmt.Sprintf("Reactivación de lote %s", lote.Codigo),
		})
	})
}

func (s *inventarioService) ListarLotes(ctx context.Context, productoID uuid.UUID) ([]dto.LoteResponse, error) {
	lotes, err := s.loteRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		out = append(out, *loteToResponse(&lotes[i]))
	}
	return out, nil
}

// ── AsignarLotesTx ────────────────────────────────────────────────────────────
// FIFO allocation. Expired lots found along the way are transitioned to
// "vencido" and excluded before selection; fully consumed lots are retired in
// the same pass. Every lot mutation is followed by a stock sync.

func (s *inventarioService) AsignarLotesTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidad int) ([]AsignacionLote, error) {
	producto, err := s.productoFindTx(ctx, tx, productoID)
	if err != nil {
		return nil, &ErrNoEncontrado{Entidad: "producto"}
	}
	if !producto.Activo {
		return nil, ErrProductoInactivo
	}

	lotes, err := s.lotesDisponiblesTx(ctx, tx, producto)
	if err != nil {
		return nil, err
	}

	// Expire pass: transition overdue lotes before counting anything.
	ahora := time.Now()
	disponibles := lotes[:0]
	vencidosVistos := 0
	for i := range lotes {
		if lotes[i].Vencido(ahora) {
			lotes[i].Estado = model.LoteVencido
			if err := s.loteUpdateTx(ctx, tx, &lotes[i]); err != nil {
				return nil, err
			}
			if err := s.sincronizarStock(tx, productoID); err != nil {
				return nil, err
			}
			vencidosVistos++
			continue
		}
		disponibles = append(disponibles, lotes[i])
	}

	total := 0
	for i := range disponibles {
		total += disponibles[i].Cantidad
	}
	if total == 0 && vencidosVistos > 0 {
		return nil, &ErrLotesVencidos{Producto: producto.Nombre}
	}
	if total < cantidad {
		return nil, &ErrStockInsuficiente{
			Producto:   producto.Nombre,
			Solicitado: cantidad,
			Disponible: total,
		}
	}

	// Consume in order until satisfied. The audit snapshot tracks the product
	// aggregate (every non-retired lote, vencidos included), not the sellable
	// subset, so it is seeded from stock_actual rather than the FIFO total.
	stockCorriente := producto.StockActual
	restante := cantidad
	var asignaciones []AsignacionLote
	for i := range disponibles {
		if restante == 0 {
			break
		}
		lote := &disponibles[i]
		tomar := lote.Cantidad
		if tomar > restante {
			tomar = restante
		}
		lote.Cantidad -= tomar
		if lote.Cantidad == 0 {
			lote.Estado = model.LoteRetirado
		}
		if err := s.loteUpdateTx(ctx, tx, lote); err != nil {
			return nil, err
		}
		if err := s.sincronizarStock(tx, productoID); err != nil {
			return nil, err
		}
		asignaciones = append(asignaciones, AsignacionLote{
			Lote:          *lote,
			Cantidad:      tomar,
			StockAnterior: stockCorriente,
			StockNuevo:    stockCorriente - tomar,
		})
		stockCorriente -= tomar
		restante -= tomar
	}

	log.Debug().
		Str("producto", producto.Nombre).
		Int("cantidad", cantidad).
		Int("lotes", len(asignaciones)).
		Msg("asignación FIFO completada")

	return asignaciones, nil
}

// ── ReintegrarLoteTx ──────────────────────────────────────────────────────────

func (s *inventarioService) ReintegrarLoteTx(ctx context.Context, tx *gorm.DB, loteID uuid.UUID, cantidad int) error {
	lote, err := s.loteRepoFindTx(ctx, tx, loteID)
	if err != nil {
		return &ErrNoEncontrado{Entidad: "lote"}
	}
	lote.Cantidad += cantidad
	// A retired-but-not-expired lote comes back; expired stock stays out even
	// when the sale is reversed.
	if lote.Estado == model.LoteRetirado && !lote.Vencido(time.Now()) {
		lote.Estado = model.LoteDisponible
	}
	if err := s.loteUpdateTx(ctx, tx, lote); err != nil {
		return err
	}
	return s.sincronizarStock(tx, lote.ProductoID)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// sincronizarStock is the single entry point to the aggregate-stock writer.
// Any other code path updating productos.stock_actual is a defect.
func (s *inventarioService) sincronizarStock(tx *gorm.DB, productoID uuid.UUID) error {
	if tx == nil {
		return nil // unit test mode: fakes maintain the aggregate themselves
	}
	return s.productoRepo.SincronizarStockTx(tx, productoID)
}

// The Tx lookups fall back to context-scoped reads when tx is nil so that the
// service remains unit-testable against in-memory repositories.

func (s *inventarioService) productoFindTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	if tx == nil {
		return s.productoRepo.FindByID(ctx, id)
	}
	return s.productoRepo.FindByIDTx(tx, id)
}

func (s *inventarioService) loteRepoFindTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Lote, error) {
	if tx == nil {
		return s.loteRepo.FindByID(ctx, id)
	}
	return s.loteRepo.FindByIDTx(tx, id)
}

func (s *inventarioService) loteUpdateTx(ctx context.Context, tx *gorm.DB, l *model.Lote) error {
	if tx == nil {
		return s.loteRepo.Update(ctx, l)
	}
	return s.loteRepo.UpdateTx(tx, l)
}

func (s *inventarioService) lotesDisponiblesTx(ctx context.Context, tx *gorm.DB, p *model.Producto) ([]model.Lote, error) {
	if tx == nil {
		lotes, err := s.loteRepo.ListByProducto(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		disponibles := make([]model.Lote, 0, len(lotes))
		for _, l := range lotes {
			if l.Estado == model.LoteDisponible {
				disponibles = append(disponibles, l)
			}
		}
		ordenarFIFO(disponibles, p.Perecedero)
		return disponibles, nil
	}
	return s.loteRepo.FindDisponiblesTx(tx, p.ID, p.Perecedero)
}

// ordenarFIFO mirrors the repository's ORDER BY for the in-memory path:
// perishables by expiry then creation, everything else by creation alone.
func ordenarFIFO(lotes []model.Lote, perecedero bool) {
	sort.SliceStable(lotes, func(i, j int) bool {
		a, b := &lotes[i], &lotes[j]
		if perecedero {
			switch {
			case a.FechaVencimiento == nil && b.FechaVencimiento != nil:
				return false
			case a.FechaVencimiento != nil && b.FechaVencimiento == nil:
				return true
			case a.FechaVencimiento != nil && b.FechaVencimiento != nil &&
				!a.FechaVencimiento.Equal(*b.FechaVencimiento):
				return a.FechaVencimiento.Before(*b.FechaVencimiento)
			}
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func loteToResponse(l *model.Lote) *dto.LoteResponse {
	resp := &dto.LoteResponse{
		ID:              l.ID.String(),
		ProductoID:      l.ProductoID.String(),
		Codigo:          l.Codigo,
		Cantidad:        l.Cantidad,
		FechaProduccion: l.FechaProduccion.Format("2006-01-02"),
		Estado:          l.Estado,
	}
	if l.FechaVencimiento != nil {
		v := l.FechaVencimiento.Format("2006-01-02")
		resp.FechaVencimiento = &v
	}
	return resp
}
