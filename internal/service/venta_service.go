package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/config"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BarridoDispatcher enqueues post-commit alert sweeps for the touched
// products. Implemented by worker.Dispatcher; nil disables dispatching.
type BarridoDispatcher interface {
	EnqueueBarrido(ctx context.Context, productoIDs []uuid.UUID) error
}

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string, reintegrarStock bool) error
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	inventario   InventarioService
	caja         CajaService
	cajaRepo     repository.CajaRepository
	productoRepo repository.ProductoRepository
	turnoRepo    repository.TurnoRepository
	movRepo      repository.MovimientoStockRepository
	metodos      *ResolvedorCategorias
	dispatcher   BarridoDispatcher
	cfg          *config.Config
}

func NewVentaService(
	repo repository.VentaRepository,
	inventario InventarioService,
	caja CajaService,
	cajaRepo repository.CajaRepository,
	productoRepo repository.ProductoRepository,
	turnoRepo repository.TurnoRepository,
	movRepo repository.MovimientoStockRepository,
	metodos *ResolvedorCategorias,
	dispatcher BarridoDispatcher,
	cfg *config.Config,
) VentaService {
	return &ventaService{
		repo:         repo,
		inventario:   inventario,
		caja:         caja,
		cajaRepo:     cajaRepo,
		productoRepo: productoRepo,
		turnoRepo:    turnoRepo,
		movRepo:      movRepo,
		metodos:      metodos,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Full ACID transaction:
//   1. Validate open session + active turno of the selling cashier
//   2. Compute totals (line discounts → global discount → flat tax)
//   3. Validate payment sufficiency and, for cash change, drawer coverage
//   4. BEGIN TX: nextval codigo, FIFO lot allocation per line, venta +
//      detalles + pagos, stock audit rows, movimientos de caja
//   5. COMMIT
//   6. Post-commit: bump session per-category totals, enqueue alert sweep

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}

	// 1. Session open, turno active and owned by the seller.
	if _, err := s.caja.ValidarSesionAbierta(ctx, sesionID); err != nil {
		return nil, err
	}
	turno, err := s.turnoRepo.FindVigentePorSesion(ctx, sesionID)
	if err != nil || turno == nil || turno.UsuarioID != usuarioID {
		return nil, ErrTurnoNoActivo
	}
	// A suspended turno still occupies the session but cannot sell.
	if turno.Estado != model.TurnoActivo {
		return nil, ErrTurnoNoActivo
	}

	// 2. Resolve products and compute totals (pre-flight, outside TX).
	type lineaResuelta struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   int
		descPct    decimal.Decimal
		subtotal   decimal.Decimal
	}

	cien := decimal.NewFromInt(100)
	var lineas []lineaResuelta
	subtotal := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, &ErrNoEncontrado{Entidad: "producto"}
		}
		if !p.Activo {
			return nil, ErrProductoInactivo
		}
		factor := decimal.NewFromInt(1).Sub(item.DescuentoPct.Div(cien))
		lineSubtotal := item.PrecioUnitario.
			Mul(decimal.NewFromInt(int64(item.Cantidad))).
			Mul(factor).Round(2)
		subtotal = subtotal.Add(lineSubtotal)
		lineas = append(lineas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     item.PrecioUnitario,
			cantidad:   item.Cantidad,
			descPct:    item.DescuentoPct,
			subtotal:   lineSubtotal,
		})
	}

	descuentoGlobal := subtotal.Mul(req.DescuentoGlobalPct.Div(cien)).Round(2)
	base := subtotal.Sub(descuentoGlobal)
	impuesto := base.Mul(s.cfg.IVA().Div(cien)).Round(2)
	total := base.Add(impuesto)

	// 3. Payment sufficiency + change coverage.
	totalPagos := decimal.Zero
	efectivoPagado := decimal.Zero
	categorias := make([]string, len(req.Pagos))
	for i, pago := range req.Pagos {
		totalPagos = totalPagos.Add(pago.Monto)
		categorias[i] = s.metodos.Resolver(ctx, pago.Metodo)
		if categorias[i] == model.CategoriaEfectivo {
			efectivoPagado = efectivoPagado.Add(pago.Monto)
		}
	}
	if totalPagos.LessThan(total) {
		return nil, errors.New("el monto total de pagos es insuficiente")
	}
	vuelto := totalPagos.Sub(total)

	if vuelto.IsPositive() && efectivoPagado.IsPositive() {
		// The drawer after taking the cash payment must cover the change.
		disponible, err := s.caja.EfectivoDisponible(ctx, sesionID)
		if err != nil {
			return nil, err
		}
		enCaja := disponible.Add(efectivoPagado)
		if enCaja.LessThan(vuelto) {
			return nil, &ErrEfectivoInsuficiente{Disponible: enCaja, Requerido: vuelto}
		}
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		clienteID = &cid
	}

	// 4. ACID transaction.
	var venta model.Venta
	productosTocados := make(map[uuid.UUID]struct{})
	porCategoria := make(map[string]decimal.Decimal)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		codigo, err := s.nextCodigo(ctx, tx)
		if err != nil {
			return err
		}

		turnoRef := turno.ID
		venta = model.Venta{
			Codigo:       codigo,
			SesionCajaID: sesionID,
			TurnoID:      &turnoRef,
			UsuarioID:    usuarioID,
			ClienteID:    clienteID,
			Subtotal:     subtotal,
			Descuento:    descuentoGlobal,
			Impuesto:     impuesto,
			Total:        total,
			Vuelto:       vuelto,
			Estado:       "completada",
		}

		// FIFO allocation per line; one detalle + one audit row per
		// (lote, cantidad) pair. Stock decrements happen exclusively inside
		// the allocator's sync calls — never re-applied here.
		type movPendiente struct {
			asig     AsignacionLote
			cantidad int
			motivo   string
		}
		var movimientos []movPendiente

		for _, linea := range lineas {
			asignaciones, err := s.inventario.AsignarLotesTx(ctx, tx, linea.productoID, linea.cantidad)
			if err != nil {
				return err
			}
			factor := decimal.NewFromInt(1).Sub(linea.descPct.Div(cien))
			for _, a := range asignaciones {
				venta.Detalles = append(venta.Detalles, model.DetalleVenta{
					ProductoID:     linea.productoID,
					LoteID:         a.Lote.ID,
					Cantidad:       a.Cantidad,
					PrecioUnitario: linea.precio,
					DescuentoPct:   linea.descPct,
					Subtotal: linea.precio.
						Mul(decimal.NewFromInt(int64(a.Cantidad))).
						Mul(factor).Round(2),
				})
				movimientos = append(movimientos, movPendiente{
					asig:     a,
					cantidad: a.Cantidad,
					motivo:   fmt.Sprintf("Venta #%d", codigo),
				})
			}
			productosTocados[linea.productoID] = struct{}{}
		}

		for i, pago := range req.Pagos {
			venta.Pagos = append(venta.Pagos, model.Pago{
				Metodo:     pago.Metodo,
				Categoria:  categorias[i],
				Monto:      pago.Monto,
				Referencia: pago.Referencia,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, m := range movimientos {
			ventaRef := venta.ID
			loteRef := m.asig.Lote.ID
			if err := s.movRepo.CreateTx(tx, &model.MovimientoStock{
				ProductoID:    m.asig.Lote.ProductoID,
				LoteID:        &loteRef,
				Tipo:          "venta",
				Cantidad:      -m.cantidad,
				StockAnterior: m.asig.StockAnterior,
				StockNuevo:    m.asig.StockNuevo,
				Motivo:        m.motivo,
				ReferenciaID:  &ventaRef,
			}); err != nil {
				return err
			}
		}

		// Change coverage again, now under the session row lock: a retiro or
		// egreso committed after the pre-flight read may have drained the
		// drawer below what the vuelto needs.
		if vuelto.IsPositive() && efectivoPagado.IsPositive() {
			if tx != nil {
				if _, err := s.cajaRepo.FindSesionByIDTx(tx, sesionID); err != nil {
					return err
				}
			}
			disponible, err := s.caja.EfectivoDisponible(ctx, sesionID)
			if err != nil {
				return err
			}
			enCaja := disponible.Add(efectivoPagado)
			if enCaja.LessThan(vuelto) {
				return &ErrEfectivoInsuficiente{Disponible: enCaja, Requerido: vuelto}
			}
		}

		// Movimientos de caja: one per payment. The change leaves the drawer
		// immediately, so the cash entry records the net amount kept.
		vueltoPendiente := vuelto
		for i, pago := range req.Pagos {
			monto := pago.Monto
			if categorias[i] == model.CategoriaEfectivo && vueltoPendiente.IsPositive() {
				monto = monto.Sub(vueltoPendiente)
				vueltoPendiente = decimal.Zero
			}
			metodo := pago.Metodo
			if err := s.cajaRepo.CreateMovimientoTx(tx, &model.MovimientoCaja{
				SesionCajaID: sesionID,
				TurnoID:      &turnoRef,
				Tipo:         model.MovVenta,
				MetodoPago:   &metodo,
				Categoria:    categorias[i],
				Monto:        monto,
				Descripcion:  fmt.Sprintf("Venta #%d", codigo),
				ReferenciaID: &venta.ID,
			}); err != nil {
				return err
			}
			if categorias[i] != "" {
				porCategoria[categorias[i]] = porCategoria[categorias[i]].Add(monto)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 5. Post-commit bookkeeping: cached per-category totals (display only)
	// and the async alert sweep for every product touched.
	if err := s.cajaRepo.AcumularVentas(ctx, sesionID, porCategoria); err != nil {
		log.Error().Err(err).Str("sesion", sesionID.String()).
			Msg("no se pudieron acumular los totales de la sesión")
	}
	if s.dispatcher != nil {
		ids := make([]uuid.UUID, 0, len(productosTocados))
		for id := range productosTocados {
			ids = append(ids, id)
		}
		if err := s.dispatcher.EnqueueBarrido(ctx, ids); err != nil {
			log.Error().Err(err).Msg("no se pudo encolar el barrido de alertas")
		}
	}

	log.Info().Int("codigo", venta.Codigo).
		Str("total", venta.Total.StringFixed(2)).
		Msg("venta registrada")

	nombres := make(map[uuid.UUID]string, len(lineas))
	for _, l := range lineas {
		nombres[l.productoID] = l.nombre
	}
	return s.ventaToResponse(&venta, nombres), nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Reverses the sale's stock and ledger effects with inverse entries. The sale
// row itself is kept (soft cancellation) for the audit trail.

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string, reintegrarStock bool) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &ErrNoEncontrado{Entidad: "venta"}
	}
	if venta.Estado == "anulada" {
		return errors.New("la venta ya está anulada")
	}

	porCategoria := make(map[string]decimal.Decimal)
	productosTocados := make(map[uuid.UUID]struct{})

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if reintegrarStock {
			for _, det := range venta.Detalles {
				producto, err := s.productoFindTx(ctx, tx, det.ProductoID)
				if err != nil {
					return err
				}
				stockAntes := producto.StockActual
				if err := s.inventario.ReintegrarLoteTx(ctx, tx, det.LoteID, det.Cantidad); err != nil {
					return err
				}
				ventaRef := venta.ID
				loteRef := det.LoteID
				if err := s.movRepo.CreateTx(tx, &model.MovimientoStock{
					ProductoID:    det.ProductoID,
					LoteID:        &loteRef,
					Tipo:          "reintegro",
					Cantidad:      det.Cantidad,
					StockAnterior: stockAntes,
					StockNuevo:    stockAntes + det.Cantidad,
					Motivo:        fmt.Sprintf("Anulación venta #%d — %s", venta.Codigo, motivo),
					ReferenciaID:  &ventaRef,
				}); err != nil {
					return err
				}
				productosTocados[det.ProductoID] = struct{}{}
			}
		}

		// Inverse cash entries mirror the originals, net of change for cash.
		vueltoPendiente := venta.Vuelto
		for _, pago := range venta.Pagos {
			monto := pago.Monto
			if pago.Categoria == model.CategoriaEfectivo && vueltoPendiente.IsPositive() {
				monto = monto.Sub(vueltoPendiente)
				vueltoPendiente = decimal.Zero
			}
			metodo := pago.Metodo
			if err := s.cajaRepo.CreateMovimientoTx(tx, &model.MovimientoCaja{
				SesionCajaID: venta.SesionCajaID,
				TurnoID:      venta.TurnoID,
				Tipo:         model.MovAnulacion,
				MetodoPago:   &metodo,
				Categoria:    pago.Categoria,
				Monto:        monto.Neg(),
				Descripcion:  fmt.Sprintf("Anulación venta #%d — %s", venta.Codigo, motivo),
				ReferenciaID: &venta.ID,
			}); err != nil {
				return err
			}
			if pago.Categoria != "" {
				porCategoria[pago.Categoria] = porCategoria[pago.Categoria].Sub(monto)
			}
		}

		return s.anularTx(ctx, tx, id, motivo)
	})
	if txErr != nil {
		return txErr
	}

	if err := s.cajaRepo.AcumularVentas(ctx, venta.SesionCajaID, porCategoria); err != nil {
		log.Error().Err(err).Msg("no se pudieron revertir los totales de la sesión")
	}
	if s.dispatcher != nil && len(productosTocados) > 0 {
		ids := make([]uuid.UUID, 0, len(productosTocados))
		for pid := range productosTocados {
			ids = append(ids, pid)
		}
		_ = s.dispatcher.EnqueueBarrido(ctx, ids)
	}

	log.Info().Int("codigo", venta.Codigo).Bool("reintegro", reintegrarStock).
		Msg("venta anulada")
	return nil
}

// ListVentas returns a paginated list of sales, filtered by date and estado.
// Default filter: today's completed sales.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = "completada"
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *s.ventaToResponse(&ventas[i], nil))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *ventaService) nextCodigo(ctx context.Context, tx *gorm.DB) (int, error) {
	if tx == nil {
		return s.repo.NextCodigo(ctx, nil)
	}
	return s.repo.NextCodigo(ctx, tx)
}

func (s *ventaService) productoFindTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	if tx == nil {
		return s.productoRepo.FindByID(ctx, id)
	}
	return s.productoRepo.FindByIDTx(tx, id)
}

func (s *ventaService) anularTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, motivo string) error {
	if tx == nil {
		return s.repo.AnularTx(nil, id, motivo, time.Now())
	}
	return s.repo.AnularTx(tx, id, motivo, time.Now())
}

func (s *ventaService) ventaToResponse(v *model.Venta, nombres map[uuid.UUID]string) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, det := range v.Detalles {
		nombre := nombres[det.ProductoID]
		if nombre == "" && det.Producto != nil {
			nombre = det.Producto.Nombre
		}
		loteCodigo := ""
		if det.Lote != nil {
			loteCodigo = det.Lote.Codigo
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			Producto:       nombre,
			LoteCodigo:     loteCodigo,
			Cantidad:       det.Cantidad,
			PrecioUnitario: det.PrecioUnitario,
			Subtotal:       det.Subtotal,
		})
	}
	pagos := make([]dto.PagoResponse, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, dto.PagoResponse{Metodo: p.Metodo, Categoria: p.Categoria, Monto: p.Monto})
	}
	return &dto.VentaResponse{
		ID:        v.ID.String(),
		Codigo:    v.Codigo,
		Detalles:  detalles,
		Subtotal:  v.Subtotal,
		Descuento: v.Descuento,
		Impuesto:  v.Impuesto,
		Total:     v.Total,
		Vuelto:    v.Vuelto,
		Pagos:     pagos,
		Estado:    v.Estado,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}
