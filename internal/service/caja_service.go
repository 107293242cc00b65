package service

import (
	"context"
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

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	Cerrar(ctx context.Context, sesionID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) error
	ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.SesionCajaResponse, error)
	ListarMovimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error)

	// EfectivoDisponible is the cash ledger calculator: fund + cash sales +
	// manual cash income − manual cash outflow − completed withdrawals −
	// cash expenses, recomputed from source rows on every call. Idempotent,
	// side-effect free, and the sole source of truth for change-giving and
	// withdrawal decisions. The session's cached totals are never consulted.
	EfectivoDisponible(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error)

	// ValidarSesionAbierta is called by VentaService and RetiroService.
	ValidarSesionAbierta(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error)
}

type cajaService struct {
	repo       repository.CajaRepository
	retiroRepo repository.RetiroRepository
	gastoRepo  repository.GastoRepository
	turnoRepo  repository.TurnoRepository
	metodos    *ResolvedorCategorias
	cfg        *config.Config
}

func NewCajaService(
	repo repository.CajaRepository,
	retiroRepo repository.RetiroRepository,
	gastoRepo repository.GastoRepository,
	turnoRepo repository.TurnoRepository,
	metodos *ResolvedorCategorias,
	cfg *config.Config,
) CajaService {
	return &cajaService{
		repo:       repo,
		retiroRepo: retiroRepo,
		gastoRepo:  gastoRepo,
		turnoRepo:  turnoRepo,
		metodos:    metodos,
		cfg:        cfg,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	// Guards: one open session per till, one open session per cashier.
	if existing, err := s.repo.FindSesionAbiertaPorPDV(ctx, req.PuntoDeVenta); err == nil && existing != nil {
		return nil, ErrSesionYaAbierta
	}
	if existing, err := s.repo.FindSesionAbiertaPorUsuario(ctx, usuarioID); err == nil && existing != nil {
		return nil, ErrSesionYaAbierta
	}

	sesion := &model.SesionCaja{
		PuntoDeVenta: req.PuntoDeVenta,
		UsuarioID:    usuarioID,
		MontoInicial: req.MontoInicial,
		Estado:       "abierta",
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	log.Info().Int("punto_de_venta", req.PuntoDeVenta).
		Str("sesion", sesion.ID.String()).Msg("caja abierta")

	return s.buildReporte(ctx, sesion)
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Closing records the denomination count and compares against the ledger. A
// variance beyond the configured tolerance flags the session for review but
// never blocks the close.

func (s *cajaService) Cerrar(ctx context.Context, sesionID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	contado := decimal.Zero
	for _, d := range req.Conteo {
		contado = contado.Add(d.Denominacion.Mul(decimal.NewFromInt(int64(d.Cantidad))))
	}

	esperado, err := s.EfectivoDisponible(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	desvio := contado.Sub(esperado) // positive = surplus, negative = shortage
	balanceada := desvio.Abs().LessThan(s.cfg.Tolerancia())

	// The session row is locked for the estado check + arqueo write so two
	// concurrent closes cannot both pass the "abierta" guard.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sesion, err := s.sesionFindTx(ctx, tx, sesionID)
		if err != nil {
			return &ErrNoEncontrado{Entidad: "sesión de caja"}
		}
		if sesion.Estado != "abierta" {
			return ErrSesionNoAbierta
		}

		ahora := time.Now()
		sesion.MontoEsperado = &esperado
		sesion.MontoContado = &contado
		sesion.Desvio = &desvio
		sesion.RequiereRevision = !balanceada
		sesion.Observaciones = req.Observaciones
		sesion.Estado = "cerrada"
		sesion.ClosedAt = &ahora
		return s.sesionUpdateTx(ctx, tx, sesion)
	})
	if txErr != nil {
		return nil, txErr
	}

	if !balanceada {
		log.Warn().Str("sesion", sesionID.String()).
			Str("desvio", desvio.StringFixed(2)).
			Msg("cierre de caja con desvío fuera de tolerancia")
	}

	return &dto.CierreCajaResponse{
		SesionCajaID:  sesionID.String(),
		MontoEsperado: esperado,
		MontoContado:  contado,
		Desvio:        desvio,
		Balanceada:    balanceada,
		Estado:        "cerrada",
	}, nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Ingreso / egreso manual. Movements are immutable — no Update/Delete.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) error {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if _, err := s.ValidarSesionAbierta(ctx, sesionID); err != nil {
		return err
	}

	monto := req.Monto
	if req.Tipo == model.MovEgresoManual {
		monto = req.Monto.Neg()
	}

	var turnoID *uuid.UUID
	if turno, err := s.turnoRepo.FindVigentePorSesion(ctx, sesionID); err == nil && turno != nil {
		turnoID = &turno.ID
	}

	metodo := req.MetodoPago
	mov := &model.MovimientoCaja{
		SesionCajaID: sesionID,
		TurnoID:      turnoID,
		Tipo:         req.Tipo,
		MetodoPago:   &metodo,
		Categoria:    s.metodos.Resolver(ctx, metodo),
		Monto:        monto,
		Descripcion:  req.Descripcion,
	}
	return s.repo.CreateMovimiento(ctx, mov)
}

// ── EfectivoDisponible ────────────────────────────────────────────────────────

func (s *cajaService) EfectivoDisponible(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return decimal.Zero, &ErrNoEncontrado{Entidad: "sesión de caja"}
	}

	// Net cash from ventas/anulaciones and manual movements. Outflows are
	// stored negative so the map value is already the net contribution.
	sums, err := s.repo.SumMovimientosPorCategoria(ctx, sesionID)
	if err != nil {
		return decimal.Zero, err
	}
	disponible := sesion.MontoInicial.Add(sums[model.CategoriaEfectivo])

	retiros, err := s.retiroRepo.SumCompletadosPorSesion(ctx, sesionID)
	if err != nil {
		return decimal.Zero, err
	}
	gastos, err := s.gastoRepo.SumEfectivoPorSesion(ctx, sesionID)
	if err != nil {
		return decimal.Zero, err
	}

	return disponible.Sub(retiros).Sub(gastos), nil
}

// ── ListarMovimientos ─────────────────────────────────────────────────────────
// Full ledger detail of a session, oldest first. Includes the audit-only
// retiro/gasto rows.

func (s *cajaService) ListarMovimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error) {
	if _, err := s.repo.FindSesionByID(ctx, sesionID); err != nil {
		return nil, &ErrNoEncontrado{Entidad: "sesión de caja"}
	}
	movs, err := s.repo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoCajaResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimientoCajaResponse{
			ID:          m.ID.String(),
			Tipo:        m.Tipo,
			Categoria:   m.Categoria,
			Monto:       m.Monto,
			Descripcion: m.Descripcion,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.MetodoPago != nil {
			item.MetodoPago = m.MetodoPago
		}
		if m.TurnoID != nil {
			t := m.TurnoID.String()
			item.TurnoID = &t
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// ── ObtenerReporte ────────────────────────────────────────────────────────────

func (s *cajaService) ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, &ErrNoEncontrado{Entidad: "sesión de caja"}
	}
	return s.buildReporte(ctx, sesion)
}

// ── ValidarSesionAbierta ──────────────────────────────────────────────────────

func (s *cajaService) ValidarSesionAbierta(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, &ErrNoEncontrado{Entidad: "sesión de caja"}
	}
	if sesion.Estado != "abierta" {
		return nil, ErrSesionNoAbierta
	}
	return sesion, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *cajaService) sesionFindTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	if tx == nil {
		return s.repo.FindSesionByID(ctx, id)
	}
	return s.repo.FindSesionByIDTx(tx, id)
}

func (s *cajaService) sesionUpdateTx(ctx context.Context, tx *gorm.DB, sesion *model.SesionCaja) error {
	if tx == nil {
		return s.repo.UpdateSesion(ctx, sesion)
	}
	return s.repo.UpdateSesionTx(tx, sesion)
}

func (s *cajaService) buildReporte(ctx context.Context, sesion *model.SesionCaja) (*dto.SesionCajaResponse, error) {
	disponible, err := s.EfectivoDisponible(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SesionCajaResponse{
		SesionCajaID:       sesion.ID.String(),
		PuntoDeVenta:       sesion.PuntoDeVenta,
		UsuarioID:          sesion.UsuarioID.String(),
		MontoInicial:       sesion.MontoInicial,
		EfectivoDisponible: disponible,
		TotalesVentas: dto.MontosPorCategoria{
			Efectivo:      sesion.TotalVentasEfectivo,
			Billetera:     sesion.TotalVentasBilletera,
			Tarjeta:       sesion.TotalVentasTarjeta,
			Transferencia: sesion.TotalVentasTransferencia,
		},
		TotalRetiros:     sesion.TotalRetiros,
		Estado:           sesion.Estado,
		RequiereRevision: sesion.RequiereRevision,
		Observaciones:    sesion.Observaciones,
		OpenedAt:         sesion.OpenedAt.Format(time.RFC3339),
	}
	if sesion.MontoContado != nil && sesion.Desvio != nil {
		resp.MontoContado = sesion.MontoContado
		resp.Desvio = sesion.Desvio
	}
	if sesion.ClosedAt != nil {
		t := sesion.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp, nil
}
