package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TurnoService interface {
	Iniciar(ctx context.Context, usuarioID uuid.UUID, req dto.IniciarTurnoRequest) (*dto.TurnoResponse, error)
	Finalizar(ctx context.Context, turnoID uuid.UUID, req dto.FinalizarTurnoRequest) (*dto.TurnoResponse, error)
	Suspender(ctx context.Context, turnoID uuid.UUID, motivo string) (*dto.TurnoResponse, error)
	Reanudar(ctx context.Context, turnoID uuid.UUID) (*dto.TurnoResponse, error)
	ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]dto.TurnoResponse, error)
}

type turnoService struct {
	repo       repository.TurnoRepository
	cajaRepo   repository.CajaRepository
	retiroRepo repository.RetiroRepository
	gastoRepo  repository.GastoRepository
	caja       CajaService
}

func NewTurnoService(
	repo repository.TurnoRepository,
	cajaRepo repository.CajaRepository,
	retiroRepo repository.RetiroRepository,
	gastoRepo repository.GastoRepository,
	caja CajaService,
) TurnoService {
	return &turnoService{
		repo:       repo,
		cajaRepo:   cajaRepo,
		retiroRepo: retiroRepo,
		gastoRepo:  gastoRepo,
		caja:       caja,
	}
}

// ── Iniciar ───────────────────────────────────────────────────────────────────
// A turno starts against an open session with no other active turno. The
// opening cash is resolved by hand-off type: inicio_dia takes the same-day
// previous turno's counted close (or the session fund when the day has no
// finished turno yet); cambio_turno takes the named predecessor's count.

func (s *turnoService) Iniciar(ctx context.Context, usuarioID uuid.UUID, req dto.IniciarTurnoRequest) (*dto.TurnoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	sesion, err := s.caja.ValidarSesionAbierta(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	if activo, err := s.repo.FindVigentePorSesion(ctx, sesionID); err == nil && activo != nil {
		return nil, ErrTurnoYaActivo
	}

	var montoInicial decimal.Decimal
	switch req.TipoEntrega {
	case model.EntregaInicioDia:
		ahora := time.Now()
		hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
		anterior, err := s.repo.FindUltimoFinalizado(ctx, sesionID, hoy)
		switch {
		case err == nil && anterior != nil && anterior.MontoContado != nil:
			montoInicial = *anterior.MontoContado
		default:
			montoInicial = sesion.MontoInicial
		}
	case model.EntregaCambioTurno:
		if req.TurnoAnteriorID == nil {
			return nil, errors.New("cambio_turno requiere turno_anterior_id")
		}
		anteriorID, err := uuid.Parse(*req.TurnoAnteriorID)
		if err != nil {
			return nil, fmt.Errorf("turno_anterior_id inválido: %w", err)
		}
		anterior, err := s.repo.FindByID(ctx, anteriorID)
		if err != nil || anterior == nil {
			return nil, &ErrNoEncontrado{Entidad: "turno anterior"}
		}
		if anterior.SesionCajaID != sesionID || anterior.Estado != model.TurnoFinalizado || anterior.MontoContado == nil {
			return nil, errors.New("el turno anterior debe estar finalizado en la misma sesión")
		}
		montoInicial = *anterior.MontoContado
	default:
		return nil, fmt.Errorf("tipo de entrega desconocido: %s", req.TipoEntrega)
	}

	turno := &model.Turno{
		SesionCajaID: sesionID,
		UsuarioID:    usuarioID,
		TipoEntrega:  req.TipoEntrega,
		MontoInicial: montoInicial,
		Estado:       model.TurnoActivo,
		StartedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, turno); err != nil {
		return nil, err
	}

	log.Info().Str("turno", turno.ID.String()).Str("tipo_entrega", req.TipoEntrega).
		Str("monto_inicial", montoInicial.StringFixed(2)).Msg("turno iniciado")

	return turnoToResponse(turno), nil
}

// ── Finalizar ─────────────────────────────────────────────────────────────────
// Ending a turno is blocked while it has pending withdrawals. Expected cash:
//
//	inicial + ventas + anulaciones + ingresos − egresos − retiros − gastos
//
// where every movement term is the turno-scoped cash aggregate (outflow rows
// are stored negative, so the movement sum is already net). Desvio is signed:
// contado − esperado, positive = surplus.

func (s *turnoService) Finalizar(ctx context.Context, turnoID uuid.UUID, req dto.FinalizarTurnoRequest) (*dto.TurnoResponse, error) {
	var (
		turno  *model.Turno
		desvio decimal.Decimal
	)
	txErr := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		// Row lock so two concurrent closes of the same turno serialize and
		// the second one sees the finalizado state.
		turno, err = s.turnoFindTx(ctx, tx, turnoID)
		if err != nil || turno == nil {
			return &ErrNoEncontrado{Entidad: "turno"}
		}
		if turno.Estado != model.TurnoActivo {
			return ErrTurnoNoActivo
		}

		pendientes, err := s.retiroRepo.CountPendientesPorTurno(ctx, turnoID)
		if err != nil {
			return err
		}
		if pendientes > 0 {
			return ErrRetirosPendientes
		}

		esperado, err := s.esperadoTurno(ctx, turno)
		if err != nil {
			return err
		}
		desvio = req.MontoContado.Sub(esperado)

		ahora := time.Now()
		turno.MontoEsperado = &esperado
		turno.MontoContado = &req.MontoContado
		turno.Desvio = &desvio
		turno.Estado = model.TurnoFinalizado
		turno.EndedAt = &ahora

		return s.turnoUpdateTx(ctx, tx, turno)
	})
	if txErr != nil {
		return nil, txErr
	}

	evt := log.Info()
	if desvio.IsNegative() {
		evt = log.Warn()
	}
	evt.Str("turno", turnoID.String()).Str("desvio", desvio.StringFixed(2)).
		Msg("turno finalizado")

	return turnoToResponse(turno), nil
}

func (s *turnoService) esperadoTurno(ctx context.Context, turno *model.Turno) (decimal.Decimal, error) {
	sums, err := s.cajaRepo.SumMovimientosEfectivoPorTurno(ctx, turno.ID)
	if err != nil {
		return decimal.Zero, err
	}
	retiros, err := s.retiroRepo.SumCompletadosPorTurno(ctx, turno.ID)
	if err != nil {
		return decimal.Zero, err
	}
	gastos, err := s.gastoRepo.SumEfectivoPorTurno(ctx, turno.ID)
	if err != nil {
		return decimal.Zero, err
	}

	esperado := turno.MontoInicial.
		Add(sums[model.MovVenta]).
		Add(sums[model.MovAnulacion]).
		Add(sums[model.MovIngresoManual]).
		Add(sums[model.MovEgresoManual]).
		Sub(retiros).
		Sub(gastos)
	return esperado, nil
}

// ── Suspender / Reanudar ──────────────────────────────────────────────────────
// The only backward transition in the machine: activo ⇄ suspendido. A
// suspended turno still counts as the session's turno for exclusivity — a
// second cashier cannot start until it finishes.

func (s *turnoService) Suspender(ctx context.Context, turnoID uuid.UUID, motivo string) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil || turno == nil {
		return nil, &ErrNoEncontrado{Entidad: "turno"}
	}
	if turno.Estado != model.TurnoActivo {
		return nil, ErrTurnoNoActivo
	}
	turno.Estado = model.TurnoSuspendido
	turno.MotivoSuspension = &motivo
	if err := s.repo.Update(ctx, turno); err != nil {
		return nil, err
	}
	log.Info().Str("turno", turnoID.String()).Str("motivo", motivo).Msg("turno suspendido")
	return turnoToResponse(turno), nil
}

func (s *turnoService) Reanudar(ctx context.Context, turnoID uuid.UUID) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil || turno == nil {
		return nil, &ErrNoEncontrado{Entidad: "turno"}
	}
	if turno.Estado != model.TurnoSuspendido {
		return nil, errors.New("el turno no está suspendido")
	}
	turno.Estado = model.TurnoActivo
	turno.MotivoSuspension = nil
	if err := s.repo.Update(ctx, turno); err != nil {
		return nil, err
	}
	log.Info().Str("turno", turnoID.String()).Msg("turno reanudado")
	return turnoToResponse(turno), nil
}

func (s *turnoService) ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]dto.TurnoResponse, error) {
	turnos, err := s.repo.ListPorSesion(ctx, sesionCajaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		out = append(out, *turnoToResponse(&turnos[i]))
	}
	return out, nil
}

// Tx lookups fall back to context-scoped reads when tx is nil so the service
// stays unit-testable against in-memory repositories.

func (s *turnoService) turnoFindTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	if tx == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.FindByIDTx(tx, id)
}

func (s *turnoService) turnoUpdateTx(ctx context.Context, tx *gorm.DB, t *model.Turno) error {
	if tx == nil {
		return s.repo.Update(ctx, t)
	}
	return s.repo.UpdateTx(tx, t)
}

func turnoToResponse(t *model.Turno) *dto.TurnoResponse {
	resp := &dto.TurnoResponse{
		ID:            t.ID.String(),
		SesionCajaID:  t.SesionCajaID.String(),
		UsuarioID:     t.UsuarioID.String(),
		TipoEntrega:   t.TipoEntrega,
		MontoInicial:  t.MontoInicial,
		MontoEsperado: t.MontoEsperado,
		MontoContado:  t.MontoContado,
		Desvio:        t.Desvio,
		Estado:        t.Estado,
		StartedAt:     t.StartedAt.Format(time.RFC3339),
	}
	if t.EndedAt != nil {
		s := t.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &s
	}
	return resp
}
