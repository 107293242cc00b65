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
	"gorm.io/gorm"
)

type RetiroService interface {
	Solicitar(ctx context.Context, solicitanteID uuid.UUID, req dto.SolicitarRetiroRequest) (*dto.RetiroResponse, error)
	Autorizar(ctx context.Context, aprobadorID, retiroID uuid.UUID, req dto.AutorizarRetiroRequest) (*dto.RetiroResponse, error)
	Completar(ctx context.Context, retiroID uuid.UUID) (*dto.RetiroResponse, error)
	ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]dto.RetiroResponse, error)
	RegistrarGasto(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error)
}

type retiroService struct {
	repo      repository.RetiroRepository
	gastoRepo repository.GastoRepository
	cajaRepo  repository.CajaRepository
	turnoRepo repository.TurnoRepository
	caja      CajaService
	metodos   *ResolvedorCategorias
	cfg       *config.Config
}

func NewRetiroService(
	repo repository.RetiroRepository,
	gastoRepo repository.GastoRepository,
	cajaRepo repository.CajaRepository,
	turnoRepo repository.TurnoRepository,
	caja CajaService,
	metodos *ResolvedorCategorias,
	cfg *config.Config,
) RetiroService {
	return &retiroService{
		repo:      repo,
		gastoRepo: gastoRepo,
		cajaRepo:  cajaRepo,
		turnoRepo: turnoRepo,
		caja:      caja,
		metodos:   metodos,
		cfg:       cfg,
	}
}

// ── Solicitar ─────────────────────────────────────────────────────────────────
// Requesting checks the amount against the current available cash so an
// obviously impossible retiro is rejected up front, but the money is NOT
// reserved: the definitive check happens again at completion. Amounts below
// the configured authorization minimum skip the approval gate.

func (s *retiroService) Solicitar(ctx context.Context, solicitanteID uuid.UUID, req dto.SolicitarRetiroRequest) (*dto.RetiroResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if _, err := s.caja.ValidarSesionAbierta(ctx, sesionID); err != nil {
		return nil, err
	}
	if !req.Monto.IsPositive() {
		return nil, errors.New("el monto del retiro debe ser positivo")
	}

	disponible, err := s.caja.EfectivoDisponible(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	if req.Monto.GreaterThan(disponible) {
		return nil, &ErrEfectivoInsuficiente{Disponible: disponible, Requerido: req.Monto}
	}

	var turnoID *uuid.UUID
	if turno, err := s.turnoRepo.FindVigentePorSesion(ctx, sesionID); err == nil && turno != nil {
		turnoID = &turno.ID
	}

	retiro := &model.Retiro{
		SesionCajaID:  sesionID,
		TurnoID:       turnoID,
		SolicitanteID: solicitanteID,
		Monto:         req.Monto,
		Motivo:        req.Motivo,
		Estado:        model.RetiroPendiente,
	}
	if req.Monto.LessThan(s.cfg.MontoMinimo()) {
		ahora := time.Now()
		retiro.Estado = model.RetiroAutorizado
		retiro.AutorizadoEn = &ahora
	}

	if err := s.repo.Create(ctx, retiro); err != nil {
		return nil, err
	}

	log.Info().Str("retiro", retiro.ID.String()).Str("estado", retiro.Estado).
		Str("monto", req.Monto.StringFixed(2)).Msg("retiro solicitado")

	return retiroToResponse(retiro), nil
}

// ── Autorizar ─────────────────────────────────────────────────────────────────

func (s *retiroService) Autorizar(ctx context.Context, aprobadorID, retiroID uuid.UUID, req dto.AutorizarRetiroRequest) (*dto.RetiroResponse, error) {
	retiro, err := s.repo.FindByID(ctx, retiroID)
	if err != nil || retiro == nil {
		return nil, &ErrNoEncontrado{Entidad: "retiro"}
	}
	if retiro.Estado != model.RetiroPendiente {
		return nil, fmt.Errorf("el retiro está %s, no pendiente", retiro.Estado)
	}
	if retiro.SolicitanteID == aprobadorID {
		return nil, ErrAutoAutorizacion
	}

	ahora := time.Now()
	retiro.AprobadorID = &aprobadorID
	if req.Aprobar {
		retiro.Estado = model.RetiroAutorizado
		retiro.AutorizadoEn = &ahora
	} else {
		retiro.Estado = model.RetiroRechazado
		retiro.MotivoRechazo = req.Motivo
	}
	if err := s.repo.Update(ctx, retiro); err != nil {
		return nil, err
	}

	log.Info().Str("retiro", retiroID.String()).Bool("aprobado", req.Aprobar).
		Msg("retiro resuelto")
	return retiroToResponse(retiro), nil
}

// ── Completar ─────────────────────────────────────────────────────────────────
// The cash leaves the drawer here. One transaction covers the whole hand-off:
// the retiro row is locked so a double-complete serializes, availability is
// re-validated at that moment (authorization reserved nothing), the estado
// flips, and the audit MovimientoCaja row is written. Only the cached session
// total stays post-commit; the retiros table itself is what the ledger sums.

func (s *retiroService) Completar(ctx context.Context, retiroID uuid.UUID) (*dto.RetiroResponse, error) {
	var retiro *model.Retiro
	txErr := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		retiro, err = s.retiroFindTx(ctx, tx, retiroID)
		if err != nil || retiro == nil {
			return &ErrNoEncontrado{Entidad: "retiro"}
		}
		if retiro.Estado != model.RetiroAutorizado {
			return ErrRetiroNoAutorizado
		}

		// Session row lock serializes concurrent drawer drains, so the
		// availability check below cannot race another completion.
		if tx != nil {
			if _, err := s.cajaRepo.FindSesionByIDTx(tx, retiro.SesionCajaID); err != nil {
				return err
			}
		}
		disponible, err := s.caja.EfectivoDisponible(ctx, retiro.SesionCajaID)
		if err != nil {
			return err
		}
		if retiro.Monto.GreaterThan(disponible) {
			return &ErrEfectivoInsuficiente{Disponible: disponible, Requerido: retiro.Monto}
		}

		ahora := time.Now()
		retiro.Estado = model.RetiroCompletado
		retiro.CompletadoEn = &ahora
		if err := s.retiroUpdateTx(ctx, tx, retiro); err != nil {
			return err
		}

		metodo := model.CategoriaEfectivo
		return s.movimientoCreateTx(ctx, tx, &model.MovimientoCaja{
			SesionCajaID: retiro.SesionCajaID,
			TurnoID:      retiro.TurnoID,
			Tipo:         model.MovRetiro,
			MetodoPago:   &metodo,
			Categoria:    model.CategoriaEfectivo,
			Monto:        retiro.Monto.Neg(),
			Descripcion:  fmt.Sprintf("Retiro de efectivo: %s", retiro.Motivo),
			ReferenciaID: &retiro.ID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// Display cache only, best-effort.
	if err := s.cajaRepo.AcumularRetiros(ctx, retiro.SesionCajaID, retiro.Monto); err != nil {
		log.Error().Err(err).Msg("no se pudo acumular el total de retiros de la sesión")
	}

	log.Info().Str("retiro", retiroID.String()).
		Str("monto", retiro.Monto.StringFixed(2)).Msg("retiro completado")
	return retiroToResponse(retiro), nil
}

func (s *retiroService) ListPorSesion(ctx context.Context, sesionCajaID uuid.UUID) ([]dto.RetiroResponse, error) {
	retiros, err := s.repo.ListPorSesion(ctx, sesionCajaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RetiroResponse, 0, len(retiros))
	for i := range retiros {
		out = append(out, *retiroToResponse(&retiros[i]))
	}
	return out, nil
}

// ── RegistrarGasto ────────────────────────────────────────────────────────────
// Expenses have no approval gate. Cash expenses must fit in the drawer; other
// payment methods are recorded without an availability check.

func (s *retiroService) RegistrarGasto(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if _, err := s.caja.ValidarSesionAbierta(ctx, sesionID); err != nil {
		return nil, err
	}
	if !req.Monto.IsPositive() {
		return nil, errors.New("el monto del gasto debe ser positivo")
	}

	categoriaMetodo := s.metodos.Resolver(ctx, req.MetodoPago)
	if categoriaMetodo == model.CategoriaEfectivo {
		disponible, err := s.caja.EfectivoDisponible(ctx, sesionID)
		if err != nil {
			return nil, err
		}
		if req.Monto.GreaterThan(disponible) {
			return nil, &ErrEfectivoInsuficiente{Disponible: disponible, Requerido: req.Monto}
		}
	}

	var turnoID *uuid.UUID
	if turno, err := s.turnoRepo.FindVigentePorSesion(ctx, sesionID); err == nil && turno != nil {
		turnoID = &turno.ID
	}

	gasto := &model.Gasto{
		SesionCajaID:    sesionID,
		TurnoID:         turnoID,
		UsuarioID:       usuarioID,
		Categoria:       req.Categoria,
		Monto:           req.Monto,
		MetodoPago:      req.MetodoPago,
		CategoriaMetodo: categoriaMetodo,
		Descripcion:     req.Descripcion,
	}
	// Gasto row and its ledger entry land atomically.
	txErr := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.gastoCreateTx(ctx, tx, gasto); err != nil {
			return err
		}
		metodo := req.MetodoPago
		return s.movimientoCreateTx(ctx, tx, &model.MovimientoCaja{
			SesionCajaID: sesionID,
			TurnoID:      turnoID,
			Tipo:         model.MovGasto,
			MetodoPago:   &metodo,
			Categoria:    categoriaMetodo,
			Monto:        req.Monto.Neg(),
			Descripcion:  fmt.Sprintf("Gasto (%s): %s", req.Categoria, req.Descripcion),
			ReferenciaID: &gasto.ID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("gasto", gasto.ID.String()).Str("categoria", req.Categoria).
		Str("monto", req.Monto.StringFixed(2)).Msg("gasto registrado")

	return &dto.GastoResponse{
		ID:           gasto.ID.String(),
		SesionCajaID: sesionID.String(),
		Categoria:    gasto.Categoria,
		Monto:        gasto.Monto,
		MetodoPago:   gasto.MetodoPago,
		CreatedAt:    gasto.CreatedAt.Format(time.RFC3339),
	}, nil
}

// Tx lookups fall back to context-scoped calls when tx is nil so the service
// stays unit-testable against in-memory repositories.

func (s *retiroService) retiroFindTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Retiro, error) {
	if tx == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.FindByIDTx(tx, id)
}

func (s *retiroService) retiroUpdateTx(ctx context.Context, tx *gorm.DB, r *model.Retiro) error {
	if tx == nil {
		return s.repo.Update(ctx, r)
	}
	return s.repo.UpdateTx(tx, r)
}

func (s *retiroService) gastoCreateTx(ctx context.Context, tx *gorm.DB, g *model.Gasto) error {
	if tx == nil {
		return s.gastoRepo.Create(ctx, g)
	}
	return s.gastoRepo.CreateTx(tx, g)
}

func (s *retiroService) movimientoCreateTx(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error {
	if tx == nil {
		return s.cajaRepo.CreateMovimiento(ctx, m)
	}
	return s.cajaRepo.CreateMovimientoTx(tx, m)
}

func retiroToResponse(r *model.Retiro) *dto.RetiroResponse {
	resp := &dto.RetiroResponse{
		ID:            r.ID.String(),
		SesionCajaID:  r.SesionCajaID.String(),
		SolicitanteID: r.SolicitanteID.String(),
		Monto:         r.Monto,
		Motivo:        r.Motivo,
		Estado:        r.Estado,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.TurnoID != nil {
		t := r.TurnoID.String()
		resp.TurnoID = &t
	}
	if r.AprobadorID != nil {
		a := r.AprobadorID.String()
		resp.AprobadorID = &a
	}
	return resp
}
