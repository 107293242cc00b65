package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for state-machine preconditions. Every error is raised
// before any mutation of the current transaction, so a failed operation
// always rolls back whole.
var (
	ErrSesionYaAbierta    = errors.New("ya existe una caja abierta en este punto de venta")
	ErrSesionNoAbierta    = errors.New("la sesion de caja no esta abierta")
	ErrTurnoYaActivo      = errors.New("ya existe un turno activo en esta sesion")
	ErrTurnoNoActivo      = errors.New("el turno no esta activo")
	ErrRetirosPendientes  = errors.New("el turno tiene retiros pendientes de autorizacion")
	ErrAutoAutorizacion   = errors.New("el aprobador debe ser distinto del solicitante")
	ErrRetiroNoAutorizado = errors.New("el retiro no esta autorizado")
	ErrLoteVencido        = errors.New("un lote vencido no puede reactivarse")
	ErrProductoInactivo   = errors.New("el producto esta inactivo")
)

// ErrNoEncontrado identifies a missing session/turno/retiro/lote/producto.
type ErrNoEncontrado struct {
	Entidad string
}

func (e *ErrNoEncontrado) Error() string { return e.Entidad + " no encontrado" }

// ErrStockInsuficiente carries the exact shortfall so callers can surface it.
type ErrStockInsuficiente struct {
	Producto   string
	Solicitado int
	Disponible int
}

func (e *ErrStockInsuficiente) Error() string {
	return fmt.Sprintf("stock insuficiente de %s: solicitado %d, disponible %d (faltan %d)",
		e.Producto, e.Solicitado, e.Disponible, e.Faltante())
}

func (e *ErrStockInsuficiente) Faltante() int { return e.Solicitado - e.Disponible }

// ErrLotesVencidos signals that every candidate lote for a product is expired.
type ErrLotesVencidos struct {
	Producto string
}

func (e *ErrLotesVencidos) Error() string {
	return fmt.Sprintf("todos los lotes de %s estan vencidos", e.Producto)
}

// ErrEfectivoInsuficiente covers both change-giving and withdrawal completion:
// the session does not hold enough cash for the amount required.
type ErrEfectivoInsuficiente struct {
	Disponible decimal.Decimal
	Requerido  decimal.Decimal
}

func (e *ErrEfectivoInsuficiente) Error() string {
	return fmt.Sprintf("efectivo insuficiente en caja: disponible %s, requerido %s",
		e.Disponible.StringFixed(2), e.Requerido.StringFixed(2))
}
