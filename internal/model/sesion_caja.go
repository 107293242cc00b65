package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja is the open accounting period of one till (punto de venta).
// Estado: "abierta" | "cerrada". At most one open session per till, and a
// cashier may hold at most one open session at a time.
//
// The Total* fields are display caches updated after each committed sale or
// completed withdrawal. Correctness-critical cash decisions always recompute
// from source rows (see CajaService.EfectivoDisponible).
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PuntoDeVenta int             `gorm:"not null;index"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	TotalVentasEfectivo      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalVentasBilletera     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalVentasTarjeta       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalVentasTransferencia decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalRetiros             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Closing data. Desvio = contado - esperado (positive = surplus).
	MontoEsperado    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoContado     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	RequiereRevision bool             `gorm:"not null;default:false"`
	Observaciones    *string

	Estado   string `gorm:"type:varchar(20);not null;default:'abierta'"`
	OpenedAt time.Time
	ClosedAt *time.Time

	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
	Turnos      []Turno          `gorm:"foreignKey:SesionCajaID"`
}

// Movement types. "retiro" and "gasto" rows exist for audit only — the cash
// ledger sums withdrawals and expenses from their own tables, so those two
// tipos are excluded from movement aggregation to avoid double counting.
const (
	MovVenta         = "venta"
	MovAnulacion     = "anulacion"
	MovIngresoManual = "ingreso_manual"
	MovEgresoManual  = "egreso_manual"
	MovRetiro        = "retiro"
	MovGasto         = "gasto"
)

// MovimientoCaja is an immutable entry in the session's cash ledger.
// Outflows are stored with negative Monto. Movements are never updated or
// deleted — cancellations create inverse entries.
type MovimientoCaja struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID  `gorm:"type:uuid;index;not null"`
	TurnoID      *uuid.UUID `gorm:"type:uuid;index"`
	Tipo         string     `gorm:"type:varchar(20);not null"`
	MetodoPago   *string    `gorm:"type:varchar(40)"`
	// Categoria is the canonical bucket of MetodoPago ("" when unrecognized).
	Categoria    string          `gorm:"type:varchar(20);not null;default:''"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion  string          `gorm:"not null"`
	ReferenciaID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time
}
