package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RetiroPendiente  = "pendiente"
	RetiroAutorizado = "autorizado"
	RetiroRechazado  = "rechazado"
	RetiroCompletado = "completado"
)

// Retiro is a request to remove cash from a session. pendiente → autorizado |
// rechazado, autorizado → completado. The approver must differ from the
// requester, and authorization does not reserve funds — completion re-checks
// the available cash.
type Retiro struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TurnoID      *uuid.UUID      `gorm:"type:uuid;index"`
	SolicitanteID uuid.UUID      `gorm:"type:uuid;not null"`
	AprobadorID  *uuid.UUID      `gorm:"type:uuid"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo       string          `gorm:"not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	MotivoRechazo *string
	CreatedAt    time.Time
	AutorizadoEn *time.Time
	CompletadoEn *time.Time
}

// Gasto is a recorded outflow against a session/shift. Expenses have no
// approval gate but participate in the cash ledger identically to retiros.
type Gasto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TurnoID      *uuid.UUID      `gorm:"type:uuid;index"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	Categoria    string          `gorm:"not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago   string          `gorm:"not null;default:'efectivo'"`
	// CategoriaMetodo is the canonical bucket of MetodoPago; only "efectivo"
	// expenses reduce available cash.
	CategoriaMetodo string `gorm:"type:varchar(20);not null;default:'efectivo'"`
	Descripcion     string
	CreatedAt       time.Time
}
