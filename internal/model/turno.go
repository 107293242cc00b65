package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TurnoActivo     = "activo"
	TurnoSuspendido = "suspendido"
	TurnoFinalizado = "finalizado"
)

// Hand-off types for starting a shift. "inicio_dia" seeds the opening cash
// from the same-day previous shift on the session (or the session fund when
// none exists); "cambio_turno" takes the named predecessor's closing count.
const (
	EntregaInicioDia   = "inicio_dia"
	EntregaCambioTurno = "cambio_turno"
)

// Turno is a cashier shift nested inside a SesionCaja. At most one turno is
// active per session at any time. Estado moves activo ⇄ suspendido and
// activo → finalizado (terminal).
type Turno struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoEntrega  string          `gorm:"type:varchar(20);not null"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Closing data. Desvio = contado - esperado (positive = surplus).
	MontoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoContado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio        *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Estado           string `gorm:"type:varchar(20);not null;default:'activo'"`
	MotivoSuspension *string
	StartedAt        time.Time
	EndedAt          *time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}
