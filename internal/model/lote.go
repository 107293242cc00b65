package model

import (
	"time"

	"github.com/google/uuid"
)

// Lot states. A lote with Cantidad 0 must never stay "disponible" — the
// allocator retires it in the same transaction that empties it.
const (
	LoteDisponible = "disponible"
	LoteVencido    = "vencido"
	LoteRetirado   = "retirado"
)

// Lote is a tracked batch of one product. Sales consume lotes FIFO:
// soonest expiry first for perishables, oldest first otherwise.
type Lote struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Codigo           string    `gorm:"uniqueIndex;not null"`
	Cantidad         int       `gorm:"not null"`
	FechaProduccion  time.Time `gorm:"not null"`
	FechaVencimiento *time.Time
	Estado           string `gorm:"type:varchar(20);not null;default:'disponible';index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// Vencido reports whether the lot's expiry date has passed as of ref.
// Lots without an expiry date never expire.
func (l *Lote) Vencido(ref time.Time) bool {
	if l.FechaVencimiento == nil {
		return false
	}
	return l.FechaVencimiento.Before(ref)
}
