package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio de stock de un producto: ventas,
// altas de lote, ajustes, retiros de lote y reintegros por anulación.
// Captura el agregado antes/después para auditoría.
type MovimientoStock struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	LoteID        *uuid.UUID `gorm:"type:uuid;index"`
	Tipo          string     `gorm:"not null"` // "venta" | "alta_lote" | "ajuste" | "retiro_lote" | "reintegro"
	Cantidad      int        `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int        `gorm:"not null"`
	StockNuevo    int        `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_id when originated by a sale
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
