package model

import (
	"time"

	"github.com/google/uuid"
)

// Alert types and priorities.
const (
	AlertaStockAgotado = "stock_agotado"
	AlertaStockBajo    = "stock_bajo"
	AlertaSobreStock   = "sobre_stock"
	AlertaVencimiento  = "vencimiento"

	PrioridadCritica = "critica"
	PrioridadAlta    = "alta"
	PrioridadNormal  = "normal"
)

// Alerta is a stock or expiry notification. Deduplication is time-window
// based: a repeat detection within the dedup window creates nothing, read or
// not. When the triggering condition clears, the resolution pass deletes the
// row outright instead of marking it read.
type Alerta struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo       string     `gorm:"type:varchar(20);not null;index"`
	Prioridad  string     `gorm:"type:varchar(10);not null"`
	ProductoID *uuid.UUID `gorm:"type:uuid;index"`
	LoteID     *uuid.UUID `gorm:"type:uuid;index"`
	Mensaje    string     `gorm:"not null"`
	Leida      bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time  `gorm:"index"`
}
