package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is an inventory item of the shop. Stock lives in Lotes;
// StockActual is the derived aggregate (sum of non-retired lot quantities)
// and is written exclusively by the stock synchronizer — never by hand.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Categoria   string          `gorm:"not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Perecedero products resolve lot expiry from fecha_produccion + vida_util_dias
	// when no explicit expiry date is supplied at lot creation.
	Perecedero   bool `gorm:"not null;default:false"`
	VidaUtilDias *int
	StockActual  int    `gorm:"not null;default:0"`
	StockMinimo  int    `gorm:"not null;default:5"`
	StockMaximo  int    `gorm:"not null;default:0"` // 0 = sin limite
	UnidadMedida string `gorm:"not null;default:'unidad'"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lotes []Lote `gorm:"foreignKey:ProductoID"`
}
