package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a completed (or later cancelled) sale. Total = Subtotal - Descuento + Impuesto.
// Estado: "completada" | "anulada". Cancellation never deletes — it reverses
// stock and ledger effects with inverse entries and stamps AnuladaEn.
type Venta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo       int       `gorm:"uniqueIndex;not null"`
	SesionCajaID uuid.UUID `gorm:"type:uuid;not null;index"`
	TurnoID      *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	ClienteID    *uuid.UUID `gorm:"type:uuid"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Impuesto     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Vuelto       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'completada'"`
	MotivoAnulacion *string
	AnuladaEn       *time.Time
	CreatedAt       time.Time

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
	Pagos    []Pago         `gorm:"foreignKey:VentaID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
}

// DetalleVenta is one line of a sale, pinned to the lote it consumed.
// A request line spanning several lotes produces one detalle per lote.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoteID         uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Lote     *Lote     `gorm:"foreignKey:LoteID"`
}

// TableName overrides GORM's pluralization (detalle_ventas → detalles_venta).
func (DetalleVenta) TableName() string { return "detalles_venta" }

// Pago records one payment entry of a sale. Categoria is the canonical
// bucket resolved at registration time: "efectivo" | "billetera" | "tarjeta"
// | "transferencia" | "" (unrecognized method — recorded, not bucketed).
type Pago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo     string          `gorm:"not null"`
	Categoria  string          `gorm:"type:varchar(20);not null;default:''"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Referencia *string
	CreatedAt  time.Time
}
