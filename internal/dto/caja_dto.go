package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	PuntoDeVenta int             `json:"punto_de_venta" validate:"required,min=1"`
	MontoInicial decimal.Decimal `json:"monto_inicial"  validate:"min=0"`
}

// DenominacionConteo is one row of the physical denomination breakdown
// recorded at session close.
type DenominacionConteo struct {
	Denominacion decimal.Decimal `json:"denominacion" validate:"required"`
	Cantidad     int             `json:"cantidad"     validate:"min=0"`
}

type CerrarCajaRequest struct {
	Conteo        []DenominacionConteo `json:"conteo" validate:"required,min=1,dive"`
	Observaciones *string              `json:"observaciones"`
}

type MovimientoManualRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=ingreso_manual egreso_manual"`
	MetodoPago   string          `json:"metodo_pago"    validate:"required"`
	Monto        decimal.Decimal `json:"monto"          validate:"required,gt=0"`
	Descripcion  string          `json:"descripcion"    validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MontosPorCategoria struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Billetera     decimal.Decimal `json:"billetera"`
	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Transferencia decimal.Decimal `json:"transferencia"`
}

type SesionCajaResponse struct {
	SesionCajaID       string             `json:"sesion_caja_id"`
	PuntoDeVenta       int                `json:"punto_de_venta"`
	UsuarioID          string             `json:"usuario_id"`
	MontoInicial       decimal.Decimal    `json:"monto_inicial"`
	EfectivoDisponible decimal.Decimal    `json:"efectivo_disponible"`
	TotalesVentas      MontosPorCategoria `json:"totales_ventas"`
	TotalRetiros       decimal.Decimal    `json:"total_retiros"`
	MontoContado       *decimal.Decimal   `json:"monto_contado,omitempty"`
	Desvio             *decimal.Decimal   `json:"desvio,omitempty"`
	RequiereRevision   bool               `json:"requiere_revision"`
	Estado             string             `json:"estado"`
	Observaciones      *string            `json:"observaciones,omitempty"`
	OpenedAt           string             `json:"opened_at"`
	ClosedAt           *string            `json:"closed_at,omitempty"`
}

// MovimientoCajaResponse is one immutable ledger entry. Outflows keep their
// negative sign.
type MovimientoCajaResponse struct {
	ID          string          `json:"id"`
	TurnoID     *string         `json:"turno_id,omitempty"`
	Tipo        string          `json:"tipo"`
	MetodoPago  *string         `json:"metodo_pago,omitempty"`
	Categoria   string          `json:"categoria"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	CreatedAt   string          `json:"created_at"`
}

type CierreCajaResponse struct {
	SesionCajaID  string          `json:"sesion_caja_id"`
	MontoEsperado decimal.Decimal `json:"monto_esperado"`
	MontoContado  decimal.Decimal `json:"monto_contado"`
	// Desvio sign: positive = surplus, negative = shortage.
	Desvio     decimal.Decimal `json:"desvio"`
	Balanceada bool            `json:"balanceada"`
	Estado     string          `json:"estado"`
}
