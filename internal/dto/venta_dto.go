package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha        string `form:"fecha"`                     // YYYY-MM-DD; empty = today
	Estado       string `form:"estado,default=completada"` // completada | anulada | all
	SesionCajaID string `form:"sesion_caja_id"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	// DescuentoPct is a per-line percentage discount (0–100).
	DescuentoPct decimal.Decimal `json:"descuento_pct" validate:"min=0,max=100"`
}

type PagoRequest struct {
	Metodo     string          `json:"metodo"     validate:"required"`
	Monto      decimal.Decimal `json:"monto"      validate:"required"`
	Referencia *string         `json:"referencia"`
}

type RegistrarVentaRequest struct {
	SesionCajaID string             `json:"sesion_caja_id" validate:"required,uuid"`
	ClienteID    *string            `json:"cliente_id"     validate:"omitempty,uuid"`
	Items        []ItemVentaRequest `json:"items"          validate:"required,min=1,dive"`
	Pagos        []PagoRequest      `json:"pagos"          validate:"required,min=1,dive"`
	// DescuentoGlobalPct applies on top of per-line discounts, before tax.
	DescuentoGlobalPct decimal.Decimal `json:"descuento_global_pct" validate:"min=0,max=100"`
}

type AnularVentaRequest struct {
	Motivo           string `json:"motivo" validate:"required,min=5"`
	ReintegrarStock  bool   `json:"reintegrar_stock"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	Producto       string          `json:"producto"`
	LoteCodigo     string          `json:"lote_codigo"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PagoResponse struct {
	Metodo    string          `json:"metodo"`
	Categoria string          `json:"categoria"`
	Monto     decimal.Decimal `json:"monto"`
}

type VentaResponse struct {
	ID        string                 `json:"id"`
	Codigo    int                    `json:"codigo"`
	Detalles  []DetalleVentaResponse `json:"detalles"`
	Subtotal  decimal.Decimal        `json:"subtotal"`
	Descuento decimal.Decimal        `json:"descuento"`
	Impuesto  decimal.Decimal        `json:"impuesto"`
	Total     decimal.Decimal        `json:"total"`
	Vuelto    decimal.Decimal        `json:"vuelto"`
	Pagos     []PagoResponse         `json:"pagos"`
	Estado    string                 `json:"estado"`
	CreatedAt string                 `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
