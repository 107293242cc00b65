package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Productos ───────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Codigo    string `form:"codigo"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "false" | "all" | default activos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CrearProductoRequest struct {
	Codigo       string          `json:"codigo"        validate:"required,min=3"`
	Nombre       string          `json:"nombre"        validate:"required,min=3"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `json:"categoria"     validate:"required"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required"`
	Perecedero   bool            `json:"perecedero"`
	VidaUtilDias *int            `json:"vida_util_dias" validate:"omitempty,min=1"`
	StockMinimo  int             `json:"stock_minimo"  validate:"min=0"`
	StockMaximo  int             `json:"stock_maximo"  validate:"min=0"`
	UnidadMedida string          `json:"unidad_medida"`
}

type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=3"`
	Descripcion  *string          `json:"descripcion"`
	Categoria    *string          `json:"categoria"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"`
	StockMinimo  *int             `json:"stock_minimo"  validate:"omitempty,min=0"`
	StockMaximo  *int             `json:"stock_maximo"  validate:"omitempty,min=0"`
	VidaUtilDias *int             `json:"vida_util_dias" validate:"omitempty,min=1"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Categoria    string          `json:"categoria"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Perecedero   bool            `json:"perecedero"`
	VidaUtilDias *int            `json:"vida_util_dias,omitempty"`
	StockActual  int             `json:"stock_actual"`
	StockMinimo  int             `json:"stock_minimo"`
	StockMaximo  int             `json:"stock_maximo"`
	UnidadMedida string          `json:"unidad_medida"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type ConsultaProductoResponse struct {
	Nombre          string          `json:"nombre"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	StockDisponible int             `json:"stock_disponible"`
	Categoria       string          `json:"categoria"`
	UnidadMedida    string          `json:"unidad_medida"`
}

// ─── Lotes ───────────────────────────────────────────────────────────────────

type CrearLoteRequest struct {
	ProductoID      string    `json:"producto_id"      validate:"required,uuid"`
	Codigo          string    `json:"codigo"           validate:"required,min=3"`
	Cantidad        int       `json:"cantidad"         validate:"required,min=1"`
	FechaProduccion time.Time `json:"fecha_produccion" validate:"required"`
	// FechaVencimiento overrides the computed produccion + vida útil date.
	FechaVencimiento *time.Time `json:"fecha_vencimiento"`
}

type RetirarLoteRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type LoteResponse struct {
	ID               string  `json:"id"`
	ProductoID       string  `json:"producto_id"`
	Codigo           string  `json:"codigo"`
	Cantidad         int     `json:"cantidad"`
	FechaProduccion  string  `json:"fecha_produccion"`
	FechaVencimiento *string `json:"fecha_vencimiento,omitempty"`
	Estado           string  `json:"estado"`
}
