package dto

import "github.com/shopspring/decimal"

type SolicitarRetiroRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Monto        decimal.Decimal `json:"monto"          validate:"required"`
	Motivo       string          `json:"motivo"         validate:"required,min=5"`
}

type AutorizarRetiroRequest struct {
	Aprobar bool    `json:"aprobar"`
	Motivo  *string `json:"motivo"` // required by the handler when rejecting
}

type RetiroResponse struct {
	ID            string          `json:"id"`
	SesionCajaID  string          `json:"sesion_caja_id"`
	TurnoID       *string         `json:"turno_id,omitempty"`
	SolicitanteID string          `json:"solicitante_id"`
	AprobadorID   *string         `json:"aprobador_id,omitempty"`
	Monto         decimal.Decimal `json:"monto"`
	Motivo        string          `json:"motivo"`
	Estado        string          `json:"estado"`
	CreatedAt     string          `json:"created_at"`
}

type RegistrarGastoRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Categoria    string          `json:"categoria"      validate:"required,min=3"`
	Monto        decimal.Decimal `json:"monto"          validate:"required"`
	MetodoPago   string          `json:"metodo_pago"    validate:"required"`
	Descripcion  string          `json:"descripcion"`
}

type GastoResponse struct {
	ID           string          `json:"id"`
	SesionCajaID string          `json:"sesion_caja_id"`
	Categoria    string          `json:"categoria"`
	Monto        decimal.Decimal `json:"monto"`
	MetodoPago   string          `json:"metodo_pago"`
	CreatedAt    string          `json:"created_at"`
}
