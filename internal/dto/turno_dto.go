package dto

import "github.com/shopspring/decimal"

type IniciarTurnoRequest struct {
	SesionCajaID string `json:"sesion_caja_id" validate:"required,uuid"`
	TipoEntrega  string `json:"tipo_entrega"   validate:"required,oneof=inicio_dia cambio_turno"`
	// TurnoAnteriorID names the finished predecessor for cambio_turno hand-offs.
	TurnoAnteriorID *string `json:"turno_anterior_id" validate:"omitempty,uuid"`
}

type FinalizarTurnoRequest struct {
	MontoContado decimal.Decimal `json:"monto_contado" validate:"min=0"`
}

type SuspenderTurnoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type TurnoResponse struct {
	ID            string           `json:"id"`
	SesionCajaID  string           `json:"sesion_caja_id"`
	UsuarioID     string           `json:"usuario_id"`
	TipoEntrega   string           `json:"tipo_entrega"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	MontoEsperado *decimal.Decimal `json:"monto_esperado,omitempty"`
	MontoContado  *decimal.Decimal `json:"monto_contado,omitempty"`
	// Desvio sign: positive = surplus, negative = shortage.
	Desvio    *decimal.Decimal `json:"desvio,omitempty"`
	Estado    string           `json:"estado"`
	StartedAt string           `json:"started_at"`
	EndedAt   *string          `json:"ended_at,omitempty"`
}
