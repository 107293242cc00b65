package dto

type AlertaFilter struct {
	Tipo         string `form:"tipo"`
	SoloNoLeidas bool   `form:"solo_no_leidas"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type AlertaResponse struct {
	ID         string  `json:"id"`
	Tipo       string  `json:"tipo"`
	Prioridad  string  `json:"prioridad"`
	ProductoID *string `json:"producto_id,omitempty"`
	LoteID     *string `json:"lote_id,omitempty"`
	Mensaje    string  `json:"mensaje"`
	Leida      bool    `json:"leida"`
	CreatedAt  string  `json:"created_at"`
}

type AlertaListResponse struct {
	Data  []AlertaResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// BarridoResponse summarizes one alert sweep run.
type BarridoResponse struct {
	AlertasCreadas   int `json:"alertas_creadas"`
	AlertasResueltas int `json:"alertas_resueltas"`
}

type CrearMetodoPagoRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=3"`
	Categoria string `json:"categoria" validate:"required,oneof=efectivo billetera tarjeta transferencia"`
}

type MetodoPagoResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria"`
	Activo    bool   `json:"activo"`
}
