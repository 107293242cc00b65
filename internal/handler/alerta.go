package handler

import (
	"net/http"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/apierror"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlertaHandler struct{ svc service.AlertaService }

func NewAlertaHandler(svc service.AlertaService) *AlertaHandler { return &AlertaHandler{svc: svc} }

// List godoc
// @Summary Lista alertas de stock y vencimiento
// @Tags alertas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AlertaListResponse
// @Router /v1/alertas [get]
func (h *AlertaHandler) List(c *gin.Context) {
	var filter dto.AlertaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos: "+err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarLeida godoc
// @Summary Marca una alerta como leída
// @Tags alertas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de alerta"
// @Success 204
// @Router /v1/alertas/{id}/leida [post]
func (h *AlertaHandler) MarcarLeida(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.MarcarLeida(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EjecutarBarrido godoc
// @Summary Ejecuta el barrido completo de alertas de forma síncrona
// @Tags alertas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BarridoResponse
// @Router /v1/alertas/barrido [post]
func (h *AlertaHandler) EjecutarBarrido(c *gin.Context) {
	resp, err := h.svc.EjecutarBarrido(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
