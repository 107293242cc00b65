package handler

import (
	"net/http"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/apierror"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MetodoPagoHandler struct{ svc service.MetodoPagoService }

func NewMetodoPagoHandler(svc service.MetodoPagoService) *MetodoPagoHandler {
	return &MetodoPagoHandler{svc: svc}
}

// Crear godoc
// @Summary Registra un método de pago con su categoría canónica
// @Tags metodos-pago
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearMetodoPagoRequest true "Nombre y categoría"
// @Success 201 {object} dto.MetodoPagoResponse
// @Router /v1/metodos-pago [post]
func (h *MetodoPagoHandler) Crear(c *gin.Context) {
	var req dto.CrearMetodoPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista los métodos de pago
// @Tags metodos-pago
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.MetodoPagoResponse
// @Router /v1/metodos-pago [get]
func (h *MetodoPagoHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary Desactiva un método de pago
// @Tags metodos-pago
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de método"
// @Success 204
// @Router /v1/metodos-pago/{id} [delete]
func (h *MetodoPagoHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
