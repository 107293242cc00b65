package handler

import (
	"net/http"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/apierror"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoteHandler struct{ svc service.InventarioService }

func NewLoteHandler(svc service.InventarioService) *LoteHandler { return &LoteHandler{svc: svc} }

// Crear godoc
// @Summary Registra un lote de inventario
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearLoteRequest true "Datos del lote"
// @Success 201 {object} dto.LoteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/lotes [post]
func (h *LoteHandler) Crear(c *gin.Context) {
	var req dto.CrearLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearLote(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Retirar godoc
// @Summary Retira un lote del inventario disponible
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de lote"
// @Param body body dto.RetirarLoteRequest true "Motivo del retiro"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/lotes/{id}/retirar [post]
func (h *LoteHandler) Retirar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.RetirarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RetirarLote(c.Request.Context(), id, req.Motivo); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivar godoc
// @Summary Reactiva un lote retirado no vencido
// @Tags lotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de lote"
// @Success 204
// @Failure 422 {object} apierror.APIError
// @Router /v1/lotes/{id}/reactivar [post]
func (h *LoteHandler) Reactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.ReactivarLote(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPorProducto godoc
// @Summary Lista los lotes de un producto
// @Tags lotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de producto"
// @Success 200 {array} dto.LoteResponse
// @Router /v1/productos/{id}/lotes [get]
func (h *LoteHandler) ListPorProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListarLotes(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
