package handler

import (
	"net/http"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/apierror"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/middleware"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RetiroHandler struct{ svc service.RetiroService }

func NewRetiroHandler(svc service.RetiroService) *RetiroHandler { return &RetiroHandler{svc: svc} }

// Solicitar godoc
// @Summary Solicita un retiro de efectivo
// @Tags retiros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SolicitarRetiroRequest true "Monto y motivo"
// @Success 201 {object} dto.RetiroResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/retiros [post]
func (h *RetiroHandler) Solicitar(c *gin.Context) {
	var req dto.SolicitarRetiroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("token sin usuario válido"))
		return
	}
	resp, err := h.svc.Solicitar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Autorizar godoc
// @Summary Autoriza o rechaza un retiro pendiente (otro usuario que el solicitante)
// @Tags retiros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de retiro"
// @Param body body dto.AutorizarRetiroRequest true "Decisión"
// @Success 200 {object} dto.RetiroResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/retiros/{id}/autorizar [post]
func (h *RetiroHandler) Autorizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AutorizarRetiroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !req.Aprobar && (req.Motivo == nil || *req.Motivo == "") {
		c.JSON(http.StatusBadRequest, apierror.New("el rechazo requiere un motivo"))
		return
	}
	claims := middleware.GetClaims(c)
	aprobadorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("token sin usuario válido"))
		return
	}
	resp, err := h.svc.Autorizar(c.Request.Context(), aprobadorID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completar godoc
// @Summary Completa un retiro autorizado (el efectivo sale de caja)
// @Tags retiros
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de retiro"
// @Success 200 {object} dto.RetiroResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/retiros/{id}/completar [post]
func (h *RetiroHandler) Completar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Completar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPorSesion godoc
// @Summary Lista los retiros de una sesión
// @Tags retiros
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesión"
// @Success 200 {array} dto.RetiroResponse
// @Router /v1/caja/{id}/retiros [get]
func (h *RetiroHandler) ListPorSesion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListPorSesion(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarGasto godoc
// @Summary Registra un gasto contra la sesión
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarGastoRequest true "Categoría, monto y método"
// @Success 201 {object} dto.GastoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/gastos [post]
func (h *RetiroHandler) RegistrarGasto(c *gin.Context) {
	var req dto.RegistrarGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("token sin usuario válido"))
		return
	}
	resp, err := h.svc.RegistrarGasto(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
