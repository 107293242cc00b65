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

type TurnoHandler struct{ svc service.TurnoService }

func NewTurnoHandler(svc service.TurnoService) *TurnoHandler { return &TurnoHandler{svc: svc} }

// Iniciar godoc
// @Summary Inicia un turno de cajero sobre una sesión abierta
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.IniciarTurnoRequest true "Tipo de entrega y sesión"
// @Success 201 {object} dto.TurnoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/turnos [post]
func (h *TurnoHandler) Iniciar(c *gin.Context) {
	var req dto.IniciarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("token sin usuario válido"))
		return
	}
	resp, err := h.svc.Iniciar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Finalizar godoc
// @Summary Finaliza el turno con conteo de efectivo
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de turno"
// @Param body body dto.FinalizarTurnoRequest true "Efectivo contado"
// @Success 200 {object} dto.TurnoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/turnos/{id}/finalizar [post]
func (h *TurnoHandler) Finalizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.FinalizarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Suspender godoc
// @Summary Suspende el turno activo
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de turno"
// @Param body body dto.SuspenderTurnoRequest true "Motivo"
// @Success 200 {object} dto.TurnoResponse
// @Router /v1/turnos/{id}/suspender [post]
func (h *TurnoHandler) Suspender(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.SuspenderTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Suspender(c.Request.Context(), id, req.Motivo)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reanudar godoc
// @Summary Reanuda un turno suspendido
// @Tags turnos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de turno"
// @Success 200 {object} dto.TurnoResponse
// @Router /v1/turnos/{id}/reanudar [post]
func (h *TurnoHandler) Reanudar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Reanudar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPorSesion godoc
// @Summary Lista los turnos de una sesión
// @Tags turnos
// @Produce json
// @Security BearerAuth
// @Param sesion_id path string true "ID de sesión"
// @Success 200 {array} dto.TurnoResponse
// @Router /v1/caja/{sesion_id}/turnos [get]
func (h *TurnoHandler) ListPorSesion(c *gin.Context) {
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
