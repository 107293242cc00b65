package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/apierror"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps the service error taxonomy to HTTP statuses and stable
// codes. Anything outside the taxonomy is a 400 with the error's message
// (never a stack trace).
func writeError(c *gin.Context, err error) {
	var noEncontrado *service.ErrNoEncontrado
	var stock *service.ErrStockInsuficiente
	var vencidos *service.ErrLotesVencidos
	var efectivo *service.ErrEfectivoInsuficiente

	status := http.StatusBadRequest
	code := ""
	switch {
	case errors.As(err, &noEncontrado):
		status, code = http.StatusNotFound, "no_encontrado"
	case errors.Is(err, service.ErrSesionYaAbierta):
		status, code = http.StatusConflict, "sesion_ya_abierta"
	case errors.Is(err, service.ErrTurnoYaActivo):
		status, code = http.StatusConflict, "turno_ya_activo"
	case errors.Is(err, service.ErrRetirosPendientes):
		status, code = http.StatusConflict, "retiros_pendientes"
	case errors.Is(err, service.ErrAutoAutorizacion):
		status, code = http.StatusForbidden, "auto_autorizacion"
	case errors.As(err, &stock):
		status, code = http.StatusUnprocessableEntity, "stock_insuficiente"
	case errors.As(err, &vencidos):
		status, code = http.StatusUnprocessableEntity, "lotes_vencidos"
	case errors.As(err, &efectivo):
		status, code = http.StatusUnprocessableEntity, "efectivo_insuficiente"
	}
	if code == "" {
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(status, apierror.WithCode(code, err.Error()))
}
