package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/apierror"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/dto"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const consultaCacheTTL = 4 * time.Hour

// ConsultaHandler serves the public price/stock check endpoint.
// No authentication required — no side effects whatsoever.
type ConsultaHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewConsultaHandler(repo repository.ProductoRepository, rdb *redis.Client) *ConsultaHandler {
	return &ConsultaHandler{repo: repo, rdb: rdb}
}

// GetPorCodigo godoc
// @Summary Consulta de precio y stock por código de producto (sin autenticación)
// @Tags consulta
// @Produce json
// @Param codigo path string true "Código de producto"
// @Success 200 {object} dto.ConsultaProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/consulta/{codigo} [get]
func (h *ConsultaHandler) GetPorCodigo(c *gin.Context) {
	codigo := c.Param("codigo")
	ctx := c.Request.Context()
	cacheKey := "consulta:" + codigo

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ConsultaProductoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	producto, err := h.repo.FindByCodigo(ctx, codigo)
	if err != nil || producto == nil || !producto.Activo {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}

	resp := dto.ConsultaProductoResponse{
		Nombre:          producto.Nombre,
		PrecioVenta:     producto.PrecioVenta,
		StockDisponible: producto.StockActual,
		Categoria:       producto.Categoria,
		UnidadMedida:    producto.UnidadMedida,
	}

	// Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, consultaCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
