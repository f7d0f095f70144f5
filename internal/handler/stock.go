package handler

import (
	"errors"
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.CatalogoService }

func NewStockHandler(svc service.CatalogoService) *StockHandler {
	return &StockHandler{svc: svc}
}

// Ajustar godoc
// @Summary Ajusta el stock de un producto (IN/OUT)
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AjustarStockRequest true "Ajuste"
// @Success 200 {object} dto.AjustarStockResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /api/stock/adjust [post]
func (h *StockHandler) Ajustar(c *gin.Context) {
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var usuarioID *uuid.UUID
	if uid, ok := middleware.UserUUID(c); ok {
		usuarioID = &uid
	}

	resp, err := h.svc.AjustarStock(c.Request.Context(), usuarioID, req)
	if err != nil {
		if errors.Is(err, repository.ErrProductoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos lists the append-only stock adjustment ledger, newest first.
func (h *StockHandler) Movimientos(c *gin.Context) {
	var filter dto.MovimientoStockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
