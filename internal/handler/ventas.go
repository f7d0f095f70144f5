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

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra una venta (caja o tienda)
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVentaRequest true "Venta"
// @Success 201 {object} dto.VentaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/ventas [post]
func (h *VentasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), usuarioID, claims.Rol, req)
	if err != nil {
		var stockErr *service.ErrStockInsuficiente
		switch {
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, apierror.New(stockErr.Error()))
		case errors.Is(err, repository.ErrProductoNoEncontrado):
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		case errors.Is(err, service.ErrCorteRequerido), errors.Is(err, service.ErrCorteAjeno):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Venta no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular voids a sale and restores its stock.
func (h *VentasHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var usuarioID *uuid.UUID
	if uid, ok := middleware.UserUUID(c); ok {
		usuarioID = &uid
	}
	if err := h.svc.Anular(c.Request.Context(), id, usuarioID); err != nil {
		if errors.Is(err, service.ErrVentaAnulada) {
			c.JSON(http.StatusConflict, apierror.New("La venta ya esta anulada"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
