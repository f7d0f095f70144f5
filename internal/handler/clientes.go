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

// ClientesHandler exposes the storefront account endpoints: order tracking,
// favorites and purchase history.
type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Seguimiento godoc
// @Summary Seguimiento de un pedido
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param pedidoId path string true "ID del pedido"
// @Success 200 {object} dto.SeguimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/paquetes/seguimiento/{pedidoId} [get]
func (h *ClientesHandler) Seguimiento(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("pedidoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de pedido invalido"))
		return
	}
	resp, err := h.svc.Seguimiento(c.Request.Context(), pedidoID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pedido no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarEvento appends a manual estado change to a paquete (admin use).
func (h *ClientesHandler) AgregarEvento(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("pedidoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de pedido invalido"))
		return
	}
	var req dto.AgregarEventoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarEvento(c.Request.Context(), pedidoID, req)
	if err != nil {
		if errors.Is(err, service.ErrPedidoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Pedido no encontrado"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) AgregarFavorito(c *gin.Context) {
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	var req struct {
		ProductoID string `json:"productId" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AgregarFavorito(c.Request.Context(), usuarioID, req.ProductoID); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductoNoEncontrado):
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		case errors.Is(err, repository.ErrFavoritoDuplicado):
			c.JSON(http.StatusConflict, apierror.New("El producto ya esta en favoritos"))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.Status(http.StatusCreated)
}

func (h *ClientesHandler) QuitarFavorito(c *gin.Context) {
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	if err := h.svc.QuitarFavorito(c.Request.Context(), usuarioID, c.Param("productId")); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientesHandler) ListarFavoritos(c *gin.Context) {
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.ListarFavoritos(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar favoritos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) HistorialCompras(c *gin.Context) {
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.HistorialCompras(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener historial"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
