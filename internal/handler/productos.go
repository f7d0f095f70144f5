package handler

import (
	"errors"
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/infra"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct {
	svc    service.CatalogoService
	images *infra.ImageStore
}

func NewProductosHandler(svc service.CatalogoService, images *infra.ImageStore) *ProductosHandler {
	return &ProductosHandler{svc: svc, images: images}
}

// saveImage persists the optional "image" form file and returns its public URL.
// A missing file is not an error; an invalid one is.
func (h *ProductosHandler) saveImage(c *gin.Context) (string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", true
	}
	url, err := h.images.Save(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return "", false
	}
	return url, true
}

// Crear godoc
// @Summary Crea un producto en el catalogo
// @Tags productos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} model.Producto
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/products [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	imagenURL, ok := h.saveImage(c)
	if !ok {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req, imagenURL)
	if err != nil {
		if errors.Is(err, repository.ErrSKUDuplicado) {
			c.JSON(http.StatusConflict, apierror.New("Ya existe un producto con ese SKU"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarProductoRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	imagenURL, ok := h.saveImage(c)
	if !ok {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("id"), req, imagenURL)
	if err != nil {
		if errors.Is(err, repository.ErrProductoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
			return
		}
		if errors.Is(err, repository.ErrSKUDuplicado) {
			c.JSON(http.StatusConflict, apierror.New("Ya existe un producto con ese SKU"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrProductoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// LowStock lists products at or below their minimum stock threshold.
func (h *ProductosHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.BajoStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar stock bajo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
