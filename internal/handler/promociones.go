package handler

import (
	"net/http"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PromocionesHandler struct{ svc service.PromocionService }

func NewPromocionesHandler(svc service.PromocionService) *PromocionesHandler {
	return &PromocionesHandler{svc: svc}
}

func (h *PromocionesHandler) Crear(c *gin.Context) {
	var req dto.CrearPromocionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, promocionToResponse(p))
}

func (h *PromocionesHandler) Listar(c *gin.Context) {
	var promos []model.Promocion
	var err error
	if c.Query("vigentes") == "true" {
		promos, err = h.svc.Vigentes(c.Request.Context())
	} else {
		promos, err = h.svc.Listar(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar promociones"))
		return
	}
	resp := make([]dto.PromocionResponse, len(promos))
	for i := range promos {
		resp[i] = *promocionToResponse(&promos[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PromocionesHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	p, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Promocion no encontrada"))
		return
	}
	c.JSON(http.StatusOK, promocionToResponse(p))
}

func (h *PromocionesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPromocionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, promocionToResponse(p))
}

func (h *PromocionesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func promocionToResponse(p *model.Promocion) *dto.PromocionResponse {
	resp := &dto.PromocionResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		TipoDescuento: p.TipoDescuento,
		Valor:         p.Valor,
		TipoRegla:     p.TipoRegla,
		ValorRegla:    p.ValorRegla,
		Desde:         p.Desde.Format(time.RFC3339),
		Activa:        p.Activa,
	}
	if p.Hasta != nil {
		h := p.Hasta.Format(time.RFC3339)
		resp.Hasta = &h
	}
	return resp
}
