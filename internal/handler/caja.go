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
)

type CajaHandler struct{ svc service.CorteService }

func NewCajaHandler(svc service.CorteService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre un corte de caja para el cajero autenticado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCorteRequest true "Monto inicial"
// @Success 201 {object} dto.AbrirCorteResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		if errors.Is(err, repository.ErrCorteYaAbierto) {
			c.JSON(http.StatusConflict, apierror.New("Ya existe un corte abierto para este usuario"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar closes the open corte with the declared cash count.
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}

	resp, err := h.svc.Cerrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		if errors.Is(err, service.ErrCorteNoAbierto) {
			c.JSON(http.StatusNotFound, apierror.New("No hay corte abierto"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activa returns the caller's open corte.
func (h *CajaHandler) Activa(c *gin.Context) {
	usuarioID, ok := middleware.UserUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Activa(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("No hay corte abierto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
