package handler

import (
	"errors"
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// StatsFull godoc
// @Summary Contadores para el dashboard de administracion
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsFullResponse
// @Router /api/stats/full [get]
func (h *ReportesHandler) StatsFull(c *gin.Context) {
	resp, err := h.svc.StatsFull(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular estadisticas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) ReporteVentas(c *gin.Context) {
	var filter dto.ReporteVentasFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ReporteVentas(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrRangoReporte) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReporteVentasPDF streams the rendered PDF as a file download.
func (h *ReportesHandler) ReporteVentasPDF(c *gin.Context) {
	var filter dto.ReporteVentasFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	path, err := h.svc.ReporteVentasPDF(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrRangoReporte) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar PDF"))
		return
	}
	c.FileAttachment(path, "reporte_ventas.pdf")
}
