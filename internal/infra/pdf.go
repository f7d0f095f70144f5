package infra

// pdf.go — sales report export using go-pdf/fpdf.
// Renders an A4 report with the date range, one row per sale (timestamp,
// method, discount, total) and a bold totals line. The output file is saved
// to storagePath/reporte_ventas_{desde}_{hasta}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"tiendapos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateSalesReportPDF writes the report and returns its absolute path.
func GenerateSalesReportPDF(ventas []model.Venta, desde, hasta, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_ventas_%s_%s.pdf", desde, hasta)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "TiendaPOS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Reporte de ventas %s a %s", desde, hasta), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	colW := []float64{45, 30, 35, 35, 35}
	headers := []string{"Fecha", "Metodo", "Subtotal", "Descuento", "Total"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colW[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	montoTotal := decimal.Zero
	descuentoTotal := decimal.Zero
	for _, v := range ventas {
		pdf.CellFormat(colW[0], 6, v.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 6, v.MetodoPago, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 6, v.Subtotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[3], 6, v.DescuentoTotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 6, v.Total.StringFixed(2), "1", 1, "R", false, 0, "")
		montoTotal = montoTotal.Add(v.Total)
		descuentoTotal = descuentoTotal.Add(v.DescuentoTotal)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Ventas: %d    Descuentos: $%s    Total: $%s",
		len(ventas), descuentoTotal.StringFixed(2), montoTotal.StringFixed(2)), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write report: %w", err)
	}
	return filePath, nil
}
