package infra

// pdf.go — Invoice PDF generation using go-pdf/fpdf.
// Renders an A4 invoice with company header, invoice number and date,
// customer block, item table, bold total and the payment breakdown.
// The output file is saved to storagePath/facture_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/thiamyoussouph/sasstock-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateInvoicePDF renders the invoice document for a sale.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateInvoicePDF(company *model.Company, sale *model.Sale, customerName string, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("facture_%s.pdf", sale.NumberSale)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, company.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if company.Address != nil {
		pdf.CellFormat(contentW, 5, *company.Address, "", 1, "L", false, 0, "")
	}
	if company.Phone != nil {
		pdf.CellFormat(contentW, 5, "Tél: "+*company.Phone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Invoice info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("FACTURE %s", sale.NumberSale), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Date: "+sale.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if customerName != "" {
		pdf.CellFormat(contentW, 5, "Client: "+customerName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Items table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product name
	col2 := contentW * 0.14 // qty
	col3 := contentW * 0.20 // unit price
	col4 := contentW * 0.20 // line total

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Produit", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Qté", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "P.U.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		if len(name) > 38 {
			name = name[:37] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, item.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 8, sale.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payments ─────────────────────────────────────────────────────────────
	if len(sale.Payments) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 9)
		for _, pay := range sale.Payments {
			label := "Règlement (" + pay.Method + "):"
			pdf.CellFormat(col1+col2+col3, 5, label, "", 0, "R", false, 0, "")
			pdf.CellFormat(col4, 5, pay.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Merci de votre confiance.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
