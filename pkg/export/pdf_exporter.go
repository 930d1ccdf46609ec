package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Printable width of a landscape A4 page with 10mm side margins.
const pageWidth = 277.0

// PDFExporter renders tables into branded PDF documents.
type PDFExporter struct {
	brand string
	now   func() time.Time
}

// NewPDFExporter constructs a PDF exporter. The brand name appears in the
// document header above the table title.
func NewPDFExporter(brand string) *PDFExporter {
	return &PDFExporter{brand: brand, now: time.Now}
}

// Render creates a PDF document with the brand header, table title, column
// grid, and a generation timestamp footer.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("export table has no columns")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		stamp := e.now().UTC().Format("2006-01-02 15:04 UTC")
		pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s — page %d/{nb}", stamp, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if e.brand != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 9, e.brand, "", 1, "L", false, 0, "")
	}
	if table.Title != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, table.Title, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	widths := columnWidths(table.Columns)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, col := range table.Columns {
		pdf.CellFormat(widths[i], 8, col.Name, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for r, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, table has %d columns", r, len(row), len(table.Columns))
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths distributes the printable page width by relative weight.
// Columns without an explicit weight count as 1.
func columnWidths(columns []Column) []float64 {
	total := 0.0
	for _, col := range columns {
		if col.Width > 0 {
			total += col.Width
		} else {
			total++
		}
	}

	widths := make([]float64, len(columns))
	for i, col := range columns {
		weight := col.Width
		if weight <= 0 {
			weight = 1
		}
		widths[i] = pageWidth * weight / total
	}
	return widths
}
