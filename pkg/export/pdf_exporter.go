package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 277.0
	pdfFirstCol   = 22.0
	pdfLineHeight = 5.0
)

// PDFExporter renders datasets into a landscape tabular PDF, one page per
// section.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a document with a heading and one table per section. The
// first column is narrow since it carries the hour labels.
func (e *PDFExporter) Render(title string, sections ...Dataset) ([]byte, error) {
	if err := validate(sections); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)

	for _, data := range sections {
		pdf.AddPage()
		if title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 8, strings.ToUpper(title), "", 1, "C", false, 0, "")
		}
		if data.Title != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, data.Title, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)

		widths := columnWidths(len(data.Headers))
		pdf.SetFont("Arial", "B", 9)
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range data.Rows {
			height := pdfLineHeight
			for i, header := range data.Headers {
				lines := pdf.SplitLines([]byte(row[header]), widths[i]-2)
				if h := float64(len(lines)) * pdfLineHeight; h > height {
					height = h
				}
			}
			x, y := pdf.GetXY()
			for i, header := range data.Headers {
				pdf.Rect(x, y, widths[i], height, "D")
				pdf.MultiCell(widths[i], pdfLineHeight, row[header], "", "L", false)
				x += widths[i]
				pdf.SetXY(x, y)
			}
			pdf.SetXY(10, y+height)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = pdfPageWidth
		return widths
	}
	widths[0] = pdfFirstCol
	rest := (pdfPageWidth - pdfFirstCol) / float64(n-1)
	for i := 1; i < n; i++ {
		widths[i] = rest
	}
	return widths
}
