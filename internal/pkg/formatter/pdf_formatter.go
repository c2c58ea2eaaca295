package formatter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In Docker runtime fonts are copied next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"

	pdfLineHeight = 6.0
	pdfCellPad    = 1.5
)

type PDFFormatter struct {
	fontPath string
}

func NewPDFFormatter(fontPath string) *PDFFormatter {
	return &PDFFormatter{fontPath: fontPath}
}

// resolveFontPath prefers the configured font, then the runtime layout,
// then the source layout.
func (pf *PDFFormatter) resolveFontPath() string {
	for _, p := range []string{pf.fontPath, pdfFontRuntimePath, pdfFontSourcePath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// pdfWriter carries the document and the text encoder for the selected font.
type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

func (pf *PDFFormatter) Format(title string, sections []presentation.Section) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, font: "Arial", tr: func(s string) string { return s }}
	if fontPath := pf.resolveFontPath(); fontPath != "" {
		// Regular and bold share one TTF.
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		pdf.AddUTF8Font(pdfFontName, "I", fontPath)
		w.font = pdfFontName
	} else {
		// Core fonts only cover cp1252.
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetFont(w.font, "B", 18)
	pdf.MultiCell(0, 9, w.tr(title), "", "L", false)
	pdf.Ln(4)

	for _, s := range sections {
		pdf.SetFont(w.font, "B", 14)
		pdf.MultiCell(0, 8, w.tr(s.Title), "B", "L", false)
		pdf.Ln(2)
		for _, b := range s.Blocks {
			w.block(b)
			pdf.Ln(2)
		}
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) block(b presentation.Block) {
	pdf := w.pdf

	if b.Heading != "" {
		pdf.SetFont(w.font, "B", 12)
		pdf.MultiCell(0, pdfLineHeight+1, w.tr(b.Heading), "", "L", false)
	}
	pdf.SetFont(w.font, "", 11)

	switch b.Kind {
	case presentation.BlockVerse:
		pdf.SetFont(w.font, "B", 16)
		pdf.MultiCell(0, 9, w.tr(b.Verse.Arabic), "", "C", false)
		pdf.SetFont(w.font, "I", 11)
		pdf.MultiCell(0, pdfLineHeight, w.tr(b.Verse.Transliteration), "", "C", false)
		pdf.SetFont(w.font, "", 11)
		pdf.MultiCell(0, pdfLineHeight, w.tr(b.Verse.Translation), "", "C", false)
	case presentation.BlockText:
		pdf.MultiCell(0, pdfLineHeight, w.tr(b.Text), "", "L", false)
	case presentation.BlockFields:
		for _, f := range b.Fields {
			pdf.SetFont(w.font, "B", 11)
			pdf.Write(pdfLineHeight, w.tr(f.Label+": "))
			pdf.SetFont(w.font, "", 11)
			pdf.Write(pdfLineHeight, w.tr(f.Value))
			pdf.Ln(pdfLineHeight)
		}
	case presentation.BlockList:
		for i, item := range b.Items {
			marker := "•"
			if b.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			pdf.MultiCell(0, pdfLineHeight, w.tr(marker+" "+item), "", "L", false)
		}
	case presentation.BlockTable:
		w.table(b.Columns, b.Rows)
	}
}

func (w *pdfWriter) table(columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}

	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(columns))
	widths := make([]float64, len(columns))
	for i := range widths {
		widths[i] = colW
	}

	w.pdf.SetFont(w.font, "B", 11)
	w.row(widths, columns)
	w.pdf.SetFont(w.font, "", 10)
	for _, r := range rows {
		w.row(widths, r)
	}
}

// row draws one table row, growing every cell to the tallest wrapped cell.
func (w *pdfWriter) row(widths []float64, cells []string) {
	pdf := w.pdf

	lines := 1
	for i, c := range cells {
		if i >= len(widths) {
			break
		}
		if n := len(pdf.SplitLines([]byte(w.tr(c)), widths[i]-2*pdfCellPad)); n > lines {
			lines = n
		}
	}
	h := float64(lines) * pdfLineHeight

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}

	left, _, _, _ := pdf.GetMargins()
	x, y := left, pdf.GetY()
	for i, c := range cells {
		if i >= len(widths) {
			break
		}
		pdf.Rect(x, y, widths[i], h, "D")
		pdf.SetXY(x+pdfCellPad, y)
		pdf.MultiCell(widths[i]-2*pdfCellPad, pdfLineHeight, w.tr(strings.TrimSpace(c)), "", "L", false)
		x += widths[i]
	}
	pdf.SetXY(left, y+h)
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
