// Package render draws document specs onto PDF pages.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Junction-25/pdf-service/internal/model"

	"github.com/go-pdf/fpdf"
)

const (
	marginMM    = 25.4 // 1 inch
	cellPadding = 2.0
	lineHeight  = 5.0
	fontFamily  = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	brandColor = rgb{0, 174, 239}
	darkText   = rgb{44, 62, 80}
	lightText  = rgb{255, 255, 255}
	gridColor  = rgb{189, 195, 199}
	rowFill    = rgb{245, 245, 245}
	totalFill  = rgb{211, 211, 211}
	noteText   = rgb{110, 110, 110}
)

// PDFRenderer renders a DocumentSpec to Letter-sized PDF bytes
type PDFRenderer struct {
	compress bool
}

// Option configures a PDFRenderer
type Option func(*PDFRenderer)

// WithCompression toggles stream compression (on by default)
func WithCompression(on bool) Option {
	return func(r *PDFRenderer) { r.compress = on }
}

// NewPDFRenderer creates a renderer
func NewPDFRenderer(opts ...Option) *PDFRenderer {
	r := &PDFRenderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws every section in order. It never returns partial output.
func (r *PDFRenderer) Render(spec model.DocumentSpec) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(spec.Title, true)
	pdf.SetAuthor(spec.Author, true)
	pdf.SetCreator("pdf-service", true)
	if !spec.GeneratedAt.IsZero() {
		pdf.SetCreationDate(spec.GeneratedAt)
		pdf.SetModificationDate(spec.GeneratedAt)
	}
	pdf.AliasNbPages("")

	d := &drawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		d.textColor(noteText)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for i, s := range spec.Sections {
		if err := d.section(s); err != nil {
			return nil, fmt.Errorf("section %d (%s): %w", i, s.Kind, err)
		}
		if pdf.Err() {
			return nil, pdf.Error()
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type drawer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (d *drawer) section(s model.Section) error {
	switch s.Kind {
	case model.SectionTitle:
		d.title(s.Level, s.Text)
	case model.SectionParagraph:
		d.paragraph(s.Style, s.Text)
	case model.SectionTable:
		if s.Table == nil {
			return fmt.Errorf("table section without table")
		}
		d.table(*s.Table)
	case model.SectionPageBreak:
		d.pdf.AddPage()
	default:
		return fmt.Errorf("unknown section kind %q", s.Kind)
	}
	return nil
}

func (d *drawer) title(level int, text string) {
	switch level {
	case 1:
		d.pdf.SetFont(fontFamily, "B", 18)
		d.textColor(darkText)
		d.pdf.MultiCell(0, 9, d.tr(text), "", "L", false)
		d.pdf.Ln(4)
	case 2:
		d.pdf.Ln(4)
		d.pdf.SetFont(fontFamily, "B", 14)
		d.textColor(brandColor)
		d.pdf.MultiCell(0, 7, d.tr(text), "", "L", false)
		d.pdf.Ln(2)
	default:
		d.pdf.Ln(2)
		d.pdf.SetFont(fontFamily, "B", 12)
		d.textColor(darkText)
		d.pdf.MultiCell(0, 6, d.tr(text), "", "L", false)
		d.pdf.Ln(1)
	}
}

func (d *drawer) paragraph(style model.ParagraphStyle, text string) {
	left, _, _, _ := d.pdf.GetMargins()
	switch style {
	case model.StyleBullet:
		d.pdf.SetFont(fontFamily, "", 10)
		d.textColor(darkText)
		d.pdf.SetX(left + 5)
		d.pdf.CellFormat(5, lineHeight, d.tr("•"), "", 0, "L", false, 0, "")
		d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
		d.pdf.Ln(1)
	case model.StyleStrong:
		d.pdf.SetFont(fontFamily, "B", 10)
		d.textColor(darkText)
		d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
		d.pdf.Ln(1.5)
	case model.StyleNote:
		d.pdf.Ln(2)
		d.pdf.SetFont(fontFamily, "I", 9)
		d.textColor(noteText)
		d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
	default:
		d.pdf.SetFont(fontFamily, "", 10)
		d.textColor(darkText)
		d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
		d.pdf.Ln(1.5)
	}
}

// table draws a grid whose cells wrap; rows never split across pages and
// the header is repeated after a page break. A cell too long for one page
// is cut and ends in "...".
func (d *drawer) table(t model.Table) {
	cols := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	widths := d.columnWidths(t.ColumnWidths, cols)

	var headerH float64
	if len(t.Header) > 0 {
		header := d.cellLines(t.Header, widths, rowHeader, false, 0)
		headerH = rowHeight(header)
		d.drawRow(header, widths, rowHeader, false)
	}
	limit := d.maxRowLines(headerH)

	for i, row := range t.Rows {
		kind := rowBody
		if t.TotalRow && i == len(t.Rows)-1 {
			kind = rowTotal
		}
		lines := d.cellLines(row, widths, kind, t.LabelColumn, limit)
		if d.wouldBreak(rowHeight(lines)) {
			d.pdf.AddPage()
			if len(t.Header) > 0 {
				d.drawRow(d.cellLines(t.Header, widths, rowHeader, false, 0), widths, rowHeader, false)
			}
		}
		d.drawRow(lines, widths, kind, t.LabelColumn)
	}
	d.pdf.Ln(4)
}

type rowKind int

const (
	rowBody rowKind = iota
	rowHeader
	rowTotal
)

// cellLines wraps each cell to its column width. With limit > 0 a cell
// keeps at most limit lines.
func (d *drawer) cellLines(cells []string, widths []float64, kind rowKind, labelColumn bool, limit int) [][][]byte {
	out := make([][][]byte, len(widths))
	for i, w := range widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		d.cellStyle(kind, labelColumn && i == 0)
		lines := d.pdf.SplitLines([]byte(d.tr(text)), w-2*cellPadding)
		if limit > 0 && len(lines) > limit {
			lines = lines[:limit]
			lines[limit-1] = d.ellipsize(lines[limit-1], w-2*cellPadding)
		}
		out[i] = lines
	}
	return out
}

// ellipsize shortens line until it fits width with a trailing "..."; the
// current font must be the cell's
func (d *drawer) ellipsize(line []byte, width float64) []byte {
	const mark = "..."
	s := strings.TrimRight(string(line), " ")
	for s != "" && d.pdf.GetStringWidth(s+mark) > width {
		s = s[:len(s)-1]
	}
	return []byte(s + mark)
}

func rowHeight(lines [][][]byte) float64 {
	maxLines := 1
	for _, cell := range lines {
		if len(cell) > maxLines {
			maxLines = len(cell)
		}
	}
	return float64(maxLines)*lineHeight + 2*cellPadding
}

// maxRowLines is the tallest body row, in lines, that still fits on a fresh
// page below the header
func (d *drawer) maxRowLines(headerH float64) int {
	_, pageH := d.pdf.GetPageSize()
	_, top, _, bottom := d.pdf.GetMargins()
	n := int((pageH - top - bottom - headerH - 2*cellPadding) / lineHeight)
	if n < 1 {
		return 1
	}
	return n
}

func (d *drawer) drawRow(lines [][][]byte, widths []float64, kind rowKind, labelColumn bool) {
	h := rowHeight(lines)
	x, y := d.pdf.GetXY()
	d.pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)

	cx := x
	for i, w := range widths {
		d.cellStyle(kind, labelColumn && i == 0)
		d.pdf.Rect(cx, y, w, h, "FD")

		ty := y + cellPadding
		for _, line := range lines[i] {
			d.pdf.SetXY(cx+cellPadding, ty)
			d.pdf.CellFormat(w-2*cellPadding, lineHeight, string(line), "", 0, "L", false, 0, "")
			ty += lineHeight
		}
		cx += w
	}
	d.pdf.SetXY(x, y+h)
}

func (d *drawer) cellStyle(kind rowKind, label bool) {
	switch kind {
	case rowHeader:
		d.pdf.SetFont(fontFamily, "B", 10)
		d.pdf.SetFillColor(brandColor.r, brandColor.g, brandColor.b)
		d.textColor(lightText)
	case rowTotal:
		d.pdf.SetFont(fontFamily, "B", 10)
		d.pdf.SetFillColor(totalFill.r, totalFill.g, totalFill.b)
		d.textColor(darkText)
	default:
		style := ""
		if label {
			style = "B"
		}
		d.pdf.SetFont(fontFamily, style, 9)
		d.pdf.SetFillColor(rowFill.r, rowFill.g, rowFill.b)
		d.textColor(darkText)
	}
}

func (d *drawer) columnWidths(weights []float64, cols int) []float64 {
	pageW, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	usable := pageW - left - right

	if len(weights) != cols {
		weights = make([]float64, cols)
		for i := range weights {
			weights[i] = 1
		}
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}

	widths := make([]float64, cols)
	for i, w := range weights {
		widths[i] = usable * w / sum
	}
	return widths
}

func (d *drawer) wouldBreak(h float64) bool {
	_, pageH := d.pdf.GetPageSize()
	_, _, _, bottom := d.pdf.GetMargins()
	return d.pdf.GetY()+h > pageH-bottom
}

func (d *drawer) textColor(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}
