package formatter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Relative paths where the TTF font may live.
	// In Docker runtime fonts are copied to /app/ttf,
	// so for the compiled binary the path is ./ttf/DejaVuSans.ttf.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"

	pdfDefaultPageSize = "A4"
	pdfMargin          = 20.0
	pdfBodySize        = 11.0
	pdfCodeSize        = 9.0
	pdfListIndent      = 7.0
	pdfMarkerWidth     = 6.0
)

var pdfHeadingSizes = map[int]float64{1: 18, 2: 15, 3: 13}

type rgb struct{ r, g, b int }

var (
	pdfHeadingColor = rgb{44, 62, 80}
	pdfBodyColor    = rgb{51, 51, 51}
	pdfMutedColor   = rgb{102, 102, 102}
	pdfRuleColor    = rgb{52, 152, 219}
	pdfCodeFill     = rgb{245, 245, 245}
	pdfHeaderFill   = rgb{236, 240, 241}
)

type PDFFormatter struct {
	fontPath string
	pageSize string
}

func NewPDFFormatter(opts Options) *PDFFormatter {
	pageSize := opts.PageSize
	if pageSize == "" {
		pageSize = pdfDefaultPageSize
	}
	return &PDFFormatter{fontPath: opts.FontPath, pageSize: pageSize}
}

// resolveFontPath tries the configured font first, then the DejaVuSans
// font in runtime layout (next to the binary) or source layout.
func (f *PDFFormatter) resolveFontPath() string {
	for _, path := range []string{f.fontPath, pdfFontRuntimePath, pdfFontSourcePath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Format lays doc out as a PDF. gofpdf reports some layout faults by
// panicking; those come back as render errors.
func (f *PDFFormatter) Format(doc *entity.ProposalDocument) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, renderError("pdf", fmt.Errorf("layout panic: %v", r))
		}
	}()

	pdf := gofpdf.New("P", "mm", f.pageSize, "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	w := newPDFWriter(pdf, f.resolveFontPath())
	pdf.SetTitle(coverTitle, w.utf8)
	pdf.SetFooterFunc(w.footer)

	w.cover(doc.Title)

	pdf.AddPage()
	for _, b := range parseBlocks(doc.Markdown) {
		w.block(b)
	}

	var buf bytes.Buffer
	if err = pdf.Output(&buf); err != nil {
		return nil, renderError("pdf", err)
	}
	return buf.Bytes(), nil
}

func (f *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (f *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}

// pdfWriter lays flattened markdown blocks onto gofpdf pages.
type pdfWriter struct {
	pdf      *gofpdf.Fpdf
	font     string
	mono     string
	utf8     bool
	tr       func(string) string
	left     float64
	contentW float64
}

func newPDFWriter(pdf *gofpdf.Fpdf, fontPath string) *pdfWriter {
	w := &pdfWriter{pdf: pdf, font: "Arial", mono: "Courier"}

	if fontPath != "" {
		// Register every style under the same family name
		for _, style := range []string{"", "B", "I", "BI"} {
			pdf.AddUTF8Font(pdfFontName, style, fontPath)
		}
		w.font, w.mono, w.utf8 = pdfFontName, pdfFontName, true
		w.tr = func(s string) string { return s }
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	w.left = left
	w.contentW = pageW - left - right
	return w
}

func (w *pdfWriter) color(c rgb) {
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func lineHeight(size float64) float64 {
	// points to millimetres with 1.5 line spacing
	return size * 0.3528 * 1.5
}

func (w *pdfWriter) cover(title entity.TitleFields) {
	w.pdf.AddPage()
	_, pageH := w.pdf.GetPageSize()
	w.pdf.SetY(pageH / 3)

	w.color(pdfHeadingColor)
	w.pdf.SetFont(w.font, "B", 28)
	w.pdf.CellFormat(0, lineHeight(28), w.tr(coverTitle), "", 1, "C", false, 0, "")

	y := w.pdf.GetY() + 4
	w.pdf.SetDrawColor(pdfRuleColor.r, pdfRuleColor.g, pdfRuleColor.b)
	w.pdf.SetLineWidth(0.8)
	w.pdf.Line(w.left+w.contentW/4, y, w.left+w.contentW*3/4, y)
	w.pdf.SetY(y + 8)

	if business := strings.TrimSpace(title.BusinessName); business != "" {
		w.color(pdfMutedColor)
		w.pdf.SetFont(w.font, "", 18)
		w.pdf.CellFormat(0, lineHeight(18), w.tr(business), "", 1, "C", false, 0, "")
		w.pdf.Ln(6)
	}

	w.color(pdfBodyColor)
	w.pdf.SetFont(w.font, "", 14)
	w.pdf.CellFormat(0, lineHeight(14), w.tr(coverPreparedFor+clientName(title)), "", 1, "C", false, 0, "")

	w.pdf.SetLineWidth(0.2)
	w.pdf.SetDrawColor(0, 0, 0)
}

func (w *pdfWriter) footer() {
	if w.pdf.PageNo() == 1 {
		return
	}
	w.pdf.SetY(-15)
	w.color(pdfMutedColor)
	w.pdf.SetFont(w.font, "I", 8)
	w.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", w.pdf.PageNo()), "", 0, "C", false, 0, "")
}

func (w *pdfWriter) block(b block) {
	switch b.Kind {
	case blockHeading:
		w.heading(b)
	case blockParagraph:
		w.paragraph(b)
	case blockListItem:
		w.listItem(b)
	case blockCode:
		w.code(b.Lines)
	case blockRule:
		w.rule()
	case blockTable:
		w.table(b.Rows)
	}
}

func (w *pdfWriter) heading(b block) {
	size, ok := pdfHeadingSizes[b.Level]
	if !ok {
		size = 12
	}

	w.pdf.Ln(3)
	w.color(pdfHeadingColor)
	w.pdf.SetFont(w.font, "B", size)
	w.pdf.MultiCell(0, lineHeight(size), w.tr(plainText(b.Spans)), "", "L", false)

	if b.Level == 1 {
		y := w.pdf.GetY() + 1
		w.pdf.SetDrawColor(pdfRuleColor.r, pdfRuleColor.g, pdfRuleColor.b)
		w.pdf.Line(w.left, y, w.left+w.contentW, y)
		w.pdf.SetDrawColor(0, 0, 0)
		w.pdf.SetY(y + 2)
	}
	w.pdf.Ln(1)
}

func (w *pdfWriter) paragraph(b block) {
	indent := float64(b.Level) * pdfListIndent
	if b.Quote {
		indent += pdfListIndent
	}
	w.withIndent(indent, func() {
		w.pdf.SetX(w.left + indent)
		w.spans(b.Spans, b.Quote)
	})
	w.pdf.Ln(2)
}

func (w *pdfWriter) listItem(b block) {
	indent := float64(b.Level) * pdfListIndent
	if b.Quote {
		indent += pdfListIndent
	}
	w.withIndent(indent, func() {
		if b.Marker != "" {
			w.pdf.SetX(w.left + indent - pdfMarkerWidth)
			w.color(pdfBodyColor)
			w.pdf.SetFont(w.font, "", pdfBodySize)
			w.pdf.CellFormat(pdfMarkerWidth, lineHeight(pdfBodySize), w.tr(b.Marker), "", 0, "L", false, 0, "")
		} else {
			w.pdf.SetX(w.left + indent)
		}
		w.spans(b.Spans, b.Quote)
	})
	w.pdf.Ln(1)
}

func (w *pdfWriter) withIndent(indent float64, fn func()) {
	w.pdf.SetLeftMargin(w.left + indent)
	fn()
	w.pdf.SetLeftMargin(w.left)
}

func (w *pdfWriter) spans(spans []span, quote bool) {
	lh := lineHeight(pdfBodySize)
	for _, s := range spans {
		family, style, size := w.font, "", pdfBodySize
		if s.Style&styleBold != 0 {
			style += "B"
		}
		if s.Style&styleItalic != 0 || quote {
			style += "I"
		}
		if s.Style&styleCode != 0 {
			family, style, size = w.mono, "", pdfCodeSize+1
		}

		if quote {
			w.color(pdfMutedColor)
		} else {
			w.color(pdfBodyColor)
		}
		w.pdf.SetFont(family, style, size)
		w.pdf.Write(lh, w.tr(s.Text))
	}
	w.pdf.Ln(lh)
}

func (w *pdfWriter) code(lines []string) {
	fill := pdfCodeFill
	w.pdf.SetFillColor(fill.r, fill.g, fill.b)
	w.color(pdfBodyColor)
	w.pdf.SetFont(w.mono, "", pdfCodeSize)
	for _, line := range lines {
		w.pdf.MultiCell(0, lineHeight(pdfCodeSize), w.tr(line), "", "L", true)
	}
	w.pdf.Ln(2)
}

func (w *pdfWriter) rule() {
	y := w.pdf.GetY() + 2
	w.pdf.SetDrawColor(200, 200, 200)
	w.pdf.Line(w.left, y, w.left+w.contentW, y)
	w.pdf.SetDrawColor(0, 0, 0)
	w.pdf.SetY(y + 4)
}

// lineCount reports how many lines text wraps to at width. SplitText walks
// runes and only suits the UTF-8 font; translated cp1252 text is measured
// byte-wise with SplitLines.
func (w *pdfWriter) lineCount(text string, width float64) int {
	if w.utf8 {
		return len(w.pdf.SplitText(text, width))
	}
	return len(w.pdf.SplitLines([]byte(w.tr(text)), width))
}

func (w *pdfWriter) table(rows [][]string) {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}

	colW := w.contentW / float64(cols)
	lh := lineHeight(pdfBodySize - 1)
	_, pageH := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()

	for i, row := range rows {
		header := i == 0
		style := ""
		if header {
			style = "B"
		}
		w.color(pdfBodyColor)
		w.pdf.SetFont(w.font, style, pdfBodySize-1)

		lines := 1
		for _, cell := range row {
			lines = max(lines, w.lineCount(cell, colW-2))
		}
		h := float64(lines) * lh

		if w.pdf.GetY()+h > pageH-bottom {
			w.pdf.AddPage()
		}

		y := w.pdf.GetY()
		for c := range cols {
			x := w.left + float64(c)*colW
			if header {
				w.pdf.SetFillColor(pdfHeaderFill.r, pdfHeaderFill.g, pdfHeaderFill.b)
				w.pdf.Rect(x, y, colW, h, "F")
			}
			if c < len(row) {
				w.pdf.SetXY(x, y)
				w.pdf.MultiCell(colW, lh, w.tr(row[c]), "", "L", false)
			}
			w.pdf.Rect(x, y, colW, h, "D")
		}
		w.pdf.SetXY(w.left, y+h)
	}
	w.pdf.Ln(3)
}
