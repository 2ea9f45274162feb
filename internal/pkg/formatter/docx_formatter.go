package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"

	docxMonoFont   = "Courier New"
	docxListIndent = 0.3 * measurement.Inch
)

// ActivateDOCX registers a unioffice metered license key. unioffice refuses
// to save documents until a key is set.
func ActivateDOCX(apiKey string) error {
	if err := license.SetMeteredKey(apiKey); err != nil {
		return fmt.Errorf("activate unioffice license: %w", err)
	}
	return nil
}

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (f *DOCXFormatter) Format(doc *entity.ProposalDocument) ([]byte, error) {
	d := buildDOCX(doc)
	defer d.Close()

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, renderError("docx", err)
	}
	return buf.Bytes(), nil
}

func (f *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (f *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}

// buildDOCX maps the cover and markdown blocks onto a word document.
func buildDOCX(doc *entity.ProposalDocument) *document.Document {
	d := document.New()
	writeDOCXCover(d, doc.Title)

	for _, b := range parseBlocks(doc.Markdown) {
		switch b.Kind {
		case blockHeading:
			level := min(max(b.Level, 1), 6)
			par := d.AddParagraph()
			par.SetStyle(fmt.Sprintf("Heading%d", level))
			par.AddRun().AddText(plainText(b.Spans))
		case blockParagraph:
			par := d.AddParagraph()
			if indent := b.Level; indent > 0 || b.Quote {
				if b.Quote {
					indent++
				}
				par.Properties().SetStartIndent(measurement.Distance(indent) * docxListIndent)
			}
			addDOCXRuns(par, b.Spans, b.Quote)
		case blockListItem:
			par := d.AddParagraph()
			par.Properties().SetStartIndent(measurement.Distance(b.Level) * docxListIndent)
			if b.Marker != "" {
				par.AddRun().AddText(b.Marker + " ")
			}
			addDOCXRuns(par, b.Spans, b.Quote)
		case blockCode:
			par := d.AddParagraph()
			for i, line := range b.Lines {
				run := par.AddRun()
				run.Properties().SetFontFamily(docxMonoFont)
				run.AddText(line)
				if i < len(b.Lines)-1 {
					run.AddBreak()
				}
			}
		case blockRule:
			d.AddParagraph()
		case blockTable:
			addDOCXTable(d, b.Rows)
		}
	}
	return d
}

func writeDOCXCover(d *document.Document, title entity.TitleFields) {
	titlePar := d.AddParagraph()
	titlePar.SetStyle("Title")
	titlePar.AddRun().AddText(coverTitle)

	if business := strings.TrimSpace(title.BusinessName); business != "" {
		subPar := d.AddParagraph()
		subPar.SetStyle("Subtitle")
		subPar.AddRun().AddText(business)
	}

	preparedPar := d.AddParagraph()
	preparedRun := preparedPar.AddRun()
	preparedRun.Properties().SetBold(true)
	preparedRun.AddText(coverPreparedFor + clientName(title))

	d.AddParagraph().AddRun().AddPageBreak()
}

func addDOCXRuns(par document.Paragraph, spans []span, quote bool) {
	for _, s := range spans {
		if s.Text == "\n" {
			par.AddRun().AddBreak()
			continue
		}
		run := par.AddRun()
		props := run.Properties()
		if s.Style&styleBold != 0 {
			props.SetBold(true)
		}
		if s.Style&styleItalic != 0 || quote {
			props.SetItalic(true)
		}
		if s.Style&styleCode != 0 {
			props.SetFontFamily(docxMonoFont)
		}
		run.AddText(s.Text)
	}
}

func addDOCXTable(d *document.Document, rows [][]string) {
	table := d.AddTable()
	table.Properties().SetWidthPercent(100)
	table.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, 1*measurement.Point)

	for i, cells := range rows {
		row := table.AddRow()
		for _, text := range cells {
			run := row.AddCell().AddParagraph().AddRun()
			if i == 0 {
				run.Properties().SetBold(true)
			}
			run.AddText(text)
		}
	}
	d.AddParagraph()
}
