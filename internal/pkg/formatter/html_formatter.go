package formatter

import (
	"bytes"
	"html/template"

	"github.com/futig/proposal-backend/internal/entity"
)

const (
	htmlContentType   = "text/html; charset=utf-8"
	htmlFileExtension = ".html"
)

var htmlPage = template.Must(template.New("proposal").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: 'Arial', sans-serif; font-size: 12pt; line-height: 1.6; color: #333; margin: 40px; }
h1, h2, h3 { color: #2C3E50; margin-top: 30px; page-break-after: avoid; }
ul, ol { margin-left: 20px; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
table, th, td { border: 1px solid #aaa; padding: 8px; }
.cover { text-align: center; margin-top: 200px; page-break-after: always; }
.cover h1 { font-size: 42px; margin-bottom: 20px; }
.cover h2 { font-size: 28px; color: #555; }
</style>
</head>
<body>
<div class="cover">
<h1>{{.Title}}</h1>
{{if .BusinessName}}<h2>{{.BusinessName}}</h2>
{{end}}<p><strong>Prepared for:</strong> {{.ClientName}}</p>
</div>
{{.Body}}
</body>
</html>
`))

type htmlPageData struct {
	Title        string
	BusinessName string
	ClientName   string
	Body         template.HTML
}

type HTMLFormatter struct{}

func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Format converts the markdown body with raw HTML disabled and wraps it
// in a styled page with a cover section.
func (f *HTMLFormatter) Format(doc *entity.ProposalDocument) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(doc.Markdown), &body); err != nil {
		return nil, renderError("html", err)
	}

	data := htmlPageData{
		Title:        coverTitle,
		BusinessName: doc.Title.BusinessName,
		ClientName:   clientName(doc.Title),
		Body:         template.HTML(body.String()),
	}

	var page bytes.Buffer
	if err := htmlPage.Execute(&page, data); err != nil {
		return nil, renderError("html", err)
	}
	return page.Bytes(), nil
}

func (f *HTMLFormatter) ContentType() string {
	return htmlContentType
}

func (f *HTMLFormatter) FileExtension() string {
	return htmlFileExtension
}
