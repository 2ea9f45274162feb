package formatter

import (
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format prepends a cover header to the proposal body. The body itself
// is passed through verbatim.
func (f *MarkdownFormatter) Format(doc *entity.ProposalDocument) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# " + coverTitle + "\n\n")
	if business := strings.TrimSpace(doc.Title.BusinessName); business != "" {
		sb.WriteString("**" + business + "**\n\n")
	}
	sb.WriteString("_" + coverPreparedFor + clientName(doc.Title) + "_\n\n---\n\n")
	sb.WriteString(doc.Markdown)
	return []byte(sb.String()), nil
}

func (f *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (f *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
