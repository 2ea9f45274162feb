package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
)

const (
	coverTitle        = "Project Proposal"
	coverPreparedFor  = "Prepared for: "
	defaultClientName = "Valued Client"
)

// Formatter renders a proposal document into one output format.
type Formatter interface {
	Format(doc *entity.ProposalDocument) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// Options tunes the paged renderers. DOCXEnabled is set once a unioffice
// license is active; without it docx is not offered.
type Options struct {
	FontPath    string
	PageSize    string
	DOCXEnabled bool
}

type Factory struct {
	opts Options
}

func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatHTML:
		return NewHTMLFormatter(), nil
	case entity.FormatDOCX:
		if !f.opts.DOCXEnabled {
			return nil, fmt.Errorf("%w: docx rendering is not licensed on this server", entity.ErrInvalidFormat)
		}
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(f.opts), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

func clientName(title entity.TitleFields) string {
	if name := strings.TrimSpace(title.ClientName); name != "" {
		return name
	}
	return defaultClientName
}

func renderError(format string, err error) error {
	return fmt.Errorf("%w: %s: %w", entity.ErrRender, format, err)
}
