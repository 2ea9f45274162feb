package entity

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatHTML     ResultFormat = "html"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// TitleFields are printed on the cover page of a rendered proposal.
type TitleFields struct {
	ClientName   string
	BusinessName string
}

// ProposalDocument is the input of every document formatter.
type ProposalDocument struct {
	Title    TitleFields
	Markdown string
}
