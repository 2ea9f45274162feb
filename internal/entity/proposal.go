package entity

// ProposalState is the record threaded through the proposal pipeline.
// ClientName and UserInput are the run inputs; every other field is owned by
// exactly one stage.
type ProposalState struct {
	ClientName string `json:"client_name"`
	UserInput  string `json:"user_input"`

	// BusinessName is printed on the cover page next to ClientName.
	BusinessName string `json:"business_name,omitempty"`

	// Unified analysis
	ProjectType  string `json:"project_type,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	Duration     int    `json:"duration,omitempty"` // weeks, informational
	Category     string `json:"category,omitempty"`
	ProjectScope string `json:"project_scope,omitempty"`

	// Timeline and budget
	EstimatedTimeline int    `json:"estimated_timeline,omitempty"` // weeks
	Justification     string `json:"justification,omitempty"`
	Pricing           string `json:"pricing,omitempty"`

	// Proposal writer
	ProposalMarkdown string `json:"proposal_markdown,omitempty"`
	ProposalPDF      []byte `json:"-"`
}

// Credential is the text generation API key scoped to a single pipeline run.
type Credential string

// IsEmpty reports whether no credential was supplied.
func (c Credential) IsEmpty() bool {
	return c == ""
}

// GenerateProposalRequest starts one pipeline run.
type GenerateProposalRequest struct {
	ClientName   string     `json:"client_name"`
	UserInput    string     `json:"user_input"`
	APIKey       Credential `json:"api_key"`
	BusinessName string     `json:"business_name,omitempty"`
	CallbackURL  string     `json:"callback_url,omitempty"`
}

// GeneratedProposal is the result of a completed pipeline run.
type GeneratedProposal struct {
	ID    string
	State ProposalState
}
