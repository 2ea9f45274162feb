package entity

// GenerateProposalResponse is returned by POST /api/generate-proposal.
type GenerateProposalResponse struct {
	ProposalID        string `json:"proposal_id"`
	ClientName        string `json:"client_name"`
	ProjectType       string `json:"project_type"`
	Category          string `json:"category"`
	ProjectScope      string `json:"project_scope"`
	EstimatedTimeline int    `json:"estimated_timeline"`
	Justification     string `json:"justification"`
	Pricing           string `json:"pricing"`
	FullProposal      string `json:"full_proposal"`
}

// RenderDocumentRequest is the body of the download endpoints.
type RenderDocumentRequest struct {
	ClientName   string `json:"client_name"`
	BusinessName string `json:"business_name"`
	FullProposal string `json:"full_proposal"`
}

type AcceptedResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	ProposalID string `json:"proposal_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
