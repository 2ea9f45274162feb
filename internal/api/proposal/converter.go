package proposal

import "github.com/futig/proposal-backend/internal/entity"

// toGenerateProposalResponse converts a finished run to the API response DTO
func toGenerateProposalResponse(p *entity.GeneratedProposal) *entity.GenerateProposalResponse {
	return &entity.GenerateProposalResponse{
		ProposalID:        p.ID,
		ClientName:        p.State.ClientName,
		ProjectType:       p.State.ProjectType,
		Category:          p.State.Category,
		ProjectScope:      p.State.ProjectScope,
		EstimatedTimeline: p.State.EstimatedTimeline,
		Justification:     p.State.Justification,
		Pricing:           p.State.Pricing,
		FullProposal:      p.State.ProposalMarkdown,
	}
}

// toProposalDocument converts a download request to a renderable document
func toProposalDocument(req *entity.RenderDocumentRequest) *entity.ProposalDocument {
	return &entity.ProposalDocument{
		Title: entity.TitleFields{
			ClientName:   req.ClientName,
			BusinessName: req.BusinessName,
		},
		Markdown: req.FullProposal,
	}
}
