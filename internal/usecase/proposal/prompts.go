package proposal

import (
	"fmt"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
)

// ProposalSections are the headings the proposal writer must produce, in order.
var ProposalSections = []string{
	"Executive Summary",
	"Company Overview",
	"Understanding of Client Requirements",
	"Detailed Project Scope",
	"Technology Stack",
	"Project Timeline & Milestones",
	"Pricing & Payment Structure",
	"Quality Assurance & Testing",
	"Communication & Project Management",
	"Risks & Mitigation Strategy",
	"Why Choose Us",
	"Terms & Conditions",
}

func unifiedAnalysisPrompt(state entity.ProposalState) string {
	var sb strings.Builder

	sb.WriteString("You are a senior software analyst. Analyze the client request below.\n\n")
	if state.ClientName != "" {
		fmt.Fprintf(&sb, "Client Name: %s\n", state.ClientName)
	}
	fmt.Fprintf(&sb, "Client Request:\n\"\"\"%s\"\"\"\n\n", state.UserInput)
	sb.WriteString(`Respond with a single JSON object and nothing else, using exactly these keys:
{
  "project_type": "short project category, for example Web App, Mobile App, Desktop App, API Service or Custom Project",
  "requirements": "the client requirements restated as a clear, normalized list",
  "duration": <estimated duration in weeks, integer>,
  "category": "business category, for example E-commerce, Social Media, Healthcare, Education",
  "project_scope": "detailed technical scope: features list, suggested tech stack (frontend, backend, database), APIs and third-party tools"
}
`)

	return sb.String()
}

func timelineBudgetPrompt(scope string) string {
	return fmt.Sprintf(`You are a project manager and freelance pricing strategist.
Estimate a realistic timeline and three pricing tiers for the project described below.

Project Scope:
"""%s"""

Respond with a single JSON object and nothing else:
{
  "estimated_timeline": <total duration in weeks, integer>,
  "justification": "short explanation of the timeline",
  "pricing": [
    {"Basic Package": "included features - $X"},
    {"Standard Package": "included features - $Y"},
    {"Premium Package": "included features - $Z"}
  ]
}
`, scope)
}

func proposalWriterPrompt(state entity.ProposalState) string {
	clientName := state.ClientName
	if clientName == "" {
		clientName = "Valued Client"
	}

	var sb strings.Builder

	sb.WriteString("You are a professional business proposal writer for a software development company.\n\n")
	sb.WriteString("Write a detailed, persuasive project proposal based on:\n")
	fmt.Fprintf(&sb, "- Client Name: %s\n", clientName)
	if state.BusinessName != "" {
		fmt.Fprintf(&sb, "- Our Company: %s\n", state.BusinessName)
	}
	fmt.Fprintf(&sb, "- Project Type: %s\n", state.ProjectType)
	fmt.Fprintf(&sb, "- Category: %s\n", state.Category)
	fmt.Fprintf(&sb, "- Requirements:\n%s\n", state.Requirements)
	fmt.Fprintf(&sb, "- Scope:\n%s\n", state.ProjectScope)
	fmt.Fprintf(&sb, "- Timeline: %d weeks\n", state.EstimatedTimeline)
	if state.Justification != "" {
		fmt.Fprintf(&sb, "- Timeline Rationale: %s\n", state.Justification)
	}
	fmt.Fprintf(&sb, "- Budget:\n%s\n\n", state.Pricing)

	fmt.Fprintf(&sb, "The proposal must contain exactly these %d sections, in this order, each as a level-2 markdown heading:\n", len(ProposalSections))
	for i, section := range ProposalSections {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, section)
	}

	sb.WriteString(`
Write several well-developed paragraphs for every section; use bullet lists and tables where they help.
Break the timeline into milestones with week ranges and present the pricing tiers with a payment schedule.
Respond in Markdown only, without any preamble, so the text can be exported to PDF as is.
`)

	return sb.String()
}
