package llm

import (
	"context"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns canned replies shaped like real model output,
// picked by the kind of prompt it receives.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Complete returns a canned reply for the prompt
func (m *MockConnector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	if req.APIKey.IsEmpty() {
		return "", entity.ErrCredential
	}

	var reply string
	switch {
	case strings.Contains(req.Prompt, "Executive Summary"):
		reply = mockProposal
	case strings.Contains(req.Prompt, "estimated_timeline"):
		reply = mockTimelineBudget
	default:
		reply = mockAnalysis
	}

	ctxzap.Info(ctx, "[MOCK] completion generated", zap.Int("result_length", len(reply)))
	return reply, nil
}

const mockAnalysis = "Here is the analysis you asked for:\n\n```json\n" + `{
  "project_type": "Web App",
  "requirements": ["User authentication", "Product catalog", "Shopping cart", "Payment gateway"],
  "duration": 8,
  "category": "E-commerce",
  "project_scope": "- Features: registration, catalog with search, cart, checkout\n- Frontend: React\n- Backend: Go REST API\n- Database: PostgreSQL\n- Integrations: Stripe payments"
}` + "\n```"

const mockTimelineBudget = "```json\n" + `{
  "estimated_timeline": 10,
  "justification": "Two weeks of discovery and design, six weeks of development and two weeks of testing and launch (MOCK).",
  "pricing": [
    {"Basic Package": "Core catalog and checkout - $6,000"},
    {"Standard Package": "Adds search, reviews and admin panel - $9,500"},
    {"Premium Package": "Adds analytics, loyalty program and priority support - $14,000"}
  ]
}` + "\n```"

const mockProposal = `# Project Proposal (MOCK)

## 1. Executive Summary
This proposal describes the delivery of a web application tailored to the client's goals.

## 2. Company Overview
We are a software studio delivering web and mobile products.

## 3. Understanding of Client Requirements
The client needs an online store with secure payments.

## 4. Detailed Project Scope
- Registration and login
- Product catalog
- Shopping cart and checkout

## 5. Technology Stack
| Layer | Technology |
|---|---|
| Frontend | React |
| Backend | Go |
| Database | PostgreSQL |

## 6. Project Timeline & Milestones
1. Discovery and design
2. Development
3. Testing and launch

## 7. Pricing & Payment Structure
**Standard Package** is recommended.

## 8. Quality Assurance & Testing
Automated and manual testing on every milestone.

## 9. Communication & Project Management
Weekly demos and a shared task board.

## 10. Risks & Mitigation Strategy
Scope creep is handled through change requests.

## 11. Why Choose Us
*Experienced team, transparent process.*

## 12. Terms & Conditions
50% upfront, 50% on delivery.
`
