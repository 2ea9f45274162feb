package proposal

import (
	"context"
	"errors"
	"testing"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("service unavailable")

func TestUnifiedAnalysis_ParsesReply(t *testing.T) {
	gen := newStubGenerator()
	in := entity.ProposalState{ClientName: "Acme", UserInput: "Build me an online shop"}

	out, err := UnifiedAnalysis(context.Background(), gen, in)
	require.NoError(t, err)

	assert.Equal(t, "Web App", out.ProjectType)
	assert.Equal(t, "Login\nCatalog", out.Requirements)
	assert.Equal(t, 6, out.Duration)
	assert.Equal(t, "E-commerce", out.Category)
	assert.Equal(t, "Catalog with login", out.ProjectScope)

	// input value is untouched
	assert.Empty(t, in.ProjectType)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Client Name: Acme")
	assert.Contains(t, gen.prompts[0], "Build me an online shop")
}

func TestUnifiedAnalysis_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		reply reply
	}{
		{name: "generation error", reply: reply{err: errUnavailable}},
		{name: "no json", reply: reply{text: "I cannot help with that."}},
		{name: "malformed json", reply: reply{text: `{"project_type": "Web",`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newStubGenerator()
			gen.replies[kindAnalysis] = tt.reply

			out, err := UnifiedAnalysis(context.Background(), gen, entity.ProposalState{UserInput: "A booking system"})
			require.NoError(t, err)

			assert.Equal(t, "Custom Development", out.ProjectType)
			assert.Equal(t, "Custom", out.Category)
			assert.Equal(t, 4, out.Duration)
			assert.Equal(t, "A booking system", out.Requirements)
			assert.NotEmpty(t, out.ProjectScope)
			assert.Contains(t, out.ProjectScope, "A booking system")
		})
	}
}

func TestUnifiedAnalysis_DefaultsMissingKeys(t *testing.T) {
	gen := newStubGenerator()
	gen.replies[kindAnalysis] = reply{text: `{"category": "Healthcare", "duration": "about ten"}`}

	out, err := UnifiedAnalysis(context.Background(), gen, entity.ProposalState{UserInput: "Patient portal"})
	require.NoError(t, err)

	assert.Equal(t, "Custom Project", out.ProjectType)
	assert.Equal(t, "Healthcare", out.Category)
	assert.Equal(t, 4, out.Duration)
	assert.Equal(t, "Patient portal", out.Requirements)
	assert.Contains(t, out.ProjectScope, "Custom Project")
	assert.Contains(t, out.ProjectScope, "Patient portal")
}

func TestUnifiedAnalysis_OmitsEmptyClientName(t *testing.T) {
	gen := newStubGenerator()

	_, err := UnifiedAnalysis(context.Background(), gen, entity.ProposalState{UserInput: "Mobile app"})
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.NotContains(t, gen.prompts[0], "Client Name:")
}

func TestTimelineBudget_ParsesReply(t *testing.T) {
	gen := newStubGenerator()

	out, err := TimelineBudget(context.Background(), gen, entity.ProposalState{ProjectScope: "Catalog", Duration: 3})
	require.NoError(t, err)

	assert.Equal(t, 8, out.EstimatedTimeline)
	assert.Equal(t, "Two phases", out.Justification)
	assert.Equal(t, "Basic: $100\nPro: $200", out.Pricing)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Catalog")
}

func TestTimelineBudget_Fallback(t *testing.T) {
	for name, r := range map[string]reply{
		"generation error": {err: errUnavailable},
		"no json":          {text: "Roughly two months."},
	} {
		t.Run(name, func(t *testing.T) {
			gen := newStubGenerator()
			gen.replies[kindTimeline] = r

			out, err := TimelineBudget(context.Background(), gen, entity.ProposalState{ProjectScope: "Catalog", Duration: 9})
			require.NoError(t, err)

			assert.Equal(t, 4, out.EstimatedTimeline)
			assert.Equal(t, "Standard estimation based on requirements", out.Justification)
			assert.Equal(t, "Standard Tier: $1000, Premium Tier: $2000", out.Pricing)
		})
	}
}

func TestTimelineBudget_MissingKeys(t *testing.T) {
	gen := newStubGenerator()
	gen.replies[kindTimeline] = reply{text: `{"pricing": "$500 flat"}`}

	out, err := TimelineBudget(context.Background(), gen, entity.ProposalState{ProjectScope: "Catalog", Duration: 7})
	require.NoError(t, err)

	assert.Equal(t, 7, out.EstimatedTimeline)
	assert.Equal(t, fallbackJustification, out.Justification)
	assert.Equal(t, "$500 flat", out.Pricing)
}

func TestTimelineBudget_EmptyScopeUsesPlaceholder(t *testing.T) {
	gen := newStubGenerator()

	_, err := TimelineBudget(context.Background(), gen, entity.ProposalState{ProjectScope: "  "})
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], placeholderScope)
}

func TestProposalWriter_StoresMarkdownAndDocument(t *testing.T) {
	gen := newStubGenerator()
	renderer := &stubRenderer{}
	in := entity.ProposalState{ClientName: "Acme", BusinessName: "Studio", ProjectType: "Web App", Pricing: "Basic: $100"}

	out, err := ProposalWriter(renderer)(context.Background(), gen, in)
	require.NoError(t, err)

	assert.Equal(t, proposalReply, out.ProposalMarkdown)
	assert.Equal(t, []byte("%PDF-stub\n"+proposalReply), out.ProposalPDF)

	require.Len(t, renderer.docs, 1)
	assert.Equal(t, entity.TitleFields{ClientName: "Acme", BusinessName: "Studio"}, renderer.docs[0].Title)

	require.Len(t, gen.prompts, 1)
	for _, section := range ProposalSections {
		assert.Contains(t, gen.prompts[0], section)
	}
	assert.Contains(t, gen.prompts[0], "Basic: $100")
}

func TestProposalWriter_DefaultClientName(t *testing.T) {
	gen := newStubGenerator()

	_, err := ProposalWriter(&stubRenderer{})(context.Background(), gen, entity.ProposalState{})
	require.NoError(t, err)

	assert.Contains(t, gen.prompts[0], "Client Name: Valued Client")
}

func TestProposalWriter_Errors(t *testing.T) {
	t.Run("generation error", func(t *testing.T) {
		gen := newStubGenerator()
		gen.replies[kindWriter] = reply{err: errUnavailable}

		_, err := ProposalWriter(&stubRenderer{})(context.Background(), gen, entity.ProposalState{})
		assert.ErrorIs(t, err, errUnavailable)
	})

	t.Run("empty reply", func(t *testing.T) {
		gen := newStubGenerator()
		gen.replies[kindWriter] = reply{text: " \n "}

		_, err := ProposalWriter(&stubRenderer{})(context.Background(), gen, entity.ProposalState{})
		assert.ErrorIs(t, err, entity.ErrGeneration)
		assert.ErrorIs(t, err, entity.ErrEmptyReply)
	})

	t.Run("render error", func(t *testing.T) {
		renderer := &stubRenderer{err: errors.New("font missing")}

		out, err := ProposalWriter(renderer)(context.Background(), newStubGenerator(), entity.ProposalState{ClientName: "Acme"})
		assert.ErrorIs(t, err, entity.ErrRender)
		assert.Empty(t, out.ProposalMarkdown)
	})
}
