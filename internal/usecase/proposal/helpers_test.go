package proposal

import (
	"context"
	"strings"
	"sync"

	"github.com/futig/proposal-backend/internal/entity"
)

const (
	analysisReply = "Sure, here is the analysis:\n```json\n" + `{
  "project_type": "Web App",
  "requirements": ["Login", "Catalog"],
  "duration": 6,
  "category": "E-commerce",
  "project_scope": "Catalog with login"
}` + "\n```"

	timelineReply = `{"estimated_timeline": 8, "justification": "Two phases", "pricing": [{"Basic": "$100"}, {"Pro": "$200"}]}`

	proposalReply = "## Executive Summary\n\nWe will build it."
)

type promptKind int

const (
	kindAnalysis promptKind = iota
	kindTimeline
	kindWriter
)

func kindOf(prompt string) promptKind {
	switch {
	case strings.Contains(prompt, "Executive Summary"):
		return kindWriter
	case strings.Contains(prompt, "estimated_timeline"):
		return kindTimeline
	default:
		return kindAnalysis
	}
}

type reply struct {
	text string
	err  error
}

// stubGenerator answers each stage prompt with a fixed reply and records
// what it was asked.
type stubGenerator struct {
	replies map[promptKind]reply
	prompts []string
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{replies: map[promptKind]reply{
		kindAnalysis: {text: analysisReply},
		kindTimeline: {text: timelineReply},
		kindWriter:   {text: proposalReply},
	}}
}

func (g *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	r := g.replies[kindOf(prompt)]
	return r.text, r.err
}

// stubConnector is a concurrency-safe LLMConnector counting calls per
// credential. The writer reply embeds the credential it was called with.
type stubConnector struct {
	mu          sync.Mutex
	calls       map[entity.Credential]int
	prompts     []string
	err         map[promptKind]error
	writerReply string
}

func newStubConnector() *stubConnector {
	return &stubConnector{
		calls: make(map[entity.Credential]int),
		err:   make(map[promptKind]error),
	}
}

func (c *stubConnector) Complete(_ context.Context, req *entity.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.calls[req.APIKey]++
	c.prompts = append(c.prompts, req.Prompt)
	c.mu.Unlock()

	kind := kindOf(req.Prompt)
	if err := c.err[kind]; err != nil {
		return "", err
	}

	switch kind {
	case kindWriter:
		if c.writerReply != "" {
			return c.writerReply, nil
		}
		return proposalReply + "\n\nkey=" + string(req.APIKey), nil
	case kindTimeline:
		return timelineReply, nil
	default:
		return analysisReply, nil
	}
}

func (c *stubConnector) callsFor(key entity.Credential) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[key]
}

type stubRenderer struct {
	mu   sync.Mutex
	docs []entity.ProposalDocument
	err  error
}

func (r *stubRenderer) Format(doc *entity.ProposalDocument) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = append(r.docs, *doc)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub\n" + doc.Markdown), nil
}

type panickingRenderer struct{}

func (panickingRenderer) Format(*entity.ProposalDocument) ([]byte, error) {
	panic("index out of range")
}
