package formatter

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

type spanStyle uint8

const (
	styleBold spanStyle = 1 << iota
	styleItalic
	styleCode
)

// span is a run of inline text sharing one style.
type span struct {
	Text  string
	Style spanStyle
}

type blockKind int

const (
	blockHeading blockKind = iota
	blockParagraph
	blockListItem
	blockCode
	blockRule
	blockTable
)

// block is a flattened markdown block, ready for a paged writer.
type block struct {
	Kind   blockKind
	Level  int    // heading level, or list nesting depth starting at 1
	Marker string // list marker of the first paragraph of an item
	Quote  bool
	Spans  []span
	Lines  []string   // code lines
	Rows   [][]string // table rows, header first
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// parseBlocks flattens markdown into the block sequence the PDF and DOCX
// writers understand. Raw HTML is dropped.
func parseBlocks(src string) []block {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	p := &blockParser{source: source}
	p.walkBlocks(doc, 0, false)
	return p.blocks
}

type blockParser struct {
	source []byte
	blocks []block
}

func (p *blockParser) walkBlocks(n ast.Node, depth int, quote bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading:
			p.blocks = append(p.blocks, block{Kind: blockHeading, Level: node.Level, Spans: p.inline(node, 0)})
		case *ast.Paragraph, *ast.TextBlock:
			p.blocks = append(p.blocks, block{Kind: blockParagraph, Level: depth, Quote: quote, Spans: p.inline(node, 0)})
		case *ast.List:
			p.walkList(node, depth+1, quote)
		case *ast.Blockquote:
			p.walkBlocks(node, depth, true)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			p.blocks = append(p.blocks, block{Kind: blockCode, Lines: p.lines(node)})
		case *ast.ThematicBreak:
			p.blocks = append(p.blocks, block{Kind: blockRule})
		case *east.Table:
			p.blocks = append(p.blocks, block{Kind: blockTable, Rows: p.table(node)})
		case *ast.HTMLBlock:
		default:
			p.walkBlocks(c, depth, quote)
		}
	}
}

func (p *blockParser) walkList(list *ast.List, depth int, quote bool) {
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d.", number)
			number++
		}

		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				b := block{Kind: blockListItem, Level: depth, Quote: quote, Spans: p.inline(node, 0)}
				if first {
					b.Marker = marker
					first = false
				}
				p.blocks = append(p.blocks, b)
			case *ast.List:
				p.walkList(node, depth+1, quote)
			case *ast.FencedCodeBlock, *ast.CodeBlock:
				p.blocks = append(p.blocks, block{Kind: blockCode, Lines: p.lines(node)})
			}
		}

		if first {
			p.blocks = append(p.blocks, block{Kind: blockListItem, Level: depth, Quote: quote, Marker: marker})
		}
	}
}

func (p *blockParser) inline(n ast.Node, style spanStyle) []span {
	var spans []span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			spans = append(spans, span{Text: string(node.Segment.Value(p.source)), Style: style})
			if node.HardLineBreak() {
				spans = append(spans, span{Text: "\n", Style: style})
			} else if node.SoftLineBreak() {
				spans = append(spans, span{Text: " ", Style: style})
			}
		case *ast.String:
			spans = append(spans, span{Text: string(node.Value), Style: style})
		case *ast.Emphasis:
			next := style | styleItalic
			if node.Level >= 2 {
				next = style | styleBold
			}
			spans = append(spans, p.inline(node, next)...)
		case *ast.CodeSpan:
			spans = append(spans, p.inline(node, style|styleCode)...)
		case *ast.AutoLink:
			spans = append(spans, span{Text: string(node.URL(p.source)), Style: style})
		case *ast.RawHTML:
		default:
			spans = append(spans, p.inline(c, style)...)
		}
	}
	return spans
}

func (p *blockParser) lines(n ast.Node) []string {
	segments := n.Lines()
	out := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(p.source)), "\r\n"))
	}
	return out
}

func (p *blockParser) table(t *east.Table) [][]string {
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var row []string
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			row = append(row, plainText(p.inline(cell, 0)))
		}
		rows = append(rows, row)
	}
	return rows
}

func plainText(spans []span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return strings.TrimSpace(sb.String())
}
