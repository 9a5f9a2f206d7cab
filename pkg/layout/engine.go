package layout

import (
	"strings"

	"wayfarer/pkg/html"
	"wayfarer/pkg/text"
)

type lineItem struct {
	x       float64
	word    string
	font    text.FontDescriptor
	metrics text.Metrics
}

// Engine lays words out left to right, wrapping at the viewport edge and
// aligning each line on a common baseline.
type Engine struct {
	fonts FontSource
	cfg   Config

	style   StyleState
	cursorX float64
	cursorY float64
	line    []lineItem
	runs    []Run
}

func NewEngine(fonts FontSource, cfg Config) *Engine {
	return &Engine{
		fonts:   fonts,
		cfg:     cfg,
		style:   StyleState{Size: cfg.BaseSize},
		cursorX: cfg.Margin,
		cursorY: cfg.Top,
	}
}

// Layout feeds every token through the engine and returns the finished runs.
func (e *Engine) Layout(tokens []html.Token) []Run {
	for _, tok := range tokens {
		e.Token(tok)
	}
	e.Flush()
	return e.runs
}

// LayoutDocument lays out a parsed tree by replaying it as open and close
// tags around each element's children.
func (e *Engine) LayoutDocument(doc *html.Document) []Run {
	e.node(doc, doc.Root())
	e.Flush()
	return e.runs
}

func (e *Engine) node(doc *html.Document, id html.NodeID) {
	n := doc.Node(id)
	if n.Type == html.TextNode {
		e.Token(html.Text(n.Text))
		return
	}
	e.Token(html.Tag(n.TagName))
	for _, child := range n.Children {
		e.node(doc, child)
	}
	name, _, _ := strings.Cut(n.TagName, " ")
	e.Token(html.Tag("/" + name))
}

// Token processes a single token.
func (e *Engine) Token(tok html.Token) {
	if tok.Type == html.TokenText {
		for _, w := range strings.Fields(tok.Text) {
			e.word(w)
		}
		return
	}
	if e.style.Apply(tok.Tag) {
		return
	}
	switch tok.Tag {
	case "br":
		e.Flush()
	case "/p":
		e.Flush()
		e.cursorY += e.cfg.ParagraphGap
	}
}

func (e *Engine) word(w string) {
	desc := e.style.Font()
	m := e.fonts.Metrics(desc)
	width := m.Measure(w)
	if e.cursorX+width > e.cfg.Width-e.cfg.Margin {
		e.Flush()
	}
	e.line = append(e.line, lineItem{x: e.cursorX, word: w, font: desc, metrics: m})
	e.cursorX += width + m.Measure(" ")
}

// Flush commits the pending line. Every word on it shares one baseline set
// by the tallest ascent; the next line starts below the deepest descent.
func (e *Engine) Flush() {
	if len(e.line) == 0 {
		return
	}
	var maxAscent, maxDescent float64
	for _, item := range e.line {
		maxAscent = max(maxAscent, item.metrics.Ascent())
		maxDescent = max(maxDescent, item.metrics.Descent())
	}
	baseline := e.cursorY + e.cfg.Leading*maxAscent
	for _, item := range e.line {
		e.runs = append(e.runs, Run{
			X:    item.x,
			Y:    baseline - item.metrics.Ascent(),
			Word: item.word,
			Font: item.font,
		})
	}
	e.cursorY = baseline + e.cfg.Leading*maxDescent
	e.cursorX = e.cfg.Margin
	e.line = e.line[:0]
}

// Runs returns the runs emitted so far.
func (e *Engine) Runs() []Run {
	return e.runs
}

// Style returns the current style state.
func (e *Engine) Style() StyleState {
	return e.style
}

// Height returns the y position below the last flushed line.
func (e *Engine) Height() float64 {
	return e.cursorY
}

// Layout is a shorthand for a fresh engine over tokens.
func Layout(fonts FontSource, cfg Config, tokens []html.Token) []Run {
	return NewEngine(fonts, cfg).Layout(tokens)
}
