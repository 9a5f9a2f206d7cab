package html

import (
	"errors"
	"strings"
)

// ErrNoElements is returned when the input contains no element to act as root.
var ErrNoElements = errors.New("document has no elements")

// Parser builds a node tree from markup. Any tag may nest in any other;
// a closing tag pops whatever is open regardless of its name.
type Parser struct {
	tokenizer  *Tokenizer
	doc        *Document
	unfinished []NodeID
}

func NewParser(body string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(body),
		doc:       &Document{root: NoParent},
	}
}

func (p *Parser) Parse() (*Document, error) {
	for {
		tok, ok := p.tokenizer.Next()
		if !ok {
			break
		}
		if tok.Type == TokenText {
			p.addText(tok.Text)
		} else {
			p.addTag(tok.Tag)
		}
	}
	return p.finish()
}

func (p *Parser) addText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	// Nothing to attach to before the first element.
	if len(p.unfinished) == 0 {
		return
	}
	parent := p.unfinished[len(p.unfinished)-1]
	id := p.doc.add(Node{Type: TextNode, Text: text, Parent: parent})
	p.doc.appendChild(parent, id)
}

func (p *Parser) addTag(tag string) {
	// Comments and doctypes.
	if strings.HasPrefix(tag, "!") {
		return
	}
	if strings.HasPrefix(tag, "/") {
		if len(p.unfinished) <= 1 {
			return
		}
		p.closeTop()
		return
	}
	parent := NoParent
	if len(p.unfinished) > 0 {
		parent = p.unfinished[len(p.unfinished)-1]
	}
	id := p.doc.add(Node{Type: ElementNode, TagName: tag, Parent: parent})
	p.unfinished = append(p.unfinished, id)
}

// closeTop pops the innermost open element and attaches it to its parent.
func (p *Parser) closeTop() {
	node := p.unfinished[len(p.unfinished)-1]
	p.unfinished = p.unfinished[:len(p.unfinished)-1]
	p.doc.appendChild(p.unfinished[len(p.unfinished)-1], node)
}

// finish closes anything still open, innermost first.
func (p *Parser) finish() (*Document, error) {
	if len(p.unfinished) == 0 {
		return nil, ErrNoElements
	}
	for len(p.unfinished) > 1 {
		p.closeTop()
	}
	p.doc.root = p.unfinished[0]
	p.unfinished = nil
	return p.doc, nil
}

func Parse(body string) (*Document, error) {
	return NewParser(body).Parse()
}
