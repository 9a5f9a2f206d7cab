package html

import "strconv"

type TokenType int

const (
	TokenText TokenType = iota
	TokenTag
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenTag:
		return "tag"
	}
	return "unknown"
}

func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Token is either literal text or the raw contents of a tag. Tag holds
// everything between the angle brackets, so "p class=x" is a distinct tag
// from "p".
type Token struct {
	Type TokenType `json:"type" yaml:"type"`
	Text string    `json:"text,omitempty" yaml:"text,omitempty"`
	Tag  string    `json:"tag,omitempty" yaml:"tag,omitempty"`
}

func Text(s string) Token { return Token{Type: TokenText, Text: s} }
func Tag(s string) Token  { return Token{Type: TokenTag, Tag: s} }

func (t Token) String() string {
	if t.Type == TokenTag {
		return "<" + t.Tag + ">"
	}
	return strconv.Quote(t.Text)
}

// Tokenizer splits markup into text and tag tokens one at a time.
// There is no entity decoding and no attribute parsing.
type Tokenizer struct {
	input string
	pos   int
	start int // start of the pending buffer
	inTag bool
}

func NewTokenizer(body string) *Tokenizer {
	return &Tokenizer{input: body}
}

// Next returns the next token, or false once the input is exhausted.
// A tag left open at end of input produces nothing.
func (t *Tokenizer) Next() (Token, bool) {
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		t.pos++
		switch c {
		case '<':
			t.inTag = true
			buf := t.input[t.start : t.pos-1]
			t.start = t.pos
			if buf != "" {
				return Text(buf), true
			}
		case '>':
			t.inTag = false
			buf := t.input[t.start : t.pos-1]
			t.start = t.pos
			return Tag(buf), true
		}
	}
	if !t.inTag && t.start < len(t.input) {
		buf := t.input[t.start:]
		t.start = len(t.input)
		return Text(buf), true
	}
	return Token{}, false
}

// Tokenize returns every token in body.
func Tokenize(body string) []Token {
	var out []Token
	tz := NewTokenizer(body)
	for {
		tok, ok := tz.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}
