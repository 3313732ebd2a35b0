package syntax

import (
	"slices"
	"strings"
)

// green is a node under construction. Leaves carry their text; inner nodes
// carry children. The finished tree is flattened into an arena by build.
type green struct {
	kind     Kind
	text     string
	children []*green
}

func (g *green) isTrivia() bool {
	return len(g.children) == 0 && g.kind.IsTrivia()
}

// newlineMode controls whether a line break ends an expression in code mode.
type newlineMode uint8

const (
	// newlineStop ends the expression at any line break.
	newlineStop newlineMode = iota
	// newlineContextual ends it unless the next line continues with `else` or `.`.
	newlineContextual
	// newlineContinue ignores line breaks.
	newlineContinue
)

type parser struct {
	lx       *lexer
	prevEnd  int
	curStart int
	cur      Kind
	nodes    []*green
	modes    []lexMode
	nlModes  []newlineMode
}

func newParser(src string, mode lexMode) *parser {
	p := &parser{lx: newLexer(src, mode)}
	p.lex()
	p.skip()
	return p
}

func (p *parser) finish() []*green {
	return p.nodes
}

func (p *parser) text() string {
	return p.lx.src[p.curStart:p.lx.pos]
}

func (p *parser) eof() bool {
	return p.cur == end
}

func (p *parser) at(kinds ...Kind) bool {
	for _, k := range kinds {
		if p.cur == k {
			return true
		}
	}
	return false
}

// directlyAt reports whether the current token is of the kind and touches
// the previous one.
func (p *parser) directlyAt(kind Kind) bool {
	return p.cur == kind && p.prevEnd == p.curStart
}

func (p *parser) marker() int {
	return len(p.nodes)
}

// newline reports whether the current token is whitespace with a line break.
func (p *parser) newline() bool {
	return p.lx.newline
}

func (p *parser) column(idx int) int {
	line := p.lx.src[:idx]
	if i := strings.LastIndexAny(line, "\n\r"); i >= 0 {
		line = line[i+1:]
	}
	return len([]rune(line))
}

func (p *parser) progress(prev int) bool {
	return p.prevEnd > prev
}

func (p *parser) save() {
	p.saveAs(p.cur)
}

func (p *parser) saveAs(kind Kind) {
	if p.cur == end {
		return
	}
	p.nodes = append(p.nodes, &green{kind: kind, text: p.text()})
	if p.lx.mode == modeMarkup || !kind.IsTrivia() {
		p.prevEnd = p.lx.pos
	}
}

func (p *parser) lex() {
	p.curStart = p.lx.pos
	p.cur = p.lx.next()
	if p.lx.mode != modeCode || !p.lx.newline || len(p.nlModes) == 0 {
		return
	}
	switch p.nlModes[len(p.nlModes)-1] {
	case newlineStop:
		p.cur = end
	case newlineContextual:
		ahead := *p.lx
		if next := ahead.next(); next != Else && next != Dot {
			p.cur = end
		}
	case newlineContinue:
	}
}

func (p *parser) skip() {
	if p.lx.mode == modeMarkup {
		return
	}
	for p.cur.IsTrivia() {
		p.save()
		p.lex()
	}
}

// unskip moves trailing trivia out of the node list and back into the token
// stream so that a following wrap does not swallow it.
func (p *parser) unskip() {
	if p.lx.mode == modeMarkup || p.prevEnd == p.curStart {
		return
	}
	for n := len(p.nodes); n > 0 && p.nodes[n-1].isTrivia(); n = len(p.nodes) {
		p.nodes = p.nodes[:n-1]
	}
	p.lx.pos = p.prevEnd
	p.lex()
}

func (p *parser) eat() {
	p.save()
	p.lex()
	p.skip()
}

func (p *parser) eatAs(kind Kind) {
	p.saveAs(kind)
	p.lex()
	p.skip()
}

func (p *parser) eatIf(kind Kind) bool {
	if p.cur == kind {
		p.eat()
		return true
	}
	return false
}

func (p *parser) expect(kind Kind) bool {
	if p.eatIf(kind) {
		return true
	}
	p.expected()
	return false
}

// expected records a missing token as an empty error node placed before any
// trailing trivia, so that a later unskip does not lex that trivia twice.
func (p *parser) expected() {
	i := len(p.nodes)
	if p.lx.mode != modeMarkup {
		for i > 0 && p.nodes[i-1].isTrivia() {
			i--
		}
	}
	p.nodes = slices.Insert(p.nodes, i, &green{kind: Error})
}

// unexpected turns the current token into an error node.
func (p *parser) unexpected() {
	if p.eof() {
		return
	}
	p.eatAs(Error)
}

func (p *parser) wrap(from int, kind Kind) {
	p.unskip()
	p.wrapSkipless(from, kind)
	p.skip()
}

func (p *parser) wrapSkipless(from int, kind Kind) {
	to := len(p.nodes)
	from = min(from, to)
	children := make([]*green, to-from)
	copy(children, p.nodes[from:to])
	p.nodes = append(p.nodes[:from], &green{kind: kind, children: children})
}

func (p *parser) enter(mode lexMode) {
	p.modes = append(p.modes, p.lx.mode)
	p.lx.mode = mode
}

func (p *parser) exit() {
	mode := p.modes[len(p.modes)-1]
	p.modes = p.modes[:len(p.modes)-1]
	if mode != p.lx.mode {
		p.unskip()
		p.lx.mode = mode
		p.lx.pos = p.curStart
		p.lex()
		p.skip()
	}
}

func (p *parser) enterNewlineMode(mode newlineMode) {
	p.nlModes = append(p.nlModes, mode)
}

func (p *parser) exitNewlineMode() {
	p.unskip()
	p.nlModes = p.nlModes[:len(p.nlModes)-1]
	p.lx.pos = p.prevEnd
	p.lex()
	p.skip()
}

// peekKind lexes the token after the current one without consuming anything.
func (p *parser) peekKind() Kind {
	ahead := *p.lx
	return ahead.next()
}
