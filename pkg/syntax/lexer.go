package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexMode selects the tokenization rules.
type lexMode uint8

const (
	modeMarkup lexMode = iota
	modeCode
	modeMath
)

// lexer splits source text into leaf tokens. It never fails: anything it does
// not understand becomes an Error token, so every byte of the source ends up
// in exactly one token.
type lexer struct {
	src  string
	pos  int
	mode lexMode

	// newline is set when the last token was whitespace containing a line
	// break.
	newline bool
}

func newLexer(src string, mode lexMode) *lexer {
	return &lexer{src: src, mode: mode}
}

func (l *lexer) done() bool {
	return l.pos >= len(l.src)
}

// peek returns the rune at the cursor, or -1 at the end of input.
func (l *lexer) peek() rune {
	return l.peekAt(l.pos)
}

func (l *lexer) peekAt(idx int) rune {
	if idx >= len(l.src) || idx < 0 {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[idx:])
	return r
}

// peekNext returns the rune after the one at the cursor.
func (l *lexer) peekNext() rune {
	if l.done() {
		return -1
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return l.peekAt(l.pos + size)
}

// before returns the rune ending at byte index idx, or -1.
func (l *lexer) before(idx int) rune {
	if idx <= 0 {
		return -1
	}
	r, _ := utf8.DecodeLastRuneInString(l.src[:idx])
	return r
}

func (l *lexer) bump() rune {
	if l.done() {
		return -1
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return r
}

func (l *lexer) at(s string) bool {
	return strings.HasPrefix(l.src[l.pos:], s)
}

func (l *lexer) eatIf(s string) bool {
	if l.at(s) {
		l.pos += len(s)
		return true
	}
	return false
}

func (l *lexer) eatWhile(pred func(rune) bool) {
	for !l.done() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !pred(r) {
			return
		}
		l.pos += size
	}
}

// next lexes one token and returns its kind. The token text is the source
// between the cursor before and after the call.
func (l *lexer) next() Kind {
	l.newline = false
	if l.done() {
		return end
	}

	start := l.pos
	c := l.bump()
	switch {
	case unicode.IsSpace(c):
		return l.whitespace(c)
	case c == '/' && l.eatIf("/"):
		l.eatWhile(func(r rune) bool { return r != '\n' && r != '\r' })
		return LineComment
	case c == '/' && l.eatIf("*"):
		l.blockComment()
		return BlockComment
	}

	switch l.mode {
	case modeMarkup:
		return l.markup(start, c)
	case modeMath:
		return l.math(start, c)
	default:
		return l.code(start, c)
	}
}

func (l *lexer) whitespace(first rune) Kind {
	newlines := 0
	prev := first
	if first == '\n' || first == '\r' {
		newlines++
	}
	for !l.done() {
		r := l.peek()
		if !unicode.IsSpace(r) {
			break
		}
		l.bump()
		switch {
		case r == '\n' && prev == '\r':
		case r == '\n' || r == '\r':
			newlines++
		}
		prev = r
	}

	l.newline = newlines > 0
	if l.mode == modeMarkup && newlines >= 2 {
		return Parbreak
	}
	return Space
}

func (l *lexer) blockComment() {
	depth := 1
	for depth > 0 && !l.done() {
		switch {
		case l.eatIf("/*"):
			depth++
		case l.eatIf("*/"):
			depth--
		default:
			l.bump()
		}
	}
}

// spaceOrEnd reports whether a marker ends here.
func (l *lexer) spaceOrEnd() bool {
	return l.done() || unicode.IsSpace(l.peek()) || l.at("//") || l.at("/*")
}

func (l *lexer) markup(start int, c rune) Kind {
	switch c {
	case '\\':
		return l.backslash()
	case '`':
		return l.raw()
	case 'h':
		if l.at("ttp://") || l.at("ttps://") {
			l.link()
			return Link
		}
	case '<':
		if l.label() {
			return Label
		}
	case '@':
		if isIDStart(l.peek()) {
			l.ref()
			return Ref
		}
	case '#':
		if l.atEmbeddedExpr() {
			return Hash
		}
	case '$':
		return Dollar
	case '[':
		return LeftBracket
	case ']':
		return RightBracket
	case '\'', '"':
		return SmartQuote
	case '~':
		return Shorthand
	case '.':
		if l.eatIf("..") {
			return Shorthand
		}
	case '-':
		if l.eatIf("--") || l.eatIf("-") || l.eatIf("?") || isDigit(l.peek()) {
			return Shorthand
		}
		if l.spaceOrEnd() {
			return ListMarker
		}
	case '*':
		if !l.inWord(start) {
			return Star
		}
	case '_':
		if !l.inWord(start) {
			return Underscore
		}
	case '=':
		l.eatWhile(func(r rune) bool { return r == '=' })
		if l.spaceOrEnd() {
			return HeadingMarker
		}
		l.pos = start + 1
	case '+':
		if l.spaceOrEnd() {
			return EnumMarker
		}
	case '/':
		if l.spaceOrEnd() {
			return TermMarker
		}
	case ':':
		return Colon
	}

	if isDigit(c) {
		l.eatWhile(isDigit)
		if l.eatIf(".") && l.spaceOrEnd() {
			return EnumMarker
		}
		l.pos = start + 1
	}

	l.text()
	return Text
}

// text continues a text token until the next character that could start
// something else.
func (l *lexer) text() {
	for !l.done() {
		r := l.peek()
		if !isMarkupSpecial(r) {
			l.bump()
			continue
		}
		next := l.peekNext()
		switch {
		case r == '/' && next != '/' && next != '*':
		case r == '-' && next != '-' && next != '?':
		case r == '.' && !strings.HasPrefix(l.src[l.pos+1:], ".."):
		case r == 'h' && !strings.HasPrefix(l.src[l.pos+1:], "ttp://") && !strings.HasPrefix(l.src[l.pos+1:], "ttps://"):
		case r == '@' && !isIDStart(next):
		default:
			return
		}
		l.bump()
	}
}

func isMarkupSpecial(r rune) bool {
	switch r {
	case '\\', '/', '[', ']', '~', '-', '.', '\'', '"', '*', '_', ':', 'h', '`', '$', '<', '@', '#':
		return true
	default:
		return unicode.IsSpace(r)
	}
}

func (l *lexer) inWord(start int) bool {
	prev := l.before(start)
	next := l.peek()
	return isAlnum(prev) && isAlnum(next)
}

func (l *lexer) backslash() Kind {
	if l.done() || unicode.IsSpace(l.peek()) {
		return Linebreak
	}
	if l.eatIf("u{") {
		l.eatWhile(func(r rune) bool { return r != '}' && !unicode.IsSpace(r) })
		l.eatIf("}")
		return Escape
	}
	l.bump()
	return Escape
}

func (l *lexer) raw() Kind {
	backticks := 1
	for l.eatIf("`") {
		backticks++
	}
	if backticks == 2 {
		return Raw
	}

	found := 0
	for found < backticks && !l.done() {
		if l.bump() == '`' {
			found++
		} else {
			found = 0
		}
	}
	if found != backticks {
		return Error
	}
	return Raw
}

// link consumes the rest of a URL. Trailing punctuation that more likely
// belongs to the sentence is left out.
func (l *lexer) link() {
	var brackets []rune
	for !l.done() {
		r := l.peek()
		ok := false
		switch {
		case isAlnum(r) && r < utf8.RuneSelf:
			ok = true
		case strings.ContainsRune("!#$%&*+,-./:;=?@_~'", r):
			ok = true
		case r == '[' || r == '(':
			brackets = append(brackets, r)
			ok = true
		case r == ']' || r == ')':
			want := '['
			if r == ')' {
				want = '('
			}
			if n := len(brackets); n > 0 && brackets[n-1] == want {
				brackets = brackets[:n-1]
				ok = true
			}
		}
		if !ok {
			break
		}
		l.bump()
	}
	for l.pos > 0 && strings.ContainsRune("!,.:;?'", l.before(l.pos)) {
		l.pos--
	}
}

// label consumes `<name>` after the opening angle bracket. It leaves the
// cursor untouched and reports false when no label follows.
func (l *lexer) label() bool {
	save := l.pos
	l.eatWhile(isLabelChar)
	if l.pos > save && l.eatIf(">") {
		return true
	}
	l.pos = save
	return false
}

func (l *lexer) ref() {
	l.eatWhile(isLabelChar)
	for strings.ContainsRune(".:", l.before(l.pos)) {
		l.pos--
	}
}

// atEmbeddedExpr reports whether a hash starts an embedded code expression.
func (l *lexer) atEmbeddedExpr() bool {
	r := l.peek()
	return isIDStart(r) || isDigit(r) || strings.ContainsRune("{[(\"$", r)
}

func (l *lexer) code(start int, c rune) Kind {
	switch c {
	case '`':
		return l.raw()
	case '<':
		if l.label() {
			return Label
		}
		if l.eatIf("=") {
			return LtEq
		}
		return Lt
	case '>':
		if l.eatIf("=") {
			return GtEq
		}
		return Gt
	case '.':
		if isDigit(l.peek()) {
			return l.number(c)
		}
		if l.eatIf(".") {
			return Dots
		}
		return Dot
	case '"':
		return l.str()
	case '$':
		return Dollar
	case '{':
		return LeftBrace
	case '}':
		return RightBrace
	case '[':
		return LeftBracket
	case ']':
		return RightBracket
	case '(':
		return LeftParen
	case ')':
		return RightParen
	case ',':
		return Comma
	case ';':
		return Semicolon
	case ':':
		return Colon
	case '=':
		if l.eatIf("=") {
			return EqEq
		}
		if l.eatIf(">") {
			return Arrow
		}
		return Eq
	case '!':
		if l.eatIf("=") {
			return ExclEq
		}
	case '+':
		if l.eatIf("=") {
			return PlusEq
		}
		return Plus
	case '-':
		if l.eatIf("=") {
			return HyphEq
		}
		return Minus
	case '*':
		if l.eatIf("=") {
			return StarEq
		}
		return Star
	case '/':
		if l.eatIf("=") {
			return SlashEq
		}
		return Slash
	}

	if isDigit(c) {
		return l.number(c)
	}
	if isIDStart(c) {
		return l.ident(start)
	}
	return Error
}

func (l *lexer) ident(start int) Kind {
	l.eatWhile(isIDContinue)
	word := l.src[start:l.pos]
	if word == "_" {
		return Underscore
	}
	if kind, ok := keywords[word]; ok {
		return kind
	}
	return Ident
}

var keywords = map[string]Kind{
	"none":     None,
	"auto":     Auto,
	"true":     Bool,
	"false":    Bool,
	"not":      Not,
	"and":      And,
	"or":       Or,
	"let":      Let,
	"set":      Set,
	"show":     Show,
	"context":  Context,
	"if":       If,
	"else":     Else,
	"for":      For,
	"in":       In,
	"while":    While,
	"break":    Break,
	"continue": Continue,
	"return":   Return,
	"import":   Import,
	"include":  Include,
	"as":       As,
}

func (l *lexer) number(first rune) Kind {
	if first == '0' && (l.eatIf("x") || l.eatIf("o") || l.eatIf("b")) {
		l.eatWhile(isHexDigit)
		return Int
	}

	float := first == '.'
	l.eatWhile(isDigit)
	if !float && l.peek() == '.' && isDigit(l.peekNext()) {
		l.bump()
		l.eatWhile(isDigit)
		float = true
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		next := l.peekNext()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(l.pos+2))) {
			l.bump()
			l.bump()
			l.eatWhile(isDigit)
			float = true
		}
	}

	if l.eatIf("%") {
		return Numeric
	}
	if r := l.peek(); r < utf8.RuneSelf && unicode.IsLetter(r) {
		l.eatWhile(func(r rune) bool { return r < utf8.RuneSelf && unicode.IsLetter(r) })
		return Numeric
	}
	if float {
		return Float
	}
	return Int
}

func (l *lexer) str() Kind {
	for !l.done() {
		switch l.bump() {
		case '\\':
			l.bump()
		case '"':
			return Str
		}
	}
	return Error
}

func (l *lexer) math(start int, c rune) Kind {
	switch c {
	case '\\':
		return l.backslash()
	case '"':
		return l.str()
	case '$':
		return Dollar
	case '#':
		if l.atEmbeddedExpr() {
			return Hash
		}
	case '&':
		return MathAlignPoint
	case '(':
		return LeftParen
	case ')':
		return RightParen
	case '[':
		if !l.at("|") {
			return LeftBracket
		}
	case ']':
		return RightBracket
	case '{':
		return LeftBrace
	case '}':
		return RightBrace
	case ',':
		return Comma
	case ';':
		return Semicolon
	}

	for _, sh := range mathShorthands {
		if strings.HasPrefix(l.src[start:], sh) {
			l.pos = start + len(sh)
			return Shorthand
		}
	}

	if isMathIDChar(c) {
		l.eatWhile(isMathIDChar)
		if utf8.RuneCountInString(l.src[start:l.pos]) == 1 {
			return Text
		}
		for l.peek() == '.' && isMathIDChar(l.peekNext()) {
			l.bump()
			l.eatWhile(isMathIDChar)
		}
		return MathIdent
	}

	if isDigit(c) {
		l.eatWhile(isDigit)
		if l.peek() == '.' && isDigit(l.peekNext()) {
			l.bump()
			l.eatWhile(isDigit)
		}
	}
	return Text
}

// mathShorthands is ordered longest first so that prefixes never shadow a
// longer match.
var mathShorthands = []string{
	"<==>", "<-->", "|=>", "|->", "==>", "-->", "<==", "<--", "<=>", "<->",
	"...", "::=", ":=", "=:", "->", "=>", "<=", ">=", "!=", "<-", "<<", ">>",
	"[|", "|]", "||", "~>", "<~",
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlnum(r rune) bool {
	return r >= 0 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isIDStart(r rune) bool {
	return r == '_' || (r >= 0 && unicode.IsLetter(r))
}

func isIDContinue(r rune) bool {
	return isIDStart(r) || unicode.IsDigit(r) || r == '-'
}

func isMathIDChar(r rune) bool {
	return r >= 0 && unicode.IsLetter(r)
}

func isLabelChar(r rune) bool {
	return isAlnum(r) || r == '_' || r == '-' || r == ':' || r == '.'
}
