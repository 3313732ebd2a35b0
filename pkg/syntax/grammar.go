package syntax

// maxIndent disables the indentation check of a markup run: any line break
// ends it.
const maxIndent = int(^uint(0) >> 1)

// markup parses a run of markup until stop reports true at nesting depth
// zero, or until a line break leaves the run's minimum indentation.
func markup(p *parser, atStart bool, minIndent int, stop func(*parser) bool) {
	m := p.marker()
	nesting := 0
	for !p.eof() {
		switch {
		case p.at(LeftBracket):
			nesting++
		case p.at(RightBracket) && nesting > 0:
			nesting--
		case stop(p):
			p.wrap(m, Markup)
			return
		}

		if p.newline() {
			atStart = true
			if minIndent > 0 && p.column(p.lx.pos) < minIndent {
				break
			}
			p.eat()
			continue
		}

		prev := p.prevEnd
		markupExpr(p, &atStart)
		if !p.progress(prev) {
			p.unexpected()
		}
	}
	p.wrap(m, Markup)
}

func markupExpr(p *parser, atStart *bool) {
	switch p.cur {
	case Space, Parbreak, LineComment, BlockComment:
		p.eat()
		return
	case Text, Linebreak, Escape, Shorthand, SmartQuote, Raw, Link, Label, Ref:
		p.eat()
	case Hash:
		embeddedCodeExpr(p)
	case Star:
		delimited(p, Star, Strong)
	case Underscore:
		delimited(p, Underscore, Emph)
	case HeadingMarker:
		if *atStart {
			heading(p)
		} else {
			p.eatAs(Text)
		}
	case ListMarker:
		if *atStart {
			listItem(p, ListMarker, ListItem)
		} else {
			p.eatAs(Text)
		}
	case EnumMarker:
		if *atStart {
			listItem(p, EnumMarker, EnumItem)
		} else {
			p.eatAs(Text)
		}
	case TermMarker:
		if *atStart {
			termItem(p)
		} else {
			p.eatAs(Text)
		}
	case Dollar:
		equation(p)
	case LeftBracket, RightBracket, Colon:
		p.eatAs(Text)
	}
	*atStart = false
}

func delimited(p *parser, delim, kind Kind) {
	m := p.marker()
	p.eat()
	markup(p, false, 0, func(p *parser) bool {
		return p.at(delim, Parbreak, RightBracket)
	})
	if !p.eatIf(delim) {
		p.expected()
	}
	p.wrap(m, kind)
}

func heading(p *parser) {
	m := p.marker()
	p.eat()
	whitespaceLine(p)
	markup(p, false, maxIndent, func(p *parser) bool {
		return p.at(RightBracket)
	})
	p.wrap(m, Heading)
}

func listItem(p *parser, marker, kind Kind) {
	m := p.marker()
	minIndent := p.column(p.curStart) + 1
	p.eatIf(marker)
	whitespaceLine(p)
	markup(p, false, minIndent, func(p *parser) bool {
		return p.at(RightBracket)
	})
	p.wrap(m, kind)
}

func termItem(p *parser) {
	m := p.marker()
	minIndent := p.column(p.curStart) + 1
	p.eat()
	whitespaceLine(p)
	markup(p, false, maxIndent, func(p *parser) bool {
		return p.at(Colon, RightBracket)
	})
	if !p.eatIf(Colon) {
		p.expected()
	}
	whitespaceLine(p)
	markup(p, false, minIndent, func(p *parser) bool {
		return p.at(RightBracket)
	})
	p.wrap(m, TermItem)
}

func whitespaceLine(p *parser) {
	for !p.newline() && p.cur.IsTrivia() {
		p.eat()
	}
}

func equation(p *parser) {
	m := p.marker()
	p.enter(modeMath)
	p.eat()
	math(p, func(p *parser) bool { return p.at(Dollar) })
	if !p.eatIf(Dollar) {
		p.expected()
	}
	p.exit()
	p.wrap(m, Equation)
}

func math(p *parser, stop func(*parser) bool) {
	m := p.marker()
	for !p.eof() && !stop(p) {
		prev := p.prevEnd
		mathExpr(p)
		if !p.progress(prev) {
			p.unexpected()
		}
	}
	p.wrap(m, Math)
}

func mathExpr(p *parser) {
	switch p.cur {
	case Hash:
		embeddedCodeExpr(p)
	case LeftParen, LeftBracket, LeftBrace:
		mathDelimited(p)
	default:
		p.eat()
	}
}

func isMathCloser(k Kind) bool {
	return k == RightParen || k == RightBracket || k == RightBrace
}

func mathDelimited(p *parser) {
	m := p.marker()
	p.eat()
	inner := p.marker()
	for !p.eof() && !p.at(Dollar) && !isMathCloser(p.cur) {
		prev := p.prevEnd
		mathExpr(p)
		if !p.progress(prev) {
			p.unexpected()
		}
	}
	p.wrap(inner, Math)
	if isMathCloser(p.cur) {
		p.eat()
	} else {
		p.expected()
	}
	p.wrap(m, MathDelimited)
}

// embeddedCodeExpr parses `#expr` inside markup or math. Only atomic
// expressions are allowed; a statement keyword parses up to the end of the
// line or a semicolon.
func embeddedCodeExpr(p *parser) {
	p.enterNewlineMode(newlineStop)
	p.enter(modeCode)
	p.eat()
	p.unskip()

	stmt := p.cur.isStmt()
	codeExprPrec(p, true, 0)
	if (stmt || p.directlyAt(Semicolon)) && p.at(Semicolon) {
		p.eat()
	}
	p.exit()
	p.exitNewlineMode()
}

func codeBlock(p *parser) {
	m := p.marker()
	p.enter(modeCode)
	p.enterNewlineMode(newlineContinue)
	p.eat()
	code(p, func(p *parser) bool {
		return p.at(RightBrace, RightBracket, RightParen)
	})
	if !p.eatIf(RightBrace) {
		p.expected()
	}
	p.exit()
	p.exitNewlineMode()
	p.wrap(m, CodeBlock)
}

func code(p *parser, stop func(*parser) bool) {
	m := p.marker()
	for !p.eof() && !stop(p) {
		p.enterNewlineMode(newlineContextual)
		atExpr := atCodeExpr(p)
		if atExpr {
			codeExpr(p)
			if !p.eof() && !stop(p) && !p.eatIf(Semicolon) {
				p.expected()
			}
		}
		p.exitNewlineMode()
		if !atExpr && !p.eof() {
			p.unexpected()
		}
	}
	p.wrap(m, Code)
}

func contentBlock(p *parser) {
	m := p.marker()
	p.enter(modeMarkup)
	p.eat()
	markup(p, true, 0, func(p *parser) bool { return p.at(RightBracket) })
	if !p.eatIf(RightBracket) {
		p.expected()
	}
	p.exit()
	p.wrap(m, ContentBlock)
}

func atCodeExpr(p *parser) bool {
	switch p.cur {
	case Ident, Underscore, LeftBrace, LeftBracket, LeftParen, Dollar,
		Let, Set, Show, Context, If, While, For, Import, Include, Break, Continue, Return,
		None, Auto, Int, Float, Bool, Numeric, Str, Label, Raw,
		Plus, Minus, Not:
		return true
	default:
		return false
	}
}

func codeExpr(p *parser) {
	codeExprPrec(p, false, 0)
}

func codeExprPrec(p *parser, atomic bool, minPrec int) {
	m := p.marker()
	if !atomic && p.at(Plus, Minus, Not) {
		prec := 7
		if p.at(Not) {
			prec = 3
		}
		p.eat()
		codeExprPrec(p, atomic, prec)
		p.wrap(m, Unary)
	} else {
		codePrimary(p, atomic)
	}

	for {
		if p.directlyAt(LeftParen) || p.directlyAt(LeftBracket) {
			args(p)
			p.wrap(m, FuncCall)
			continue
		}

		atField := p.directlyAt(Dot) && p.peekKind() == Ident
		if atomic && !atField {
			return
		}

		if p.eatIf(Dot) {
			if !p.eatIf(Ident) {
				p.expected()
			}
			p.wrap(m, FieldAccess)
			continue
		}

		prec, rightAssoc, ok := binaryPrec(p.cur)
		if !ok && minPrec < 4 && p.at(Not) && p.peekKind() == In {
			prec, ok = 4, true
		}
		if !ok || prec < minPrec {
			return
		}
		if !rightAssoc {
			prec++
		}
		if p.at(Not) {
			p.eat()
		}
		p.eat()
		codeExprPrec(p, false, prec)
		p.wrap(m, Binary)
	}
}

func binaryPrec(k Kind) (prec int, rightAssoc, ok bool) {
	switch k {
	case Star, Slash:
		return 6, false, true
	case Plus, Minus:
		return 5, false, true
	case EqEq, ExclEq, Lt, LtEq, Gt, GtEq, In:
		return 4, false, true
	case And:
		return 3, false, true
	case Or:
		return 2, false, true
	case Eq, PlusEq, HyphEq, StarEq, SlashEq:
		return 1, true, true
	default:
		return 0, false, false
	}
}

func codePrimary(p *parser, atomic bool) {
	m := p.marker()
	switch p.cur {
	case Ident:
		p.eat()
		if !atomic && p.at(Arrow) {
			p.wrap(m, Params)
			p.eat()
			codeExpr(p)
			p.wrap(m, Closure)
		}
	case Underscore:
		p.eat()
		if !atomic && p.at(Arrow) {
			p.wrap(m, Params)
			p.eat()
			codeExpr(p)
			p.wrap(m, Closure)
		}
	case LeftBrace:
		codeBlock(p)
	case LeftBracket:
		contentBlock(p)
	case LeftParen:
		withParen(p, atomic)
	case Dollar:
		equation(p)
	case Let:
		letBinding(p)
	case Set:
		setRule(p)
	case Show:
		showRule(p)
	case Context:
		p.eat()
		codeExpr(p)
		p.wrap(m, Contextual)
	case If:
		conditional(p)
	case While:
		p.eat()
		codeExpr(p)
		block(p)
		p.wrap(m, WhileLoop)
	case For:
		forLoop(p)
	case Import:
		moduleImport(p)
	case Include:
		p.eat()
		codeExpr(p)
		p.wrap(m, ModuleInclude)
	case Break:
		p.eat()
		p.wrap(m, LoopBreak)
	case Continue:
		p.eat()
		p.wrap(m, LoopContinue)
	case Return:
		p.eat()
		if atCodeExpr(p) {
			codeExpr(p)
		}
		p.wrap(m, FuncReturn)
	case None, Auto, Int, Float, Bool, Numeric, Str, Label, Raw:
		p.eat()
	default:
		p.expected()
	}
}

func block(p *parser) {
	switch p.cur {
	case LeftBracket:
		contentBlock(p)
	case LeftBrace:
		codeBlock(p)
	default:
		p.expected()
	}
}

func conditional(p *parser) {
	m := p.marker()
	p.eat()
	codeExpr(p)
	block(p)
	if p.eatIf(Else) {
		if p.at(If) {
			conditional(p)
		} else {
			block(p)
		}
	}
	p.wrap(m, Conditional)
}

func forLoop(p *parser) {
	m := p.marker()
	p.eat()
	pattern(p)
	if !p.eatIf(In) {
		p.expected()
	}
	codeExpr(p)
	block(p)
	p.wrap(m, ForLoop)
}

func letBinding(p *parser) {
	m := p.marker()
	p.eat()
	m2 := p.marker()
	closure, other := false, false
	if p.eatIf(Ident) {
		if p.directlyAt(LeftParen) {
			params(p)
			closure = true
		}
	} else {
		pattern(p)
		other = true
	}

	if closure || other {
		if p.expect(Eq) {
			codeExpr(p)
		}
	} else if p.eatIf(Eq) {
		codeExpr(p)
	}
	if closure {
		p.wrap(m2, Closure)
	}
	p.wrap(m, LetBinding)
}

func setRule(p *parser) {
	m := p.marker()
	p.eat()
	m2 := p.marker()
	if !p.eatIf(Ident) {
		p.expected()
	}
	for p.directlyAt(Dot) && p.peekKind() == Ident {
		p.eat()
		p.eat()
		p.wrap(m2, FieldAccess)
	}
	if p.at(LeftParen, LeftBracket) {
		args(p)
	} else {
		p.expected()
	}
	if p.eatIf(If) {
		codeExpr(p)
	}
	p.wrap(m, SetRule)
}

func showRule(p *parser) {
	m := p.marker()
	p.eat()
	if !p.at(Colon) {
		codeExpr(p)
	}
	if p.eatIf(Colon) {
		codeExpr(p)
	} else {
		p.expected()
	}
	p.wrap(m, ShowRule)
}

func moduleImport(p *parser) {
	m := p.marker()
	p.eat()
	codeExpr(p)
	if p.eatIf(As) && !p.eatIf(Ident) {
		p.expected()
	}
	if p.eatIf(Colon) {
		switch {
		case p.at(Star):
			p.eat()
		case p.at(LeftParen):
			importItems(p, true)
		default:
			importItems(p, false)
		}
	}
	p.wrap(m, ModuleImport)
}

func importItems(p *parser, parens bool) {
	m := p.marker()
	if parens {
		p.enterNewlineMode(newlineContinue)
		p.eat()
	}
	for !p.cur.isTerminator() {
		prev := p.prevEnd
		if p.eatIf(Ident) {
			for p.eatIf(Dot) {
				p.expect(Ident)
			}
			if p.eatIf(As) {
				p.expect(Ident)
			}
		}
		if !p.progress(prev) {
			if parens {
				p.unexpected()
				continue
			}
			break
		}
		if p.cur.isTerminator() || !p.eatIf(Comma) {
			break
		}
	}
	if parens {
		if !p.eatIf(RightParen) {
			p.expected()
		}
		p.wrap(m, ImportItems)
		p.exitNewlineMode()
		return
	}
	p.wrap(m, ImportItems)
}

func pattern(p *parser) {
	m := p.marker()
	switch p.cur {
	case LeftParen:
		kind := collection(p, false)
		if kind == Parenthesized {
			p.wrap(m, Parenthesized)
		} else {
			p.wrap(m, Destructuring)
		}
	case Underscore, Ident:
		p.eat()
	default:
		p.expected()
	}
}

func params(p *parser) {
	m := p.marker()
	collection(p, false)
	p.wrap(m, Params)
}

func args(p *parser) {
	m := p.marker()
	if p.at(LeftParen) {
		collection(p, false)
	}
	for p.directlyAt(LeftBracket) {
		contentBlock(p)
	}
	p.wrap(m, Args)
}

func withParen(p *parser, atomic bool) {
	m := p.marker()
	kind := collection(p, true)
	switch {
	case atomic:
	case p.at(Arrow):
		p.wrap(m, Params)
		p.eat()
		codeExpr(p)
		kind = Closure
	case p.at(Eq) && kind != Parenthesized && kind != Dict:
		p.wrap(m, Destructuring)
		p.eat()
		codeExpr(p)
		kind = DestructAssignment
	}
	p.wrap(m, kind)
}

// collection parses a parenthesized, comma separated list and reports
// whether it is an array, a dictionary or a parenthesized expression.
func collection(p *parser, keyed bool) Kind {
	p.enterNewlineMode(newlineContinue)
	p.eat()

	count := 0
	parenthesized := true
	kind := Array
	if keyed && p.at(Colon) && p.peekKind() == RightParen {
		p.eat()
		kind = Dict
		parenthesized = false
	}

	for !p.cur.isTerminator() {
		prev := p.prevEnd
		switch item(p, keyed) {
		case Spread:
			parenthesized = false
		case Named, Keyed:
			kind = Dict
			parenthesized = false
		}
		if !p.progress(prev) {
			p.unexpected()
			continue
		}
		count++
		if p.cur.isTerminator() {
			break
		}
		if p.expect(Comma) {
			parenthesized = false
		}
	}

	if !p.eatIf(RightParen) {
		p.expected()
	}
	p.exitNewlineMode()

	if parenthesized && count == 1 {
		return Parenthesized
	}
	return kind
}

func item(p *parser, keyed bool) Kind {
	m := p.marker()
	if p.eatIf(Dots) {
		if atCodeExpr(p) {
			codeExpr(p)
		}
		p.wrap(m, Spread)
		return Spread
	}

	codeExpr(p)
	if !p.eatIf(Colon) {
		return Ident
	}
	codeExpr(p)

	kind := Named
	if first := p.nodes[m]; keyed && first.kind == Str {
		kind = Keyed
	}
	p.wrap(m, kind)
	return kind
}
