package syntax

import "strconv"

// Kind identifies the type of a syntax node.
//
// The set is closed: the formatter maps every value to exactly one rendering
// rule, so adding a kind requires adding a rule.
type Kind uint16

// Markup kinds.
const (
	// Error is an unparseable span, kept verbatim.
	Error Kind = iota

	Markup
	Text
	Space
	Parbreak
	Linebreak
	Escape
	Shorthand
	SmartQuote
	Strong
	Emph
	Raw
	Link
	Label
	Ref
	Heading
	HeadingMarker
	ListItem
	ListMarker
	EnumItem
	EnumMarker
	TermItem
	TermMarker
)

// Math kinds.
const (
	Equation Kind = iota + TermMarker + 1
	Math
	MathIdent
	MathAlignPoint
	MathDelimited
)

// Punctuation kinds.
const (
	Hash Kind = iota + MathDelimited + 1
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	LeftParen
	RightParen
	Comma
	Semicolon
	Colon
	Star
	Underscore
	Dollar
	Plus
	Minus
	Slash
	Dot
	Dots
	Eq
	EqEq
	ExclEq
	Lt
	LtEq
	Gt
	GtEq
	PlusEq
	HyphEq
	StarEq
	SlashEq
	Arrow
)

// Keyword kinds.
const (
	Not Kind = iota + Arrow + 1
	And
	Or
	None
	Auto
	Let
	Set
	Show
	Context
	If
	Else
	For
	In
	While
	Break
	Continue
	Return
	Import
	Include
	As
)

// Code kinds.
const (
	Code Kind = iota + As + 1
	Ident
	Bool
	Int
	Float
	Numeric
	Str
	CodeBlock
	ContentBlock
	Parenthesized
	Array
	Dict
	Named
	Keyed
	Unary
	Binary
	FieldAccess
	FuncCall
	Args
	Spread
	Closure
	Params
	LetBinding
	SetRule
	ShowRule
	Contextual
	Conditional
	WhileLoop
	ForLoop
	ModuleImport
	ImportItems
	ModuleInclude
	LoopBreak
	LoopContinue
	FuncReturn
	Destructuring
	DestructAssignment
)

// Trivia kinds.
const (
	LineComment Kind = iota + DestructAssignment + 1
	BlockComment

	kindCount
)

// end marks the virtual end of input inside the parser. It never appears in a
// finished tree.
const end = kindCount

var kindNames = [...]string{
	Error:              "Error",
	Markup:             "Markup",
	Text:               "Text",
	Space:              "Space",
	Parbreak:           "Parbreak",
	Linebreak:          "Linebreak",
	Escape:             "Escape",
	Shorthand:          "Shorthand",
	SmartQuote:         "SmartQuote",
	Strong:             "Strong",
	Emph:               "Emph",
	Raw:                "Raw",
	Link:               "Link",
	Label:              "Label",
	Ref:                "Ref",
	Heading:            "Heading",
	HeadingMarker:      "HeadingMarker",
	ListItem:           "ListItem",
	ListMarker:         "ListMarker",
	EnumItem:           "EnumItem",
	EnumMarker:         "EnumMarker",
	TermItem:           "TermItem",
	TermMarker:         "TermMarker",
	Equation:           "Equation",
	Math:               "Math",
	MathIdent:          "MathIdent",
	MathAlignPoint:     "MathAlignPoint",
	MathDelimited:      "MathDelimited",
	Hash:               "Hash",
	LeftBrace:          "LeftBrace",
	RightBrace:         "RightBrace",
	LeftBracket:        "LeftBracket",
	RightBracket:       "RightBracket",
	LeftParen:          "LeftParen",
	RightParen:         "RightParen",
	Comma:              "Comma",
	Semicolon:          "Semicolon",
	Colon:              "Colon",
	Star:               "Star",
	Underscore:         "Underscore",
	Dollar:             "Dollar",
	Plus:               "Plus",
	Minus:              "Minus",
	Slash:              "Slash",
	Dot:                "Dot",
	Dots:               "Dots",
	Eq:                 "Eq",
	EqEq:               "EqEq",
	ExclEq:             "ExclEq",
	Lt:                 "Lt",
	LtEq:               "LtEq",
	Gt:                 "Gt",
	GtEq:               "GtEq",
	PlusEq:             "PlusEq",
	HyphEq:             "HyphEq",
	StarEq:             "StarEq",
	SlashEq:            "SlashEq",
	Arrow:              "Arrow",
	Not:                "Not",
	And:                "And",
	Or:                 "Or",
	None:               "None",
	Auto:               "Auto",
	Let:                "Let",
	Set:                "Set",
	Show:               "Show",
	Context:            "Context",
	If:                 "If",
	Else:               "Else",
	For:                "For",
	In:                 "In",
	While:              "While",
	Break:              "Break",
	Continue:           "Continue",
	Return:             "Return",
	Import:             "Import",
	Include:            "Include",
	As:                 "As",
	Code:               "Code",
	Ident:              "Ident",
	Bool:               "Bool",
	Int:                "Int",
	Float:              "Float",
	Numeric:            "Numeric",
	Str:                "Str",
	CodeBlock:          "CodeBlock",
	ContentBlock:       "ContentBlock",
	Parenthesized:      "Parenthesized",
	Array:              "Array",
	Dict:               "Dict",
	Named:              "Named",
	Keyed:              "Keyed",
	Unary:              "Unary",
	Binary:             "Binary",
	FieldAccess:        "FieldAccess",
	FuncCall:           "FuncCall",
	Args:               "Args",
	Spread:             "Spread",
	Closure:            "Closure",
	Params:             "Params",
	LetBinding:         "LetBinding",
	SetRule:            "SetRule",
	ShowRule:           "ShowRule",
	Contextual:         "Contextual",
	Conditional:        "Conditional",
	WhileLoop:          "WhileLoop",
	ForLoop:            "ForLoop",
	ModuleImport:       "ModuleImport",
	ImportItems:        "ImportItems",
	ModuleInclude:      "ModuleInclude",
	LoopBreak:          "LoopBreak",
	LoopContinue:       "LoopContinue",
	FuncReturn:         "FuncReturn",
	Destructuring:      "Destructuring",
	DestructAssignment: "DestructAssignment",
	LineComment:        "LineComment",
	BlockComment:       "BlockComment",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds returns every kind a tree can contain, in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Error; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsTrivia reports whether the kind is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	switch k {
	case Space, Parbreak, LineComment, BlockComment:
		return true
	default:
		return false
	}
}

// IsComment reports whether the kind is a line or block comment.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// IsKeyword reports whether the kind is a reserved word of the code mode.
func (k Kind) IsKeyword() bool {
	return k >= Not && k <= As
}

// IsBracket reports whether the kind opens or closes a delimited group.
func (k Kind) IsBracket() bool {
	switch k {
	case LeftBrace, RightBrace, LeftBracket, RightBracket, LeftParen, RightParen:
		return true
	default:
		return false
	}
}

func (k Kind) isTerminator() bool {
	switch k {
	case end, Semicolon, RightBrace, RightParen, RightBracket:
		return true
	default:
		return false
	}
}

func (k Kind) isStmt() bool {
	switch k {
	case Let, Set, Show, Import, Include, Return:
		return true
	default:
		return false
	}
}
