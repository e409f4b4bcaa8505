package compiler

import "fmt"

// tokenKind enumerates the lexical token categories of GR surface syntax.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokBool

	// keywords
	tokEnum
	tokStruct
	tokFunction
	tokComponent
	tokImport
	tokExport
	tokService
	tokLet
	tokMatch
	tokWhen
	tokInit
	tokIf
	tokThen
	tokElse
	tokFby
	tokSome
	tokNone
	tokContract

	// punctuation
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokColon
	tokSemi
	tokArrow  // ->
	tokFatArrow // =>
	tokAssign // =
	tokAt     // @
	tokDot
	tokQuestion

	// operators
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokAnd
	tokOr
	tokNot
)

var keywords = map[string]tokenKind{
	"enum":      tokEnum,
	"struct":    tokStruct,
	"function":  tokFunction,
	"component": tokComponent,
	"import":    tokImport,
	"export":    tokExport,
	"service":   tokService,
	"let":       tokLet,
	"match":     tokMatch,
	"when":      tokWhen,
	"init":      tokInit,
	"if":        tokIf,
	"then":      tokThen,
	"else":      tokElse,
	"fby":       tokFby,
	"Some":      tokSome,
	"None":      tokNone,
	"contract":  tokContract,
	"true":      tokBool,
	"false":     tokBool,
}

// Span locates a range of bytes in a single source file.
type Span struct {
	FileID     int
	Start, End int
	Line, Col  int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// token is a single lexeme with its source span.
type token struct {
	kind tokenKind
	lit  string
	span Span
}
