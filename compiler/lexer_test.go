package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerTokenizesKeywordsAndPunctuation(t *testing.T) {
	errs := newErrorList()
	l := newLexer("component Counter(tick: Event<unit>) -> (count: int) {}", 0, errs)
	toks := l.tokenize()
	require.False(t, errs.hasErrors())

	var kinds []tokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.kind)
	}
	assert.Equal(t, tokComponent, kinds[0])
	assert.Equal(t, tokIdent, kinds[1])
	assert.Equal(t, tokLParen, kinds[2])
	assert.Equal(t, tokEOF, kinds[len(kinds)-1])
}

func TestLexerRecordsSpansAcrossLines(t *testing.T) {
	errs := newErrorList()
	l := newLexer("let x = 1;\nlet y = 2;", 0, errs)
	toks := l.tokenize()
	require.False(t, errs.hasErrors())

	var secondLet token
	seen := 0
	for _, tok := range toks {
		if tok.kind == tokLet {
			seen++
			if seen == 2 {
				secondLet = tok
			}
		}
	}
	assert.Equal(t, 2, secondLet.span.Line)
}

func TestLexerNumericLiterals(t *testing.T) {
	errs := newErrorList()
	l := newLexer("42 3.14 0", 0, errs)
	toks := l.tokenize()
	require.False(t, errs.hasErrors())
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, tokInt, toks[0].kind)
	assert.Equal(t, tokFloat, toks[1].kind)
	assert.Equal(t, tokInt, toks[2].kind)
}

func TestLexerStringLiteral(t *testing.T) {
	errs := newErrorList()
	l := newLexer(`"hello world"`, 0, errs)
	toks := l.tokenize()
	require.False(t, errs.hasErrors())
	require.Equal(t, tokString, toks[0].kind)
}
