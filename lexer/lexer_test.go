/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package lexer

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(t *testing.T, src string, opts Options) []Token {
	t.Helper()
	lx := New(strings.NewReader(src), opts)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	return toks
}

func kinds(toks []Token) []Kind {
	var ks []Kind
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}
	return ks
}

func TestRoundTripReconstructsSource(t *testing.T) {
	src := "q 1 0 0 1 72 720 cm /F1 12 Tf (Hello) Tj Q % trailing\n"
	toks := allTokens(t, src, DefaultOptions())
	var rebuilt strings.Builder
	for _, tok := range toks {
		rebuilt.WriteString(tok.Raw)
	}
	assert.Equal(t, src, rebuilt.String())
}

func TestNegativeSignedNumbersDoNotRequireSeparator(t *testing.T) {
	toks := allTokens(t, "-3-5", DefaultOptions())
	require.Len(t, toks, 2)
	assert.Equal(t, TokNumber, toks[0].Kind)
	assert.Equal(t, float32(-3), float32(toks[0].Number))
	assert.Equal(t, TokNumber, toks[1].Kind)
	assert.Equal(t, float32(-5), float32(toks[1].Number))
}

func TestMalformedDecimalCompositeIsAKeyword(t *testing.T) {
	toks := allTokens(t, "2.5.3", DefaultOptions())
	require.Len(t, toks, 1)
	assert.Equal(t, TokKeyword, toks[0].Kind)
	assert.Equal(t, "2.5.3", toks[0].Text)
}

func TestLeadingZeroDisallowedSplitsToken(t *testing.T) {
	opts := Options{AllowLeadingZero: false}
	toks := allTokens(t, "025 Tc", opts)
	require.Len(t, toks, 4)
	assert.Equal(t, TokNumber, toks[0].Kind)
	assert.Equal(t, float32(0), float32(toks[0].Number))
	assert.Equal(t, TokNumber, toks[1].Kind)
	assert.Equal(t, float32(25), float32(toks[1].Number))
	assert.Equal(t, TokWhitespace, toks[2].Kind)
	assert.Equal(t, TokKeyword, toks[3].Kind)
	assert.Equal(t, "Tc", toks[3].Text)
}

func TestLeadingZeroAllowedByDefault(t *testing.T) {
	toks := allTokens(t, "025", DefaultOptions())
	require.Len(t, toks, 1)
	assert.Equal(t, TokNumber, toks[0].Kind)
	assert.Equal(t, float32(25), float32(toks[0].Number))
}

func TestLeadingZeroBeforeDecimalPointIsUnaffected(t *testing.T) {
	opts := Options{AllowLeadingZero: false}
	toks := allTokens(t, "0.5", opts)
	require.Len(t, toks, 1)
	assert.Equal(t, TokNumber, toks[0].Kind)
	assert.Equal(t, float32(0.5), float32(toks[0].Number))
}

func TestLiteralStringEscapesAndOctal(t *testing.T) {
	toks := allTokens(t, `(Line1\nLine2\)\101\\end)`, DefaultOptions())
	require.Len(t, toks, 1)
	require.Equal(t, TokString, toks[0].Kind)
	assert.Equal(t, "Line1\nLine2)A\\end", toks[0].Text)
}

func TestLiteralStringBalancedParens(t *testing.T) {
	toks := allTokens(t, `(a(b)c)`, DefaultOptions())
	require.Len(t, toks, 1)
	assert.Equal(t, "a(b)c", toks[0].Text)
}

func TestLiteralStringLineSplice(t *testing.T) {
	toks := allTokens(t, "(a\\\nb)", DefaultOptions())
	require.Len(t, toks, 1)
	assert.Equal(t, "ab", toks[0].Text)
}

func TestLiteralStringBareEOLNormalized(t *testing.T) {
	toks := allTokens(t, "(a\r\nb\rc\nd)", DefaultOptions())
	require.Len(t, toks, 1)
	assert.Equal(t, "a\nb\nc\nd", toks[0].Text)
}

func TestHexStringPadsOddNibble(t *testing.T) {
	toks := allTokens(t, "<901FA3>", DefaultOptions())
	require.Len(t, toks, 1)
	require.Equal(t, TokString, toks[0].Kind)
	assert.True(t, toks[0].IsHex)
	assert.Equal(t, []byte{0x90, 0x1F, 0xA3}, []byte(toks[0].Text))

	toks2 := allTokens(t, "<901FA>", DefaultOptions())
	require.Len(t, toks2, 1)
	assert.Equal(t, []byte{0x90, 0x1F, 0xA0}, []byte(toks2[0].Text))
}

func TestHexStringIgnoresWhitespace(t *testing.T) {
	toks := allTokens(t, "<90 1F\nA3>", DefaultOptions())
	require.Len(t, toks, 1)
	assert.Equal(t, []byte{0x90, 0x1F, 0xA3}, []byte(toks[0].Text))
}

func TestNameHexEscape(t *testing.T) {
	toks := allTokens(t, "/Pa#6des", DefaultOptions())
	require.Len(t, toks, 1)
	require.Equal(t, TokName, toks[0].Kind)
	assert.Equal(t, "/Pames", toks[0].Text)
}

func TestVariableToken(t *testing.T) {
	toks := allTokens(t, "$pageWidth", DefaultOptions())
	require.Len(t, toks, 1)
	require.Equal(t, TokVariable, toks[0].Kind)
	assert.Equal(t, "pageWidth", toks[0].Text)
}

func TestNullAndRAreDistinctKinds(t *testing.T) {
	toks := allTokens(t, "null R true false", DefaultOptions())
	ks := kinds(toks)
	assert.Equal(t, []Kind{TokNull, TokWhitespace, TokR, TokWhitespace, TokKeyword, TokWhitespace, TokKeyword}, ks)
	assert.Equal(t, "true", toks[4].Text)
	assert.Equal(t, "false", toks[6].Text)
}

func TestArrayAndDictionaryDelimiters(t *testing.T) {
	toks := allTokens(t, "[1 2]", DefaultOptions())
	ks := kinds(toks)
	assert.Equal(t, []Kind{ArrayStart, TokNumber, TokWhitespace, TokNumber, ArrayEnd}, ks)

	toks2 := allTokens(t, "<< /A 1 >>", DefaultOptions())
	ks2 := kinds(toks2)
	assert.Equal(t, DictionaryStart, ks2[0])
	assert.Equal(t, DictionaryEnd, ks2[len(ks2)-1])
}

func TestCommentToken(t *testing.T) {
	toks := allTokens(t, "% a comment\nq", DefaultOptions())
	require.True(t, len(toks) >= 2)
	assert.Equal(t, TokComment, toks[0].Kind)
	assert.Equal(t, " a comment", toks[0].Text)
}

func TestExpectNumberPushesBackOnMismatch(t *testing.T) {
	lx := New(strings.NewReader("Tc"), DefaultOptions())
	_, ok, err := lx.ExpectNumber()
	require.NoError(t, err)
	assert.False(t, ok)
	ok2, err := lx.ExpectKeyword("Tc")
	require.NoError(t, err)
	assert.True(t, ok2)
}
