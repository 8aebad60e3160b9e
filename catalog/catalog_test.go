/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PagePerfect-io/pdfscript/value"
)

func TestLookupDistinguishesCaseVariants(t *testing.T) {
	upper, ok := Lookup("F")
	require.True(t, ok)
	lower, ok := Lookup("f")
	require.True(t, ok)
	assert.NotEqual(t, upper, lower)
	assert.Equal(t, "F", upper.Spelling)
	assert.Equal(t, "f", lower.Spelling)
}

func TestFStarUsesAsteriskSpellingNotIdentifier(t *testing.T) {
	d, ok := Lookup("f*")
	require.True(t, ok)
	assert.Equal(t, "fStar", d.ID)
	assert.Equal(t, "f*", d.Spelling)
}

func TestZeroOperandOperatorAlwaysMatches(t *testing.T) {
	d, ok := Lookup("Q")
	require.True(t, ok)
	operands, matched := MatchSignature(d, nil)
	assert.True(t, matched)
	assert.Empty(t, operands)
}

func TestScnSingleNameSignature(t *testing.T) {
	d, ok := Lookup("scn")
	require.True(t, ok)
	stack := []value.Value{value.Name("/P1")}
	operands, matched := MatchSignature(d, stack)
	require.True(t, matched)
	require.Len(t, operands, 1)
	assert.Equal(t, value.Name("/P1"), operands[0])
}

func TestScnPicksShortestMatchingSignatureFirst(t *testing.T) {
	d, ok := Lookup("scn")
	require.True(t, ok)
	stack := []value.Value{value.Number(1)}
	operands, matched := MatchSignature(d, stack)
	require.True(t, matched)
	assert.Len(t, operands, 1)
}

func TestSignatureMatchingViaTypeResolvedVariable(t *testing.T) {
	d, ok := Lookup("Tc")
	require.True(t, ok)
	stack := []value.Value{value.TypeResolvedVariable{Name: "x", ResolvedKind: value.KindNumber}}
	operands, matched := MatchSignature(d, stack)
	require.True(t, matched)
	require.Len(t, operands, 1)
}

func TestNoSignatureMatchesFails(t *testing.T) {
	d, ok := Lookup("Tj")
	require.True(t, ok)
	stack := []value.Value{value.Number(1)}
	_, matched := MatchSignature(d, stack)
	assert.False(t, matched)
}

func TestContextLegality(t *testing.T) {
	m, ok := Lookup("m")
	require.True(t, ok)
	assert.True(t, m.AllowedIn(Page))
	assert.True(t, m.AllowedIn(Path))
	assert.False(t, m.AllowedIn(Text))

	l, ok := Lookup("l")
	require.True(t, ok)
	assert.False(t, l.AllowedIn(Page))
	assert.True(t, l.AllowedIn(Path))
}

func TestPathOpenersAndPainters(t *testing.T) {
	assert.True(t, IsPathOpener("m"))
	assert.True(t, IsPathOpener("rr"))
	assert.False(t, IsPathOpener("l"))
	assert.True(t, IsPathPainter("f*"))
	assert.False(t, IsPathPainter("m"))
}

func TestStructuralKeywordsRegistered(t *testing.T) {
	ep, ok := Lookup("endpage")
	require.True(t, ok)
	assert.True(t, ep.Structural)

	page, ok := Lookup("page")
	require.True(t, ok)
	assert.True(t, page.Structural)
	assert.Len(t, page.Signatures, 2)
}

func TestRoundedRectTwoArities(t *testing.T) {
	d, ok := Lookup("rr")
	require.True(t, ok)
	five := make([]value.Value, 5)
	for i := range five {
		five[i] = value.Number(1)
	}
	operands, matched := MatchSignature(d, five)
	require.True(t, matched)
	assert.Len(t, operands, 5)

	// With a 6-element stack the shorter, catalogue-first 5-arity signature
	// still wins (spec §4.4: first matching signature in declared order),
	// consuming only the top 5.
	six := append(five, value.Number(1))
	operands6, matched6 := MatchSignature(d, six)
	require.True(t, matched6)
	assert.Len(t, operands6, 5)
}
