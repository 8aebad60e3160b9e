/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package reader

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PagePerfect-io/pdfscript/lexer"
	"github.com/PagePerfect-io/pdfscript/value"
)

func newReader(src string) *Reader {
	lx := lexer.New(strings.NewReader(src), lexer.DefaultOptions())
	return New(lx, NewEnvironment())
}

func readAll(t *testing.T, r *Reader) []Statement {
	t.Helper()
	var stmts []Statement
	for {
		s, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		stmts = append(stmts, s)
	}
	return stmts
}

func TestSimplePathStatement(t *testing.T) {
	r := newReader("10 10 m 100 100 l S")
	stmts := readAll(t, r)
	require.Len(t, stmts, 3)

	m := stmts[0].(GraphicsOperation)
	assert.Equal(t, "m", m.Operator.Spelling)
	assert.Equal(t, []value.Value{value.Number(10), value.Number(10)}, m.Operands)

	l := stmts[1].(GraphicsOperation)
	assert.Equal(t, "l", l.Operator.Spelling)

	s := stmts[2].(GraphicsOperation)
	assert.Equal(t, "S", s.Operator.Spelling)
	assert.Empty(t, s.Operands)
}

func TestEndpageRepeated(t *testing.T) {
	r := newReader("endpage endpage 10 10 m 100 100 l S")
	stmts := readAll(t, r)
	require.Len(t, stmts, 5)
	_, ok := stmts[0].(EndPage)
	assert.True(t, ok)
	_, ok = stmts[1].(EndPage)
	assert.True(t, ok)
}

func TestVarDeclThenResolvedVariableOperands(t *testing.T) {
	r := newReader("# var $w /Number 100 # var $h /Number 200 10 10 $w $h re f")
	stmts := readAll(t, r)
	require.Len(t, stmts, 4)

	wDecl := stmts[0].(VarDecl)
	assert.Equal(t, "w", wDecl.Name)
	assert.Equal(t, value.KindNumber, wDecl.Kind)
	assert.Equal(t, value.Number(100), wDecl.Initial)

	re := stmts[2].(GraphicsOperation)
	assert.Equal(t, "re", re.Operator.Spelling)
	require.Len(t, re.Operands, 4)
	assert.Equal(t, value.Number(10), re.Operands[0])
	assert.Equal(t, value.Number(10), re.Operands[1])
	assert.Equal(t, value.TypeResolvedVariable{Name: "w", ResolvedKind: value.KindNumber}, re.Operands[2])
	assert.Equal(t, value.TypeResolvedVariable{Name: "h", ResolvedKind: value.KindNumber}, re.Operands[3])
}

func TestUndeclaredVariableIsReaderError(t *testing.T) {
	r := newReader("10 10 $w $h re f")
	_, err := r.Read()
	require.Error(t, err)
}

func TestArrayOperandOfKnownOperator(t *testing.T) {
	r := newReader("# var $var /Number 42 [ 10 (Edwin) /TimesRoman $var ] TJ")
	stmts := readAll(t, r)
	require.Len(t, stmts, 2)
	tj := stmts[1].(GraphicsOperation)
	require.Len(t, tj.Operands, 1)
	arr := tj.Operands[0].(*value.Array)
	require.Len(t, arr.Elements, 4)
	assert.Equal(t, value.Number(10), arr.Elements[0])
	assert.Equal(t, value.NewString([]byte("Edwin")), arr.Elements[1])
	assert.Equal(t, value.Name("/TimesRoman"), arr.Elements[2])
	assert.Equal(t, value.TypeResolvedVariable{Name: "var", ResolvedKind: value.KindNumber}, arr.Elements[3])
}

func TestIncompleteArrayAtEOFIsError(t *testing.T) {
	r := newReader("[ 1 2 3")
	_, err := r.Read()
	require.Error(t, err)
}

func TestResourceDecl(t *testing.T) {
	r := newReader(`# resource /Logo /Image (logo.png)`)
	stmts := readAll(t, r)
	require.Len(t, stmts, 1)
	rd := stmts[0].(ResourceDecl)
	assert.Equal(t, value.Name("/Logo"), rd.Name)
	assert.Equal(t, ResourceImage, rd.Kind)
	assert.Equal(t, "logo.png", rd.Location)
}

func TestColourDecl(t *testing.T) {
	r := newReader(`# color /Brand /DeviceRGB 0.1 0.2 0.3`)
	stmts := readAll(t, r)
	require.Len(t, stmts, 1)
	cd := stmts[0].(ColourDecl)
	assert.Equal(t, value.Name("/Brand"), cd.Name)
	assert.Equal(t, []float64{float64(float32(0.1)), float64(float32(0.2)), float64(float32(0.3))}, cd.Components)
}

func TestPatternDecl(t *testing.T) {
	src := `# pattern /Fade /LinearGradient /DeviceRGB << /Rect [0 0 100 100] /C0 [1 0 0] /C1 [0 0 1] /Stops [0 1] >>`
	r := newReader(src)
	stmts := readAll(t, r)
	require.Len(t, stmts, 1)
	pd := stmts[0].(PatternDecl)
	assert.Equal(t, LinearGradient, pd.Kind)
	assert.Equal(t, [4]float64{0, 0, 100, 100}, pd.Rect)
	require.Len(t, pd.Colours, 2)
	assert.Equal(t, []float64{1, 0, 0}, pd.Colours[0])
	assert.Equal(t, []float64{0, 1}, pd.Stops)
}

func TestPatternDeclRejectsMismatchedStopsAndColours(t *testing.T) {
	src := `# pattern /Fade /LinearGradient /DeviceRGB << /Rect [0 0 100 100] /C0 [1 0 0] /C1 [0 0 1] /Stops [0] >>`
	r := newReader(src)
	_, err := r.Read()
	require.Error(t, err)
}

func TestPageNumericForm(t *testing.T) {
	r := newReader("page 200 300")
	stmts := readAll(t, r)
	require.Len(t, stmts, 1)
	p := stmts[0].(Page)
	assert.Equal(t, 200.0, p.Width)
	assert.Equal(t, 300.0, p.Height)
}

func TestPageTemplateForm(t *testing.T) {
	r := newReader("page /A4")
	stmts := readAll(t, r)
	require.Len(t, stmts, 1)
	p := stmts[0].(Page)
	assert.Equal(t, value.Name("/A4"), p.Template)
}

func TestReDeclaringVariableIsAllowedAtReaderLevel(t *testing.T) {
	// Name-collision rejection is a ProcessorError (spec §7), not a
	// ReaderError: the reader only tracks declared kind for type
	// resolution, so a second `# var` for the same name is accepted here
	// and must be rejected by the processor instead.
	r := newReader("# var $w /Number 100 # var $w /Number 200")
	stmts := readAll(t, r)
	require.Len(t, stmts, 2)
}
