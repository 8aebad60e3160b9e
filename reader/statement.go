/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package reader implements the PDFScript composite-value reader and
// statement reader (spec §4.2, §4.4): a stack machine sitting on top of a
// lexer.Lexer that accumulates operands, resolves $variables against a
// shared Variable Environment, recurses into arrays/dictionaries, and
// recognizes graphics operations, prolog declarations and the `endpage`/
// `page` structural keywords via the catalog package. Grounded on the
// recursive parseArray/parseDict/parseObject shape of
// contentstream.ContentStreamParser in the teacher, generalized to read
// from a token stream instead of raw bytes and to type-check via the
// operator catalogue instead of per-operator fixed arity.
package reader

import (
	"fmt"

	"github.com/PagePerfect-io/pdfscript/catalog"
	"github.com/PagePerfect-io/pdfscript/value"
)

// Statement is the reader's output variant (spec §3): EndPage, Page,
// GraphicsOperation, or one of the four PrologStatement subtypes.
type Statement interface {
	isStatement()
}

// EndPage is produced by the `endpage` keyword.
type EndPage struct{}

func (EndPage) isStatement() {}

// Page is produced by `page W H` or `page /Template`. Template is empty for
// the numeric form.
type Page struct {
	Template      value.Name
	Width, Height float64
}

func (Page) isStatement() {}

// GraphicsOperation is a type-checked graphics operator call with operands
// in source order.
type GraphicsOperation struct {
	Operator *catalog.Descriptor
	Operands []value.Value
}

func (GraphicsOperation) isStatement() {}

// VarDecl is `# var $name /TypeName value`.
type VarDecl struct {
	Name    string
	Kind    value.Kind
	Initial value.Value
}

func (VarDecl) isStatement() {}

// ResourceKind is the resource-type half of a ResourceDecl.
type ResourceKind int

// Resource kinds (spec §3).
const (
	ResourceImage ResourceKind = iota
	ResourceFont
)

func (k ResourceKind) String() string {
	if k == ResourceFont {
		return "Font"
	}
	return "Image"
}

// ResourceDecl is `# resource /Name /Kind (location)`.
type ResourceDecl struct {
	Name     value.Name
	Kind     ResourceKind
	Location string
}

func (ResourceDecl) isStatement() {}

// PatternKind is the pattern-type half of a PatternDecl.
type PatternKind int

// Pattern kinds (spec §3).
const (
	LinearGradient PatternKind = iota
	RadialGradient
)

// PatternDecl is `# pattern /Name /PatternKind /ColourSpace << ... >>`.
type PatternDecl struct {
	Name        value.Name
	Kind        PatternKind
	ColourSpace value.Name
	Rect        [4]float64
	Colours     [][]float64
	Stops       []float64
}

func (PatternDecl) isStatement() {}

// ColourDecl is `# color /Name /ColourSpace c1 c2 ...`.
type ColourDecl struct {
	Name        value.Name
	ColourSpace value.Name
	Components  []float64
}

func (ColourDecl) isStatement() {}

func declaredKindForTypeName(n value.Name) (value.Kind, bool) {
	switch n {
	case "/Number":
		return value.KindNumber, true
	case "/String":
		return value.KindString, true
	case "/Boolean":
		return value.KindBoolean, true
	case "/Name":
		return value.KindName, true
	default:
		return 0, false
	}
}

func colourSpaceArity(space value.Name) (int, bool) {
	switch space {
	case "/DeviceGray":
		return 1, true
	case "/DeviceRGB":
		return 3, true
	case "/DeviceCMYK":
		return 4, true
	default:
		return 0, false
	}
}

func numbersOf(arr *value.Array) ([]float64, error) {
	out := make([]float64, len(arr.Elements))
	for i, e := range arr.Elements {
		n, ok := e.(value.Number)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number", i)
		}
		out[i] = n.Float64()
	}
	return out, nil
}
