/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package reader

import (
	"github.com/PagePerfect-io/pdfscript/lexer"
	"github.com/PagePerfect-io/pdfscript/perr"
	"github.com/PagePerfect-io/pdfscript/value"
)

// readProlog implements the prolog sub-parser (spec §4.4), entered once the
// main Read loop has consumed a PrologFragment ('#') token. It reads one
// keyword - var, resource, pattern, or color - and validates strictly.
func (r *Reader) readProlog() (Statement, error) {
	kw, err := r.lx.NextSignificant()
	if err != nil {
		return nil, err
	}
	if kw.Kind != lexer.TokKeyword {
		return nil, perr.Reader("expected a prolog keyword after '#', got %s", kw.Kind)
	}
	switch kw.Text {
	case "var":
		return r.readVarDecl()
	case "resource":
		return r.readResourceDecl()
	case "pattern":
		return r.readPatternDecl()
	case "color":
		return r.readColourDecl()
	default:
		return nil, perr.Reader("unknown prolog keyword %q", kw.Text)
	}
}

// readVarDecl parses `# var $name /TypeName value`.
func (r *Reader) readVarDecl() (Statement, error) {
	name, ok, err := r.lx.ExpectVariable()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# var' requires a $variable name")
	}
	typeName, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# var $%s' requires a declared type name", name)
	}
	kind, ok := declaredKindForTypeName(typeName)
	if !ok {
		return nil, perr.Reader("'# var $%s' has an unsupported type %q", name, typeName)
	}

	initial, err := r.readTypedLiteral(kind)
	if err != nil {
		return nil, err
	}

	r.env.Declare(name, kind)
	return VarDecl{Name: name, Kind: kind, Initial: initial}, nil
}

// readTypedLiteral reads one literal value expected to lex as the given
// declared kind, per "the value must lex as the matching kind" (spec §4.4).
func (r *Reader) readTypedLiteral(kind value.Kind) (value.Value, error) {
	switch kind {
	case value.KindNumber:
		n, ok, err := r.lx.ExpectNumber()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, perr.Reader("expected a Number literal")
		}
		return n, nil
	case value.KindString:
		s, ok, err := r.lx.ExpectString()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, perr.Reader("expected a String literal")
		}
		return s, nil
	case value.KindName:
		nm, ok, err := r.lx.ExpectName()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, perr.Reader("expected a Name literal")
		}
		return nm, nil
	case value.KindBoolean:
		tok, err := r.lx.NextSignificant()
		if err != nil {
			return nil, err
		}
		if tok.Kind != lexer.TokKeyword || (tok.Text != "true" && tok.Text != "false") {
			return nil, perr.Reader("expected a Boolean literal (true/false)")
		}
		return value.Boolean(tok.Text == "true"), nil
	default:
		return nil, perr.Reader("unsupported declared kind %s", kind)
	}
}

// readResourceDecl parses `# resource /Name /Kind (location)`.
func (r *Reader) readResourceDecl() (Statement, error) {
	name, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# resource' requires a /Name")
	}
	kindName, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# resource %s' requires a /Kind", name)
	}
	var kind ResourceKind
	switch kindName {
	case "/Image":
		kind = ResourceImage
	case "/Font":
		kind = ResourceFont
	default:
		return nil, perr.Reader("'# resource %s' has an unsupported kind %q", name, kindName)
	}
	loc, ok, err := r.lx.ExpectString()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# resource %s %s' requires a location string", name, kindName)
	}
	return ResourceDecl{Name: name, Kind: kind, Location: string(loc.Bytes())}, nil
}

// readPatternDecl parses
// `# pattern /Name /PatternKind /ColourSpace << dictionary >>`.
func (r *Reader) readPatternDecl() (Statement, error) {
	name, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# pattern' requires a /Name")
	}
	patternKindName, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# pattern %s' requires a /PatternKind", name)
	}
	var patternKind PatternKind
	switch patternKindName {
	case "/LinearGradient":
		patternKind = LinearGradient
	case "/RadialGradient":
		patternKind = RadialGradient
	default:
		return nil, perr.Reader("'# pattern %s' has an unsupported pattern kind %q", name, patternKindName)
	}
	colourSpace, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# pattern %s' requires a /ColourSpace", name)
	}
	arity, ok := colourSpaceArity(colourSpace)
	if !ok {
		return nil, perr.Reader("'# pattern %s' has an unsupported colour space %q", name, colourSpace)
	}

	dictTok, err := r.lx.NextSignificant()
	if err != nil {
		return nil, err
	}
	if dictTok.Kind != lexer.DictionaryStart {
		return nil, perr.Reader("'# pattern %s' requires a dictionary of stops", name)
	}
	dict, err := r.readDictionary()
	if err != nil {
		return nil, r.wrapIncomplete(err)
	}

	decl := PatternDecl{Name: name, Kind: patternKind, ColourSpace: colourSpace}

	rectVal, ok := dict.Get("/Rect")
	if !ok {
		return nil, perr.Reader("'# pattern %s' dictionary is missing /Rect", name)
	}
	rectArr, ok := rectVal.(*value.Array)
	if !ok || len(rectArr.Elements) != 4 {
		return nil, perr.Reader("'# pattern %s' /Rect must be an array of 4 numbers", name)
	}
	rectNums, err := numbersOf(rectArr)
	if err != nil {
		return nil, perr.Reader("'# pattern %s' /Rect must contain only numbers", name)
	}
	copy(decl.Rect[:], rectNums)

	var colours [][]float64
	for _, key := range []value.Name{"/C0", "/C1"} {
		v, ok := dict.Get(key)
		if !ok {
			return nil, perr.Reader("'# pattern %s' dictionary is missing %s", name, key)
		}
		c, err := colourArray(v, arity)
		if err != nil {
			return nil, perr.Reader("'# pattern %s' %s: %v", name, key, err)
		}
		colours = append(colours, c)
	}
	if cnVal, ok := dict.Get("/Cn"); ok {
		cnArr, ok := cnVal.(*value.Array)
		if !ok {
			return nil, perr.Reader("'# pattern %s' /Cn must be an array", name)
		}
		for _, elem := range cnArr.Elements {
			c, err := colourArray(elem, arity)
			if err != nil {
				return nil, perr.Reader("'# pattern %s' /Cn: %v", name, err)
			}
			colours = append(colours, c)
		}
	}
	decl.Colours = colours

	stopsVal, ok := dict.Get("/Stops")
	if !ok {
		return nil, perr.Reader("'# pattern %s' dictionary is missing /Stops", name)
	}
	stopsArr, ok := stopsVal.(*value.Array)
	if !ok {
		return nil, perr.Reader("'# pattern %s' /Stops must be an array of numbers", name)
	}
	stops, err := numbersOf(stopsArr)
	if err != nil {
		return nil, perr.Reader("'# pattern %s' /Stops must contain only numbers", name)
	}
	decl.Stops = stops

	if len(colours) < 2 {
		return nil, perr.Reader("'# pattern %s' requires at least 2 colours", name)
	}
	if len(stops) != len(colours) {
		return nil, perr.Reader("'# pattern %s' has %d stops but %d colours", name, len(stops), len(colours))
	}
	prev := -1.0
	for _, s := range stops {
		if s < 0 || s > 1 {
			return nil, perr.Reader("'# pattern %s' stop %v is outside [0,1]", name, s)
		}
		if s < prev {
			return nil, perr.Reader("'# pattern %s' stops must be non-decreasing", name)
		}
		prev = s
	}

	return decl, nil
}

func colourArray(v value.Value, arity int) ([]float64, error) {
	arr, ok := v.(*value.Array)
	if !ok || len(arr.Elements) != arity {
		return nil, perr.Reader("expected an array of %d numbers", arity)
	}
	return numbersOf(arr)
}

// readColourDecl parses `# color /Name /ColourSpace c1 c2 ...`.
func (r *Reader) readColourDecl() (Statement, error) {
	name, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# color' requires a /Name")
	}
	colourSpace, ok, err := r.lx.ExpectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.Reader("'# color %s' requires a /ColourSpace", name)
	}
	arity, ok := colourSpaceArity(colourSpace)
	if !ok {
		return nil, perr.Reader("'# color %s' has an unsupported colour space %q", name, colourSpace)
	}
	components := make([]float64, 0, arity)
	for i := 0; i < arity; i++ {
		n, ok, err := r.lx.ExpectNumber()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, perr.Reader("'# color %s' requires %d numeric components", name, arity)
		}
		components = append(components, n.Float64())
	}
	return ColourDecl{Name: name, ColourSpace: colourSpace, Components: components}, nil
}
