/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package value implements the PDFScript Value data model (spec §3): a
// tagged variant over Boolean, Number, String, Name, Keyword, Variable,
// Array and Dictionary, plus TypeResolvedVariable, the reader-produced
// subtype that carries a resolved declared kind for a $variable reference.
//
// Values are immutable after construction, following core.PdfObject in the
// teacher package: scalar kinds compare structurally, Array and Dictionary
// compare by reference identity.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the Value variants.
type Kind int

// The Value kinds.
const (
	KindBoolean Kind = iota
	KindNumber
	KindString
	KindName
	KindKeyword
	KindVariable
	KindArray
	KindDictionary
)

// String names a Kind for error messages.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindName:
		return "Name"
	case KindKeyword:
		return "Keyword"
	case KindVariable:
		return "Variable"
	case KindArray:
		return "Array"
	case KindDictionary:
		return "Dictionary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the PDFScript tagged-variant value.
type Value interface {
	// Kind returns the dynamic kind of the value.
	Kind() Kind
	// String renders the value for diagnostics (not necessarily valid
	// PDFScript/PDF syntax - use a Writer for serialization).
	String() string
}

// Boolean is a Value of kind KindBoolean.
type Boolean bool

// Kind implements Value.
func (Boolean) Kind() Kind { return KindBoolean }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is a Value of kind KindNumber. The spec requires single-precision
// semantics, so values are stored as float32; Float64 widens them, which
// keeps equality and write-back stable.
type Number float32

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 32)
}

// Float64 returns the number widened to float64.
func (n Number) Float64() float64 { return float64(n) }

// String is a Value of kind KindString. The payload is bytes, not code
// points: PDFScript strings use Latin-1/WinAnsi semantics when written.
type String struct {
	bytes []byte
	isHex bool
}

// NewString builds a String value from raw bytes.
func NewString(b []byte) String { return String{bytes: append([]byte(nil), b...)} }

// NewHexString builds a String value that should be serialized in hex
// notation (<...>) rather than parenthesized notation.
func NewHexString(b []byte) String { return String{bytes: append([]byte(nil), b...), isHex: true} }

// Kind implements Value.
func (String) Kind() Kind { return KindString }

// Bytes returns the raw byte payload.
func (s String) Bytes() []byte { return s.bytes }

// IsHex reports whether the string was lexed/should be written as a hex
// string.
func (s String) IsHex() bool { return s.isHex }

func (s String) String() string { return string(s.bytes) }

// Name is a Value of kind KindName. The payload retains the leading '/'.
type Name string

// Kind implements Value.
func (Name) Kind() Kind { return KindName }

func (n Name) String() string { return string(n) }

// Keyword is a Value of kind KindKeyword: a run of characters that is
// neither a recognized literal nor (yet) resolved to an operator.
type Keyword string

// Kind implements Value.
func (Keyword) Kind() Kind { return KindKeyword }

func (k Keyword) String() string { return string(k) }

// Variable is a Value of kind KindVariable: an unresolved $name reference.
// The lexer emits $name as a TokVariable token, and the reader turns each
// one into a TypeResolvedVariable (or an error), so neither builds a
// Variable value.
type Variable struct {
	Name string
}

// Kind implements Value.
func (Variable) Kind() Kind { return KindVariable }

func (v Variable) String() string { return "$" + v.Name }

// TypeResolvedVariable is the Statement Reader's replacement for Variable
// once the declared kind is known: it behaves like a value of ResolvedKind
// for the purposes of operand-signature matching (spec §3, §4.4).
type TypeResolvedVariable struct {
	Name         string
	ResolvedKind Kind
}

// Kind implements Value. Note this returns KindVariable, not ResolvedKind:
// callers that need to treat a TypeResolvedVariable as its resolved kind
// must do so explicitly (see MatchesKind), exactly as a $variable is
// still lexically a variable even once its declared type is known.
func (TypeResolvedVariable) Kind() Kind { return KindVariable }

func (v TypeResolvedVariable) String() string {
	return fmt.Sprintf("$%s<%s>", v.Name, v.ResolvedKind)
}

// Array is a Value of kind KindArray: an ordered, mutable-until-shared
// sequence. Array values compare by reference identity.
type Array struct {
	Elements []Value
}

// NewArray builds an Array value from elements.
func NewArray(elems ...Value) *Array {
	return &Array{Elements: append([]Value(nil), elems...)}
}

// Kind implements Value.
func (*Array) Kind() Kind { return KindArray }

func (a *Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.Elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Dictionary is a Value of kind KindDictionary: a Name-keyed mapping.
// Insertion order is not part of the contract, but a repeated key keeps
// only the last value written (spec §3, §4.2).
type Dictionary struct {
	keys   []Name
	values map[Name]Value
}

// NewDictionary returns an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: map[Name]Value{}}
}

// Kind implements Value.
func (*Dictionary) Kind() Kind { return KindDictionary }

// Set stores key -> val, overwriting any previous value for the same key
// without duplicating the key in iteration order.
func (d *Dictionary) Set(key Name, val Value) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = val
}

// Get returns the value for key, and whether it was present.
func (d *Dictionary) Get(key Name) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the dictionary's keys. Order reflects first-insertion order
// but callers must not rely on it (spec §3: "iteration order is undefined
// by the contract").
func (d *Dictionary) Keys() []Name {
	return append([]Name(nil), d.keys...)
}

// Len returns the number of distinct keys.
func (d *Dictionary) Len() int { return len(d.keys) }

func (d *Dictionary) String() string {
	var b strings.Builder
	b.WriteString("<<")
	for i, k := range d.keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s %s", k, d.values[k])
	}
	b.WriteString(">>")
	return b.String()
}

// Equal reports structural equality for scalar kinds and reference
// identity for Array/Dictionary, per spec §3.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av.isHex == bv.isHex && string(av.bytes) == string(bv.bytes)
	case Name:
		bv, ok := b.(Name)
		return ok && av == bv
	case Keyword:
		bv, ok := b.(Keyword)
		return ok && av == bv
	case Variable:
		bv, ok := b.(Variable)
		return ok && av == bv
	case TypeResolvedVariable:
		bv, ok := b.(TypeResolvedVariable)
		return ok && av == bv
	case *Array:
		bv, ok := b.(*Array)
		return ok && av == bv
	case *Dictionary:
		bv, ok := b.(*Dictionary)
		return ok && av == bv
	default:
		return false
	}
}

// MatchesKind reports whether v can stand in for a position that declares
// `want`: either v has that kind directly, or v is a TypeResolvedVariable
// whose resolved kind is `want` (spec §4.4 signature matching).
func MatchesKind(v Value, want Kind) bool {
	if v.Kind() == want {
		return true
	}
	if tv, ok := v.(TypeResolvedVariable); ok {
		return tv.ResolvedKind == want
	}
	return false
}
