/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package catalog is the PDFScript operator catalogue (spec §4.3): static,
// declarative metadata mapping a canonical source spelling to an operator
// identifier, its operand-signature overloads, and the graphics-object
// contexts in which it is legal. It mirrors the shape of the per-operator
// handler registration in the teacher's contentstream.ContentStreamProcessor
// (handlerEntry/HandlerConditionEnum), but as a pure data table consulted by
// the reader for signature matching rather than a dispatch table of
// handler funcs - the processor, not the catalogue, owns behavior.
package catalog

import "github.com/PagePerfect-io/pdfscript/value"

// Context is a bitmask of the graphics-object contexts an operator may
// legally appear in.
type Context int

// Graphics-object contexts (spec §3, §4.5).
const (
	Page Context = 1 << iota
	Path
	Text
)

// Any is the bitmask for an operator legal in every context (the general
// graphics-state, color-selection and marked-content operators - spec §4.3
// only restricts path-construction, path-painting and text operators to a
// specific subset of {Page, Path, Text}).
const Any = Page | Path | Text

// Signature is an ordered list of expected operand kinds, innermost-first
// as they are pushed (i.e. in source order).
type Signature []value.Kind

// Descriptor is one operator catalogue entry.
type Descriptor struct {
	// ID is the internal identifier, which may differ from Spelling (e.g.
	// ID "fStar", Spelling "f*").
	ID string
	// Spelling is the canonical text seen in source and emitted on output.
	Spelling string
	// Signatures lists the operand-signature overloads, in catalogue-
	// declared (most common/shortest first) order.
	Signatures []Signature
	// Contexts is the bitmask of graphics-object contexts this operator is
	// legal in.
	Contexts Context
	// Structural marks "endpage" and "page": recognized directly by the
	// statement reader rather than type-checked as a graphics operation.
	Structural bool
}

// AllowedIn reports whether the operator is legal in graphics-object
// context ctx.
func (d *Descriptor) AllowedIn(ctx Context) bool {
	return d.Contexts&ctx != 0
}

// MatchSignature implements spec §4.4's signature-matching algorithm: try
// each of the descriptor's signatures in declared order, walking right to
// left against the top of stack. The first signature whose kinds all match
// (directly, or via a TypeResolvedVariable with the matching resolved
// kind) wins; the matched operands are returned in source order (bottom of
// the matched slice = first pushed), and ok is true. A zero-operand
// signature always matches. Matching does not mutate stack; the caller
// pops len(operands) values on success.
func MatchSignature(d *Descriptor, stack []value.Value) (operands []value.Value, ok bool) {
	for _, sig := range d.Signatures {
		n := len(sig)
		if n == 0 {
			return nil, true
		}
		if len(stack) < n {
			continue
		}
		top := stack[len(stack)-n:]
		matched := true
		for i, want := range sig {
			if !value.MatchesKind(top[i], want) {
				matched = false
				break
			}
		}
		if matched {
			return append([]value.Value(nil), top...), true
		}
	}
	return nil, false
}

// pathOpeners transition Page -> Path when invoked from Page context.
var pathOpeners = map[string]bool{"m": true, "re": true, "rr": true, "ell": true}

// pathPainters transition Path -> Page.
var pathPainters = map[string]bool{
	"S": true, "s": true, "f": true, "F": true, "f*": true,
	"B": true, "B*": true, "b": true, "b*": true, "n": true,
}

// IsPathOpener reports whether spelling transitions Page -> Path.
func IsPathOpener(spelling string) bool { return pathOpeners[spelling] }

// IsPathPainter reports whether spelling transitions Path -> Page.
func IsPathPainter(spelling string) bool { return pathPainters[spelling] }

var bySpelling map[string]*Descriptor

func register(d Descriptor) {
	if bySpelling == nil {
		bySpelling = map[string]*Descriptor{}
	}
	cp := d
	bySpelling[d.Spelling] = &cp
}

// Lookup returns the descriptor for a canonical spelling, and whether one
// exists.
func Lookup(spelling string) (*Descriptor, bool) {
	d, ok := bySpelling[spelling]
	return d, ok
}

func n(count int) Signature {
	s := make(Signature, count)
	for i := range s {
		s[i] = value.KindNumber
	}
	return s
}

func init() {
	// Special graphics state.
	register(Descriptor{ID: "q", Spelling: "q", Signatures: []Signature{{}}, Contexts: Any})
	register(Descriptor{ID: "Q", Spelling: "Q", Signatures: []Signature{{}}, Contexts: Any})
	register(Descriptor{ID: "cm", Spelling: "cm", Signatures: []Signature{n(6)}, Contexts: Any})
	register(Descriptor{ID: "gs", Spelling: "gs", Signatures: []Signature{{value.KindName}}, Contexts: Any})

	// General graphics state.
	register(Descriptor{ID: "w", Spelling: "w", Signatures: []Signature{n(1)}, Contexts: Any})
	register(Descriptor{ID: "J", Spelling: "J", Signatures: []Signature{n(1)}, Contexts: Any})
	register(Descriptor{ID: "j", Spelling: "j", Signatures: []Signature{n(1)}, Contexts: Any})
	register(Descriptor{ID: "M", Spelling: "M", Signatures: []Signature{n(1)}, Contexts: Any})
	register(Descriptor{ID: "d", Spelling: "d", Signatures: []Signature{{value.KindArray, value.KindNumber}}, Contexts: Any})
	register(Descriptor{ID: "ri", Spelling: "ri", Signatures: []Signature{{value.KindName}}, Contexts: Any})
	register(Descriptor{ID: "i", Spelling: "i", Signatures: []Signature{n(1)}, Contexts: Any})

	// Color selection.
	register(Descriptor{ID: "CS", Spelling: "CS", Signatures: []Signature{{value.KindName}}, Contexts: Any})
	register(Descriptor{ID: "cs", Spelling: "cs", Signatures: []Signature{{value.KindName}}, Contexts: Any})
	register(Descriptor{ID: "SC", Spelling: "SC", Signatures: []Signature{n(1), n(3), n(4)}, Contexts: Any})
	register(Descriptor{ID: "sc", Spelling: "sc", Signatures: []Signature{n(1), n(3), n(4)}, Contexts: Any})
	register(Descriptor{
		ID: "SCN", Spelling: "SCN", Contexts: Any,
		Signatures: []Signature{
			{value.KindName},
			n(1), n(3), n(4),
			append(n(1), value.KindName),
			append(n(3), value.KindName),
			append(n(4), value.KindName),
		},
	})
	register(Descriptor{
		ID: "scn", Spelling: "scn", Contexts: Any,
		Signatures: []Signature{
			{value.KindName},
			n(1), n(3), n(4),
			append(n(1), value.KindName),
			append(n(3), value.KindName),
			append(n(4), value.KindName),
		},
	})
	register(Descriptor{ID: "G", Spelling: "G", Signatures: []Signature{n(1)}, Contexts: Any})
	register(Descriptor{ID: "g", Spelling: "g", Signatures: []Signature{n(1)}, Contexts: Any})
	register(Descriptor{ID: "RG", Spelling: "RG", Signatures: []Signature{n(3)}, Contexts: Any})
	register(Descriptor{ID: "rg", Spelling: "rg", Signatures: []Signature{n(3)}, Contexts: Any})
	register(Descriptor{ID: "K", Spelling: "K", Signatures: []Signature{n(4)}, Contexts: Any})
	register(Descriptor{ID: "k", Spelling: "k", Signatures: []Signature{n(4)}, Contexts: Any})

	// Path construction. m/re/rr/ell also legal from Page (opening a path).
	register(Descriptor{ID: "m", Spelling: "m", Signatures: []Signature{n(2)}, Contexts: Page | Path})
	register(Descriptor{ID: "l", Spelling: "l", Signatures: []Signature{n(2)}, Contexts: Path})
	register(Descriptor{ID: "c", Spelling: "c", Signatures: []Signature{n(6)}, Contexts: Path})
	register(Descriptor{ID: "v", Spelling: "v", Signatures: []Signature{n(4)}, Contexts: Path})
	register(Descriptor{ID: "y", Spelling: "y", Signatures: []Signature{n(4)}, Contexts: Path})
	register(Descriptor{ID: "h", Spelling: "h", Signatures: []Signature{{}}, Contexts: Path})
	register(Descriptor{ID: "re", Spelling: "re", Signatures: []Signature{n(4)}, Contexts: Page | Path})
	register(Descriptor{ID: "rr", Spelling: "rr", Signatures: []Signature{n(5), n(6)}, Contexts: Page | Path})
	register(Descriptor{ID: "ell", Spelling: "ell", Signatures: []Signature{n(4)}, Contexts: Page | Path})

	// Path painting - all Path-only, transition Path -> Page (processor's
	// concern, not the catalogue's).
	starIDs := map[string]string{"f*": "fStar", "B*": "BStar", "b*": "bStar"}
	for _, spelling := range []string{"S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n"} {
		id := spelling
		if sid, ok := starIDs[spelling]; ok {
			id = sid
		}
		register(Descriptor{ID: id, Spelling: spelling, Signatures: []Signature{{}}, Contexts: Path})
	}

	// Text object.
	register(Descriptor{ID: "BT", Spelling: "BT", Signatures: []Signature{{}}, Contexts: Page})
	register(Descriptor{ID: "ET", Spelling: "ET", Signatures: []Signature{{}}, Contexts: Text})

	// Text state, positioning, showing. Text-only, except that the five
	// character/word-spacing-family parameters (Tc, Tw, Tz, TL, Ts) are also
	// legal in Page context: PDF content streams may set text state before
	// the first BT (spec §8 scenario 9: a bare `0.03 Tc` auto-opens a page
	// and writes directly, with no BT ever seen).
	register(Descriptor{ID: "Tf", Spelling: "Tf", Signatures: []Signature{{value.KindName, value.KindNumber}}, Contexts: Text})
	register(Descriptor{ID: "Tj", Spelling: "Tj", Signatures: []Signature{{value.KindString}}, Contexts: Text})
	register(Descriptor{ID: "TJ", Spelling: "TJ", Signatures: []Signature{{value.KindArray}}, Contexts: Text})
	register(Descriptor{ID: "Quote", Spelling: "'", Signatures: []Signature{{value.KindString}}, Contexts: Text})
	register(Descriptor{ID: "DoubleQuote", Spelling: "\"", Signatures: []Signature{{value.KindNumber, value.KindNumber, value.KindString}}, Contexts: Text})
	register(Descriptor{ID: "Td", Spelling: "Td", Signatures: []Signature{n(2)}, Contexts: Text})
	register(Descriptor{ID: "TD", Spelling: "TD", Signatures: []Signature{n(2)}, Contexts: Text})
	register(Descriptor{ID: "TStar", Spelling: "T*", Signatures: []Signature{{}}, Contexts: Text})
	register(Descriptor{ID: "Tm", Spelling: "Tm", Signatures: []Signature{n(6)}, Contexts: Text})
	register(Descriptor{ID: "Tc", Spelling: "Tc", Signatures: []Signature{n(1)}, Contexts: Page | Text})
	register(Descriptor{ID: "Tw", Spelling: "Tw", Signatures: []Signature{n(1)}, Contexts: Page | Text})
	register(Descriptor{ID: "Tz", Spelling: "Tz", Signatures: []Signature{n(1)}, Contexts: Page | Text})
	register(Descriptor{ID: "TL", Spelling: "TL", Signatures: []Signature{n(1)}, Contexts: Page | Text})
	register(Descriptor{ID: "Tr", Spelling: "Tr", Signatures: []Signature{n(1)}, Contexts: Text})
	register(Descriptor{ID: "Ts", Spelling: "Ts", Signatures: []Signature{n(1)}, Contexts: Page | Text})

	// PDFScript extensions.
	register(Descriptor{ID: "Tfl", Spelling: "Tfl", Signatures: []Signature{{value.KindString}}, Contexts: Text})
	register(Descriptor{
		ID: "Tb", Spelling: "Tb", Contexts: Text,
		Signatures: []Signature{
			{value.KindNumber, value.KindNumber},
			{value.KindNumber, value.KindName},
			{value.KindName, value.KindNumber},
			{value.KindName, value.KindName},
		},
	})
	register(Descriptor{ID: "Ta", Spelling: "Ta", Signatures: []Signature{{value.KindName}}, Contexts: Text})
	register(Descriptor{ID: "TA", Spelling: "TA", Signatures: []Signature{{value.KindName}}, Contexts: Text})

	// XObjects and shading - Page only (never mid-path or mid-text object).
	register(Descriptor{ID: "Do", Spelling: "Do", Signatures: []Signature{{value.KindName}}, Contexts: Page})
	register(Descriptor{ID: "sh", Spelling: "sh", Signatures: []Signature{{value.KindName}}, Contexts: Page})

	// Marked content.
	register(Descriptor{ID: "BMC", Spelling: "BMC", Signatures: []Signature{{value.KindName}}, Contexts: Any})
	register(Descriptor{
		ID: "BDC", Spelling: "BDC", Contexts: Any,
		Signatures: []Signature{
			{value.KindName, value.KindName},
			{value.KindName, value.KindDictionary},
		},
	})
	register(Descriptor{ID: "EMC", Spelling: "EMC", Signatures: []Signature{{}}, Contexts: Any})
	register(Descriptor{ID: "MP", Spelling: "MP", Signatures: []Signature{{value.KindName}}, Contexts: Any})
	register(Descriptor{
		ID: "DP", Spelling: "DP", Contexts: Any,
		Signatures: []Signature{
			{value.KindName, value.KindName},
			{value.KindName, value.KindDictionary},
		},
	})

	// Structural keywords, recognized by the statement reader rather than
	// type-checked through MatchSignature.
	register(Descriptor{ID: "endpage", Spelling: "endpage", Structural: true, Signatures: []Signature{{}}, Contexts: Any})
	register(Descriptor{
		ID: "page", Spelling: "page", Structural: true, Contexts: Any,
		Signatures: []Signature{
			{value.KindNumber, value.KindNumber},
			{value.KindName},
		},
	})
}
