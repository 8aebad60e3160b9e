/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package processor

// TextAlignment is the horizontal or vertical alignment a text box can
// request for Tfl layout (spec §4.5's "horizontal and vertical text
// alignment" graphics-state fields).
type TextAlignment int

// Horizontal alignment values (set via `/Left`, `/Center`, `/Right`,
// `/Justify` names passed to Ta).
const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// VerticalAlignment is the vertical counterpart set via TA.
type VerticalAlignment int

// Vertical alignment values.
const (
	VAlignTop VerticalAlignment = iota
	VAlignMiddle
	VAlignBottom
)

// GraphicsState is the mutable record pushed on `q` and popped on `Q` (spec
// §3's Graphics state, §4.5's graphics-state-stack rules). Grounded in the
// shape of contentstream.GraphicsState in the teacher, generalized from the
// teacher's colorspace/CTM-only fields to the text-parameter fields
// PDFScript's extension operators need (char/word spacing, horizontal
// scale, leading, rise, font, font size, and the two PDFScript-only
// alignment fields that never reach the writer directly).
type GraphicsState struct {
	CharSpacing    float64
	WordSpacing    float64
	HorizScale     float64 // Tz, percent; 100 is unscaled
	Leading        float64
	Rise           float64
	FontName       string
	FontSize       float64
	HAlign         TextAlignment
	VAlign         VerticalAlignment
}

// DefaultGraphicsState returns the graphics state PDF content streams begin
// with: unscaled horizontal scale, everything else zero, left/top
// alignment.
func DefaultGraphicsState() GraphicsState {
	return GraphicsState{HorizScale: 100, HAlign: AlignLeft, VAlign: VAlignTop}
}

// Clone returns a copy of gs, safe to mutate independently (GraphicsState
// has no reference fields, so a plain value copy suffices).
func (gs GraphicsState) Clone() GraphicsState { return gs }

// GraphicsStateStack is the save/restore stack driven by q/Q (spec §4.5:
// "the stack never underflows; a Q without matching q is an error").
type GraphicsStateStack struct {
	stack []GraphicsState
}

// Push pushes a clone of gs.
func (s *GraphicsStateStack) Push(gs GraphicsState) {
	s.stack = append(s.stack, gs.Clone())
}

// Pop pops and returns the topmost state, and whether the stack was
// non-empty.
func (s *GraphicsStateStack) Pop() (GraphicsState, bool) {
	if len(s.stack) == 0 {
		return GraphicsState{}, false
	}
	gs := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return gs, true
}

// Len reports the current stack depth.
func (s *GraphicsStateStack) Len() int { return len(s.stack) }
