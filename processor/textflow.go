/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package processor

import "strings"

// Rect is an axis-aligned bounding box (llx, lly, width, height) as used by
// a text box (spec §4.5's `Tb width height`).
type Rect struct {
	X, Y, Width, Height float64
}

// Span is one run of text with the graphics-state parameters that affect
// its shape, the unit the TextFlowEngine collaborator lays out (spec §6:
// "accepts spans and a rectangle and returns laid-out lines").
type Span struct {
	Text     string
	FontName string
	FontSize float64
}

// FlowOptions carries the current alignment and spacing state that affects
// layout (spec §4.5's `Tfl` collaboration: "current alignment options,
// leading, word spacing, character spacing, and horizontal scaling").
type FlowOptions struct {
	HAlign      TextAlignment
	VAlign      VerticalAlignment
	Leading     float64
	WordSpacing float64
	CharSpacing float64
	HorizScale  float64
}

// Line is one laid-out output line: literal text plus its baseline
// position relative to the text box, ready for Writer.WriteLines.
type Line struct {
	Text     string
	Baseline float64
}

// TextFlowEngine is the text-flow line-breaking/justification collaborator
// (spec §1: "treated as a black-box collaborator"; §6). The processor
// never implements wrapping itself; it calls out to this interface.
type TextFlowEngine interface {
	Flow(span Span, box Rect, opts FlowOptions) ([]Line, error)
}

// charWidthFraction is the reference engine's per-character width estimate
// as a fraction of font size, standing in for real glyph metrics (which
// live in the font program and are out of scope per §1). This keeps faith
// with spec.md §9's note that auto-width measurement is out of scope: this
// approximation is only used on the explicit-width branch, never to decide
// whether Tfl should auto-size at all.
const charWidthFraction = 0.5

// GreedyTextFlowEngine is the reference TextFlowEngine of SPEC_FULL's
// supplemental feature 3: a default greedy word-wrap implementation,
// sufficient to exercise the processor end to end without a real
// typesetting engine.
type GreedyTextFlowEngine struct{}

// Flow implements TextFlowEngine with a greedy line-break: words are added
// to the current line while it fits box.Width (estimated via
// charWidthFraction), wrapping to a new line otherwise. Vertical placement
// starts at the top of the box and steps down by Leading (or FontSize*1.2
// if Leading is zero) per line; lines beyond the box height are dropped.
func (GreedyTextFlowEngine) Flow(span Span, box Rect, opts FlowOptions) ([]Line, error) {
	leading := opts.Leading
	if leading <= 0 {
		leading = span.FontSize * 1.2
	}
	charWidth := span.FontSize * charWidthFraction * (opts.HorizScale / 100)
	if charWidth <= 0 {
		charWidth = span.FontSize * charWidthFraction
	}
	maxChars := int(box.Width / charWidth)
	if maxChars < 1 {
		maxChars = 1
	}

	words := strings.Fields(span.Text)
	var rawLines []string
	var cur strings.Builder
	for _, word := range words {
		candidate := word
		if cur.Len() > 0 {
			candidate = cur.String() + " " + word
		}
		if len(candidate) > maxChars && cur.Len() > 0 {
			rawLines = append(rawLines, cur.String())
			cur.Reset()
			cur.WriteString(word)
			continue
		}
		cur.Reset()
		cur.WriteString(candidate)
	}
	if cur.Len() > 0 {
		rawLines = append(rawLines, cur.String())
	}

	var lines []Line
	y := box.Y + box.Height - leading
	for _, text := range rawLines {
		if y < box.Y {
			break
		}
		lines = append(lines, Line{Text: alignLine(text, maxChars, opts.HAlign), Baseline: y})
		y -= leading
	}
	return lines, nil
}

// alignLine pads text with leading spaces to approximate center/right
// alignment within a maxChars-wide line. Left and justified alignment are
// left untouched: justification is the writer's job once word spacing is
// set (spec §4.5's Tw-wrapping rule), not this engine's.
func alignLine(text string, maxChars int, align TextAlignment) string {
	pad := maxChars - len(text)
	if pad <= 0 {
		return text
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + text
	case AlignCenter:
		return strings.Repeat(" ", pad/2) + text
	default:
		return text
	}
}
