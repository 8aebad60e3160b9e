/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package processor

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/PagePerfect-io/pdfscript/perr"
	"github.com/PagePerfect-io/pdfscript/reader"
	"github.com/PagePerfect-io/pdfscript/resources"
	"github.com/PagePerfect-io/pdfscript/value"
)

// imageSniffHeaderSize is the number of leading bytes h2non/filetype needs
// to identify a file's type (its Match doc: the first 261 bytes are
// sufficient for every format it recognises).
const imageSniffHeaderSize = 261

// roundedRectConstant is the circle-to-Bézier magic number k = 4(sqrt(2)-1)/3
// (spec §4.5's `rr` transform), kept as a derived expression rather than the
// teacher's hardcoded `magic := 0.551784` since spec.md requires the exact
// derivation.
var roundedRectConstant = 4 * (math.Sqrt2 - 1) / 3

func (p *Processor) handleTa(operands []value.Value) error {
	name, ok := operands[0].(value.Name)
	if !ok {
		return perr.Processor("Ta requires a Name operand")
	}
	switch name {
	case "/Left":
		p.gs.HAlign = AlignLeft
	case "/Center":
		p.gs.HAlign = AlignCenter
	case "/Right":
		p.gs.HAlign = AlignRight
	case "/Justify":
		p.gs.HAlign = AlignJustify
	default:
		return perr.Processor("unknown horizontal alignment %q", name)
	}
	return nil
}

func (p *Processor) handleTA(operands []value.Value) error {
	name, ok := operands[0].(value.Name)
	if !ok {
		return perr.Processor("TA requires a Name operand")
	}
	switch name {
	case "/Top":
		p.gs.VAlign = VAlignTop
	case "/Middle":
		p.gs.VAlign = VAlignMiddle
	case "/Bottom":
		p.gs.VAlign = VAlignBottom
	default:
		return perr.Processor("unknown vertical alignment %q", name)
	}
	return nil
}

// handleTf implements spec §4.5's `Tf fontName size`: standard fonts
// resolve directly; anything else must be a declared Font resource (or,
// per SPEC_FULL's supplemental feature 1, a system font sysfont can find),
// de-duplicated by identity through fontHandles.
func (p *Processor) handleTf(operands []value.Value) error {
	nameVal, ok := operands[0].(value.Name)
	if !ok {
		return perr.Processor("Tf requires a font Name operand")
	}
	size, ok := operands[1].(value.Number)
	if !ok {
		return perr.Processor("Tf requires a numeric size operand")
	}
	fontName := string(nameVal)

	handle, err := p.resolveFont(fontName)
	if err != nil {
		return err
	}
	if err := p.Writer.AddResourceToPage(handle); err != nil {
		return err
	}
	p.gs.FontName = fontName
	p.gs.FontSize = size.Float64()
	return p.Writer.WriteRawContent(fmt.Sprintf("%s %s Tf\r\n", handle.ID, size.String()))
}

// resolveFont implements the standard-font / declared-resource / system-font
// fallback chain (spec §4.5's Tf rule, enriched by SPEC_FULL's supplemental
// system-font-fallback feature).
func (p *Processor) resolveFont(fontName string) (Handle, error) {
	if h, ok := p.fontHandles[fontName]; ok {
		return h, nil
	}

	bare := fontName
	if len(bare) > 0 && bare[0] == '/' {
		bare = bare[1:]
	}
	if IsStandardFont(bare) {
		h, err := p.Writer.CreateStandardFont(bare)
		if err != nil {
			return Handle{}, err
		}
		p.fontHandles[fontName] = h
		return h, nil
	}

	if decl, ok := p.resourceDecls[fontName]; ok {
		if decl.Kind != reader.ResourceFont {
			return Handle{}, perr.Processor("resource %q is not a Font resource", fontName)
		}
		resolved, err := p.Resolver.Resolve(resources.Font, decl.Location)
		if err != nil {
			return Handle{}, perr.Processor("could not resolve font resource %q: %v", fontName, err)
		}
		h, err := p.Writer.CreateTrueTypeFont(resolved.Path)
		if err != nil {
			return Handle{}, err
		}
		p.fontHandles[fontName] = h
		return h, nil
	}

	if p.Resolver != nil {
		resolved, err := p.Resolver.Resolve(resources.Font, bare)
		if err == nil {
			h, err := p.Writer.CreateTrueTypeFont(resolved.Path)
			if err != nil {
				return Handle{}, err
			}
			p.fontHandles[fontName] = h
			return h, nil
		}
	}

	return Handle{}, perr.Processor("unresolved font resource %q", fontName)
}

// handleDo implements spec §4.5's `Do /name`.
func (p *Processor) handleDo(operands []value.Value) error {
	nameVal, ok := operands[0].(value.Name)
	if !ok {
		return perr.Processor("Do requires a Name operand")
	}
	name := string(nameVal)

	handle, ok := p.imageHandles[name]
	if !ok {
		decl, ok := p.resourceDecls[name]
		if !ok {
			return perr.Processor("unresolved image resource %q", name)
		}
		if decl.Kind != reader.ResourceImage {
			return perr.Processor("resource %q is not an Image resource", name)
		}
		resolved, err := p.Resolver.Resolve(resources.Image, decl.Location)
		if err != nil {
			return perr.Processor("could not resolve image resource %q: %v", name, err)
		}
		if resolved.Extension == "" {
			if ext, ok := sniffImageFile(resolved.Path); ok {
				p.Resolver.SetImageExtension(decl.Location, ext)
			}
		}
		handle, err = p.Writer.CreateImage(resolved.Path)
		if err != nil {
			return err
		}
		p.imageHandles[name] = handle
	}
	if err := p.Writer.AddResourceToPage(handle); err != nil {
		return err
	}
	return p.Writer.WriteRawContent(handle.ID + " Do\r\n")
}

// sniffImageFile reads path's leading bytes and sniffs its image kind via
// resources.SniffImageKind. A file that can't be opened, or is too short to
// carry a recognisable header, just yields ok == false: handleDo's resolve
// step already failed fast on an unresolvable declaration, so a resource
// whose bytes aren't sniffable is not itself fatal to Do - it only means the
// Writer doesn't get a confirmed extension hint.
func sniffImageFile(path string) (ext string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	header := make([]byte, imageSniffHeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", false
	}
	return resources.SniffImageKind(header[:n])
}

// handleColourName implements spec §4.5's `scn`/`SCN` single-name dispatch:
// a pattern name selects the Pattern colour space and the pattern handle; a
// colour name emits the solid-colour op for its declared colour space. Any
// other signature passes through unchanged.
func (p *Processor) handleColourName(operands []value.Value, upper bool) error {
	spelling := "scn"
	if upper {
		spelling = "SCN"
	}
	if len(operands) != 1 {
		return p.emitValues(spelling, operands)
	}
	nameVal, ok := operands[0].(value.Name)
	if !ok {
		return p.emitValues(spelling, operands)
	}
	name := string(nameVal)

	if decl, ok := p.patternDecls[name]; ok {
		handle, err := p.resolvePattern(name, decl)
		if err != nil {
			return err
		}
		if err := p.Writer.AddResourceToPage(handle); err != nil {
			return err
		}
		csOp := "cs"
		if upper {
			csOp = "CS"
		}
		if err := p.Writer.WriteRawContent("/Pattern " + csOp + "\r\n"); err != nil {
			return err
		}
		return p.Writer.WriteRawContent(handle.ID + " " + spelling + "\r\n")
	}

	if decl, ok := p.colourDecls[name]; ok {
		return p.emitSolidColour(decl, upper)
	}

	return perr.Processor("%q is neither a declared pattern nor a declared colour", name)
}

func (p *Processor) resolvePattern(name string, decl reader.PatternDecl) (Handle, error) {
	if h, ok := p.patternHandles[name]; ok {
		return h, nil
	}
	var h Handle
	var err error
	switch decl.Kind {
	case reader.LinearGradient:
		h, err = p.Writer.CreateLinearGradientPattern(decl.Rect, decl.Colours, decl.Stops)
	default:
		h, err = p.Writer.CreateRadialGradientPattern(decl.Rect, decl.Colours, decl.Stops)
	}
	if err != nil {
		return Handle{}, err
	}
	p.patternHandles[name] = h
	return h, nil
}

// emitSolidColour maps a declared colour's arity to the matching solid-fill
// operator (g/G for Gray, rg/RG for RGB, k/K for CMYK).
func (p *Processor) emitSolidColour(decl reader.ColourDecl, upper bool) error {
	var spelling string
	switch len(decl.Components) {
	case 1:
		spelling = pick(upper, "G", "g")
	case 3:
		spelling = pick(upper, "RG", "rg")
	case 4:
		spelling = pick(upper, "K", "k")
	default:
		return perr.Processor("colour %q has an unsupported component arity %d", decl.Name, len(decl.Components))
	}
	operands := make([]value.Value, len(decl.Components))
	for i, c := range decl.Components {
		operands[i] = value.Number(c)
	}
	return p.emitValues(spelling, operands)
}

func pick(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// handleRoundedRect implements spec §4.5's `rr` extension: emits
// m l c l c l c l c h approximating a rounded rectangle, clamping rx/ry to
// half the box and falling back to a plain `re` when both radii are
// non-positive.
func (p *Processor) handleRoundedRect(operands []value.Value) error {
	x := mustNumber(operands[0])
	y := mustNumber(operands[1])
	w := mustNumber(operands[2])
	h := mustNumber(operands[3])
	rx := mustNumber(operands[4])
	ry := rx
	if len(operands) == 6 {
		ry = mustNumber(operands[5])
	}

	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}
	if rx <= 0 && ry <= 0 {
		return p.emitValues("re", []value.Value{value.Number(x), value.Number(y), value.Number(w), value.Number(h)})
	}

	k := roundedRectConstant
	ops := []struct {
		spelling string
		coords   []float64
	}{
		{"m", []float64{x + rx, y}},
		{"l", []float64{x + w - rx, y}},
		{"c", []float64{x + w - rx + k*rx, y, x + w, y + ry - k*ry, x + w, y + ry}},
		{"l", []float64{x + w, y + h - ry}},
		{"c", []float64{x + w, y + h - ry + k*ry, x + w - rx + k*rx, y + h, x + w - rx, y + h}},
		{"l", []float64{x + rx, y + h}},
		{"c", []float64{x + rx - k*rx, y + h, x, y + h - ry + k*ry, x, y + h - ry}},
		{"l", []float64{x, y + ry}},
		{"c", []float64{x, y + ry - k*ry, x + rx - k*rx, y, x + rx, y}},
		{"h", nil},
	}
	for _, op := range ops {
		if err := p.emitCoords(op.spelling, op.coords); err != nil {
			return err
		}
	}
	return nil
}

// handleEllipse implements spec §4.5's `ell` extension: four Bézier curves
// approximating an ellipse inscribed in the given bounding box.
func (p *Processor) handleEllipse(operands []value.Value) error {
	x := mustNumber(operands[0])
	y := mustNumber(operands[1])
	w := mustNumber(operands[2])
	h := mustNumber(operands[3])

	cx, cy := x+w/2, y+h/2
	rx, ry := w/2, h/2
	k := roundedRectConstant

	if err := p.emitCoords("m", []float64{cx + rx, cy}); err != nil {
		return err
	}
	curves := [][]float64{
		{cx + rx, cy + k*ry, cx + k*rx, cy + ry, cx, cy + ry},
		{cx - k*rx, cy + ry, cx - rx, cy + k*ry, cx - rx, cy},
		{cx - rx, cy - k*ry, cx - k*rx, cy - ry, cx, cy - ry},
		{cx + k*rx, cy - ry, cx + rx, cy - k*ry, cx + rx, cy},
	}
	for _, c := range curves {
		if err := p.emitCoords("c", c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) emitCoords(spelling string, coords []float64) error {
	operands := make([]value.Value, len(coords))
	for i, c := range coords {
		operands[i] = value.Number(c)
	}
	return p.emitValues(spelling, operands)
}

// handleTb implements spec §4.5's `Tb width height` extension: updates the
// text-box constraint for subsequent Tfl. Width/height may be positive
// numbers or the name /Auto (stored as a NaN sentinel). Tb produces no
// output of its own (§4.5 describes only a state update, unlike rr/ell/Tfl
// which have explicit emission rules).
func (p *Processor) handleTb(operands []value.Value) error {
	w, err := numberOrAuto(operands[0])
	if err != nil {
		return err
	}
	h, err := numberOrAuto(operands[1])
	if err != nil {
		return err
	}
	p.textBoxWidth, p.textBoxHeight = w, h
	return nil
}

func numberOrAuto(v value.Value) (float64, error) {
	switch tv := v.(type) {
	case value.Number:
		if tv.Float64() > 0 {
			return tv.Float64(), nil
		}
	case value.Name:
		if tv == "/Auto" {
			return math.NaN(), nil
		}
	}
	return 0, perr.Processor("Tb requires a positive number or /Auto")
}

// handleTfl implements spec §4.5's `Tfl text` extension.
func (p *Processor) handleTfl(operands []value.Value) error {
	if p.gs.FontName == "" || p.gs.FontSize <= 0 {
		return perr.Processor("Tfl requires a font and positive font size")
	}
	text, ok := operands[0].(value.String)
	if !ok {
		return perr.Processor("Tfl requires a String operand")
	}

	if math.IsNaN(p.textBoxWidth) {
		return p.emitValues("Tj", []value.Value{text})
	}

	span := Span{Text: string(text.Bytes()), FontName: p.gs.FontName, FontSize: p.gs.FontSize}
	box := Rect{Width: p.textBoxWidth, Height: p.textBoxHeight}
	opts := FlowOptions{
		HAlign:      p.gs.HAlign,
		VAlign:      p.gs.VAlign,
		Leading:     p.gs.Leading,
		WordSpacing: p.gs.WordSpacing,
		CharSpacing: p.gs.CharSpacing,
		HorizScale:  p.gs.HorizScale,
	}

	lines, err := p.TextFlow.Flow(span, box, opts)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	justified := p.gs.HAlign == AlignJustify && p.gs.WordSpacing != 0
	if justified {
		if err := p.Writer.WriteRawContent("q 0 Tw\r\n"); err != nil {
			return err
		}
	}
	if err := p.Writer.WriteLines(lines); err != nil {
		return err
	}
	if justified {
		return p.Writer.WriteRawContent("Q\r\n")
	}
	return nil
}
