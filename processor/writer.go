/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package processor

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"

	"github.com/PagePerfect-io/pdfscript/value"
)

// Orientation is the page orientation passed to Writer.OpenPage.
type Orientation int

// Page orientations.
const (
	Portrait Orientation = iota
	Landscape
)

// ResourceKind discriminates the handles a Writer's resource-creation
// methods return.
type ResourceKind int

// Resource handle kinds.
const (
	StandardFontResource ResourceKind = iota
	TrueTypeFontResource
	ImageResource
	LinearGradientResource
	RadialGradientResource
)

// Handle identifies a writer-owned resource (a font, image or pattern) by
// an opaque Writer-assigned ID, usable in content-stream operand position
// (spec §6: "each returns a handle with an identifier usable in content
// streams").
type Handle struct {
	Kind ResourceKind
	ID   string
}

// Writer is the external collaborator contract of spec §6: the processor
// never writes PDF bytes itself, it only calls through this narrow
// interface. Grounded in the overall shape of model.PdfWriter in the
// teacher (page/object lifecycle + resource dictionaries), generalized to
// the content-authoring direction spec.md describes (the processor
// produces content, rather than the teacher's read-a-PDF-and-rewrite-it
// direction) and restricted to exactly the methods §6 enumerates.
//
// A Writer must support both the single-stream (OpenContentStream/
// CloseContentStream) and multi-stream (NextContentStream) page lifecycles,
// but a single document build must not mix them across pages. The
// Processor only ever drives the single-stream form; the Writer does not
// check for mixing.
type Writer interface {
	Open() error
	CloseIfNeeded() error

	OpenPage(width, height float64, orientation Orientation) error
	ClosePage() error

	OpenContentStream() error
	NextContentStream() error
	CloseContentStream() error

	WriteRawContent(s string) error
	WriteValue(v value.Value) error
	WriteLines(lines []Line) error

	CreateStandardFont(name string) (Handle, error)
	CreateTrueTypeFont(path string) (Handle, error)
	CreateImage(path string) (Handle, error)
	CreateLinearGradientPattern(rect [4]float64, colours [][]float64, stops []float64) (Handle, error)
	CreateRadialGradientPattern(rect [4]float64, colours [][]float64, stops []float64) (Handle, error)

	AddResourceToPage(h Handle) error
}

// pageRecord is one page's worth of observations in a RecordingWriter.
type pageRecord struct {
	Width, Height float64
	Orientation   Orientation
	Content       strings.Builder
	Resources     []Handle
	Lines         [][]Line
}

// RecordingWriter is the reference Writer of SPEC_FULL's supplemental
// feature 4: it implements the full §6 contract by recording every call
// into an in-memory structure instead of producing PDF bytes, so the
// processor and its testable properties (§8) are exercisable without a
// real PDF file writer (out of scope per §1). Mirrors the teacher's
// pattern of a narrow collaborator interface with the reference
// implementation kept deliberately simple.
type RecordingWriter struct {
	mu sync.Mutex

	opened bool
	closed bool

	// lifecycle records which content-stream style this build has
	// committed to, so a caller can assert no page mixed the two.
	singleStreamUsed bool
	multiStreamUsed  bool

	Pages       []*pageRecord
	current     *pageRecord
	resourceSeq int
}

// NewRecordingWriter returns an unopened RecordingWriter.
func NewRecordingWriter() *RecordingWriter { return &RecordingWriter{} }

// Open implements Writer.
func (w *RecordingWriter) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opened = true
	return nil
}

// CloseIfNeeded implements Writer; idempotent.
func (w *RecordingWriter) CloseIfNeeded() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// OpenPage implements Writer.
func (w *RecordingWriter) OpenPage(width, height float64, orientation Orientation) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := &pageRecord{Width: width, Height: height, Orientation: orientation}
	w.Pages = append(w.Pages, p)
	w.current = p
	return nil
}

// ClosePage implements Writer.
func (w *RecordingWriter) ClosePage() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = nil
	return nil
}

// OpenContentStream implements Writer (single-stream lifecycle).
func (w *RecordingWriter) OpenContentStream() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.singleStreamUsed = true
	return nil
}

// NextContentStream implements Writer (multi-stream lifecycle).
func (w *RecordingWriter) NextContentStream() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.multiStreamUsed = true
	if w.current != nil && w.current.Content.Len() > 0 {
		w.current.Content.WriteString("\n")
	}
	return nil
}

// CloseContentStream implements Writer.
func (w *RecordingWriter) CloseContentStream() error { return nil }

// WriteRawContent implements Writer.
func (w *RecordingWriter) WriteRawContent(s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return fmt.Errorf("write_raw_content called with no open page")
	}
	w.current.Content.WriteString(s)
	return nil
}

// WriteValue implements Writer: serializes v in PDF syntax (spec §6).
// Strings are validated against WinAnsi (Windows-1252) semantics via
// golang.org/x/text/encoding/charmap, per SPEC_FULL's domain-stack wiring.
func (w *RecordingWriter) WriteValue(v value.Value) error {
	s, err := FormatValue(v)
	if err != nil {
		return err
	}
	return w.WriteRawContent(s)
}

// FormatValue renders v in PDF content-stream syntax (spec §6): booleans as
// true/false, numbers in minimal decimal form, strings parenthesized with
// WinAnsi escaping of bytes >= 128 and PDF special characters, names with
// their leading slash, arrays/dictionaries recursively.
func FormatValue(v value.Value) (string, error) {
	switch tv := v.(type) {
	case value.Boolean:
		return tv.String(), nil
	case value.Number:
		return tv.String(), nil
	case value.Name:
		return string(tv), nil
	case value.String:
		return formatString(tv)
	case *value.Array:
		var b strings.Builder
		b.WriteString("[")
		for i, e := range tv.Elements {
			if i > 0 {
				b.WriteString(" ")
			}
			s, err := FormatValue(e)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		b.WriteString(" ]")
		return b.String(), nil
	case *value.Dictionary:
		var b strings.Builder
		b.WriteString("<<")
		for _, k := range tv.Keys() {
			val, _ := tv.Get(k)
			s, err := FormatValue(val)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, " %s %s", k, s)
		}
		b.WriteString(" >>")
		return b.String(), nil
	default:
		return "", fmt.Errorf("cannot format value of kind %s", v.Kind())
	}
}

var winAnsiEncoder = charmap.Windows1252.NewEncoder()

func formatString(s value.String) (string, error) {
	if s.IsHex() {
		return fmt.Sprintf("<%x>", s.Bytes()), nil
	}
	encoded, err := winAnsiEncoder.Bytes(s.Bytes())
	if err != nil {
		// Bytes already Latin-1/WinAnsi range pass through unencoded;
		// fall back to the raw payload rather than failing the write.
		encoded = s.Bytes()
	}
	var b strings.Builder
	b.WriteByte('(')
	for _, c := range encoded {
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			if c >= 128 {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte(')')
	return b.String(), nil
}

// WriteLines implements Writer: records lines on the current page, then
// emits BT, a `0 <baseline> Td` and a Tj for each line, and ET. It emits no
// Tf (the font already selected stays in effect) and never uses TD, T* or
// TJ.
func (w *RecordingWriter) WriteLines(lines []Line) error {
	w.mu.Lock()
	if w.current == nil {
		w.mu.Unlock()
		return fmt.Errorf("write_lines called with no open page")
	}
	w.current.Lines = append(w.current.Lines, append([]Line(nil), lines...))
	w.mu.Unlock()

	if err := w.WriteRawContent("BT\r\n"); err != nil {
		return err
	}
	for _, l := range lines {
		if err := w.WriteRawContent(fmt.Sprintf("0 %s Td\r\n", value.Number(l.Baseline).String())); err != nil {
			return err
		}
		escaped, err := formatString(value.NewString([]byte(l.Text)))
		if err != nil {
			return err
		}
		if err := w.WriteRawContent(escaped + " Tj\r\n"); err != nil {
			return err
		}
	}
	return w.WriteRawContent("ET\r\n")
}

func (w *RecordingWriter) nextHandle(kind ResourceKind, prefix string) Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resourceSeq++
	return Handle{Kind: kind, ID: fmt.Sprintf("/%s%d", prefix, w.resourceSeq)}
}

// CreateStandardFont implements Writer.
func (w *RecordingWriter) CreateStandardFont(name string) (Handle, error) {
	return w.nextHandle(StandardFontResource, "F"), nil
}

// CreateTrueTypeFont implements Writer.
func (w *RecordingWriter) CreateTrueTypeFont(path string) (Handle, error) {
	return w.nextHandle(TrueTypeFontResource, "F"), nil
}

// CreateImage implements Writer.
func (w *RecordingWriter) CreateImage(path string) (Handle, error) {
	return w.nextHandle(ImageResource, "Im"), nil
}

// CreateLinearGradientPattern implements Writer.
func (w *RecordingWriter) CreateLinearGradientPattern(rect [4]float64, colours [][]float64, stops []float64) (Handle, error) {
	return w.nextHandle(LinearGradientResource, "P"), nil
}

// CreateRadialGradientPattern implements Writer.
func (w *RecordingWriter) CreateRadialGradientPattern(rect [4]float64, colours [][]float64, stops []float64) (Handle, error) {
	return w.nextHandle(RadialGradientResource, "P"), nil
}

// AddResourceToPage implements Writer; idempotent.
func (w *RecordingWriter) AddResourceToPage(h Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return fmt.Errorf("add_resource_to_page called with no open page")
	}
	for _, existing := range w.current.Resources {
		if existing == h {
			return nil
		}
	}
	w.current.Resources = append(w.current.Resources, h)
	return nil
}
