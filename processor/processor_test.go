/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PagePerfect-io/pdfscript/lexer"
	"github.com/PagePerfect-io/pdfscript/reader"
	"github.com/PagePerfect-io/pdfscript/resources"
)

// pngMagic is a real PNG signature plus an IHDR chunk header, enough for
// h2non/filetype to positively identify the file as "png".
var pngMagic = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
}

func newProcessor(src string) (*Processor, *reader.Reader, *RecordingWriter) {
	lx := lexer.New(strings.NewReader(src), lexer.DefaultOptions())
	env := reader.NewEnvironment()
	r := reader.New(lx, env)
	w := NewRecordingWriter()
	resolver := resources.NewResolver(resources.FakeFetcher{Paths: map[string]string{}}, nil)
	p := New(w, GreedyTextFlowEngine{}, resolver, env, DefaultOptions())
	return p, r, w
}

// Scenario 1 (spec §8): a bare path statement opens a default-sized page.
func TestSimplePathStatementOpensDefaultPage(t *testing.T) {
	p, r, w := newProcessor("10 10 m 100 100 l S")
	require.NoError(t, p.Run(r))

	require.Len(t, w.Pages, 1)
	assert.Equal(t, 595.0, w.Pages[0].Width)
	assert.Equal(t, 842.0, w.Pages[0].Height)
	assert.Equal(t, "10 10 m\r\n100 100 l\r\nS\r\n", w.Pages[0].Content.String())
}

// Scenario 2: repeated endpage opens and closes successive empty pages.
func TestRepeatedEndpageOpensMultiplePages(t *testing.T) {
	p, r, w := newProcessor("endpage endpage 10 10 m 100 100 l S")
	require.NoError(t, p.Run(r))

	require.Len(t, w.Pages, 3)
	assert.Empty(t, w.Pages[0].Content.String())
	assert.Empty(t, w.Pages[1].Content.String())
	assert.Equal(t, "10 10 m\r\n100 100 l\r\nS\r\n", w.Pages[2].Content.String())
}

// Scenario 3: a variable's initial value resolves into the emitted operands.
func TestVariableResolvesIntoOperands(t *testing.T) {
	p, r, w := newProcessor("# var $x /Number 10\n$x $x 100 100 re")
	require.NoError(t, p.Run(r))

	require.Len(t, w.Pages, 1)
	assert.Equal(t, "10 10 100 100 re\r\n", w.Pages[0].Content.String())
}

// Re-declaring a variable name is a Processor-level error (claimName).
func TestRedeclaredVariableIsProcessorError(t *testing.T) {
	p, r, _ := newProcessor("# var $x /Number 10\n# var $x /Number 20\n")
	err := p.Run(r)
	require.Error(t, err)
}

// Scenario 9: a document with no explicit endpage/close is auto-closed.
func TestAutoClosedDocument(t *testing.T) {
	p, r, w := newProcessor("0.03 Tc")
	require.NoError(t, p.Run(r))

	require.Len(t, w.Pages, 1)
	assert.Equal(t, "0.03 Tc\r\n", w.Pages[0].Content.String())
	assert.True(t, w.closed)
}

// q ... Q restores the character spacing saved by q and leaves the
// graphics-state stack empty at the end.
func TestGraphicsStateStackBalancesAcrossQQ(t *testing.T) {
	p, r, w := newProcessor("q 0.03 Tc Q")
	require.NoError(t, p.Run(r))

	assert.Equal(t, 0, p.gsStack.Len())
	assert.Equal(t, 0.0, p.gs.CharSpacing)
	assert.Equal(t, "q\r\n0.03 Tc\r\nQ\r\n", w.Pages[0].Content.String())
}

func TestUnmatchedQIsError(t *testing.T) {
	p, r, _ := newProcessor("Q")
	err := p.Run(r)
	require.Error(t, err)
}

func TestPathOperatorOutsidePathContextIsRejected(t *testing.T) {
	// "l" (lineto) is only legal once a path has been opened via "m"/"re".
	p, r, _ := newProcessor("100 100 l")
	err := p.Run(r)
	require.Error(t, err)
}

func TestTextOperatorOutsideTextContextIsRejected(t *testing.T) {
	p, r, _ := newProcessor("(hello) Tj")
	err := p.Run(r)
	require.Error(t, err)
}

// rr is dispatched through its own switch arm, not the default case; this
// confirms it still participates in the Page -> Path -> Page context
// transition so a trailing "f" (legal only in Path) is accepted.
func TestRoundedRectOpenerTransitionsContextForPainter(t *testing.T) {
	p, r, w := newProcessor("0 0 100 50 10 rr f")
	require.NoError(t, p.Run(r))
	content := w.Pages[0].Content.String()
	assert.Contains(t, content, "h\r\n")
	assert.Contains(t, content, "f\r\n")
}

func TestReservedNameCannotBeDeclared(t *testing.T) {
	p, r, _ := newProcessor("# var $Courier /Number 1\n")
	err := p.Run(r)
	require.Error(t, err)
}

func TestStandardFontResolvesWithoutResourceDecl(t *testing.T) {
	p, r, w := newProcessor("BT /Helvetica 12 Tf (hi) Tj ET")
	require.NoError(t, p.Run(r))
	content := w.Pages[0].Content.String()
	assert.Contains(t, content, "Tf\r\n")
	assert.Equal(t, 12.0, p.gs.FontSize)
	assert.Equal(t, "/Helvetica", p.gs.FontName)
}

func TestDoRequiresDeclaredImageResource(t *testing.T) {
	p, r, _ := newProcessor("/Im1 Do")
	err := p.Run(r)
	require.Error(t, err)
}

func TestDoResolvesDeclaredImageAndDedupesHandle(t *testing.T) {
	src := "# resource /Im1 /Image (logo.png)\n/Im1 Do /Im1 Do"
	lx := lexer.New(strings.NewReader(src), lexer.DefaultOptions())
	env := reader.NewEnvironment()
	r := reader.New(lx, env)
	w := NewRecordingWriter()
	resolver := resources.NewResolver(resources.FakeFetcher{Paths: map[string]string{"logo.png": "/tmp/logo.png"}}, nil)
	p := New(w, GreedyTextFlowEngine{}, resolver, env, DefaultOptions())

	require.NoError(t, p.Run(r))
	require.Len(t, w.Pages, 1)
	require.Len(t, w.Pages[0].Resources, 1)
	assert.Equal(t, 2, strings.Count(w.Pages[0].Content.String(), " Do\r\n"))
}

// Do sniffs the resolved file's header (h2non/filetype, spec_full's domain
// stack) and records the extension on the Resolver's cache entry before
// creating the image, so a resolver shared across declarations sees it too.
func TestDoSniffsResolvedImageHeaderAndRecordsExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo")
	require.NoError(t, os.WriteFile(path, pngMagic, 0o600))

	src := "# resource /Im1 /Image (logo)\n/Im1 Do"
	lx := lexer.New(strings.NewReader(src), lexer.DefaultOptions())
	env := reader.NewEnvironment()
	r := reader.New(lx, env)
	w := NewRecordingWriter()
	resolver := resources.NewResolver(resources.FakeFetcher{Paths: map[string]string{"logo": path}}, nil)
	p := New(w, GreedyTextFlowEngine{}, resolver, env, DefaultOptions())

	require.NoError(t, p.Run(r))
	require.Len(t, w.Pages[0].Resources, 1)

	resolved, err := resolver.Resolve(resources.Image, "logo")
	require.NoError(t, err)
	assert.Equal(t, "png", resolved.Extension)
}

// A resource location that can't be opened (the common case in tests that
// stub a Fetcher without real files on disk) does not fail Do - it just
// resolves without a sniffed extension.
func TestDoToleratesUnreadableResolvedPath(t *testing.T) {
	src := "# resource /Im1 /Image (logo.png)\n/Im1 Do"
	lx := lexer.New(strings.NewReader(src), lexer.DefaultOptions())
	env := reader.NewEnvironment()
	r := reader.New(lx, env)
	w := NewRecordingWriter()
	resolver := resources.NewResolver(resources.FakeFetcher{Paths: map[string]string{"logo.png": "/nonexistent/logo.png"}}, nil)
	p := New(w, GreedyTextFlowEngine{}, resolver, env, DefaultOptions())

	require.NoError(t, p.Run(r))
	resolved, err := resolver.Resolve(resources.Image, "logo.png")
	require.NoError(t, err)
	assert.Empty(t, resolved.Extension)
}

func TestTbProducesNoOutputOnItsOwn(t *testing.T) {
	p, r, w := newProcessor("BT 200 /Auto Tb ET")
	require.NoError(t, p.Run(r))
	assert.Equal(t, "BT\r\nET\r\n", w.Pages[0].Content.String())
	assert.Equal(t, 200.0, p.textBoxWidth)
}

func TestTflWithAutoWidthEmitsPlainTj(t *testing.T) {
	p, r, w := newProcessor("BT /Helvetica 12 Tf (hello world) Tfl ET")
	require.NoError(t, p.Run(r))
	assert.Contains(t, w.Pages[0].Content.String(), "(hello world) Tj\r\n")
}

func TestTflWithTextBoxFlowsThroughTextFlowEngine(t *testing.T) {
	p, r, w := newProcessor("BT /Helvetica 12 Tf 200 60 Tb (hello world wrapped across lines) Tfl ET")
	require.NoError(t, p.Run(r))
	require.Len(t, w.Pages[0].Lines, 1)
	assert.NotEmpty(t, w.Pages[0].Lines[0])
}

func TestTflRequiresFontFirst(t *testing.T) {
	p, r, _ := newProcessor("BT (hello) Tfl ET")
	err := p.Run(r)
	require.Error(t, err)
}

func TestScnWithDeclaredColourEmitsSolidColourOp(t *testing.T) {
	p, r, w := newProcessor("# color /Red /DeviceRGB 1 0 0\n/Red scn")
	require.NoError(t, p.Run(r))
	assert.Equal(t, "1 0 0 rg\r\n", w.Pages[0].Content.String())
}

func TestScnWithDeclaredPatternSelectsPatternColourSpace(t *testing.T) {
	src := "# pattern /Fade /LinearGradient /DeviceRGB << /Rect [0 0 100 100] /C0 [1 0 0] /C1 [0 0 1] /Stops [0 1] >>\n/Fade scn"
	p, r, w := newProcessor(src)
	require.NoError(t, p.Run(r))
	content := w.Pages[0].Content.String()
	assert.Contains(t, content, "/Pattern cs\r\n")
	assert.Contains(t, content, " scn\r\n")
}

func TestScnWithUndeclaredNameIsError(t *testing.T) {
	p, r, _ := newProcessor("/Bogus scn")
	err := p.Run(r)
	require.Error(t, err)
}

func TestScnWithNonNameOperandsPassesThroughUnchanged(t *testing.T) {
	p, r, w := newProcessor("1 0 0 scn")
	require.NoError(t, p.Run(r))
	assert.Equal(t, "1 0 0 scn\r\n", w.Pages[0].Content.String())
}
