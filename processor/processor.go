/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package processor implements the Processor state machine (spec §4.5): it
// drives a Reader to completion, resolves variables and resources, enforces
// operator context legality, manages the graphics-state save/restore stack,
// macro-expands PDFScript's extension operators into primitive PDF
// operators, and calls a Writer. Grounded in the overall shape of
// contentstream.ContentStreamProcessor in the teacher (a graphics-state
// stack plus an operation loop dispatching to per-operator behavior),
// generalized from the teacher's handler-registration style (external
// callers register handlers) to a fixed internal dispatch, since PDFScript's
// set of special-cased operators is part of the language itself rather than
// caller-extensible.
package processor

import (
	"io"
	"math"

	"github.com/PagePerfect-io/pdfscript/catalog"
	"github.com/PagePerfect-io/pdfscript/common"
	"github.com/PagePerfect-io/pdfscript/perr"
	"github.com/PagePerfect-io/pdfscript/reader"
	"github.com/PagePerfect-io/pdfscript/resources"
	"github.com/PagePerfect-io/pdfscript/value"
)

// docState is the three states of spec §4.5's state machine.
type docState int

const (
	stateInitial docState = iota
	stateBeforePage
	stateOnPage
)

// Options are the processor's construction-time settings (SPEC_FULL's
// ambient "Configuration" section: a plain options struct, following the
// teacher's FinderOpts convention, rather than functional options or an
// env/file-based configuration layer).
type Options struct {
	// DefaultWidth/DefaultHeight size the first page when no `page`
	// statement has been seen yet.
	DefaultWidth, DefaultHeight float64
}

// DefaultOptions returns an A4 default page size (595x842), matching the
// first concrete scenario of spec §8 (`open_page(595,842)`).
func DefaultOptions() Options {
	return Options{DefaultWidth: 595, DefaultHeight: 842}
}

type variableState struct {
	Kind  value.Kind
	Value value.Value
}

// Processor is the spec §4.5 state machine.
type Processor struct {
	Writer   Writer
	TextFlow TextFlowEngine
	Resolver *resources.Resolver
	Env      *reader.Environment
	Opts     Options

	state docState
	ctx   catalog.Context // exactly one of Page, Path, Text

	gs      GraphicsState
	gsStack GraphicsStateStack

	pendingWidth, pendingHeight float64

	names         map[string]bool
	variables     map[string]*variableState
	resourceDecls map[string]reader.ResourceDecl
	patternDecls  map[string]reader.PatternDecl
	colourDecls   map[string]reader.ColourDecl

	fontHandles    map[string]Handle // keyed by resolved font identity
	imageHandles   map[string]Handle // keyed by resource name
	patternHandles map[string]Handle // keyed by pattern name

	textBoxWidth, textBoxHeight float64 // NaN = /Auto
}

// New returns a Processor ready to Run against a reader sharing env (the
// same Variable Environment the reader's prolog sub-parser writes to).
func New(w Writer, tf TextFlowEngine, resolver *resources.Resolver, env *reader.Environment, opts Options) *Processor {
	p := &Processor{
		Writer:         w,
		TextFlow:       tf,
		Resolver:       resolver,
		Env:            env,
		Opts:           opts,
		state:          stateInitial,
		names:          map[string]bool{},
		variables:      map[string]*variableState{},
		resourceDecls:  map[string]reader.ResourceDecl{},
		patternDecls:   map[string]reader.PatternDecl{},
		colourDecls:    map[string]reader.ColourDecl{},
		fontHandles:    map[string]Handle{},
		imageHandles:   map[string]Handle{},
		patternHandles: map[string]Handle{},
		textBoxWidth:   math.NaN(),
		textBoxHeight:  math.NaN(),
	}
	p.pendingWidth, p.pendingHeight = opts.DefaultWidth, opts.DefaultHeight
	p.gs = DefaultGraphicsState()
	return p
}

// Run drives r to completion (spec §4.5's main loop), calling Writer.Open
// first and Writer.CloseIfNeeded at the end (or on error, before returning
// it).
func (p *Processor) Run(r *reader.Reader) error {
	if err := p.Writer.Open(); err != nil {
		return err
	}
	for {
		stmt, err := r.Read()
		if err == io.EOF {
			break
		}
		if err == nil {
			err = p.handle(stmt)
		}
		if err != nil {
			p.Writer.CloseIfNeeded()
			return err
		}
	}
	if p.state == stateOnPage {
		if err := p.closeCurrentPage(); err != nil {
			p.Writer.CloseIfNeeded()
			return err
		}
	}
	return p.Writer.CloseIfNeeded()
}

func (p *Processor) handle(stmt reader.Statement) error {
	switch s := stmt.(type) {
	case reader.VarDecl:
		return p.handleVarDecl(s)
	case reader.ResourceDecl:
		return p.handleResourceDecl(s)
	case reader.PatternDecl:
		return p.handlePatternDecl(s)
	case reader.ColourDecl:
		return p.handleColourDecl(s)
	case reader.EndPage:
		return p.handleEndPage()
	case reader.Page:
		return p.handlePage(s)
	case reader.GraphicsOperation:
		return p.handleGraphicsOperation(s)
	default:
		return perr.Processor("unrecognized statement type %T", stmt)
	}
}

// requireProlog enforces "Prolog statement. Legal only in Initial" (§4.5).
func (p *Processor) requireProlog() error {
	if p.state != stateInitial {
		return perr.Processor("prolog declarations must appear before the first page or graphics operation")
	}
	return nil
}

// claimName enforces §3's "Resource name uniqueness" invariant.
func (p *Processor) claimName(name value.Name) error {
	if IsReservedName(name) {
		return perr.Processor("%q is a reserved name and cannot be declared", name)
	}
	if p.names[string(name)] {
		return perr.Processor("%q is already declared", name)
	}
	p.names[string(name)] = true
	return nil
}

func (p *Processor) handleVarDecl(s reader.VarDecl) error {
	if err := p.requireProlog(); err != nil {
		return err
	}
	name := value.Name("/" + s.Name)
	if err := p.claimName(name); err != nil {
		return err
	}
	if s.Initial.Kind() != s.Kind {
		return perr.Processor("variable $%s's initial value does not match its declared kind", s.Name)
	}
	p.variables[s.Name] = &variableState{Kind: s.Kind, Value: s.Initial}
	p.Env.Declare(s.Name, s.Kind)
	return nil
}

func (p *Processor) handleResourceDecl(s reader.ResourceDecl) error {
	if err := p.requireProlog(); err != nil {
		return err
	}
	if err := p.claimName(s.Name); err != nil {
		return err
	}
	p.resourceDecls[string(s.Name)] = s
	return nil
}

func (p *Processor) handlePatternDecl(s reader.PatternDecl) error {
	if err := p.requireProlog(); err != nil {
		return err
	}
	if err := p.claimName(s.Name); err != nil {
		return err
	}
	p.patternDecls[string(s.Name)] = s
	return nil
}

func (p *Processor) handleColourDecl(s reader.ColourDecl) error {
	if err := p.requireProlog(); err != nil {
		return err
	}
	if err := p.claimName(s.Name); err != nil {
		return err
	}
	p.colourDecls[string(s.Name)] = s
	return nil
}

func (p *Processor) handlePage(s reader.Page) error {
	if s.Template != "" {
		w, h, ok := LookupTemplate(s.Template)
		if !ok {
			return perr.Processor("unknown page template %q", s.Template)
		}
		p.pendingWidth, p.pendingHeight = w, h
		return nil
	}
	if s.Width <= 0 || s.Height <= 0 {
		return perr.Processor("page dimensions must be positive, got %v x %v", s.Width, s.Height)
	}
	p.pendingWidth, p.pendingHeight = s.Width, s.Height
	return nil
}

func (p *Processor) handleEndPage() error {
	if p.state == stateInitial || p.state == stateBeforePage {
		if err := p.openPage(); err != nil {
			return err
		}
	}
	if p.ctx != catalog.Page {
		return perr.Processor("endpage while not in the Page graphics object")
	}
	if err := p.closeCurrentPage(); err != nil {
		return err
	}
	p.state = stateBeforePage
	return nil
}

func (p *Processor) openPage() error {
	common.Log.Debug("opening page %vx%v", p.pendingWidth, p.pendingHeight)
	if err := p.Writer.OpenPage(p.pendingWidth, p.pendingHeight, Portrait); err != nil {
		return err
	}
	if err := p.Writer.OpenContentStream(); err != nil {
		return err
	}
	p.state = stateOnPage
	p.ctx = catalog.Page
	p.gs = DefaultGraphicsState()
	p.gsStack = GraphicsStateStack{}
	return nil
}

func (p *Processor) closeCurrentPage() error {
	if err := p.Writer.CloseContentStream(); err != nil {
		return err
	}
	return p.Writer.ClosePage()
}

func (p *Processor) handleGraphicsOperation(op reader.GraphicsOperation) error {
	if p.state != stateOnPage {
		if err := p.openPage(); err != nil {
			return err
		}
	}
	if !op.Operator.AllowedIn(p.ctx) {
		return perr.Processor("operator %q is not allowed in the current graphics object", op.Operator.Spelling)
	}

	operands, err := p.resolveOperands(op.Operands)
	if err != nil {
		return err
	}

	// Path-construction openers transition Page -> Path; path-painting ops
	// transition Path -> Page (spec §4.5's context-tracking rule). Applied
	// uniformly before dispatch so it covers the extension openers (rr,
	// ell) as well as the primitive ones (m, re) that fall through to the
	// default case below.
	if catalog.IsPathOpener(op.Operator.Spelling) && p.ctx == catalog.Page {
		p.ctx = catalog.Path
	}
	painter := catalog.IsPathPainter(op.Operator.Spelling)
	if painter {
		defer func() { p.ctx = catalog.Page }()
	}

	switch op.Operator.Spelling {
	case "q":
		p.gsStack.Push(p.gs)
		return p.emit("q")
	case "Q":
		gs, ok := p.gsStack.Pop()
		if !ok {
			return perr.Processor("graphics-state stack underflow: Q without matching q")
		}
		p.gs = gs
		return p.emit("Q")
	case "BT":
		p.ctx = catalog.Text
		return p.emit("BT")
	case "ET":
		p.ctx = catalog.Page
		return p.emit("ET")
	case "Tc":
		p.gs.CharSpacing = mustNumber(operands[0])
		return p.emitValues(op.Operator.Spelling, operands)
	case "Tw":
		p.gs.WordSpacing = mustNumber(operands[0])
		return p.emitValues(op.Operator.Spelling, operands)
	case "Tz":
		p.gs.HorizScale = mustNumber(operands[0])
		return p.emitValues(op.Operator.Spelling, operands)
	case "TL":
		p.gs.Leading = mustNumber(operands[0])
		return p.emitValues(op.Operator.Spelling, operands)
	case "Ts":
		p.gs.Rise = mustNumber(operands[0])
		return p.emitValues(op.Operator.Spelling, operands)
	case "Ta":
		return p.handleTa(operands)
	case "TA":
		return p.handleTA(operands)
	case "Tf":
		return p.handleTf(operands)
	case "Do":
		return p.handleDo(operands)
	case "scn":
		return p.handleColourName(operands, false)
	case "SCN":
		return p.handleColourName(operands, true)
	case "rr":
		return p.handleRoundedRect(operands)
	case "ell":
		return p.handleEllipse(operands)
	case "Tb":
		return p.handleTb(operands)
	case "Tfl":
		return p.handleTfl(operands)
	default:
		return p.emitValues(op.Operator.Spelling, operands)
	}
}

// resolveOperands walks operands replacing every TypeResolvedVariable with
// its current runtime value, recursing into arrays and dictionaries (spec
// §4.5's "Operand resolution").
func (p *Processor) resolveOperands(operands []value.Value) ([]value.Value, error) {
	out := make([]value.Value, len(operands))
	for i, v := range operands {
		rv, err := p.resolveValue(v)
		if err != nil {
			return nil, err
		}
		out[i] = rv
	}
	return out, nil
}

func (p *Processor) resolveValue(v value.Value) (value.Value, error) {
	switch tv := v.(type) {
	case value.TypeResolvedVariable:
		vs, ok := p.variables[tv.Name]
		if !ok {
			return nil, perr.Processor("variable $%s has no runtime value", tv.Name)
		}
		return vs.Value, nil
	case *value.Array:
		resolved := make([]value.Value, len(tv.Elements))
		for i, e := range tv.Elements {
			rv, err := p.resolveValue(e)
			if err != nil {
				return nil, err
			}
			resolved[i] = rv
		}
		return &value.Array{Elements: resolved}, nil
	case *value.Dictionary:
		out := value.NewDictionary()
		for _, k := range tv.Keys() {
			val, _ := tv.Get(k)
			rv, err := p.resolveValue(val)
			if err != nil {
				return nil, err
			}
			out.Set(k, rv)
		}
		return out, nil
	default:
		return v, nil
	}
}

// emit writes a zero-operand operator: the canonical spelling terminated
// by CR LF (spec §4.5's "All other operators" rule, specialized to the
// empty-operand case).
func (p *Processor) emit(spelling string) error {
	return p.Writer.WriteRawContent(spelling + "\r\n")
}

// emitValues resolves nothing further (operands are already resolved) and
// writes each operand value followed by the operator spelling, space
// separated, CR LF terminated (spec §4.5: "emit operands and the canonical
// operator spelling, each separated by a space, terminated with CR LF").
func (p *Processor) emitValues(spelling string, operands []value.Value) error {
	for _, v := range operands {
		s, err := FormatValue(v)
		if err != nil {
			return err
		}
		if err := p.Writer.WriteRawContent(s + " "); err != nil {
			return err
		}
	}
	return p.emit(spelling)
}

func mustNumber(v value.Value) float64 {
	n, ok := v.(value.Number)
	if !ok {
		return 0
	}
	return n.Float64()
}

