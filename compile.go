/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package pdfscript is the top-level façade (spec.md's MODULE MAP):
// Compile is the single exported entry point a driver (CLI, HTTP handler,
// batch job — all out of scope per spec.md §1) calls to turn PDFScript
// source into a sequence of calls against a processor.Writer. It wires
// lexer -> reader -> processor end to end and owns nothing else.
package pdfscript

import (
	"io"

	"github.com/PagePerfect-io/pdfscript/lexer"
	"github.com/PagePerfect-io/pdfscript/processor"
	"github.com/PagePerfect-io/pdfscript/reader"
	"github.com/PagePerfect-io/pdfscript/resources"
)

// Options configures a Compile call's collaborators. Compile fills in
// TextFlow, Resolver and Processor when they are left at their zero values,
// but uses Lexer as given, and the zero lexer.Options disallows leading
// zeroes; start from DefaultOptions and override what the caller needs.
type Options struct {
	Lexer     lexer.Options
	Processor processor.Options

	// TextFlow lays out Tfl text boxes. Defaults to
	// processor.GreedyTextFlowEngine{} when nil.
	TextFlow processor.TextFlowEngine

	// Resolver resolves declared resource locations to local paths.
	// Defaults to a Resolver with no Fetcher or FontFinder (so resource
	// declarations and system-font fallback both fail to resolve) when nil
	// — callers that declare resources must supply one.
	Resolver *resources.Resolver
}

// DefaultOptions returns the default options: default lexer behavior
// (leading zeroes allowed), the default page size (spec §8 scenario 1's 595x842), the greedy reference
// text-flow engine, and a Resolver with no collaborators wired in.
func DefaultOptions() Options {
	return Options{
		Lexer:     lexer.DefaultOptions(),
		Processor: processor.DefaultOptions(),
		TextFlow:  processor.GreedyTextFlowEngine{},
		Resolver:  resources.NewResolver(nil, nil),
	}
}

// Compile reads a complete PDFScript document from src and drives w to
// produce the document it describes, returning the first error encountered
// (a *perr.Error). It is safe to call repeatedly with fresh readers and
// writers; Compile itself holds no state across calls.
func Compile(src io.Reader, w processor.Writer, opts Options) error {
	if opts.TextFlow == nil {
		opts.TextFlow = processor.GreedyTextFlowEngine{}
	}
	if opts.Resolver == nil {
		opts.Resolver = resources.NewResolver(nil, nil)
	}
	if opts.Processor == (processor.Options{}) {
		opts.Processor = processor.DefaultOptions()
	}

	lx := lexer.New(src, opts.Lexer)
	env := reader.NewEnvironment()
	r := reader.New(lx, env)
	p := processor.New(w, opts.TextFlow, opts.Resolver, env, opts.Processor)
	return p.Run(r)
}
