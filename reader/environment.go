/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package reader

import "github.com/PagePerfect-io/pdfscript/value"

// Environment is the Variable Environment (spec §4.4, §5): a name to
// declared-kind map shared between the reader (which consults it for type
// resolution) and the processor (which is the only writer once a document
// is executing, via Declare). The reader also writes to it directly when it
// parses a `# var` declaration, since the declared kind must be visible to
// later statements in the same pass.
type Environment struct {
	kinds map[string]value.Kind
}

// NewEnvironment returns an empty Variable Environment.
func NewEnvironment() *Environment {
	return &Environment{kinds: map[string]value.Kind{}}
}

// Lookup returns the declared kind for name, and whether it is declared.
func (e *Environment) Lookup(name string) (value.Kind, bool) {
	k, ok := e.kinds[name]
	return k, ok
}

// Declare records name's declared kind. Called by the reader when it parses
// a `# var` statement, and by the processor's narrow write-only setter
// (spec §4.4: "the processor explicitly registers a variable type").
func (e *Environment) Declare(name string, kind value.Kind) {
	e.kinds[name] = kind
}
