/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdfscript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PagePerfect-io/pdfscript/processor"
)

func TestCompileDrivesWriterEndToEnd(t *testing.T) {
	w := processor.NewRecordingWriter()
	err := Compile(strings.NewReader("10 10 m 100 100 l S"), w, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, w.Pages, 1)
	assert.Equal(t, 595.0, w.Pages[0].Width)
	assert.Equal(t, "10 10 m\r\n100 100 l\r\nS\r\n", w.Pages[0].Content.String())
}

func TestCompileSurfacesReaderErrors(t *testing.T) {
	w := processor.NewRecordingWriter()
	// "$undeclared" was never registered via "# var", so the reader
	// rejects it before the processor ever sees a statement.
	err := Compile(strings.NewReader("$undeclared 10 m"), w, DefaultOptions())
	require.Error(t, err)
}

func TestCompileSurfacesProcessorErrors(t *testing.T) {
	w := processor.NewRecordingWriter()
	err := Compile(strings.NewReader("Q"), w, DefaultOptions())
	require.Error(t, err)
}

func TestCompileUsesCustomPageSize(t *testing.T) {
	w := processor.NewRecordingWriter()
	opts := DefaultOptions()
	opts.Processor.DefaultWidth = 200
	opts.Processor.DefaultHeight = 300

	require.NoError(t, Compile(strings.NewReader("0 0 100 100 re"), w, opts))
	require.Len(t, w.Pages, 1)
	assert.Equal(t, 200.0, w.Pages[0].Width)
	assert.Equal(t, 300.0, w.Pages[0].Height)
}
