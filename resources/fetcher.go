/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package resources implements the Resource Resolver collaborator (spec
// §2, §4.5): turning a resource declaration's location string into a
// concrete path the Writer can embed, de-duplicated by (resource-type,
// location), plus two supplemental lookups grounded in the teacher's
// broader dependency stack - system font fallback (github.com/adrg/sysfont,
// grounded in unidoc-unipdf/render/renderer.go) and image-type sniffing
// (github.com/h2non/filetype) - that a complete implementation of this
// system would have even though the spec treats the writer and file I/O as
// out-of-scope collaborators.
package resources

import "fmt"

// Fetcher resolves a declared resource location to a local filesystem
// path. It deliberately has no network-capable implementation in this
// module: HTTP download of remote resources is explicitly out of scope
// (spec §1); the Fetcher contract exists so the processor can depend on an
// interface rather than a concrete I/O strategy, matching how the Writer
// itself is only ever consumed through its interface.
type Fetcher interface {
	Fetch(location string) (string, error)
}

// FakeFetcher resolves locations via a fixed map, for tests and for
// callers that have already resolved locations themselves.
type FakeFetcher struct {
	Paths map[string]string
}

// Fetch implements Fetcher.
func (f FakeFetcher) Fetch(location string) (string, error) {
	path, ok := f.Paths[location]
	if !ok {
		return "", fmt.Errorf("no local mapping for resource location %q", location)
	}
	return path, nil
}

// LocalFileFetcher resolves a location as a path relative to BaseDir,
// without performing any network I/O. It does not read the file; it only
// computes the path a caller should open.
type LocalFileFetcher struct {
	BaseDir string
}

// Fetch implements Fetcher. It does not touch the filesystem itself
// (no stat, no read) - composing the path is the only "file I/O glue" this
// module takes on, consistent with spec §1 treating file I/O as the
// caller's concern.
func (f LocalFileFetcher) Fetch(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("empty resource location")
	}
	return joinUnderBaseDir(f.BaseDir, location)
}
