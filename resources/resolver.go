/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package resources

import (
	"fmt"
	"sync"
)

// Kind distinguishes the two resource families a PDFScript document can
// declare (spec §3's ResourceKind, mirrored here to keep this package
// independent of the reader package).
type Kind int

// The resource kinds.
const (
	Image Kind = iota
	Font
)

func (k Kind) String() string {
	if k == Font {
		return "Font"
	}
	return "Image"
}

// Resolved is the outcome of resolving one `# resource` declaration: a local
// path, plus (for images) the sniffed format extension.
type Resolved struct {
	Path      string
	Kind      Kind
	Extension string // populated for Kind == Image when sniffed
}

type cacheKey struct {
	kind     Kind
	location string
}

// Resolver turns declared resource locations into Resolved values, caching
// by (kind, location) so that two `# resource` declarations pointing at the
// same file only do the lookup once (spec §4.5's "de-duplicated by
// resource-type and location" requirement). It composes a Fetcher for
// on-disk/staged resources, a FontFinder for system-font fallback, and
// image-type sniffing, none of which this package performs file I/O for
// itself - to get Extension populated, callers read the header bytes from
// Path, sniff them with SniffImageKind and record the result with
// SetImageExtension.
type Resolver struct {
	Fetcher Fetcher
	Fonts   *FontFinder

	mu    sync.Mutex
	cache map[cacheKey]Resolved
}

// NewResolver builds a Resolver. fetcher may be nil (font locations then
// fall back to the system font finder only); fonts may be nil (no system
// font fallback).
func NewResolver(fetcher Fetcher, fonts *FontFinder) *Resolver {
	return &Resolver{Fetcher: fetcher, Fonts: fonts, cache: map[cacheKey]Resolved{}}
}

// Resolve resolves location for the given kind, returning a cached Resolved
// if this (kind, location) pair was already looked up.
func (r *Resolver) Resolve(kind Kind, location string) (Resolved, error) {
	r.mu.Lock()
	key := cacheKey{kind, location}
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	var (
		path string
		err  error
	)
	switch kind {
	case Font:
		path, err = ResolveFontPath(r.Fetcher, r.Fonts, location)
	case Image:
		if r.Fetcher == nil {
			return Resolved{}, fmt.Errorf("image resource %q requires a Fetcher", location)
		}
		path, err = r.Fetcher.Fetch(location)
	default:
		return Resolved{}, fmt.Errorf("unsupported resource kind %v", kind)
	}
	if err != nil {
		return Resolved{}, err
	}

	resolved := Resolved{Path: path, Kind: kind}

	r.mu.Lock()
	r.cache[key] = resolved
	r.mu.Unlock()
	return resolved, nil
}

// SetImageExtension records the sniffed extension for an already-resolved
// image resource, once the caller has read its header bytes and called
// SniffImageKind. This keeps the cached entry authoritative without the
// Resolver itself touching the filesystem.
func (r *Resolver) SetImageExtension(location, ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := cacheKey{Image, location}
	resolved, ok := r.cache[key]
	if !ok {
		return
	}
	resolved.Extension = ext
	r.cache[key] = resolved
}
