/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package resources

import (
	"fmt"
	"sync"

	"github.com/adrg/sysfont"
)

// FontFinder looks up an installed system font by family or face name. It
// wraps adrg/sysfont, grounded directly in
// unidoc-unipdf/render/renderer.go's `sysfont.NewFinder(&sysfont.FinderOpts{...})`
// usage: when a `# resource /Name /Font (location)` declaration's location
// does not resolve through the Fetcher (it is not a path or URL the caller
// has staged locally), it is tried as a system font family name instead, so
// a script that says `(Arial)` still works on a machine that has Arial
// installed without the author having to point at an on-disk TTF.
type FontFinder struct {
	mu     sync.Mutex
	finder *sysfont.Finder
}

// FindPath returns the filesystem path of an installed font matching name
// (by family or face name, fuzzy-matched by sysfont), and whether one was
// found.
func (f *FontFinder) FindPath(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finder == nil {
		f.finder = sysfont.NewFinder(&sysfont.FinderOpts{
			Extensions: []string{".ttf", ".ttc"},
		})
	}
	font := f.finder.Match(name)
	if font == nil {
		return "", false
	}
	return font.Filename, true
}

// ResolveFontPath resolves location to a local path via fetcher first,
// falling back to a system font lookup by family/face name.
func ResolveFontPath(fetcher Fetcher, finder *FontFinder, location string) (string, error) {
	if fetcher != nil {
		if path, err := fetcher.Fetch(location); err == nil {
			return path, nil
		}
	}
	if finder != nil {
		if path, ok := finder.FindPath(location); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("font resource %q could not be fetched or found among installed system fonts", location)
}
