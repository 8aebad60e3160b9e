/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package resources

import (
	"fmt"

	"github.com/h2non/filetype"
)

// SniffImageKind identifies the image format of header, the leading bytes of
// a resource file, using h2non/filetype (a direct dependency of the teacher
// package, github.com/h2non/filetype v1.1.3 per unidoc-unipdf/go.mod). It
// takes an already-read byte slice rather than a path or reader: actually
// opening and reading a resource file is the caller's concern, consistent
// with this package never performing that I/O itself (see fetcher.go).
//
// It returns the sniffed file extension (e.g. "jpg", "png") and whether
// header matched a known image type at all.
func SniffImageKind(header []byte) (string, bool) {
	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown {
		return "", false
	}
	if !filetype.IsImage(header) {
		return "", false
	}
	return kind.Extension, true
}

// RequireImageKind is SniffImageKind plus an error for callers that want to
// fail fast on an unrecognized or non-image resource.
func RequireImageKind(header []byte) (string, error) {
	ext, ok := SniffImageKind(header)
	if !ok {
		return "", fmt.Errorf("resource header does not match a known image type")
	}
	return ext, nil
}
