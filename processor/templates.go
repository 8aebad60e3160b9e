/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package processor

import "github.com/PagePerfect-io/pdfscript/value"

// pageSize is a width x height pair in PDF points.
type pageSize struct{ Width, Height float64 }

// pageTemplates maps the `page /Template` names to fixed dimensions (spec
// §4.5: "Template names resolved against a fixed table").
var pageTemplates = map[value.Name]pageSize{
	"/A4":     {595, 842},
	"/A3":     {842, 1191},
	"/A5":     {420, 595},
	"/Letter": {612, 792},
	"/Legal":  {612, 1008},
}

// LookupTemplate returns the page dimensions for a named template, and
// whether the name is recognized.
func LookupTemplate(name value.Name) (float64, float64, bool) {
	sz, ok := pageTemplates[name]
	return sz.Width, sz.Height, ok
}

// reservedNames holds the names unavailable for `# var`/`# resource`/
// `# pattern`/`# color` declarations (spec §3's "Resource name uniqueness":
// "A set of reserved names ... is unavailable for declarations"). Built
// from the 14 standard font names plus a handful of structural keys that
// would otherwise collide with writer-internal resource dictionary keys.
var reservedNames = func() map[string]bool {
	m := map[string]bool{"/Type": true, "/Font": true, "/Image": true, "/Pattern": true}
	for name := range standardFonts {
		m["/"+name] = true
	}
	return m
}()

// IsReservedName reports whether name (including its leading slash) is
// reserved and cannot be declared.
func IsReservedName(name value.Name) bool { return reservedNames[string(name)] }
