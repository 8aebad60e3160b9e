/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package processor

// standardFonts is the set of the 14 standard PDF Type-1 font names (spec
// §4.5's "one of the 14 standard PDF font names"), grounded in the naming
// constants of unidoc-unipdf/model/font.go (CourierName, HelveticaName,
// TimesRomanName, SymbolName, ZapfDingbatsName and their Bold/Oblique/
// Italic variants).
var standardFonts = map[string]bool{
	"Courier": true, "Courier-Bold": true, "Courier-Oblique": true, "Courier-BoldOblique": true,
	"Helvetica": true, "Helvetica-Bold": true, "Helvetica-Oblique": true, "Helvetica-BoldOblique": true,
	"Times-Roman": true, "Times-Bold": true, "Times-Italic": true, "Times-BoldItalic": true,
	"Symbol": true, "ZapfDingbats": true,
}

// IsStandardFont reports whether name is one of the 14 standard PDF fonts.
func IsStandardFont(name string) bool { return standardFonts[name] }
