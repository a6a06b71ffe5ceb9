// Package normalize canonicalizes raw business fields (names, phones, emails,
// websites, addresses) into comparable forms. Every function is pure and
// total: unparseable input degrades to a best-effort canonical form, never an
// error, and empty input stays empty.
package normalize

// LegalSuffixes lists name tokens treated as legal-form noise when building
// the suffix-stripped comparison form. The set is data, not rule: replace it
// at startup (before any comparison) for non-English naming conventions.
// See config.Tables for the YAML override path.
var LegalSuffixes = map[string]bool{
	"inc":          true,
	"incorporated": true,
	"ltd":          true,
	"limited":      true,
	"corp":         true,
	"corporation":  true,
	"llc":          true,
	"llp":          true,
	"co":           true,
	"company":      true,
	"and":          true,
	"&":            true,
}

// StreetAbbreviations maps common street-type abbreviations to their expanded
// word. Expansion (st -> street) keeps normalized addresses readable; any
// consistent direction would compare identically. Replace at startup for
// other locales.
var StreetAbbreviations = map[string]string{
	"st":   "street",
	"ave":  "avenue",
	"av":   "avenue",
	"blvd": "boulevard",
	"rd":   "road",
	"dr":   "drive",
	"ln":   "lane",
	"crt":  "court",
	"ct":   "court",
	"pl":   "place",
	"sq":   "square",
	"hwy":  "highway",
	"pkwy": "parkway",
	"n":    "north",
	"s":    "south",
	"e":    "east",
	"w":    "west",
	"ne":   "northeast",
	"nw":   "northwest",
	"se":   "southeast",
	"sw":   "southwest",
}
