package assembler

// Bounds is a bounding rectangle for a country, used only as the draw range
// for synthesized coordinates. Rectangles are a coarse fit on purpose; for
// coastline-heavy countries (Japan, Indonesia, ...) a draw can land in the
// water. That is an accepted display approximation, not a geocoding claim.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// countryBounds maps ISO-3166 alpha-2 codes to bounding rectangles. Fixed at
// process start, read-only.
var countryBounds = map[string]Bounds{
	"IN": {8, 35, 68, 97},     // India
	"CN": {20, 52, 75, 133},   // China
	"US": {26, 48, -124, -70}, // United States (contiguous)
	"ID": {-10, 5, 96, 140},   // Indonesia
	"PK": {24, 36, 61, 75},    // Pakistan
	"BR": {-32, 4, -73, -35},  // Brazil
	"NG": {5, 13, 3, 14},      // Nigeria
	"BD": {21, 26, 88, 92},    // Bangladesh
	"RU": {45, 65, 30, 140},   // Russia (populated band)
	"MX": {15, 32, -116, -87}, // Mexico
	"JP": {30, 46, 129, 146},  // Japan
	"ET": {4, 14, 34, 47},     // Ethiopia
	"PH": {6, 19, 118, 126},   // Philippines
	"EG": {23, 31, 26, 34},    // Egypt
	"VN": {9, 22, 103, 109},   // Vietnam
	"CD": {-12, 5, 13, 30},    // DR Congo
	"TR": {36, 42, 26, 44},    // Turkey
	"IR": {26, 39, 45, 62},    // Iran
	"DE": {47, 55, 6, 15},     // Germany
	"TH": {6, 20, 98, 105},    // Thailand
	"FR": {42, 51, -4, 8},     // France
	"GB": {50, 58, -7, 1},     // United Kingdom
	"ZA": {-34, -23, 17, 32},  // South Africa
	"KE": {-4, 4, 34, 41},     // Kenya
	"AU": {-38, -15, 115, 151}, // Australia
	"AR": {-45, -23, -70, -55}, // Argentina
	"ES": {36, 43, -9, 3},     // Spain
	"IT": {37, 46, 7, 18},     // Italy
}

// priorityCountries is the fixed backfill list: the most populous locales
// first, so sparse directory coverage there still yields a populated map.
var priorityCountries = []string{
	"IN", "CN", "US", "ID", "PK", "BR", "NG", "BD", "RU", "MX",
	"JP", "ET", "PH", "EG", "VN", "CD", "TR", "IR", "DE", "TH",
}

// BoundsFor returns the bounding rectangle for a country code, if known.
func BoundsFor(code string) (Bounds, bool) {
	b, ok := countryBounds[code]
	return b, ok
}
