package location

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// genericDistricts are administrative placeholders that carry no information beside a city.
var genericDistricts = map[string]bool{
	"市辖区":         true,
	"县":           true,
	"省直辖县级行政区划":   true,
	"自治区直辖县级行政区划": true,
	"郊区":          true,
	"unknown":     true,
	"n/a":         true,
}

// municipalitySuffixes mark a district value that is really a city-level name.
var municipalitySuffixes = []string{"市", "特别行政区", " city", " shi"}

// adminSuffixes are stripped before comparing city and district, longest first.
var adminSuffixes = []string{"特别行政区", "自治州", " district", " county", " city", " shi", "市", "区", "县", "省", "旗"}

// normalizeSpace folds width variants (e.g. U+3000) and collapses runs of whitespace.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

func hasMunicipalitySuffix(s string) bool {
	lower := strings.ToLower(s)
	for _, suffix := range municipalitySuffixes {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix) {
			return true
		}
	}
	return false
}

func stripAdminSuffix(s string) string {
	lower := strings.ToLower(s)
	for _, suffix := range adminSuffixes {
		if trimmed := strings.TrimSuffix(lower, suffix); trimmed != lower && trimmed != "" {
			return strings.TrimSpace(trimmed)
		}
	}
	return lower
}

func redundant(city, district string) bool {
	c, d := strings.ToLower(city), strings.ToLower(district)
	if c == d || strings.Contains(c, d) || strings.Contains(d, c) {
		return true
	}
	return stripAdminSuffix(city) == stripAdminSuffix(district)
}

// Clean normalizes a city/district pair. A district with a municipality suffix is
// promoted when city is empty; a placeholder or redundant district is cleared.
// Clean is idempotent.
func Clean(city, district string) (string, string) {
	city, district = normalizeSpace(city), normalizeSpace(district)

	if city == "" && hasMunicipalitySuffix(district) {
		return district, ""
	}
	if genericDistricts[strings.ToLower(district)] {
		return city, ""
	}
	if city != "" && district != "" && redundant(city, district) {
		return city, ""
	}
	return city, district
}

// Format renders a display name. It is empty only when both parts are empty.
func Format(city, district string) string {
	city, district = Clean(city, district)
	switch {
	case city == "":
		return district
	case district == "":
		return city
	default:
		return city + " " + district
	}
}
