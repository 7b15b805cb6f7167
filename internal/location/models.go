package location

import (
	"context"
	"strings"

	"github.com/i474232898/skyweather/internal/common"
)

// Provider identifies a geocoding backend.
type Provider string

const (
	ProviderTencent Provider = "tencent"
	ProviderOSM     Provider = "osm"

	DefaultProvider = ProviderOSM
)

// ParseProvider accepts the configured or requested provider name. Unknown values
// yield DefaultProvider.
func ParseProvider(s string) Provider {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tencent", "qq":
		return ProviderTencent
	case "osm", "nominatim", "openstreetmap":
		return ProviderOSM
	default:
		return DefaultProvider
	}
}

// Alternate is the provider tried when p fails or has no credential.
func (p Provider) Alternate() Provider {
	if p == ProviderTencent {
		return ProviderOSM
	}
	return ProviderTencent
}

// Name is a reverse-geocoded place. Both parts may be empty but are never missing.
type Name struct {
	City     string `json:"city"`
	District string `json:"district"`
}

// UnknownName is returned when no provider could resolve a position.
func UnknownName(lang common.Language) Name {
	return Name{City: lang.Pick("未知位置", "Unknown Location")}
}

// IsUnknown reports whether n is the UnknownName sentinel in either language.
func (n Name) IsUnknown() bool {
	return n.District == "" && (n == UnknownName(common.LanguageZH) || n == UnknownName(common.LanguageEN))
}

// Display joins the cleaned city and district for presentation.
func (n Name) Display() string {
	return Format(n.City, n.District)
}

// Place is one forward-search candidate. ID is stable per provider, not across providers.
type Place struct {
	ID                string             `json:"id"`
	City              string             `json:"city"`
	District          string             `json:"district"`
	Coords            common.Coordinates `json:"coords"`
	IsCurrentLocation bool               `json:"isCurrentLocation"`
}

// Geocoder is one reverse-geocode and search backend.
type Geocoder interface {
	Name() Provider
	// Available reports whether the backend has what it needs to be called, e.g. a key.
	Available() bool
	Reverse(ctx context.Context, coords common.Coordinates, lang common.Language) (Name, error)
	Search(ctx context.Context, query string, lang common.Language) ([]Place, error)
}

// Locator yields the caller's current coordinates.
type Locator interface {
	Locate(ctx context.Context) (common.Coordinates, error)
}
