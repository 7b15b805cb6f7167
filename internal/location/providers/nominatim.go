package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
)

const (
	defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"
	DefaultNominatimAgent   = "skyweather/1.0 (+https://github.com/i474232898/skyweather)"
)

// Nominatim implements location.Geocoder over OpenStreetMap Nominatim. The public
// instance allows one request per second and requires an identifying User-Agent.
type Nominatim struct {
	baseURL  string
	upstream *common.Upstream
	limiter  *rate.Limiter
}

func NewNominatim(client *http.Client, baseURL, userAgent string) *Nominatim {
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultNominatimAgent
	}
	return &Nominatim{
		baseURL:  strings.TrimRight(baseURL, "/"),
		upstream: common.NewUpstream("osm", client).WithUserAgent(userAgent),
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// WithLimit replaces the request rate limit, for self-hosted instances.
func (n *Nominatim) WithLimit(l rate.Limit, burst int) *Nominatim {
	n.limiter = rate.NewLimiter(l, burst)
	return n
}

func (n *Nominatim) Name() location.Provider { return location.ProviderOSM }

func (n *Nominatim) Available() bool { return true }

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	County       string `json:"county"`
	District     string `json:"district"`
	Country      string `json:"country"`
}

type nominatimPlace struct {
	PlaceID     int64            `json:"place_id"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

func localeParam(lang common.Language) string {
	return lang.Pick("zh-CN", "en")
}

func (n *Nominatim) get(ctx context.Context, path string, values url.Values, out any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return common.NewNetworkError(n.upstream.Name(), fmt.Errorf("rate limiter: %w", err))
	}
	return n.upstream.GetJSON(ctx, n.baseURL+path+"?"+values.Encode(), out)
}

func (n *Nominatim) Reverse(ctx context.Context, coords common.Coordinates, lang common.Language) (location.Name, error) {
	values := url.Values{}
	values.Set("format", "json")
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("accept-language", localeParam(lang))
	values.Set("zoom", "14")

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", values, &place); err != nil {
		return location.Name{}, err
	}
	if place.Error != "" {
		return location.Name{}, common.NewInvalidResponseError(n.upstream.Name(), errors.New(place.Error))
	}

	a := place.Address
	if lang.IsZH() {
		return location.Name{
			City:     common.FirstNonEmpty(a.City, a.Municipality, a.State),
			District: common.FirstNonEmpty(a.District, a.County, a.Town),
		}, nil
	}
	return location.Name{
		City:     common.FirstNonEmpty(a.City, a.Town),
		District: a.District,
	}, nil
}

func (n *Nominatim) Search(ctx context.Context, query string, lang common.Language) ([]location.Place, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("limit", "8")
	values.Set("accept-language", localeParam(lang))
	values.Set("addressdetails", "1")

	var results []nominatimPlace
	if err := n.get(ctx, "/search", values, &results); err != nil {
		return nil, err
	}

	places := make([]location.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		first, _, _ := strings.Cut(r.DisplayName, ",")
		a := r.Address
		pl := location.Place{
			ID:     "osm_" + strconv.FormatInt(r.PlaceID, 10),
			Coords: common.Coordinates{Lat: lat, Lon: lon},
		}
		if lang.IsZH() {
			pl.City = common.FirstNonEmpty(a.City, a.Municipality, a.State, first)
			pl.District = common.FirstNonEmpty(a.District, a.County, a.Town)
		} else {
			pl.City = common.FirstNonEmpty(a.City, a.Town, first)
			pl.District = common.FirstNonEmpty(a.State, a.Country)
		}
		places = append(places, pl)
	}
	return places, nil
}
