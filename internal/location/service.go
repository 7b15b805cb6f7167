package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/metrics"
)

// minQueryRunes is the shortest query worth sending upstream.
const minQueryRunes = 2

// SearchResult is the outcome of a forward search. Cancelled results carry no places
// and must not be applied by the caller.
type SearchResult struct {
	Places    []Place `json:"places"`
	Cancelled bool    `json:"cancelled"`
}

// Service resolves names and searches places over two geocoders, preferred first.
type Service struct {
	geocoders map[Provider]Geocoder
	cache     *nameCache
	log       logger.Logger
}

// NewService registers geocoders by their Name. cacheSize bounds the reverse
// geocode cache; 0 disables it.
func NewService(geocoders []Geocoder, cacheSize int, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	byName := make(map[Provider]Geocoder, len(geocoders))
	for _, g := range geocoders {
		byName[g.Name()] = g
	}
	return &Service{
		geocoders: byName,
		cache:     newNameCache(cacheSize),
		log:       log.WithField("component", "location_service"),
	}
}

// order returns the available geocoders, preferred first then its alternate.
// An empty or unknown pref counts as DefaultProvider.
func (s *Service) order(op string, pref Provider) []Geocoder {
	pref = ParseProvider(string(pref))
	out := make([]Geocoder, 0, 2)
	for _, p := range []Provider{pref, pref.Alternate()} {
		g, ok := s.geocoders[p]
		if !ok {
			continue
		}
		if !g.Available() {
			metrics.LocationLookups.WithLabelValues(op, string(p), "skipped").Inc()
			s.log.Debugf("%s: skipping %s, no credential configured", op, p)
			continue
		}
		out = append(out, g)
	}
	return out
}

func reverseCacheKey(p Provider, lang common.Language, coords common.Coordinates) string {
	return fmt.Sprintf("rev:%s|%s|%s", p, lang, coords.Key())
}

// Resolve reverse-geocodes coords. It never fails: when every provider errors or
// returns an empty name, the UnknownName sentinel is returned.
func (s *Service) Resolve(ctx context.Context, coords common.Coordinates, lang common.Language, pref Provider) Name {
	for _, g := range s.order("reverse", pref) {
		p := g.Name()
		key := reverseCacheKey(p, lang, coords)
		if name, ok := s.cache.get(key); ok {
			metrics.GeocodeCache.WithLabelValues("hit").Inc()
			return name
		}
		metrics.GeocodeCache.WithLabelValues("miss").Inc()

		name, err := g.Reverse(ctx, coords, lang)
		if err != nil {
			metrics.LocationLookups.WithLabelValues("reverse", string(p), "failed").Inc()
			s.log.WithError(err).WithFields(map[string]interface{}{
				"provider": string(p),
				"coords":   coords.Key(),
			}).Warn("reverse geocode failed, falling back")
			continue
		}

		name.City, name.District = Clean(name.City, name.District)
		if name.City == "" && name.District == "" {
			metrics.LocationLookups.WithLabelValues("reverse", string(p), "empty").Inc()
			s.log.Warnf("reverse geocode via %s returned no name for %s", p, coords.Key())
			continue
		}

		metrics.LocationLookups.WithLabelValues("reverse", string(p), "succeeded").Inc()
		s.cache.put(key, name)
		return name
	}
	return UnknownName(lang)
}

// Search looks up places by free text. Queries shorter than two characters return
// an empty result without any upstream call. A cancelled ctx yields Cancelled and
// stops the fallback.
func (s *Service) Search(ctx context.Context, query string, lang common.Language, pref Provider) SearchResult {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryRunes {
		return SearchResult{Places: []Place{}}
	}

	for _, g := range s.order("search", pref) {
		if ctx.Err() != nil {
			return SearchResult{Places: []Place{}, Cancelled: true}
		}

		p := g.Name()
		places, err := g.Search(ctx, query, lang)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			metrics.LocationLookups.WithLabelValues("search", string(p), "cancelled").Inc()
			return SearchResult{Places: []Place{}, Cancelled: true}
		}
		if err != nil {
			metrics.LocationLookups.WithLabelValues("search", string(p), "failed").Inc()
			s.log.WithError(err).WithFields(map[string]interface{}{
				"provider": string(p),
				"query":    query,
			}).Warn("place search failed, falling back")
			continue
		}

		metrics.LocationLookups.WithLabelValues("search", string(p), "succeeded").Inc()
		return SearchResult{Places: cleanPlaces(places)}
	}
	return SearchResult{Places: []Place{}}
}

// cleanPlaces formats names and drops repeated IDs, keeping the first occurrence.
func cleanPlaces(places []Place) []Place {
	seen := make(map[string]bool, len(places))
	out := make([]Place, 0, len(places))
	for _, pl := range places {
		if seen[pl.ID] {
			continue
		}
		seen[pl.ID] = true
		pl.City, pl.District = Clean(pl.City, pl.District)
		out = append(out, pl)
	}
	return out
}
