package providers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
)

const nominatimReverseBody = `{"place_id":1234,"lat":"39.92","lon":"116.44","display_name":"朝阳区, 北京市, 中国",
	"address":{"district":"朝阳区","city":"北京市","state":"北京市","country":"中国"}}`

func TestNominatimReverse(t *testing.T) {
	srv := jsonServer(t, func(r *http.Request) (int, string) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "zh-CN", r.URL.Query().Get("accept-language"))
		assert.Equal(t, "14", r.URL.Query().Get("zoom"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		return http.StatusOK, nominatimReverseBody
	})

	n := NewNominatim(srv.Client(), srv.URL, "test-agent").WithLimit(rate.Inf, 1)
	assert.True(t, n.Available())
	assert.Equal(t, location.ProviderOSM, n.Name())

	name, err := n.Reverse(context.Background(), chaoyang, common.LanguageZH)
	require.NoError(t, err)
	assert.Equal(t, location.Name{City: "北京市", District: "朝阳区"}, name)
}

func TestNominatimReverse_English(t *testing.T) {
	srv := jsonServer(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"address":{"town":"Zermatt","county":"Visp","state":"Valais"}}`
	})
	n := NewNominatim(srv.Client(), srv.URL, "").WithLimit(rate.Inf, 1)

	name, err := n.Reverse(context.Background(), chaoyang, common.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, location.Name{City: "Zermatt"}, name)
}

func TestNominatimReverse_ErrorPayload(t *testing.T) {
	srv := jsonServer(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"error":"Unable to geocode"}`
	})
	n := NewNominatim(srv.Client(), srv.URL, "").WithLimit(rate.Inf, 1)

	_, err := n.Reverse(context.Background(), chaoyang, common.LanguageEN)
	assert.ErrorIs(t, err, common.ErrInvalidResponse)
}

func TestNominatimSearch(t *testing.T) {
	srv := jsonServer(t, func(r *http.Request) (int, string) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "paris", r.URL.Query().Get("q"))
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		return http.StatusOK, `[
			{"place_id":88,"lat":"48.8566","lon":"2.3522","display_name":"Paris, Île-de-France, France","address":{"city":"Paris","state":"Île-de-France","country":"France"}},
			{"place_id":89,"lat":"33.66","lon":"-95.55","display_name":"Paris, Lamar County, Texas, United States","address":{"town":"Paris","state":"Texas"}},
			{"place_id":90,"lat":"bad","lon":"0","display_name":"Broken"},
			{"place_id":91,"lat":"1","lon":"2","display_name":"Somewhere Else, Nowhere","address":{"country":"Nowhere"}}
		]`
	})
	n := NewNominatim(srv.Client(), srv.URL, "").WithLimit(rate.Inf, 1)

	places, err := n.Search(context.Background(), "paris", common.LanguageEN)
	require.NoError(t, err)
	require.Len(t, places, 3)
	assert.Equal(t, location.Place{
		ID:       "osm_88",
		City:     "Paris",
		District: "Île-de-France",
		Coords:   common.Coordinates{Lat: 48.8566, Lon: 2.3522},
	}, places[0])
	assert.Equal(t, "Texas", places[1].District)
	assert.Equal(t, "Somewhere Else", places[2].City)
	assert.Equal(t, "Nowhere", places[2].District)
}

func TestNominatim_RateLimited(t *testing.T) {
	srv := jsonServer(t, func(*http.Request) (int, string) {
		return http.StatusOK, `[]`
	})
	n := NewNominatim(srv.Client(), srv.URL, "")

	_, err := n.Search(context.Background(), "first", common.LanguageEN)
	require.NoError(t, err)

	// The second call within the same second must wait past the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = n.Search(ctx, "second", common.LanguageEN)
	assert.ErrorIs(t, err, common.ErrNetwork)
}
