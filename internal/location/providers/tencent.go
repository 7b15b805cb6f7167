package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
)

const defaultTencentBaseURL = "https://apis.map.qq.com"

// Tencent implements location.Geocoder over the Tencent Maps WebService API.
// The browser-only JSONP variant is not needed here; output=json gives the same payload.
type Tencent struct {
	key      string
	baseURL  string
	upstream *common.Upstream
}

func NewTencent(client *http.Client, key, baseURL string) *Tencent {
	if baseURL == "" {
		baseURL = defaultTencentBaseURL
	}
	return &Tencent{
		key:      key,
		baseURL:  strings.TrimRight(baseURL, "/"),
		upstream: common.NewUpstream("tencent", client),
	}
}

func (t *Tencent) Name() location.Provider { return location.ProviderTencent }

func (t *Tencent) Available() bool { return t.key != "" }

type tencentLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type tencentReverseResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Result  struct {
		Address          string `json:"address"`
		AddressComponent struct {
			Nation   string `json:"nation"`
			Province string `json:"province"`
			City     string `json:"city"`
			District string `json:"district"`
		} `json:"address_component"`
	} `json:"result"`
}

type tencentSuggestionResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    []struct {
		ID       string        `json:"id"`
		Title    string        `json:"title"`
		Province string        `json:"province"`
		City     string        `json:"city"`
		District string        `json:"district"`
		Location tencentLatLng `json:"location"`
	} `json:"data"`
}

func (t *Tencent) get(ctx context.Context, path string, values url.Values, out any) error {
	if !t.Available() {
		return common.NewUnavailableCredentialError(t.upstream.Name())
	}
	values.Set("key", t.key)
	values.Set("output", "json")
	return t.upstream.GetJSON(ctx, t.baseURL+path+"?"+values.Encode(), out)
}

// Reverse uses /ws/geocoder/v1. Tencent only answers in Chinese; lang is accepted for
// interface symmetry.
func (t *Tencent) Reverse(ctx context.Context, coords common.Coordinates, _ common.Language) (location.Name, error) {
	values := url.Values{}
	values.Set("location", strconv.FormatFloat(coords.Lat, 'f', -1, 64)+","+strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("get_poi", "0")

	var resp tencentReverseResponse
	if err := t.get(ctx, "/ws/geocoder/v1/", values, &resp); err != nil {
		return location.Name{}, err
	}
	if resp.Status != 0 {
		return location.Name{}, common.NewInvalidResponseError(t.upstream.Name(),
			fmt.Errorf("status %d: %s", resp.Status, resp.Message))
	}

	ac := resp.Result.AddressComponent
	return location.Name{
		City:     common.FirstNonEmpty(ac.City, ac.Province),
		District: ac.District,
	}, nil
}

// Search uses the /ws/place/v1/suggestion keyword endpoint.
func (t *Tencent) Search(ctx context.Context, query string, _ common.Language) ([]location.Place, error) {
	values := url.Values{}
	values.Set("keyword", query)
	values.Set("page_size", "8")

	var resp tencentSuggestionResponse
	if err := t.get(ctx, "/ws/place/v1/suggestion", values, &resp); err != nil {
		return nil, err
	}
	if resp.Status != 0 {
		return nil, common.NewInvalidResponseError(t.upstream.Name(),
			fmt.Errorf("status %d: %s", resp.Status, resp.Message))
	}

	places := make([]location.Place, 0, len(resp.Data))
	for _, d := range resp.Data {
		places = append(places, location.Place{
			ID:       "tencent_" + d.ID,
			City:     common.FirstNonEmpty(d.City, d.Province, d.Title),
			District: common.FirstNonEmpty(d.District, d.Title),
			Coords:   common.Coordinates{Lat: d.Location.Lat, Lon: d.Location.Lng},
		})
	}
	return places, nil
}
