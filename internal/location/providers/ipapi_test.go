package providers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/skyweather/internal/common"
)

func TestIPAPI(t *testing.T) {
	var paths []string
	srv := jsonServer(t, func(r *http.Request) (int, string) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/json/203.0.113.9" {
			return http.StatusOK, `{"status":"fail","message":"reserved range"}`
		}
		return http.StatusOK, `{"status":"success","lat":39.9042,"lon":116.4074}`
	})
	api := NewIPAPI(srv.Client(), srv.URL)

	got, err := api.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.Coordinates{Lat: 39.9042, Lon: 116.4074}, got)

	_, err = api.ForIP("127.0.0.1").Locate(context.Background())
	require.NoError(t, err)

	_, err = api.ForIP("203.0.113.9").Locate(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidResponse)

	assert.Equal(t, []string{"/json/", "/json/", "/json/203.0.113.9"}, paths)
}
