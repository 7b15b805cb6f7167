package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
)

const defaultIPAPIBaseURL = "http://ip-api.com"

// IPAPI locates an IP address through ip-api.com.
type IPAPI struct {
	baseURL  string
	upstream *common.Upstream
}

func NewIPAPI(client *http.Client, baseURL string) *IPAPI {
	if baseURL == "" {
		baseURL = defaultIPAPIBaseURL
	}
	return &IPAPI{
		baseURL:  strings.TrimRight(baseURL, "/"),
		upstream: common.NewUpstream("ip-api", client),
	}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate looks up the public address this process egresses from.
func (p *IPAPI) Locate(ctx context.Context) (common.Coordinates, error) {
	return p.LocateIP(ctx, "")
}

// LocateIP looks up ip. Loopback, private and empty addresses resolve the caller's
// own egress address instead.
func (p *IPAPI) LocateIP(ctx context.Context, ip string) (common.Coordinates, error) {
	u := p.baseURL + "/json/"
	if parsed := net.ParseIP(ip); parsed != nil && !parsed.IsLoopback() && !parsed.IsPrivate() {
		u += url.PathEscape(parsed.String())
	}
	u += "?fields=status,message,lat,lon"

	var resp ipAPIResponse
	if err := p.upstream.GetJSON(ctx, u, &resp); err != nil {
		return common.Coordinates{}, err
	}
	if resp.Status != "success" {
		return common.Coordinates{}, common.NewInvalidResponseError(p.upstream.Name(),
			fmt.Errorf("status %q: %s", resp.Status, resp.Message))
	}
	return common.Coordinates{Lat: resp.Lat, Lon: resp.Lon}, nil
}

type boundIP struct {
	api *IPAPI
	ip  string
}

func (b boundIP) Locate(ctx context.Context) (common.Coordinates, error) {
	return b.api.LocateIP(ctx, b.ip)
}

// ForIP binds LocateIP to one address as a location.Locator.
func (p *IPAPI) ForIP(ip string) location.Locator {
	return boundIP{api: p, ip: ip}
}
