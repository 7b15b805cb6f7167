package app

import (
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/skyweather/internal/config"
	"github.com/i474232898/skyweather/internal/location"
	locproviders "github.com/i474232898/skyweather/internal/location/providers"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/store"
	"github.com/i474232898/skyweather/internal/weather"
	"github.com/i474232898/skyweather/internal/weather/providers"
)

// Components is the wired object graph shared by the server and the CLI.
type Components struct {
	Config     *config.AppConfig
	Store      *store.MemoryStore
	Aggregator *weather.Aggregator
	Weather    *weather.Service
	Places     *location.Service
	Sessions   *location.SearchSession
	IP         *locproviders.IPAPI
	Acquirer   *location.Acquirer
}

// Build wires providers, services and the store from cfg.
func Build(cfg *config.AppConfig, log logger.Logger) *Components {
	clock := clockwork.NewRealClock()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge, clock)

	tiers := providers.NewTiers(providers.Config{
		CaiyunToken:        cfg.CaiyunAPIKey,
		OpenWeatherKey:     cfg.OpenWeatherAPIKey,
		CaiyunBaseURL:      cfg.CaiyunBaseURL,
		OpenWeatherBaseURL: cfg.OpenWeatherBaseURL,
	}, httpClient, log)
	for _, t := range tiers {
		if !t.Enabled {
			log.Infof("weather provider %s disabled: no credential configured", t.Provider.Name())
		}
	}
	aggregator := weather.NewAggregator(tiers, clock, log)
	weatherSvc := weather.NewService(memStore, aggregator, log)

	places := location.NewService([]location.Geocoder{
		locproviders.NewTencent(httpClient, cfg.TencentMapAPIKey, cfg.TencentBaseURL),
		locproviders.NewNominatim(httpClient, cfg.NominatimBaseURL, cfg.NominatimUserAgent),
	}, cfg.GeocodeCacheSize, log)

	ip := locproviders.NewIPAPI(httpClient, cfg.IPAPIBaseURL)

	var device location.Locator = location.DeniedDevice{}
	if cfg.Device != nil {
		device = location.StaticDevice{Coords: *cfg.Device}
	}

	return &Components{
		Config:     cfg,
		Store:      memStore,
		Aggregator: aggregator,
		Weather:    weatherSvc,
		Places:     places,
		Sessions:   location.NewSearchSession(places),
		IP:         ip,
		Acquirer:   location.NewAcquirer(device, ip, cfg.DeviceTimeout, log),
	}
}
