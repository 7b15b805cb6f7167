package providers

import (
	"net/http"

	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/weather"
)

// Config carries one optional credential per weather provider plus endpoint overrides.
type Config struct {
	CaiyunToken    string
	OpenWeatherKey string

	CaiyunBaseURL      string
	OpenWeatherBaseURL string
}

// NewTiers builds the fixed fallback order: Caiyun, then OpenWeather. A tier whose
// credential is absent is present but disabled, so the aggregator skips it.
// OpenWeather's pollution endpoint backs Caiyun's AQI whenever its key is set.
func NewTiers(cfg Config, client *http.Client, log logger.Logger) []weather.Tier {
	ow := NewOpenWeatherProvider(client, cfg.OpenWeatherKey, cfg.OpenWeatherBaseURL, log)

	var backfill AQIBackfiller
	if cfg.OpenWeatherKey != "" {
		backfill = ow
	}
	cy := NewCaiyunProvider(client, cfg.CaiyunToken, cfg.CaiyunBaseURL, backfill, log)

	return []weather.Tier{
		{Provider: cy, Enabled: cfg.CaiyunToken != ""},
		{Provider: ow, Enabled: cfg.OpenWeatherKey != ""},
	}
}
