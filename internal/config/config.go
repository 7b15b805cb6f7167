package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
)

type AppConfig struct {
	// Provider credentials; each is optional and an empty one disables its provider.
	CaiyunAPIKey      string
	OpenWeatherAPIKey string
	TencentMapAPIKey  string

	// Base URL overrides, empty means the public endpoint.
	CaiyunBaseURL      string
	OpenWeatherBaseURL string
	TencentBaseURL     string
	NominatimBaseURL   string
	IPAPIBaseURL       string

	PreferredLocationProvider location.Provider
	DefaultLanguage           common.Language
	NominatimUserAgent        string
	GeocodeCacheSize          int

	HTTPTimeout   time.Duration
	DeviceTimeout time.Duration
	// Device is the configured device position, nil when DEVICE_LAT/DEVICE_LON are unset.
	Device *common.Coordinates

	// FetchInterval controls how often saved locations are refreshed.
	FetchInterval  time.Duration
	SavedLocations []common.Coordinates

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	LogLevel string
	AppEnv   string
	Port     string
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.CaiyunAPIKey = os.Getenv("CAIYUN_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.TencentMapAPIKey = os.Getenv("TENCENT_MAP_API_KEY")

	cfg.CaiyunBaseURL = os.Getenv("CAIYUN_BASE_URL")
	cfg.OpenWeatherBaseURL = os.Getenv("OPENWEATHER_BASE_URL")
	cfg.TencentBaseURL = os.Getenv("TENCENT_BASE_URL")
	cfg.NominatimBaseURL = os.Getenv("NOMINATIM_BASE_URL")
	cfg.IPAPIBaseURL = os.Getenv("IPAPI_BASE_URL")

	cfg.PreferredLocationProvider = location.ParseProvider(os.Getenv("PREFERRED_LOCATION_PROVIDER"))
	cfg.DefaultLanguage = common.ParseLanguage(os.Getenv("DEFAULT_LANGUAGE"))
	cfg.NominatimUserAgent = os.Getenv("NOMINATIM_USER_AGENT")
	cfg.GeocodeCacheSize = getenvInt("GEOCODE_CACHE_SIZE", 512)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.DeviceTimeout, err = getenvDuration("DEVICE_TIMEOUT", "8s"); err != nil {
		return nil, err
	}
	// Scheduler interval: default 15 minutes.
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	if cfg.Device, err = loadDevice(); err != nil {
		return nil, err
	}
	if cfg.SavedLocations, err = ParseLocations(os.Getenv("SAVED_LOCATIONS")); err != nil {
		return nil, err
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.AppEnv = getenvDefault("APP_ENV", "development")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

var validate = validator.New()

func parseCoordinates(latStr, lonStr string) (common.Coordinates, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return common.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", latStr, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return common.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", lonStr, err)
	}
	c := common.Coordinates{Lat: lat, Lon: lon}
	if err := validate.Struct(c); err != nil {
		return common.Coordinates{}, fmt.Errorf("coordinates %s out of range: %w", c, err)
	}
	return c, nil
}

// ParseLocations parses "lat,lon;lat,lon". Empty entries are ignored.
func ParseLocations(s string) ([]common.Coordinates, error) {
	var locs []common.Coordinates
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		latStr, lonStr, ok := strings.Cut(entry, ",")
		if !ok {
			return nil, fmt.Errorf("invalid SAVED_LOCATIONS entry %q: want lat,lon", entry)
		}
		c, err := parseCoordinates(latStr, lonStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SAVED_LOCATIONS entry %q: %w", entry, err)
		}
		locs = append(locs, c)
	}
	return locs, nil
}

func loadDevice() (*common.Coordinates, error) {
	lat, lon := os.Getenv("DEVICE_LAT"), os.Getenv("DEVICE_LON")
	if lat == "" && lon == "" {
		return nil, nil
	}
	c, err := parseCoordinates(lat, lon)
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_LAT/DEVICE_LON: %w", err)
	}
	return &c, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
