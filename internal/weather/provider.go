package weather

import (
	"context"
	"time"

	"github.com/i474232898/skyweather/internal/common"
)

// ProviderKind selects the icon table used to normalize a provider's condition codes.
type ProviderKind string

const (
	KindCaiyun      ProviderKind = "caiyun"
	KindOpenWeather ProviderKind = "openweather"
)

// Provider abstracts a weather data source (e.g. Caiyun, OpenWeather).
// Fetch returns a valid Snapshot or a *common.ProviderError.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coords common.Coordinates, lang common.Language) (Snapshot, error)
}

// Tier is one ranked provider slot. Disabled tiers are skipped without being attempted.
type Tier struct {
	Provider Provider
	Enabled  bool
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveSnapshot(coords common.Coordinates, snapshot Snapshot)
	GetLatest(coords common.Coordinates) (Snapshot, error)
	GetRange(coords common.Coordinates, from, to time.Time) ([]Snapshot, error)
}
