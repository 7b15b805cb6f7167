package weather

import (
	"context"
	"time"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/logger"
)

// Service fronts the Aggregator with a snapshot store for the HTTP API and the refresher.
type Service struct {
	store      Store
	aggregator *Aggregator
	log        logger.Logger
}

// NewService creates a new Service.
func NewService(store Store, aggregator *Aggregator, log logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:      store,
		aggregator: aggregator,
		log:        log.WithField("component", "weather_service"),
	}
}

// FetchAndStore fetches a snapshot for coords and stores it. Synthetic snapshots are
// returned but not stored, so the last good snapshot survives a full provider outage.
func (s *Service) FetchAndStore(ctx context.Context, coords common.Coordinates, lang common.Language) Snapshot {
	snap := s.aggregator.FetchWeather(ctx, coords, lang)
	if snap.Synthetic {
		s.log.Debugf("not storing synthetic snapshot for %s", coords.Key())
		return snap
	}
	s.store.SaveSnapshot(coords, snap)
	return snap
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(coords common.Coordinates) (Snapshot, error) {
	return s.store.GetLatest(coords)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(coords common.Coordinates, from, to time.Time) ([]Snapshot, error) {
	return s.store.GetRange(coords, from, to)
}
