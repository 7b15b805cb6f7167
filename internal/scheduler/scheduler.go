package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/weather"
)

// jobTimeout bounds one refresh of a single location.
const jobTimeout = 30 * time.Second

// SavedLocation is the last refresh result for one configured location.
type SavedLocation struct {
	Coords      common.Coordinates `json:"coords"`
	Name        location.Name      `json:"name"`
	Display     string             `json:"display"`
	Provider    string             `json:"provider"`
	Synthetic   bool               `json:"synthetic"`
	RefreshedAt time.Time          `json:"refreshedAt"`
}

// Options selects the language and geocoder preference used by the refresh job.
type Options struct {
	Interval time.Duration
	Language common.Language
	Provider location.Provider
}

// Scheduler periodically refreshes weather and names for the saved locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	weather   *weather.Service
	places    *location.Service
	locations []common.Coordinates
	opts      Options
	log       logger.Logger

	mu    sync.RWMutex
	saved map[string]SavedLocation
}

// New creates a new Scheduler.
func New(locations []common.Coordinates, opts Options, weatherSvc *weather.Service, places *location.Service, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Minute
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		weather:   weatherSvc,
		places:    places,
		locations: locations,
		opts:      opts,
		log:       log.WithField("component", "scheduler"),
		saved:     make(map[string]SavedLocation, len(locations)),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The first run
// happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Info("no saved locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.opts.Interval).SingletonMode().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every saved location concurrently and waits for all of them.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.log.Debug("running refresh job")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc common.Coordinates) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			s.refresh(ctx, loc)
		}(loc)
	}
	wg.Wait()

	s.log.Debugf("refresh job completed for %d locations", len(s.locations))
}

// refresh fetches the snapshot and the name in parallel; neither call can fail.
func (s *Scheduler) refresh(ctx context.Context, loc common.Coordinates) {
	var (
		wg   sync.WaitGroup
		snap weather.Snapshot
		name location.Name
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		snap = s.weather.FetchAndStore(ctx, loc, s.opts.Language)
	}()
	go func() {
		defer wg.Done()
		name = s.places.Resolve(ctx, loc, s.opts.Language, s.opts.Provider)
	}()
	wg.Wait()

	if snap.Synthetic {
		s.log.WithField("coords", loc.Key()).Warn("saved location refreshed with mock data")
	}

	s.mu.Lock()
	s.saved[loc.Key()] = SavedLocation{
		Coords:      loc,
		Name:        name,
		Display:     name.Display(),
		Provider:    snap.Provider,
		Synthetic:   snap.Synthetic,
		RefreshedAt: snap.LastUpdated,
	}
	s.mu.Unlock()
}

// Saved returns the latest refresh results in configuration order. Locations that
// have not been refreshed yet are omitted.
func (s *Scheduler) Saved() []SavedLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SavedLocation, 0, len(s.saved))
	for _, loc := range s.locations {
		if sl, ok := s.saved[loc.Key()]; ok {
			out = append(out, sl)
		}
	}
	return out
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
