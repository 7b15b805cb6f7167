package weather

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/metrics"
)

// TierState is the position of one tier in the fallback sequence.
type TierState string

const (
	StateNotAttempted TierState = "not_attempted"
	StateTrying       TierState = "trying"
	StateSucceeded    TierState = "succeeded"
	StateFailed       TierState = "failed"
	// StateSkipped marks a tier routed around because its credential is absent.
	StateSkipped TierState = "skipped"
)

// Attempt records what happened to one tier during a fetch.
type Attempt struct {
	Provider string        `json:"provider"`
	State    TierState     `json:"state"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Trace lists one Attempt per configured tier, in tier order.
type Trace []Attempt

// Aggregator tries weather tiers in fixed order and returns the first valid snapshot.
// A provider's output is accepted whole or discarded whole; there is no merging.
type Aggregator struct {
	tiers []Tier
	clock clockwork.Clock
	log   logger.Logger
}

// NewAggregator creates an Aggregator over tiers, highest priority first.
func NewAggregator(tiers []Tier, clock clockwork.Clock, log logger.Logger) *Aggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Aggregator{
		tiers: tiers,
		clock: clock,
		log:   log.WithField("component", "aggregator"),
	}
}

// FetchWeather always resolves to a valid snapshot; mock data when every tier fails.
func (a *Aggregator) FetchWeather(ctx context.Context, coords common.Coordinates, lang common.Language) Snapshot {
	snap, _ := a.FetchWeatherTrace(ctx, coords, lang)
	return snap
}

// FetchWeatherTrace is FetchWeather plus the per-tier record of how the result was reached.
func (a *Aggregator) FetchWeatherTrace(ctx context.Context, coords common.Coordinates, lang common.Language) (Snapshot, Trace) {
	trace := make(Trace, len(a.tiers))
	for i, t := range a.tiers {
		trace[i] = Attempt{Provider: t.Provider.Name(), State: StateNotAttempted}
	}

	for i, t := range a.tiers {
		name := t.Provider.Name()
		if !t.Enabled {
			trace[i].State = StateSkipped
			trace[i].Err = common.NewUnavailableCredentialError(name)
			metrics.WeatherTiers.WithLabelValues(name, string(StateSkipped)).Inc()
			a.log.Debugf("skipping %s: no credential configured", name)
			continue
		}

		trace[i].State = StateTrying
		start := a.clock.Now()
		snap, err := a.try(ctx, t.Provider, coords, lang)
		trace[i].Duration = a.clock.Since(start)

		if err != nil {
			trace[i].State = StateFailed
			trace[i].Err = err
			metrics.WeatherTiers.WithLabelValues(name, string(StateFailed)).Inc()
			a.log.WithError(err).WithFields(map[string]interface{}{
				"provider": name,
				"coords":   coords.Key(),
				"kind":     string(common.KindOf(err)),
			}).Warn("weather provider failed, falling back")
			continue
		}

		trace[i].State = StateSucceeded
		metrics.WeatherTiers.WithLabelValues(name, string(StateSucceeded)).Inc()
		return snap, trace
	}

	a.log.WithField("coords", coords.Key()).Info("all weather providers failed, using mock data")
	metrics.MockSnapshots.Inc()
	now := a.clock.Now()
	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(len(trace))))
	return MockSnapshot(lang, now, rng), trace
}

// try runs a single provider and enforces the validity invariant on its output.
func (a *Aggregator) try(ctx context.Context, p Provider, coords common.Coordinates, lang common.Language) (snap Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = common.NewInvalidResponseError(p.Name(), errors.New("provider panicked"))
		}
	}()

	snap, err = p.Fetch(ctx, coords, lang)
	if err != nil {
		return Snapshot{}, err
	}
	if !snap.Valid() {
		return Snapshot{}, common.NewPartialDataError(p.Name(), "hourly forecast")
	}
	if snap.Provider == "" {
		snap.Provider = p.Name()
	}
	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = a.clock.Now().UTC()
	}
	snap.Synthetic = false
	return snap, nil
}
