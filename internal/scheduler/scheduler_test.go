package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
	"github.com/i474232898/skyweather/internal/store"
	"github.com/i474232898/skyweather/internal/weather"
)

type stubWeather struct {
	calls atomic.Int32
	fail  bool
}

func (s *stubWeather) Name() string { return "caiyun" }

func (s *stubWeather) Fetch(_ context.Context, c common.Coordinates, _ common.Language) (weather.Snapshot, error) {
	s.calls.Add(1)
	if s.fail {
		return weather.Snapshot{}, common.NewNetworkError("caiyun", errors.New("down"))
	}
	return weather.Snapshot{
		Current: weather.Current{Temp: c.Lat},
		Hourly:  []weather.Hourly{{Time: "10:00", Temp: c.Lat}},
	}, nil
}

type stubGeocoder struct{}

func (stubGeocoder) Name() location.Provider { return location.ProviderOSM }
func (stubGeocoder) Available() bool         { return true }

func (stubGeocoder) Reverse(_ context.Context, c common.Coordinates, _ common.Language) (location.Name, error) {
	if c.Lat > 35 {
		return location.Name{City: "北京市", District: "市辖区"}, nil
	}
	return location.Name{City: "上海市", District: "黄浦区"}, nil
}

func (stubGeocoder) Search(context.Context, string, common.Language) ([]location.Place, error) {
	return nil, nil
}

func newTestScheduler(t *testing.T, provider *stubWeather, locs []common.Coordinates) (*Scheduler, *store.MemoryStore) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	mem := store.NewMemoryStore(10, 0, clock)
	agg := weather.NewAggregator([]weather.Tier{{Provider: provider, Enabled: true}}, clock, nil)
	svc := weather.NewService(mem, agg, nil)
	places := location.NewService([]location.Geocoder{stubGeocoder{}}, 0, nil)
	return New(locs, Options{Language: common.LanguageZH, Provider: location.ProviderOSM}, svc, places, nil), mem
}

func TestRunOnce_RefreshesEveryLocation(t *testing.T) {
	locs := []common.Coordinates{{Lat: 39.9042, Lon: 116.4074}, {Lat: 31.2304, Lon: 121.4737}}
	provider := &stubWeather{}
	s, mem := newTestScheduler(t, provider, locs)

	s.RunOnce(context.Background())

	assert.EqualValues(t, 2, provider.calls.Load())
	for _, loc := range locs {
		snap, err := mem.GetLatest(loc)
		require.NoError(t, err)
		assert.Equal(t, loc.Lat, snap.Current.Temp)
	}

	saved := s.Saved()
	require.Len(t, saved, 2)
	assert.Equal(t, "北京市", saved[0].Display)
	assert.Equal(t, "上海市 黄浦区", saved[1].Display)
	assert.Equal(t, "caiyun", saved[0].Provider)
	assert.False(t, saved[0].Synthetic)
}

func TestRunOnce_MockIsNotStored(t *testing.T) {
	loc := common.Coordinates{Lat: 39.9042, Lon: 116.4074}
	s, mem := newTestScheduler(t, &stubWeather{fail: true}, []common.Coordinates{loc})

	s.RunOnce(context.Background())

	_, err := mem.GetLatest(loc)
	assert.ErrorIs(t, err, store.ErrNotFound)
	saved := s.Saved()
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Synthetic)
	assert.Equal(t, weather.MockProviderName, saved[0].Provider)
}

func TestStart_NoLocations(t *testing.T) {
	s, _ := newTestScheduler(t, &stubWeather{}, nil)
	require.NoError(t, s.Start())
	s.Stop()
	assert.Empty(t, s.Saved())
}
