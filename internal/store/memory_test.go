package store

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/weather"
)

var beijing = common.Coordinates{Lat: 39.9042, Lon: 116.4074}

func snapAt(ts time.Time, temp float64) weather.Snapshot {
	return weather.Snapshot{
		Current:     weather.Current{Temp: temp},
		Hourly:      []weather.Hourly{{Time: "10:00", Temp: temp}},
		LastUpdated: ts,
		Provider:    "caiyun",
	}
}

func TestMemoryStore_GetLatest(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(10, 0, clock)

	_, err := s.GetLatest(beijing)
	require.ErrorIs(t, err, ErrNotFound)

	s.SaveSnapshot(beijing, snapAt(clock.Now().Add(-time.Hour), 20))
	s.SaveSnapshot(beijing, snapAt(clock.Now(), 22))

	latest, err := s.GetLatest(beijing)
	require.NoError(t, err)
	assert.Equal(t, 22.0, latest.Current.Temp)
}

func TestMemoryStore_RetentionByCount(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(2, 0, clock)

	for i := 0; i < 5; i++ {
		s.SaveSnapshot(beijing, snapAt(clock.Now().Add(time.Duration(i)*time.Minute), float64(i)))
	}

	all, err := s.GetRange(beijing, clock.Now().Add(-time.Hour), clock.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 3.0, all[0].Current.Temp)
	assert.Equal(t, 4.0, all[1].Current.Temp)
}

func TestMemoryStore_RetentionByAge(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(0, time.Hour, clock)

	s.SaveSnapshot(beijing, snapAt(clock.Now().Add(-3*time.Hour), 1))
	s.SaveSnapshot(beijing, snapAt(clock.Now().Add(-2*time.Hour), 2))
	s.SaveSnapshot(beijing, snapAt(clock.Now().Add(-10*time.Minute), 3))

	all, err := s.GetRange(beijing, clock.Now().Add(-24*time.Hour), clock.Now())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 3.0, all[0].Current.Temp)
}

func TestMemoryStore_RetentionKeepsNewestEvenWhenStale(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(0, time.Hour, clock)

	s.SaveSnapshot(beijing, snapAt(clock.Now().Add(-5*time.Hour), 7))

	latest, err := s.GetLatest(beijing)
	require.NoError(t, err)
	assert.Equal(t, 7.0, latest.Current.Temp)
}

func TestMemoryStore_GetRangeOutsideWindow(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(0, 0, clock)
	s.SaveSnapshot(beijing, snapAt(clock.Now(), 1))

	_, err := s.GetRange(beijing, clock.Now().Add(time.Hour), clock.Now().Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)

	other := common.Coordinates{Lat: 31.2304, Lon: 121.4737}
	_, err = s.GetLatest(other)
	assert.ErrorIs(t, err, ErrNotFound)
}
