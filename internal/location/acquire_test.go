package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/skyweather/internal/common"
)

var (
	deviceSpot = common.Coordinates{Lat: 31.2304, Lon: 121.4737}
	ipSpot     = common.Coordinates{Lat: 39.9042, Lon: 116.4074}
)

// hangingDevice never answers and ignores ctx.
var hangingDevice = DeviceFunc(func(context.Context) (common.Coordinates, error) {
	select {}
})

func staticIP(c common.Coordinates, err error) Locator {
	return DeviceFunc(func(context.Context) (common.Coordinates, error) { return c, err })
}

func TestAcquire_DeviceWins(t *testing.T) {
	ipCalled := false
	ip := DeviceFunc(func(context.Context) (common.Coordinates, error) {
		ipCalled = true
		return ipSpot, nil
	})
	a := NewAcquirer(StaticDevice{Coords: deviceSpot}, ip, time.Second, nil)

	got, err := a.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, deviceSpot, got)
	assert.False(t, ipCalled)
}

func TestAcquire_DeviceTimeoutFallsBackToIP(t *testing.T) {
	a := NewAcquirer(hangingDevice, staticIP(ipSpot, nil), 20*time.Millisecond, nil)

	start := time.Now()
	got, err := a.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ipSpot, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAcquire_DeniedFallsBackToIP(t *testing.T) {
	a := NewAcquirer(DeniedDevice{}, staticIP(ipSpot, nil), time.Second, nil)
	got, err := a.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ipSpot, got)
}

func TestAcquire_BothFail(t *testing.T) {
	a := NewAcquirer(hangingDevice, staticIP(common.Coordinates{}, errors.New("reserved range")), 10*time.Millisecond, nil)
	_, err := a.Acquire(context.Background())
	assert.ErrorIs(t, err, common.ErrLocationUnavailable)

	a = NewAcquirer(nil, nil, 0, nil)
	_, err = a.Acquire(context.Background())
	assert.ErrorIs(t, err, common.ErrLocationUnavailable)
}

func TestAcquire_InvalidDeviceCoordinates(t *testing.T) {
	a := NewAcquirer(StaticDevice{Coords: common.Coordinates{Lat: 120}}, staticIP(ipSpot, nil), time.Second, nil)
	got, err := a.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ipSpot, got)
}
