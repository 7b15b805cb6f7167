package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/metrics"
)

// DefaultDeviceTimeout bounds the device attempt before falling back to IP location.
const DefaultDeviceTimeout = 8 * time.Second

// ErrDeviceDenied is returned by a device locator that has no permission or signal.
var ErrDeviceDenied = errors.New("device location denied")

// DeviceFunc adapts a function to Locator.
type DeviceFunc func(ctx context.Context) (common.Coordinates, error)

func (f DeviceFunc) Locate(ctx context.Context) (common.Coordinates, error) {
	return f(ctx)
}

// StaticDevice reports fixed coordinates, e.g. configured or sent by a client.
type StaticDevice struct {
	Coords common.Coordinates
}

func (d StaticDevice) Locate(context.Context) (common.Coordinates, error) {
	return d.Coords, nil
}

// DeniedDevice always fails, standing in for a device without a location signal.
type DeniedDevice struct{}

func (DeniedDevice) Locate(context.Context) (common.Coordinates, error) {
	return common.Coordinates{}, ErrDeviceDenied
}

// Acquirer finds the caller's coordinates: device first with a timeout, then IP
// location. Each source is attempted once.
type Acquirer struct {
	device  Locator
	ip      Locator
	timeout time.Duration
	log     logger.Logger
}

func NewAcquirer(device, ip Locator, timeout time.Duration, log logger.Logger) *Acquirer {
	if device == nil {
		device = DeniedDevice{}
	}
	if timeout <= 0 {
		timeout = DefaultDeviceTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Acquirer{
		device:  device,
		ip:      ip,
		timeout: timeout,
		log:     log.WithField("component", "acquirer"),
	}
}

type locateResult struct {
	coords common.Coordinates
	err    error
}

// locateDevice runs the device locator under the timeout even if it ignores ctx.
func (a *Acquirer) locateDevice(ctx context.Context) (common.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan locateResult, 1)
	go func() {
		c, err := a.device.Locate(ctx)
		done <- locateResult{c, err}
	}()

	select {
	case r := <-done:
		if r.err == nil && !r.coords.Valid() {
			r.err = fmt.Errorf("device reported invalid coordinates %s", r.coords)
		}
		return r.coords, r.err
	case <-ctx.Done():
		return common.Coordinates{}, fmt.Errorf("device location: %w", ctx.Err())
	}
}

// Acquire returns ErrLocationUnavailable when both sources fail.
func (a *Acquirer) Acquire(ctx context.Context) (common.Coordinates, error) {
	coords, devErr := a.locateDevice(ctx)
	if devErr == nil {
		metrics.LocationLookups.WithLabelValues("acquire", "device", "succeeded").Inc()
		return coords, nil
	}
	metrics.LocationLookups.WithLabelValues("acquire", "device", "failed").Inc()
	a.log.WithError(devErr).Info("device location unavailable, trying ip location")

	if a.ip == nil {
		return common.Coordinates{}, fmt.Errorf("%w: device: %v", common.ErrLocationUnavailable, devErr)
	}
	coords, ipErr := a.ip.Locate(ctx)
	if ipErr == nil && coords.Valid() {
		metrics.LocationLookups.WithLabelValues("acquire", "ip", "succeeded").Inc()
		return coords, nil
	}
	if ipErr == nil {
		ipErr = fmt.Errorf("invalid coordinates %s", coords)
	}
	metrics.LocationLookups.WithLabelValues("acquire", "ip", "failed").Inc()
	a.log.WithError(ipErr).Warn("ip location failed")

	return common.Coordinates{}, fmt.Errorf("%w: device: %v; ip: %v", common.ErrLocationUnavailable, devErr, ipErr)
}
