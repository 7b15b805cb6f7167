package providers

import (
	"context"

	"github.com/i474232898/skyweather/internal/common"
)

// AQIReading is an air-quality value with its localized category.
type AQIReading struct {
	AQI         int
	Description string
}

// AQIBackfiller supplies air quality when a weather payload has none. It never fails:
// ok is false when no reading could be obtained.
type AQIBackfiller interface {
	LookupAQI(ctx context.Context, coords common.Coordinates, lang common.Language) (reading AQIReading, ok bool)
}

// openWeatherAQILevels maps the 1..5 air_pollution index onto a representative
// China AQI value and category.
var openWeatherAQILevels = map[int]struct {
	aqi    int
	zh, en string
}{
	1: {30, "优", "Good"},
	2: {70, "良", "Fair"},
	3: {120, "轻度污染", "Moderate"},
	4: {160, "中度污染", "Poor"},
	5: {201, "重度污染", "Very Poor"},
}

func aqiFromOpenWeatherLevel(level int, lang common.Language) (AQIReading, bool) {
	l, ok := openWeatherAQILevels[level]
	if !ok {
		return AQIReading{}, false
	}
	return AQIReading{AQI: l.aqi, Description: lang.Pick(l.zh, l.en)}, true
}
