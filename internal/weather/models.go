package weather

import (
	"time"
)

// IconCategory is the closed set of icons every provider code is normalized onto.
type IconCategory string

const (
	IconClearDay          IconCategory = "clear-day"
	IconClearNight        IconCategory = "clear-night"
	IconPartlyCloudyDay   IconCategory = "partly-cloudy-day"
	IconPartlyCloudyNight IconCategory = "partly-cloudy-night"
	IconCloudy            IconCategory = "cloudy"
	IconRain              IconCategory = "rain"
	IconSnow              IconCategory = "snow"
	IconWind              IconCategory = "wind"
	IconFog               IconCategory = "fog"
	IconThunderstorm      IconCategory = "thunderstorm"

	DefaultIcon = IconPartlyCloudyDay
)

// AllIcons lists every IconCategory in declaration order.
var AllIcons = []IconCategory{
	IconClearDay, IconClearNight,
	IconPartlyCloudyDay, IconPartlyCloudyNight,
	IconCloudy, IconRain, IconSnow, IconWind, IconFog, IconThunderstorm,
}

// Severity is the alert level as reported to the UI.
type Severity string

const (
	SeverityStandard Severity = "standard"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeveritySevere   Severity = "severe"
)

// Current holds the conditions right now plus today's range.
type Current struct {
	Temp           float64      `json:"temp"`
	FeelsLike      float64      `json:"feelsLike"`
	HighTemp       float64      `json:"highTemp"`
	LowTemp        float64      `json:"lowTemp"`
	Condition      string       `json:"condition"`
	Humidity       int          `json:"humidity"`  // percent, 0-100
	WindSpeed      float64      `json:"windSpeed"` // km/h
	Pressure       float64      `json:"pressure"`  // hPa
	UVIndex        float64      `json:"uvIndex"`
	Visibility     float64      `json:"visibility"` // km
	AQI            int          `json:"aqi"`
	AQIDescription string       `json:"aqiDescription"`
	Icon           IconCategory `json:"icon"`
}

// Hourly is one step of the short-range forecast.
type Hourly struct {
	Time              string       `json:"time"` // HH:00 in the location's local time
	Temp              float64      `json:"temp"`
	Icon              IconCategory `json:"icon"`
	PrecipProbability int          `json:"pop"` // percent
}

// Daily is one calendar day of the forecast; index 0 is today.
type Daily struct {
	Date      string       `json:"date"` // YYYY-MM-DD
	DayName   string       `json:"dayName"`
	MinTemp   float64      `json:"minTemp"`
	MaxTemp   float64      `json:"maxTemp"`
	Icon      IconCategory `json:"icon"`
	Condition string       `json:"condition"`
}

// Alert is a provider-issued warning. Order is the provider's order.
type Alert struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Level       Severity `json:"level"`
	Source      string   `json:"source"`
}

// Snapshot is the normalized weather view for one location at one point in time.
type Snapshot struct {
	Current     Current   `json:"current"`
	Hourly      []Hourly  `json:"hourly"`
	Daily       []Daily   `json:"daily"`
	Alerts      []Alert   `json:"alerts"`
	LastUpdated time.Time `json:"lastUpdated"` // always UTC

	// Provider names the adapter that produced the snapshot ("mock" for synthesized data).
	Provider string `json:"provider"`
	// Synthetic is set only on mock data so callers never mistake it for a forecast.
	Synthetic bool `json:"synthetic"`
}

// Valid reports whether the snapshot is usable. An empty hourly series means "no data".
func (s Snapshot) Valid() bool {
	return len(s.Hourly) > 0
}

// Upper bounds on the forecast series carried by a Snapshot.
const (
	MaxHourly = 24
	MaxDaily  = 7
)
