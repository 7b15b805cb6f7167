package weather

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/i474232898/skyweather/internal/common"
)

// MockProviderName is reported as Snapshot.Provider on synthesized data.
const MockProviderName = "mock"

// mockAlertChance is the probability that a mock snapshot carries an alert.
const mockAlertChance = 0.3

// MockSnapshot synthesizes a renderable snapshot: 24 hourly and 7 daily entries with
// bounded random values, localized texts and occasionally one alert. It is the last
// tier and is always marked Synthetic.
func MockSnapshot(lang common.Language, now time.Time, rng *rand.Rand) Snapshot {
	zh := lang.IsZH()

	hourly := make([]Hourly, 0, MaxHourly)
	for i := 0; i < MaxHourly; i++ {
		hour := (now.Hour() + i) % 24
		icon := IconClearNight
		if hour > 6 && hour < 18 {
			icon = IconClearDay
		}
		hourly = append(hourly, Hourly{
			Time:              fmt.Sprintf("%02d:00", hour),
			Temp:              float64(20 + rng.IntN(9) - 4),
			Icon:              icon,
			PrecipProbability: rng.IntN(31),
		})
	}

	daily := make([]Daily, 0, MaxDaily)
	for i := 0; i < MaxDaily; i++ {
		d := now.AddDate(0, 0, i)
		icon, condition := IconPartlyCloudyDay, lang.Pick("多云", "Cloudy")
		if i%3 == 0 {
			icon, condition = IconRain, lang.Pick("小雨", "Light Rain")
		}
		daily = append(daily, Daily{
			Date:      d.Format("2006-01-02"),
			DayName:   DayName(d, lang),
			MinTemp:   float64(18 + rng.IntN(6)),
			MaxTemp:   float64(28 + rng.IntN(6)),
			Icon:      icon,
			Condition: condition,
		})
	}

	alerts := []Alert{}
	if rng.Float64() < mockAlertChance {
		alert := Alert{
			Title:       "Heavy Rain Warning",
			Description: "Heavy rain is expected in the next 24 hours.",
			Level:       SeverityMajor,
			Source:      "Met Office",
		}
		if zh {
			alert = Alert{
				Title:       "暴雨蓝色预警",
				Description: "预计未来24小时内，本市大部分地区将出现50毫米以上降水，请注意防范。",
				Level:       SeverityMajor,
				Source:      "市气象台",
			}
		}
		alerts = append(alerts, alert)
	}

	return Snapshot{
		Current: Current{
			Temp:           24,
			FeelsLike:      26,
			HighTemp:       28,
			LowTemp:        19,
			Condition:      lang.Pick("多云", "Partly Cloudy"),
			Humidity:       65,
			WindSpeed:      12,
			Pressure:       1012,
			UVIndex:        4,
			Visibility:     10,
			AQI:            45,
			AQIDescription: lang.Pick("优", "Good"),
			Icon:           IconPartlyCloudyDay,
		},
		Hourly:      hourly,
		Daily:       daily,
		Alerts:      alerts,
		LastUpdated: now.UTC(),
		Provider:    MockProviderName,
		Synthetic:   true,
	}
}
