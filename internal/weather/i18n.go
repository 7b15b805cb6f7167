package weather

import (
	"strings"
	"time"

	"github.com/i474232898/skyweather/internal/common"
)

var (
	weekdaysZH = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}
	weekdaysEN = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// DayName returns the short localized weekday for t.
func DayName(t time.Time, lang common.Language) string {
	if lang.IsZH() {
		return weekdaysZH[t.Weekday()]
	}
	return weekdaysEN[t.Weekday()]
}

var skyconText = map[string][2]string{
	"CLEAR_DAY":           {"晴", "Clear"},
	"CLEAR_NIGHT":         {"晴", "Clear"},
	"PARTLY_CLOUDY_DAY":   {"多云", "Partly Cloudy"},
	"PARTLY_CLOUDY_NIGHT": {"多云", "Partly Cloudy"},
	"CLOUDY":              {"阴", "Cloudy"},
	"LIGHT_HAZE":          {"轻度雾霾", "Light Haze"},
	"MODERATE_HAZE":       {"中度雾霾", "Moderate Haze"},
	"HEAVY_HAZE":          {"重度雾霾", "Heavy Haze"},
	"LIGHT_RAIN":          {"小雨", "Light Rain"},
	"MODERATE_RAIN":       {"中雨", "Moderate Rain"},
	"HEAVY_RAIN":          {"大雨", "Heavy Rain"},
	"STORM_RAIN":          {"暴雨", "Storm Rain"},
	"FOG":                 {"雾", "Fog"},
	"LIGHT_SNOW":          {"小雪", "Light Snow"},
	"MODERATE_SNOW":       {"中雪", "Moderate Snow"},
	"HEAVY_SNOW":          {"大雪", "Heavy Snow"},
	"STORM_SNOW":          {"暴雪", "Blizzard"},
	"DUST":                {"浮尘", "Dust"},
	"SAND":                {"沙尘", "Sand"},
	"WIND":                {"大风", "Windy"},
}

// SkyconText localizes a Caiyun skycon code. Unknown codes are returned verbatim.
func SkyconText(skycon string, lang common.Language) string {
	t, ok := skyconText[strings.ToUpper(strings.TrimSpace(skycon))]
	if !ok {
		return skycon
	}
	return lang.Pick(t[0], t[1])
}

// UnknownText is the neutral label used when a provider leaves a category blank.
func UnknownText(lang common.Language) string {
	return lang.Pick("未知", "Unknown")
}
