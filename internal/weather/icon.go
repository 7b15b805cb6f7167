package weather

import "strings"

// caiyunIconRules is checked in order; earlier entries win, so the PARTLY_ variants
// must precede plain CLOUDY.
var caiyunIconRules = []struct {
	substr string
	icon   IconCategory
}{
	{"CLEAR_DAY", IconClearDay},
	{"CLEAR_NIGHT", IconClearNight},
	{"PARTLY_CLOUDY_DAY", IconPartlyCloudyDay},
	{"PARTLY_CLOUDY_NIGHT", IconPartlyCloudyNight},
	{"CLOUDY", IconCloudy},
	{"THUNDER", IconThunderstorm},
	{"RAIN", IconRain},
	{"SNOW", IconSnow},
	{"WIND", IconWind},
	{"FOG", IconFog},
	{"HAZE", IconFog},
	{"DUST", IconFog},
	{"SAND", IconFog},
}

var openWeatherIcons = map[string]IconCategory{
	"01d": IconClearDay,
	"01n": IconClearNight,
	"02d": IconPartlyCloudyDay,
	"02n": IconPartlyCloudyNight,
	"03d": IconCloudy,
	"03n": IconCloudy,
	"04d": IconCloudy,
	"04n": IconCloudy,
	"09d": IconRain,
	"09n": IconRain,
	"10d": IconRain,
	"10n": IconRain,
	"11d": IconThunderstorm,
	"11n": IconThunderstorm,
	"13d": IconSnow,
	"13n": IconSnow,
	"50d": IconFog,
	"50n": IconFog,
}

// NormalizeIcon maps a provider condition code onto an IconCategory. It never fails:
// empty or unknown codes yield DefaultIcon.
func NormalizeIcon(code string, kind ProviderKind) IconCategory {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultIcon
	}

	switch kind {
	case KindCaiyun:
		upper := strings.ToUpper(code)
		for _, rule := range caiyunIconRules {
			if strings.Contains(upper, rule.substr) {
				return rule.icon
			}
		}
	case KindOpenWeather:
		if icon, ok := openWeatherIcons[strings.ToLower(code)]; ok {
			return icon
		}
	}
	return DefaultIcon
}
