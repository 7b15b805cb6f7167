package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIcon_Caiyun(t *testing.T) {
	tests := map[string]IconCategory{
		"CLEAR_DAY":           IconClearDay,
		"CLEAR_NIGHT":         IconClearNight,
		"PARTLY_CLOUDY_DAY":   IconPartlyCloudyDay,
		"PARTLY_CLOUDY_NIGHT": IconPartlyCloudyNight,
		"CLOUDY":              IconCloudy,
		"LIGHT_RAIN":          IconRain,
		"STORM_RAIN":          IconRain,
		"HEAVY_SNOW":          IconSnow,
		"WIND":                IconWind,
		"FOG":                 IconFog,
		"MODERATE_HAZE":       IconFog,
		"DUST":                IconFog,
		"SAND":                IconFog,
		"THUNDER_SHOWER":      IconThunderstorm,
		"light_rain":          IconRain,
		"":                    DefaultIcon,
		"SOMETHING_NEW":       DefaultIcon,
	}
	for code, want := range tests {
		assert.Equal(t, want, NormalizeIcon(code, KindCaiyun), code)
	}
}

func TestNormalizeIcon_OpenWeather(t *testing.T) {
	tests := map[string]IconCategory{
		"01d": IconClearDay,
		"01n": IconClearNight,
		"02d": IconPartlyCloudyDay,
		"02n": IconPartlyCloudyNight,
		"03n": IconCloudy,
		"04d": IconCloudy,
		"09d": IconRain,
		"10n": IconRain,
		"11d": IconThunderstorm,
		"13n": IconSnow,
		"50d": IconFog,
		"50D": IconFog,
		"99x": DefaultIcon,
		"":    DefaultIcon,
	}
	for code, want := range tests {
		assert.Equal(t, want, NormalizeIcon(code, KindOpenWeather), code)
	}
}

func TestNormalizeIcon_AlwaysInSet(t *testing.T) {
	allowed := make(map[IconCategory]bool, len(AllIcons))
	for _, icon := range AllIcons {
		allowed[icon] = true
	}
	for _, code := range []string{"", "x", "CLEAR_DAY", "01d", "🌧", "PARTLY_CLOUDY_NIGHT_EXTRA"} {
		assert.True(t, allowed[NormalizeIcon(code, KindCaiyun)], code)
		assert.True(t, allowed[NormalizeIcon(code, KindOpenWeather)], code)
		assert.True(t, allowed[NormalizeIcon(code, ProviderKind("unknown"))], code)
	}
}
