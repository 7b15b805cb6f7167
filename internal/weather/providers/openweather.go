package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/weather"
)

const (
	defaultOpenWeatherBaseURL = "https://api.openweathermap.org"

	// openWeatherHourlySteps covers the next 24h of 3-hourly forecast steps.
	openWeatherHourlySteps = 9
)

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap. Current
// conditions, the 5 day/3 hour forecast and air pollution are separate calls.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	baseURL  string
	upstream *common.Upstream
	// pollution has its own breaker so AQI failures never trip weather calls.
	pollution *common.Upstream
	log       logger.Logger
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, log logger.Logger) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = defaultOpenWeatherBaseURL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &OpenWeatherProvider{
		name:      "openweathermap",
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		upstream:  common.NewUpstream("openweathermap", client),
		pollution: common.NewUpstream("openweathermap-pollution", client),
		log:       log.WithField("provider", "openweathermap"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owCurrentResponse struct {
	Weather []owCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Dt int64 `json:"dt"`
}

type owForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []owCondition `json:"weather"`
		Pop     float64       `json:"pop"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"` // seconds east of UTC
	} `json:"city"`
}

type owPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
	} `json:"list"`
}

func firstCondition(items []owCondition) owCondition {
	if len(items) == 0 {
		return owCondition{}
	}
	return items[0]
}

func (p *OpenWeatherProvider) endpoint(path string, coords common.Coordinates, lang common.Language, withUnits bool) string {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("appid", p.apiKey)
	if withUnits {
		values.Set("units", "metric")
		values.Set("lang", lang.Pick("zh_cn", "en"))
	}
	return fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, coords common.Coordinates, lang common.Language) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, common.NewUnavailableCredentialError(p.name)
	}

	var (
		wg                      sync.WaitGroup
		current                 owCurrentResponse
		forecast                owForecastResponse
		currentErr, forecastErr error
		aqi                     AQIReading
		aqiOK                   bool
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		currentErr = p.upstream.GetJSON(ctx, p.endpoint("/data/2.5/weather", coords, lang, true), &current)
	}()
	go func() {
		defer wg.Done()
		forecastErr = p.upstream.GetJSON(ctx, p.endpoint("/data/2.5/forecast", coords, lang, true), &forecast)
	}()
	go func() {
		defer wg.Done()
		aqi, aqiOK = p.LookupAQI(ctx, coords, lang)
	}()
	wg.Wait()

	if currentErr != nil {
		return weather.Snapshot{}, currentErr
	}
	if forecastErr != nil {
		return weather.Snapshot{}, forecastErr
	}

	zone := time.FixedZone("", forecast.City.Timezone)

	hourly := make([]weather.Hourly, 0, openWeatherHourlySteps)
	for i, item := range forecast.List {
		if i >= openWeatherHourlySteps {
			break
		}
		hourly = append(hourly, weather.Hourly{
			Time:              fmt.Sprintf("%02d:00", time.Unix(item.Dt, 0).In(zone).Hour()),
			Temp:              item.Main.Temp,
			Icon:              weather.NormalizeIcon(firstCondition(item.Weather).Icon, weather.KindOpenWeather),
			PrecipProbability: int(math.Round(item.Pop * 100)),
		})
	}
	if len(hourly) == 0 {
		return weather.Snapshot{}, common.NewPartialDataError(p.name, "forecast steps")
	}

	daily := p.groupDaily(forecast, zone, lang)

	cond := firstCondition(current.Weather)
	cur := weather.Current{
		Temp:           current.Main.Temp,
		FeelsLike:      current.Main.FeelsLike,
		HighTemp:       current.Main.TempMax,
		LowTemp:        current.Main.TempMin,
		Condition:      common.FirstNonEmpty(cond.Description, weather.UnknownText(lang)),
		Humidity:       int(math.Round(current.Main.Humidity)),
		WindSpeed:      math.Round(current.Wind.Speed * 3.6), // m/s -> km/h
		Pressure:       current.Main.Pressure,
		Visibility:     current.Visibility / 1000,
		AQI:            0,
		AQIDescription: weather.UnknownText(lang),
		Icon:           weather.NormalizeIcon(cond.Icon, weather.KindOpenWeather),
	}
	if len(daily) > 0 {
		cur.HighTemp, cur.LowTemp = daily[0].MaxTemp, daily[0].MinTemp
	}
	if aqiOK {
		cur.AQI, cur.AQIDescription = aqi.AQI, aqi.Description
	}

	return weather.Snapshot{
		Current:  cur,
		Hourly:   hourly,
		Daily:    daily,
		Alerts:   []weather.Alert{},
		Provider: p.name,
	}, nil
}

// groupDaily folds forecast steps into calendar days in the city's offset. Each day
// takes min/max temperature and the middle step's icon and description.
func (p *OpenWeatherProvider) groupDaily(forecast owForecastResponse, zone *time.Location, lang common.Language) []weather.Daily {
	type bucket struct {
		day        time.Time
		temps      []float64
		icons      []string
		conditions []string
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, item := range forecast.List {
		local := time.Unix(item.Dt, 0).In(zone)
		key := local.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{day: local}
			buckets[key] = b
			order = append(order, key)
		}
		cond := firstCondition(item.Weather)
		b.temps = append(b.temps, item.Main.Temp)
		b.icons = append(b.icons, cond.Icon)
		b.conditions = append(b.conditions, cond.Description)
	}

	daily := make([]weather.Daily, 0, min(len(order), weather.MaxDaily))
	for _, key := range order {
		if len(daily) >= weather.MaxDaily {
			break
		}
		b := buckets[key]
		lo, hi := b.temps[0], b.temps[0]
		for _, t := range b.temps[1:] {
			lo = math.Min(lo, t)
			hi = math.Max(hi, t)
		}
		mid := len(b.icons) / 2
		daily = append(daily, weather.Daily{
			Date:      key,
			DayName:   weather.DayName(b.day, lang),
			MinTemp:   lo,
			MaxTemp:   hi,
			Icon:      weather.NormalizeIcon(b.icons[mid], weather.KindOpenWeather),
			Condition: b.conditions[mid],
		})
	}
	return daily
}

// LookupAQI reads the air_pollution endpoint. Failures are logged and reported as !ok.
func (p *OpenWeatherProvider) LookupAQI(ctx context.Context, coords common.Coordinates, lang common.Language) (AQIReading, bool) {
	if p.apiKey == "" {
		return AQIReading{}, false
	}

	var resp owPollutionResponse
	if err := p.pollution.GetJSON(ctx, p.endpoint("/data/2.5/air_pollution", coords, lang, false), &resp); err != nil {
		p.log.WithError(err).Debug("air pollution lookup failed")
		return AQIReading{}, false
	}
	if len(resp.List) == 0 {
		return AQIReading{}, false
	}
	return aqiFromOpenWeatherLevel(resp.List[0].Main.AQI, lang)
}
