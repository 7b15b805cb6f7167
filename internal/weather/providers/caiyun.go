package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/weather"
)

const defaultCaiyunBaseURL = "https://api.caiyunapp.com"

// caiyunTimeLayouts covers the minute-precision offsets Caiyun emits plus RFC3339.
var caiyunTimeLayouts = []string{
	"2006-01-02T15:04-07:00",
	time.RFC3339,
	"2006-01-02T15:04:05-07:00",
	"2006-01-02",
}

// CaiyunProvider implements weather.Provider for the Caiyun v2.6 combined endpoint.
// One call returns realtime, hourly, daily and alert sections.
type CaiyunProvider struct {
	name     string
	token    string
	baseURL  string
	upstream *common.Upstream
	aqi      AQIBackfiller
	log      logger.Logger
}

// NewCaiyunProvider creates the primary provider. aqi may be nil.
func NewCaiyunProvider(client *http.Client, token, baseURL string, aqi AQIBackfiller, log logger.Logger) *CaiyunProvider {
	if baseURL == "" {
		baseURL = defaultCaiyunBaseURL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &CaiyunProvider{
		name:     "caiyun",
		token:    token,
		baseURL:  strings.TrimRight(baseURL, "/"),
		upstream: common.NewUpstream("caiyun", client),
		aqi:      aqi,
		log:      log.WithField("provider", "caiyun"),
	}
}

func (p *CaiyunProvider) Name() string {
	return p.name
}

func (p *CaiyunProvider) Fetch(ctx context.Context, coords common.Coordinates, lang common.Language) (weather.Snapshot, error) {
	if p.token == "" {
		return weather.Snapshot{}, common.NewUnavailableCredentialError(p.name)
	}

	values := url.Values{}
	values.Set("alert", "true")
	values.Set("dailysteps", strconv.Itoa(weather.MaxDaily))
	values.Set("hourlysteps", strconv.Itoa(weather.MaxHourly))
	values.Set("unit", "metric:v2")
	values.Set("lang", lang.Pick("zh_CN", "en_US"))

	// Caiyun takes lon,lat in the path.
	u := fmt.Sprintf("%s/v2.6/%s/%s,%s/weather.json?%s",
		p.baseURL,
		url.PathEscape(p.token),
		strconv.FormatFloat(coords.Lon, 'f', -1, 64),
		strconv.FormatFloat(coords.Lat, 'f', -1, 64),
		values.Encode(),
	)

	body, err := p.upstream.Get(ctx, u)
	if err != nil {
		return weather.Snapshot{}, err
	}
	if !gjson.ValidBytes(body) {
		return weather.Snapshot{}, common.NewInvalidResponseError(p.name, errors.New("malformed json"))
	}

	root := gjson.ParseBytes(body)
	if status := root.Get("status").String(); status != "ok" {
		return weather.Snapshot{}, common.NewInvalidResponseError(p.name,
			fmt.Errorf("status %q: %s", status, root.Get("error").String()))
	}
	r := root.Get("result")
	if !r.Exists() {
		return weather.Snapshot{}, common.NewInvalidResponseError(p.name, errors.New("missing result"))
	}
	if !r.Get("realtime").Exists() {
		return weather.Snapshot{}, common.NewPartialDataError(p.name, "realtime")
	}

	hourly := p.parseHourly(r)
	if len(hourly) == 0 {
		return weather.Snapshot{}, common.NewPartialDataError(p.name, "hourly forecast")
	}
	daily := p.parseDaily(r, lang)

	return weather.Snapshot{
		Current:  p.parseCurrent(ctx, r, coords, lang),
		Hourly:   hourly,
		Daily:    daily,
		Alerts:   p.parseAlerts(r),
		Provider: p.name,
	}, nil
}

func (p *CaiyunProvider) parseCurrent(ctx context.Context, r gjson.Result, coords common.Coordinates, lang common.Language) weather.Current {
	rt := r.Get("realtime")
	temp := rt.Get("temperature").Float()
	skycon := rt.Get("skycon").String()

	high, low := temp, temp
	if temps := r.Get("daily.temperature").Array(); len(temps) > 0 {
		high, low = temps[0].Get("max").Float(), temps[0].Get("min").Float()
	}

	cur := weather.Current{
		Temp:       temp,
		FeelsLike:  rt.Get("apparent_temperature").Float(),
		HighTemp:   high,
		LowTemp:    low,
		Condition:  weather.SkyconText(skycon, lang),
		Humidity:   int(math.Round(rt.Get("humidity").Float() * 100)),
		WindSpeed:  rt.Get("wind.speed").Float(),
		Pressure:   math.Round(rt.Get("pressure").Float()/10) / 10, // Pa -> hPa, one decimal
		UVIndex:    rt.Get("life_index.ultraviolet.index").Float(),
		Visibility: rt.Get("visibility").Float(),
		Icon:       weather.NormalizeIcon(skycon, weather.KindCaiyun),
	}
	if cur.Condition == "" {
		cur.Condition = weather.UnknownText(lang)
	}

	cur.AQI, cur.AQIDescription = 0, weather.UnknownText(lang)
	// Number and label always come from the same scale: usa for English when present.
	scale := "chn"
	if !lang.IsZH() && rt.Get("air_quality.aqi.usa").Type == gjson.Number {
		scale = "usa"
	}
	if aqi := rt.Get("air_quality.aqi." + scale); aqi.Type == gjson.Number {
		cur.AQI = int(math.Round(aqi.Float()))
		if desc := rt.Get("air_quality.description." + scale).String(); desc != "" {
			cur.AQIDescription = desc
		}
	} else if p.aqi != nil {
		if reading, ok := p.aqi.LookupAQI(ctx, coords, lang); ok {
			cur.AQI, cur.AQIDescription = reading.AQI, reading.Description
		} else {
			p.log.Debugf("aqi backfill unavailable for %s", coords.Key())
		}
	}
	return cur
}

func (p *CaiyunProvider) parseHourly(r gjson.Result) []weather.Hourly {
	temps := r.Get("hourly.temperature").Array()
	skycons := r.Get("hourly.skycon").Array()
	precip := r.Get("hourly.precipitation").Array()
	fallbackSky := r.Get("realtime.skycon").String()

	hourly := make([]weather.Hourly, 0, min(len(temps), weather.MaxHourly))
	for i, item := range temps {
		if i >= weather.MaxHourly {
			break
		}
		sky := fallbackSky
		if i < len(skycons) {
			sky = common.FirstNonEmpty(skycons[i].Get("value").String(), fallbackSky)
		}
		pop := 0
		if i < len(precip) {
			if pr := precip[i].Get("probability"); pr.Exists() {
				pop = int(math.Round(pr.Float()))
			}
		}
		hourly = append(hourly, weather.Hourly{
			Time:              hourLabel(item.Get("datetime").String()),
			Temp:              item.Get("value").Float(),
			Icon:              weather.NormalizeIcon(sky, weather.KindCaiyun),
			PrecipProbability: pop,
		})
	}
	return hourly
}

func (p *CaiyunProvider) parseDaily(r gjson.Result, lang common.Language) []weather.Daily {
	temps := r.Get("daily.temperature").Array()
	skycons := r.Get("daily.skycon").Array()

	daily := make([]weather.Daily, 0, min(len(temps), weather.MaxDaily))
	for i, item := range temps {
		if i >= weather.MaxDaily {
			break
		}
		sky := "CLEAR_DAY"
		if i < len(skycons) {
			sky = common.FirstNonEmpty(skycons[i].Get("value").String(), sky)
		}
		d := parseCaiyunDay(item.Get("date").String())
		daily = append(daily, weather.Daily{
			Date:      d.date,
			DayName:   d.dayName(lang),
			MinTemp:   item.Get("min").Float(),
			MaxTemp:   item.Get("max").Float(),
			Icon:      weather.NormalizeIcon(sky, weather.KindCaiyun),
			Condition: weather.SkyconText(sky, lang),
		})
	}
	return daily
}

func (p *CaiyunProvider) parseAlerts(r gjson.Result) []weather.Alert {
	content := r.Get("alert.content").Array()
	alerts := make([]weather.Alert, 0, len(content))
	for _, a := range content {
		alerts = append(alerts, weather.Alert{
			Title:       a.Get("title").String(),
			Description: a.Get("description").String(),
			// Caiyun's alert codes are not mapped; every alert is reported as major.
			Level:  weather.SeverityMajor,
			Source: a.Get("source").String(),
		})
	}
	return alerts
}

func parseCaiyunTime(s string) (time.Time, bool) {
	for _, layout := range caiyunTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// hourLabel renders a timestamp as HH:00 in its own offset.
func hourLabel(s string) string {
	t, ok := parseCaiyunTime(s)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d:00", t.Hour())
}

// caiyunDay is a daily entry's date as sent by Caiyun, e.g. "2024-06-01T00:00+08:00".
type caiyunDay struct {
	date string
	t    time.Time
	ok   bool
}

func parseCaiyunDay(raw string) caiyunDay {
	d := caiyunDay{date: raw}
	if len(raw) >= 10 {
		d.date = raw[:10]
	}
	d.t, d.ok = parseCaiyunTime(d.date)
	return d
}

func (d caiyunDay) dayName(lang common.Language) string {
	if !d.ok {
		return ""
	}
	return weather.DayName(d.t, lang)
}
