package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/alecthomas/kong"

	"github.com/i474232898/skyweather/internal/app"
	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/config"
	"github.com/i474232898/skyweather/internal/location"
	"github.com/i474232898/skyweather/internal/logger"
)

type runContext struct {
	ctx  context.Context
	c    *app.Components
	lang common.Language
	pref location.Provider
}

type weatherCmd struct {
	Lat   float64 `arg:"" help:"Latitude in decimal degrees."`
	Lon   float64 `arg:"" help:"Longitude in decimal degrees."`
	Trace bool    `help:"Print the per-provider attempt trace instead of the snapshot."`
}

func (w *weatherCmd) Run(rc *runContext) error {
	snap, trace := rc.c.Aggregator.FetchWeatherTrace(rc.ctx, common.Coordinates{Lat: w.Lat, Lon: w.Lon}, rc.lang)
	if w.Trace {
		type row struct {
			Provider string `json:"provider"`
			State    string `json:"state"`
			Error    string `json:"error,omitempty"`
			Duration string `json:"duration"`
		}
		rows := make([]row, 0, len(trace))
		for _, a := range trace {
			r := row{Provider: a.Provider, State: string(a.State), Duration: a.Duration.String()}
			if a.Err != nil {
				r.Error = a.Err.Error()
			}
			rows = append(rows, r)
		}
		return printJSON(rows)
	}
	return printJSON(snap)
}

type nameCmd struct {
	Lat float64 `arg:"" help:"Latitude in decimal degrees."`
	Lon float64 `arg:"" help:"Longitude in decimal degrees."`
}

func (n *nameCmd) Run(rc *runContext) error {
	name := rc.c.Places.Resolve(rc.ctx, common.Coordinates{Lat: n.Lat, Lon: n.Lon}, rc.lang, rc.pref)
	return printJSON(map[string]any{
		"city":     name.City,
		"district": name.District,
		"display":  name.Display(),
	})
}

type searchCmd struct {
	Query string `arg:"" help:"Free-text place name."`
}

func (s *searchCmd) Run(rc *runContext) error {
	return printJSON(rc.c.Places.Search(rc.ctx, s.Query, rc.lang, rc.pref))
}

type locateCmd struct{}

func (locateCmd) Run(rc *runContext) error {
	coords, err := rc.c.Acquirer.Acquire(rc.ctx)
	if err != nil {
		return err
	}
	return printJSON(coords)
}

type formatCmd struct {
	City     string `arg:"" help:"City name."`
	District string `arg:"" optional:"" help:"District name."`
}

func (f *formatCmd) Run(*runContext) error {
	city, district := location.Clean(f.City, f.District)
	return printJSON(map[string]string{
		"city":     city,
		"district": district,
		"display":  location.Format(city, district),
	})
}

var cli struct {
	Lang     string `help:"Response language (zh or en)." env:"DEFAULT_LANGUAGE"`
	Provider string `help:"Preferred geocoder (osm or tencent)." env:"PREFERRED_LOCATION_PROVIDER"`
	LogLevel string `help:"Log level." default:"warn" env:"LOG_LEVEL"`

	Weather weatherCmd `cmd:"" help:"Fetch a weather snapshot with provider fallback."`
	Name    nameCmd    `cmd:"" help:"Reverse geocode coordinates."`
	Search  searchCmd  `cmd:"" help:"Search places by name."`
	Locate  locateCmd  `cmd:"" help:"Acquire coordinates from the configured device or IP."`
	Format  formatCmd  `cmd:"" help:"Clean and format a city/district pair."`
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("skyctl"),
		kong.Description("Query the skyweather providers from the command line."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)

	lg := logger.NewWithWriter(cli.LogLevel, os.Stderr)
	rc := &runContext{
		ctx:  context.Background(),
		c:    app.Build(cfg, lg),
		lang: common.ParseLanguage(cli.Lang),
		pref: location.ParseProvider(cli.Provider),
	}
	if cli.Lang == "" {
		rc.lang = cfg.DefaultLanguage
	}
	if cli.Provider == "" {
		rc.pref = cfg.PreferredLocationProvider
	}

	kctx.FatalIfErrorf(kctx.Run(rc))
}
