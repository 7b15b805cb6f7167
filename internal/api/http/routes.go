package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/skyweather/internal/common"
	"github.com/i474232898/skyweather/internal/location"
	"github.com/i474232898/skyweather/internal/scheduler"
	"github.com/i474232898/skyweather/internal/store"
	"github.com/i474232898/skyweather/internal/weather"
)

var validate = validator.New()

// IPLocators builds a locator for one client address.
type IPLocators interface {
	ForIP(ip string) location.Locator
}

// SavedLister exposes the refresher's latest results.
type SavedLister interface {
	Saved() []scheduler.SavedLocation
}

// Deps are the services behind the HTTP API. Saved and IP may be nil.
type Deps struct {
	Weather  *weather.Service
	Places   *location.Service
	Sessions *location.SearchSession
	IP       IPLocators
	Saved    SavedLister

	DeviceTimeout   time.Duration
	DefaultLanguage common.Language
	DefaultProvider location.Provider
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.DefaultLanguage == "" {
		d.DefaultLanguage = common.DefaultLanguage
	}
	if d.DefaultProvider == "" {
		d.DefaultProvider = location.DefaultProvider
	}
	if d.Sessions == nil {
		d.Sessions = location.NewSearchSession(d.Places)
	}

	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		coords, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(d.Weather.FetchAndStore(c.UserContext(), coords, d.lang(c)))
	})

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		coords, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := d.Weather.GetLatest(coords)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}
		return c.JSON(snapshot)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := d.Weather.GetRange(req.Coords, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"coords":    req.Coords,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/location/name", func(c *fiber.Ctx) error {
		coords, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		name := d.Places.Resolve(c.UserContext(), coords, d.lang(c), d.provider(c))
		return c.JSON(nameResponse(coords, name))
	})

	v1.Get("/location/search", func(c *fiber.Ctx) error {
		var req searchQuery
		req.Query = c.Query("q")
		// The key outlives this request inside the session, so it must not alias fasthttp buffers.
		req.Session = strings.Clone(c.Query("session", c.IP()))
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res := d.Sessions.Search(c.UserContext(), req.Session, req.Query, d.lang(c), d.provider(c))
		if res.Cancelled {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(res)
	})

	v1.Get("/location/current", func(c *fiber.Ctx) error {
		var device location.Locator = location.DeniedDevice{}
		if c.Query("lat") != "" || c.Query("lon") != "" {
			coords, err := parseCoords(c)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			device = location.StaticDevice{Coords: coords}
		}

		var ip location.Locator
		if d.IP != nil {
			ip = d.IP.ForIP(c.IP())
		}

		acquirer := location.NewAcquirer(device, ip, d.DeviceTimeout, nil)
		coords, err := acquirer.Acquire(c.UserContext())
		if err != nil {
			if errors.Is(err, common.ErrLocationUnavailable) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "location unavailable")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to acquire location")
		}

		name := d.Places.Resolve(c.UserContext(), coords, d.lang(c), d.provider(c))
		return c.JSON(nameResponse(coords, name))
	})

	v1.Get("/locations/saved", func(c *fiber.Ctx) error {
		if d.Saved == nil {
			return c.JSON([]scheduler.SavedLocation{})
		}
		return c.JSON(d.Saved.Saved())
	})
}

func (d Deps) lang(c *fiber.Ctx) common.Language {
	if l := c.Query("lang"); l != "" {
		return common.ParseLanguage(l)
	}
	if h := c.Get(fiber.HeaderAcceptLanguage); h != "" {
		return common.ParseLanguage(h)
	}
	return d.DefaultLanguage
}

func (d Deps) provider(c *fiber.Ctx) location.Provider {
	if p := c.Query("provider"); p != "" {
		return location.ParseProvider(p)
	}
	return d.DefaultProvider
}

func nameResponse(coords common.Coordinates, name location.Name) fiber.Map {
	return fiber.Map{
		"coords":   coords,
		"city":     name.City,
		"district": name.District,
		"display":  name.Display(),
		"unknown":  name.IsUnknown(),
	}
}

// coordsQuery holds the lat/lon query parameters.
type coordsQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func parseCoords(c *fiber.Ctx) (common.Coordinates, error) {
	q := coordsQuery{Lat: c.Query("lat"), Lon: c.Query("lon")}
	if err := validate.Struct(q); err != nil {
		return common.Coordinates{}, err
	}

	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return common.Coordinates{}, err
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return common.Coordinates{}, err
	}
	return common.Coordinates{Lat: lat, Lon: lon}, nil
}

// searchQuery holds query parameters for the search endpoint. Short queries are
// valid and answered with an empty list.
type searchQuery struct {
	Query   string `validate:"max=100"`
	Session string `validate:"required,max=64"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Coords common.Coordinates
	From   time.Time `validate:"required"`
	To     time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	coords, err := parseCoords(c)
	if err != nil {
		return err
	}
	h.Coords = coords

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
