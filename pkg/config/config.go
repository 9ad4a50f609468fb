// Package config loads svcmap settings from TOML.
//
// Every key is optional; missing keys keep the value from [Default]:
//
//	[placement]
//	default_card_width  = 350
//	default_card_height = 200
//
//	[connector]
//	gap          = 20
//	card_end_gap = 40
//
//	[access_points]
//	header_height = 60
//	row_height    = 30
//
//	[routing]
//	pad_x      = 15
//	pad_y      = 15
//	box_margin = 0
//
//	[layering]
//	column_gap = 200
//	row_gap    = 50
//	origin_x   = 0
//	origin_y   = 0
//
//	[measure]
//	epsilon = 0.5
//
//	[cache]
//	backend    = "file"   # file, redis or none
//	dir        = ""       # defaults to $XDG_CACHE_HOME/svcmap
//	redis_addr = "localhost:6379"
//	ttl        = "24h"
//
//	[server]
//	addr = ":8090"
package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/svcmap/pkg/connector"
	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/layering"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/placement"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

type Placement struct {
	DefaultCardWidth  float64 `toml:"default_card_width"`
	DefaultCardHeight float64 `toml:"default_card_height"`
}

type Connector struct {
	Gap        float64 `toml:"gap"`
	CardEndGap float64 `toml:"card_end_gap"`
}

type AccessPoints struct {
	HeaderHeight float64 `toml:"header_height"`
	RowHeight    float64 `toml:"row_height"`
}

type Routing struct {
	PadX      float64 `toml:"pad_x"`
	PadY      float64 `toml:"pad_y"`
	BoxMargin float64 `toml:"box_margin"`
}

type Layering struct {
	ColumnGap float64 `toml:"column_gap"`
	RowGap    float64 `toml:"row_gap"`
	OriginX   float64 `toml:"origin_x"`
	OriginY   float64 `toml:"origin_y"`
}

type Measure struct {
	Epsilon float64 `toml:"epsilon"`
}

type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Config is the full settings file.
type Config struct {
	Placement    Placement    `toml:"placement"`
	Connector    Connector    `toml:"connector"`
	AccessPoints AccessPoints `toml:"access_points"`
	Routing      Routing      `toml:"routing"`
	Layering     Layering     `toml:"layering"`
	Measure      Measure      `toml:"measure"`
	Cache        Cache        `toml:"cache"`
	Server       Server       `toml:"server"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	lc := layout.DefaultConfig()
	return Config{
		Placement: Placement{
			DefaultCardWidth:  lc.Placement.DefaultCardWidth,
			DefaultCardHeight: lc.Placement.DefaultCardHeight,
		},
		Connector: Connector{Gap: lc.Connector.Gap, CardEndGap: lc.Connector.CardEndGap},
		AccessPoints: AccessPoints{
			HeaderHeight: lc.AccessPoints.HeaderHeight,
			RowHeight:    lc.AccessPoints.RowHeight,
		},
		Routing: Routing{PadX: lc.Routing.PadX, PadY: lc.Routing.PadY, BoxMargin: lc.Routing.BoxMargin},
		Layering: Layering{
			ColumnGap: lc.Layering.ColumnGap,
			RowGap:    lc.Layering.RowGap,
			OriginX:   lc.Layering.OriginX,
			OriginY:   lc.Layering.OriginY,
		},
		Measure: Measure{Epsilon: lc.Epsilon},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Server: Server{Addr: ":8090"},
	}
}

// Load decodes the TOML file at path over Default and validates the
// result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "read config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative sizes, gaps and tolerances, unknown cache
// backends and negative TTLs.
func (c Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	return nil
}

// Layout converts the settings into an engine configuration.
func (c Config) Layout() layout.Config {
	return layout.Config{
		Placement: placement.Config{
			DefaultCardWidth:  c.Placement.DefaultCardWidth,
			DefaultCardHeight: c.Placement.DefaultCardHeight,
		},
		Connector: connector.Config{Gap: c.Connector.Gap, CardEndGap: c.Connector.CardEndGap},
		Layering: layering.Config{
			ColumnGap: c.Layering.ColumnGap,
			RowGap:    c.Layering.RowGap,
			OriginX:   c.Layering.OriginX,
			OriginY:   c.Layering.OriginY,
		},
		AccessPoints: layout.AccessPointConfig{
			HeaderHeight: c.AccessPoints.HeaderHeight,
			RowHeight:    c.AccessPoints.RowHeight,
		},
		Routing: layout.RoutingConfig{
			PadX:      c.Routing.PadX,
			PadY:      c.Routing.PadY,
			BoxMargin: c.Routing.BoxMargin,
		},
		Epsilon: c.Measure.Epsilon,
	}
}

// Encode writes c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
