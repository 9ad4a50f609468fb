package layout

import (
	"github.com/matzehuels/svcmap/pkg/connector"
	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/layering"
	"github.com/matzehuels/svcmap/pkg/placement"
)

// Default access point rows and routing padding.
const (
	DefaultHeaderHeight = 60
	DefaultRowHeight    = 30
	DefaultPadX         = 15
	DefaultPadY         = 15
	DefaultEpsilon      = 0.5
)

// AccessPointConfig positions access point anchors inside a card: below a
// header, one row per access point.
type AccessPointConfig struct {
	HeaderHeight float64
	RowHeight    float64
}

// RoutingConfig controls box avoidance.
type RoutingConfig struct {
	// PadX and PadY offset detour waypoints from box corners.
	PadX, PadY float64
	// BoxMargin grows receiver boxes before routing around them.
	BoxMargin float64
}

// Config bundles the per-component settings of an Engine.
type Config struct {
	Placement    placement.Config
	Connector    connector.Config
	Layering     layering.Config
	AccessPoints AccessPointConfig
	Routing      RoutingConfig
	// Epsilon gates every store update; changes at or below it are ignored.
	Epsilon float64
}

// DefaultConfig returns the default settings of every component.
func DefaultConfig() Config {
	return Config{
		Placement:    placement.DefaultConfig(),
		Connector:    connector.DefaultConfig(),
		Layering:     layering.DefaultConfig(),
		AccessPoints: AccessPointConfig{HeaderHeight: DefaultHeaderHeight, RowHeight: DefaultRowHeight},
		Routing:      RoutingConfig{PadX: DefaultPadX, PadY: DefaultPadY},
		Epsilon:      DefaultEpsilon,
	}
}

// Validate rejects negative sizes, gaps and tolerances.
func (c Config) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"placement.default_card_width", c.Placement.DefaultCardWidth},
		{"placement.default_card_height", c.Placement.DefaultCardHeight},
		{"connector.gap", c.Connector.Gap},
		{"connector.card_end_gap", c.Connector.CardEndGap},
		{"layering.column_gap", c.Layering.ColumnGap},
		{"layering.row_gap", c.Layering.RowGap},
		{"access_points.header_height", c.AccessPoints.HeaderHeight},
		{"access_points.row_height", c.AccessPoints.RowHeight},
		{"routing.pad_x", c.Routing.PadX},
		{"routing.pad_y", c.Routing.PadY},
		{"routing.box_margin", c.Routing.BoxMargin},
		{"measure.epsilon", c.Epsilon},
	}
	for _, chk := range checks {
		if err := errors.ValidateNonNegative(chk.name, chk.v); err != nil {
			return err
		}
	}
	return nil
}
