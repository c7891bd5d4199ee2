package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/flowgridhq/flowgrid/pkg/errors"
	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/geometry"
	"github.com/flowgridhq/flowgrid/pkg/store"
)

// Config is the recognized flowgrid.toml layout. Every field is optional;
// zero values fall back to the instance defaults. Command-line flags
// override file values.
type Config struct {
	// ID is the instance identifier.
	ID string `toml:"id"`

	// Document is the path of a graph JSON document preloaded into the
	// instance.
	Document string `toml:"document"`

	// MinZoom and MaxZoom clamp the viewport transform.
	MinZoom float64 `toml:"min_zoom"`
	MaxZoom float64 `toml:"max_zoom"`

	// SnapToGrid enables grid snapping; SnapGrid is the cell size.
	SnapToGrid bool       `toml:"snap_to_grid"`
	SnapGrid   ConfigGrid `toml:"snap_grid"`

	// ApplyDefault wires the default change-application handlers.
	ApplyDefault bool `toml:"apply_default"`

	// DefaultEdge is overlaid onto every new edge.
	DefaultEdge ConfigEdgeDefaults `toml:"default_edge"`
}

// ConfigGrid is the snap grid cell size.
type ConfigGrid struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// ConfigEdgeDefaults mirrors flow.DefaultEdgeOptions in TOML form.
type ConfigEdgeDefaults struct {
	Type             string  `toml:"type"`
	InteractionWidth float64 `toml:"interaction_width"`
}

// LoadConfig reads and decodes a flowgrid.toml file. An empty path returns
// the zero config; a missing or malformed file is an INVALID_CONFIG error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %q", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %q", path)
	}
	return cfg, nil
}

// Options converts the config into instance options. Validation of zoom
// bounds happens here rather than in the store, which trusts its options.
func (c Config) Options() (store.Options, error) {
	if c.MinZoom < 0 || c.MaxZoom < 0 || (c.MaxZoom != 0 && c.MinZoom > c.MaxZoom) {
		return store.Options{}, errors.New(errors.ErrCodeInvalidConfig,
			"zoom bounds [%v, %v] are not a valid range", c.MinZoom, c.MaxZoom)
	}

	return store.Options{
		ID:           c.ID,
		MinZoom:      c.MinZoom,
		MaxZoom:      c.MaxZoom,
		SnapToGrid:   c.SnapToGrid,
		SnapGrid:     geometry.SnapGrid{X: c.SnapGrid.X, Y: c.SnapGrid.Y},
		ApplyDefault: c.ApplyDefault,
		DefaultEdgeOptions: flow.DefaultEdgeOptions{
			Type:             c.DefaultEdge.Type,
			InteractionWidth: c.DefaultEdge.InteractionWidth,
		},
	}, nil
}
