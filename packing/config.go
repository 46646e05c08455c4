package packing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ShapeConfig describes one shape from the configuration file.
type ShapeConfig struct {
	Name                 string    `yaml:"name" json:"name"`
	RadialPoints         []float64 `yaml:"radialPoints" json:"radialPoints"`
	RotationalSymmetries int       `yaml:"rotationalSymmetries" json:"rotationalSymmetries"`
	Mirrors              int       `yaml:"mirrors" json:"mirrors"`
}

// Build validates the descriptor and constructs the shape.
func (sc *ShapeConfig) Build() (*Shape, error) {
	return NewShape(sc.Name, sc.RadialPoints, sc.RotationalSymmetries, sc.Mirrors)
}

// JobConfig pairs a shape with a wallpaper group and a site count.
type JobConfig struct {
	Shape string `yaml:"shape" json:"shape"`
	Group string `yaml:"group" json:"group"`
	Sites int    `yaml:"sites" json:"sites"`
}

// MCConfig mirrors MCVars with YAML tags; zero fields fall back to the
// defaults.
type MCConfig struct {
	KTStart     float64 `yaml:"ktStart,omitempty" json:"ktStart,omitempty"`
	KTFinish    float64 `yaml:"ktFinish,omitempty" json:"ktFinish,omitempty"`
	MaxStepSize float64 `yaml:"maxStepSize,omitempty" json:"maxStepSize,omitempty"`
	Steps       int     `yaml:"steps,omitempty" json:"steps,omitempty"`
	NumCycles   int     `yaml:"numCycles,omitempty" json:"numCycles,omitempty"`
}

// Vars merges the configured values over the defaults.
func (mc *MCConfig) Vars() MCVars {
	vars := DefaultMCVars()
	if mc.KTStart > 0 {
		vars.KTStart = mc.KTStart
	}
	if mc.KTFinish > 0 {
		vars.KTFinish = mc.KTFinish
	}
	if mc.MaxStepSize > 0 {
		vars.MaxStepSize = mc.MaxStepSize
	}
	if mc.Steps > 0 {
		vars.Steps = mc.Steps
	}
	if mc.NumCycles > 0 {
		vars.NumCycles = mc.NumCycles
	}
	return vars
}

// MQTTConfig holds MQTT connection settings for progress publishing.
type MQTTConfig struct {
	Broker        string `yaml:"broker" json:"broker"`
	PublishPrefix string `yaml:"publishPrefix,omitempty" json:"publishPrefix,omitempty"`
	ClientID      string `yaml:"clientId,omitempty" json:"clientId,omitempty"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
}

// OutputConfig controls what gets written after a run.
type OutputConfig struct {
	Directory    string `yaml:"directory,omitempty" json:"directory,omitempty"`
	RenderFormat string `yaml:"renderFormat,omitempty" json:"renderFormat,omitempty"` // svg, png or both
	TraceHTML    string `yaml:"traceHtml,omitempty" json:"traceHtml,omitempty"`
	GeoJSON      bool   `yaml:"geojson,omitempty" json:"geojson,omitempty"`
}

// Config is the full configuration file.
type Config struct {
	Shapes     []ShapeConfig `yaml:"shapes" json:"shapes"`
	Jobs       []JobConfig   `yaml:"jobs" json:"jobs"`
	MonteCarlo MCConfig      `yaml:"monteCarlo,omitempty" json:"monteCarlo,omitempty"`
	Workers    int           `yaml:"workers,omitempty" json:"workers,omitempty"`
	Seed       int64         `yaml:"seed,omitempty" json:"seed,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
	MQTT       *MQTTConfig   `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
}

// GetShapeByName returns the shape config for the given name.
func (c *Config) GetShapeByName(name string) *ShapeConfig {
	for i := range c.Shapes {
		if c.Shapes[i].Name == name {
			return &c.Shapes[i]
		}
	}
	return nil
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the cross references and the required fields.
func (c *Config) Validate() error {
	if len(c.Shapes) == 0 {
		return fmt.Errorf("at least one shape must be defined")
	}
	for i, sc := range c.Shapes {
		if sc.Name == "" {
			return fmt.Errorf("shape[%d].name is required", i)
		}
		if len(sc.RadialPoints) == 0 {
			return fmt.Errorf("shape[%d].radialPoints is required for %s", i, sc.Name)
		}
	}
	if len(c.Jobs) == 0 {
		return fmt.Errorf("at least one job must be defined")
	}
	for i, job := range c.Jobs {
		if c.GetShapeByName(job.Shape) == nil {
			return fmt.Errorf("job[%d] references unknown shape %q", i, job.Shape)
		}
		if _, ok := GroupByLabel(job.Group); !ok {
			return fmt.Errorf("job[%d] references unknown wallpaper group %q", i, job.Group)
		}
		if job.Sites < 1 {
			return fmt.Errorf("job[%d].sites must be >= 1", i)
		}
	}
	if c.MQTT != nil && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is configured")
	}
	return nil
}

// SaveConfig writes the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
