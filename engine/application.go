package engine

import (
	"fmt"
	"runtime"

	"github.com/spaghettifunk/rtx/engine/assets"
	"github.com/spaghettifunk/rtx/engine/math"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
)

const (
	maxWorkers       = 64
	defaultOutput    = "scene.rtxs"
	defaultQueueSize = 64
	defaultBlocks    = 5
)

// TestbedConfig parameterises the generated block scene.
type TestbedConfig struct {
	Blocks int    `toml:"blocks" yaml:"blocks"`
	Seed   uint64 `toml:"seed" yaml:"seed"`
}

type ApplicationConfig struct {
	// The application name used in log output.
	Name     string `toml:"name" yaml:"name"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// Number of serialization workers, clamped to [1, 64].
	Workers   int    `toml:"workers" yaml:"workers"`
	QueueSize int    `toml:"queue_size" yaml:"queue_size"`
	OnError   string `toml:"on_error" yaml:"on_error"`
	// Where the packed scene is written.
	Output string `toml:"output" yaml:"output"`
	// Rebuild the output every time the config file changes.
	Watch   bool          `toml:"watch" yaml:"watch"`
	Testbed TestbedConfig `toml:"testbed" yaml:"testbed"`

	// file the config was loaded from, if any
	path string
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:      "rtx",
		LogLevel:  "info",
		Workers:   runtime.NumCPU(),
		QueueSize: defaultQueueSize,
		OnError:   string(metadata.ErrorPolicyAbort),
		Output:    defaultOutput,
		Testbed: TestbedConfig{
			Blocks: defaultBlocks,
			Seed:   1,
		},
	}
}

// LoadApplicationConfig reads a TOML or YAML config on top of the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	if err := assets.LoadFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, or "".
func (c *ApplicationConfig) Path() string {
	return c.path
}

// Validate fills zero values with defaults and checks the rest.
func (c *ApplicationConfig) Validate() error {
	def := DefaultApplicationConfig()
	if c.Name == "" {
		c.Name = def.Name
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	c.Workers = math.Clamp(c.Workers, 1, maxWorkers)
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Testbed.Blocks == 0 {
		c.Testbed.Blocks = def.Testbed.Blocks
	}
	if c.Testbed.Blocks < 0 {
		return fmt.Errorf("testbed blocks %d must be positive", c.Testbed.Blocks)
	}
	policy, err := metadata.ParseErrorPolicy(c.OnError)
	if err != nil {
		return err
	}
	c.OnError = string(policy)
	if c.Watch && c.path == "" {
		return fmt.Errorf("watch mode needs a config file")
	}
	return nil
}

func (c *ApplicationConfig) geometrySystemConfig() *metadata.GeometrySystemConfig {
	return &metadata.GeometrySystemConfig{
		Workers:   c.Workers,
		QueueSize: c.QueueSize,
		OnError:   metadata.ErrorPolicy(c.OnError),
	}
}
