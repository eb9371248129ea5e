package xtask

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// ConfigItem names one entry point and the compiler profile used to
// validate it.
type ConfigItem struct {
	EntryPoint    string `toml:"entry_point"`
	TargetProfile string `toml:"target_profile"`
}

// Config is the TOML sidecar written next to each generated HLSL
// snapshot. It lists the entry points of the shader per stage so the
// validators know which profiles to compile with.
type Config struct {
	Vertex   []ConfigItem `toml:"vertex,omitempty"`
	Fragment []ConfigItem `toml:"fragment,omitempty"`
	Compute  []ConfigItem `toml:"compute,omitempty"`
}

// All returns every entry point across the three stages.
func (c Config) All() []ConfigItem {
	items := make([]ConfigItem, 0, len(c.Vertex)+len(c.Fragment)+len(c.Compute))
	items = append(items, c.Vertex...)
	items = append(items, c.Fragment...)
	items = append(items, c.Compute...)
	return items
}

// LoadConfig reads the sidecar at path. A sidecar that names no entry
// points at all is an error, since validating nothing would report
// success for a shader that was never compiled.
func LoadConfig(fs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read TOML configuration of HLSL snapshot test: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read TOML configuration of HLSL snapshot test: %w", err)
	}
	if len(cfg.All()) == 0 {
		return Config{}, errors.New("no configuration was specified")
	}
	return cfg, nil
}

// Save writes the sidecar to path with a trailing newline.
func (c Config) Save(fs afero.Fs, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	data := buf.Bytes()
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return afero.WriteFile(fs, path, data, 0o644)
}
