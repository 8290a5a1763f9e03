// file: pkg/mfm/config.go

package mfm

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the geometry of a formatted track. Nullable knobs are
// pointers: nil means choose the standard value automatically. The YAML tags
// are the surface the CLI geometry files use.
type Config struct {
	Secs       int   `yaml:"secs"`                 // sectors per track
	Sz         []int `yaml:"sz"`                   // size codes; last repeats
	ID         int   `yaml:"id"`                   // first sector ID
	H          *int  `yaml:"h,omitempty"`          // head field override
	CSkew      int   `yaml:"cskew"`                // rotational skew per cylinder
	HSkew      int   `yaml:"hskew"`                // rotational skew per head
	Interleave int   `yaml:"interleave"`           // logical-to-physical step
	IAM        bool  `yaml:"iam"`                  // emit an index address mark
	Gap1       *int  `yaml:"gap1,omitempty"`       // post-IAM gap
	Gap2       *int  `yaml:"gap2,omitempty"`       // post-ID-field gap
	Gap3       *int  `yaml:"gap3,omitempty"`       // post-data-field gap
	Gap4A      *int  `yaml:"gap4a,omitempty"`      // post-index gap
	Rate       int   `yaml:"rate"`                 // kbit/s; 0 = auto
	RPM        int   `yaml:"rpm"`                  // rotational speed
	ImgBPS     *int  `yaml:"img_bps,omitempty"`    // fixed image stride
}

// DefaultConfig returns a geometry with the conventional knob defaults;
// sector count and sizes must still be filled in.
func DefaultConfig() *Config {
	return &Config{ID: 1, Interleave: 1, IAM: true, RPM: 300}
}

// ValidationError reports a specific geometry validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error - %s: %s", e.Field, e.Message)
}

// Validate checks the geometry for values the synthesizer cannot work with.
func (c *Config) Validate() error {
	if c.Secs < 0 {
		return &ValidationError{"secs", "sector count cannot be negative"}
	}
	if c.Secs > 0 && len(c.Sz) == 0 {
		return &ValidationError{"sz", "at least one size code is required"}
	}
	for _, n := range c.Sz {
		if n < 0 || n > 7 {
			return &ValidationError{"sz", "size codes must be in 0..7"}
		}
	}
	if c.Interleave < 1 {
		return &ValidationError{"interleave", "interleave must be at least 1"}
	}
	if c.CSkew < 0 || c.HSkew < 0 {
		return &ValidationError{"skew", "skew cannot be negative"}
	}
	if c.RPM <= 0 {
		return &ValidationError{"rpm", "rotational speed must be positive"}
	}
	if c.Rate < 0 {
		return &ValidationError{"rate", "data rate cannot be negative"}
	}
	return nil
}

// LoadConfig loads a geometry from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadConfig(f)
}

// ReadConfig reads a YAML geometry from an io.Reader, applying the
// conventional defaults for any knob the document omits.
func ReadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse geometry: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// secN returns the size code for sector index i; the last configured value
// repeats for any extra sectors.
func (c *Config) secN(i int) int {
	if i < len(c.Sz) {
		return c.Sz[i]
	}
	return c.Sz[len(c.Sz)-1]
}
