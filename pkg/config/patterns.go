package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PatternsConfig describes what the search looks for.
type PatternsConfig struct {
	Regex    bool     `yaml:"regex"` // true -> use Regexp, otherwise Prefixes
	Prefixes []string `yaml:"prefixes"`
	Regexp   []string `yaml:"regexp"`
}

// Yapper is the built-in shortcut prefix set.
var Yapper = []string{"yppr", "ypp", "yp"}

func Load(path string) (*PatternsConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg PatternsConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml %q: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation %q: %w", path, err)
	}

	return &cfg, nil
}

// Active returns the list the current mode will compile.
func (c *PatternsConfig) Active() []string {
	if c.Regex {
		return c.Regexp
	}
	return c.Prefixes
}

func validate(c *PatternsConfig) error {
	if c == nil {
		return errors.New("nil config")
	}
	c.Prefixes = trimAll(c.Prefixes)
	c.Regexp = trimAll(c.Regexp)

	if c.Regex && len(c.Regexp) == 0 {
		return errors.New("regex mode: regexp must not be empty")
	}
	if !c.Regex && len(c.Prefixes) == 0 {
		return errors.New("prefix mode: prefixes must not be empty")
	}
	return nil
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
