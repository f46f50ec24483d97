package jma

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var defaultTargets []byte

// ErrMissingTransliteration is a configuration error: a curated station has no output name.
var ErrMissingTransliteration = errors.New("missing transliteration")

// Catalog is the curated allow-list of region::station keys and the
// transliterated output name of every curated station. It is read-only once built.
type Catalog struct {
	targets         map[string]struct{}
	transliteration map[string]string
}

type catalogFile struct {
	Targets          []string          `yaml:"targets"`
	Transliterations map[string]string `yaml:"transliterations"`
}

// DefaultCatalog returns the embedded catalog of prefectural observatories.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultTargets)
}

// ParseCatalog reads a catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse station catalog: %w", err)
	}
	return NewCatalog(f.Targets, f.Transliterations)
}

// NewCatalog builds a catalog from composite keys and a station name to output name table.
func NewCatalog(targets []string, transliterations map[string]string) (*Catalog, error) {
	c := &Catalog{
		targets:         make(map[string]struct{}, len(targets)),
		transliteration: make(map[string]string, len(transliterations)),
	}
	for _, t := range targets {
		if !strings.Contains(t, "::") {
			return nil, fmt.Errorf("catalog target %q is not region::station", t)
		}
		c.targets[normalize(t)] = struct{}{}
	}
	for name, en := range transliterations {
		if strings.TrimSpace(en) == "" {
			return nil, fmt.Errorf("catalog transliteration of %q is empty", name)
		}
		c.transliteration[normalize(name)] = en
	}
	return c, nil
}

// Len returns the number of curated targets.
func (c *Catalog) Len() int {
	return len(c.targets)
}

// Targeted reports whether the composite key is on the allow-list.
func (c *Catalog) Targeted(compositeKey string) bool {
	_, ok := c.targets[normalize(compositeKey)]
	return ok
}

// Transliterate returns the output name of a station, or ErrMissingTransliteration.
func (c *Catalog) Transliterate(stationName string) (string, error) {
	en, ok := c.transliteration[normalize(stationName)]
	if !ok {
		return "", fmt.Errorf("%w for station %q", ErrMissingTransliteration, stationName)
	}
	return en, nil
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
