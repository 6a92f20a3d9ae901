package assets

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest lists the assets a scene wants preloaded, keyed by the
// names game code refers to them with.
type Manifest struct {
	Models   []ManifestEntry `yaml:"models"`
	Textures []ManifestEntry `yaml:"textures"`
	Sounds   []ManifestEntry `yaml:"sounds"`
	Music    string          `yaml:"music"`
}

// ManifestEntry binds a logical name to an asset path.
type ManifestEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// ParseManifest decodes manifest YAML and validates every entry.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	check := func(kind string, entries []ManifestEntry) error {
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if e.Name == "" || e.File == "" {
				return fmt.Errorf("%s entry needs both name and file", kind)
			}
			if seen[e.Name] {
				return fmt.Errorf("duplicate %s name %q", kind, e.Name)
			}
			seen[e.Name] = true
		}
		return nil
	}
	if err := check("model", m.Models); err != nil {
		return nil, err
	}
	if err := check("texture", m.Textures); err != nil {
		return nil, err
	}
	if err := check("sound", m.Sounds); err != nil {
		return nil, err
	}
	return &m, nil
}

// Manifest loads and parses a manifest through the library.
func (l *Library) Manifest(path string) (*Manifest, error) {
	data, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}
