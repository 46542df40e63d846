package role

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest allows operators to override role instructions from a YAML file
// without rebuilding. Tool subsets and hand-off targets stay fixed; only the
// prompt text is tunable.
type Manifest struct {
	Roles []ManifestEntry `yaml:"roles"`
}

// ManifestEntry overrides a single role's instructions.
type ManifestEntry struct {
	Name         string `yaml:"name"`
	Instructions string `yaml:"instructions"`
}

// LoadManifest reads a prompt manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse prompt manifest: %w", err)
	}
	return &m, nil
}

// Apply returns a copy of roles with manifest overrides applied. An entry
// naming an unknown role is ignored; an empty instructions field keeps the
// built-in prompt.
func (m *Manifest) Apply(roles []Role) []Role {
	overrides := make(map[string]string, len(m.Roles))
	for _, entry := range m.Roles {
		if entry.Instructions != "" {
			overrides[entry.Name] = entry.Instructions
		}
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	for i := range out {
		if text, ok := overrides[out[i].Name]; ok {
			out[i].Instructions = text
		}
	}
	return out
}
