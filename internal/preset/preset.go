// Package preset loads named voice pairings from YAML so episode
// requests can reference a preset instead of raw voice ids.
package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a collection of presets plus the name used when a request does
// not pick one.
type File struct {
	Default string   `yaml:"default"`
	Presets []Preset `yaml:"presets"`
}

// Preset pairs a host and a guest voice under a reusable name.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	HostVoice   string `yaml:"host_voice"`
	GuestVoice  string `yaml:"guest_voice"`
	PauseMS     int    `yaml:"pause_ms,omitempty"`
}

// Load reads a preset file from disk.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate ensures the file contains usable presets.
func Validate(f File) error {
	if len(f.Presets) == 0 {
		return fmt.Errorf("presets must include at least one entry")
	}
	seen := make(map[string]bool, len(f.Presets))
	for i, p := range f.Presets {
		if p.Name == "" {
			return fmt.Errorf("presets[%d].name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("preset %q declared twice", p.Name)
		}
		seen[p.Name] = true
		if p.HostVoice == "" {
			return fmt.Errorf("preset %q: host_voice is required", p.Name)
		}
		if p.GuestVoice == "" {
			return fmt.Errorf("preset %q: guest_voice is required", p.Name)
		}
		if p.PauseMS < 0 {
			return fmt.Errorf("preset %q: pause_ms must be >= 0", p.Name)
		}
	}
	if f.Default != "" && !seen[f.Default] {
		return fmt.Errorf("default preset %q is not declared", f.Default)
	}
	return nil
}

// Lookup resolves a preset by name, falling back to the file's default.
func Lookup(f File, name string) (Preset, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" && len(f.Presets) > 0 {
		return f.Presets[0], nil
	}
	for _, p := range f.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("preset %q not found", name)
}
