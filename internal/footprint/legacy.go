package footprint

import (
	"encoding/json"
	"fmt"
)

// Like is a stored footprint in either the current {directories, name, url}
// shape or the first-generation {title, url} shape.
type Like struct {
	Directories *[]string `json:"directories,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Title       *string   `json:"title,omitempty"`
	URL         string    `json:"url"`
}

// IsLegacy reports whether l uses the {title, url} shape.
func (l Like) IsLegacy() bool {
	return l.Directories == nil && l.Title != nil
}

// Adjust converts l to the current shape.
func (l Like) Adjust() Footprint {
	if l.IsLegacy() {
		return Footprint{Directories: []string{}, Name: *l.Title, URL: l.URL}
	}
	f := Footprint{Directories: []string{}, URL: l.URL}
	if l.Directories != nil {
		f.Directories = append(f.Directories, *l.Directories...)
	}
	if l.Name != nil {
		f.Name = *l.Name
	}
	return f
}

// AdjustOldFootprints converts every stored footprint to the current shape.
func AdjustOldFootprints(likes []Like) []Footprint {
	out := make([]Footprint, len(likes))
	for i, l := range likes {
		out[i] = l.Adjust()
	}
	return out
}

// DecodeFootprints parses a stored footprint list of any generation.
func DecodeFootprints(data []byte) ([]Footprint, error) {
	var likes []Like
	if err := json.Unmarshal(data, &likes); err != nil {
		return nil, fmt.Errorf("decode footprints: %w", err)
	}
	return AdjustOldFootprints(likes), nil
}

// EncodeFootprints serializes footprints in the current shape.
func EncodeFootprints(footprints []Footprint) ([]byte, error) {
	out := make([]Footprint, len(footprints))
	for i, f := range footprints {
		if f.Directories == nil {
			f.Directories = []string{}
		}
		out[i] = f
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode footprints: %w", err)
	}
	return data, nil
}

// DecodeConfig parses a stored Config, filling absent fields with defaults.
func DecodeConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config: %w", err)
	}
	if _, err := ParseStartupKeyCombination(string(cfg.StartupKeyCombination)); err != nil {
		cfg.StartupKeyCombination = DefaultConfig().StartupKeyCombination
	}
	return cfg, nil
}
