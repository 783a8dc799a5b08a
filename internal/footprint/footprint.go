// Package footprint holds the recently-visited-document history and the
// pure operations over it: upsert, delete, search and cursor rotation.
package footprint

import (
	"errors"
	"strings"
)

// MaxFootprints caps the number of footprints kept per scope.
const MaxFootprints = 1000

var (
	ErrUnknownSite   = errors.New("page does not belong to a supported site")
	ErrMissingName   = errors.New("footprint name is required for this page")
	ErrUnknownPage   = errors.New("page kind is not recorded")
	ErrInvalidConfig = errors.New("invalid startup key combination")
)

// Footprint is a visited page. URL identifies it; Directories and Name are
// display metadata refreshed on every visit.
type Footprint struct {
	Directories []string `json:"directories"`
	Name        string   `json:"name,omitempty"`
	URL         string   `json:"url"`
}

// SearchText is the string matched by Search: every directory followed by
// "/", then the name.
func (f Footprint) SearchText() string {
	var b strings.Builder
	for _, d := range f.Directories {
		b.WriteString(d)
		b.WriteByte('/')
	}
	b.WriteString(f.Name)
	return b.String()
}

// StartupKeyCombination selects which key chords open the searcher.
type StartupKeyCombination string

const (
	StartupCtrlR      StartupKeyCombination = "1"
	StartupCtrlShiftL StartupKeyCombination = "2"
	StartupAll        StartupKeyCombination = "99"
)

// Config is the per-user search configuration persisted alongside footprints.
type Config struct {
	EnableRomajiSearch    bool                  `json:"enableRomajiSearch"`
	StartupKeyCombination StartupKeyCombination `json:"startupKeyCombination"`
}

// DefaultConfig returns the configuration used when nothing is stored.
func DefaultConfig() Config {
	return Config{
		EnableRomajiSearch:    false,
		StartupKeyCombination: StartupAll,
	}
}
