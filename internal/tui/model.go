// Package tui is the keyboard-driven recall overlay: type to filter the
// history of one scope, move the highlight, and copy the chosen URL.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runnerr0/recalldoc/internal/footprint"
	"github.com/runnerr0/recalldoc/internal/storage"
)

const (
	configSyncKey  = "config"
	defaultMaxRows = 10
	reservedHeight = 9
)

var startupOrder = []footprint.StartupKeyCombination{
	footprint.StartupCtrlR,
	footprint.StartupCtrlShiftL,
	footprint.StartupAll,
}

// Persister stores the overlay's mutations. Deletes go through the store's
// own read-modify-write so visits recorded elsewhere while the overlay is
// open are kept.
type Persister interface {
	DeleteFootprint(ctx context.Context, scope footprint.Scope, url string) ([]footprint.Footprint, error)
	SaveConfig(ctx context.Context, cfg footprint.Config) error
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// WithQuery pre-fills the search field.
func WithQuery(q string) Option {
	return func(m *Model) { m.input.SetValue(q) }
}

// WithContext sets the context used for saves.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// Model is the bubbletea model of the recall overlay.
type Model struct {
	ctx     context.Context
	store   Persister
	scope   footprint.Scope
	input   textinput.Model
	history []footprint.Footprint
	results []footprint.Footprint
	config  footprint.Config
	cursor  int
	maxRows int

	copy     func(string) error
	sync     *syncer
	selected *footprint.Footprint
	err      error

	// pending counts writes issued but not yet acknowledged; a quit
	// request waits until it drops to zero.
	pending  int
	quitting bool
}

// New creates the overlay for scope's history.
func New(scope footprint.Scope, history []footprint.Footprint, cfg footprint.Config, store Persister, opts ...Option) *Model {
	input := textinput.New()
	input.Placeholder = "Keyword search"
	input.Prompt = "> "
	input.Focus()

	m := &Model{
		ctx:     context.Background(),
		store:   store,
		scope:   scope,
		input:   input,
		history: history,
		config:  cfg,
		maxRows: defaultMaxRows,
		copy:    clipboard.WriteAll,
		sync:    newSyncer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refilter()
	return m
}

type savedMsg struct {
	key     string
	skipped bool
}

type deletedMsg struct {
	url string
}

type saveErrMsg struct {
	err error
}

// Init initializes the overlay.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the overlay.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.maxRows = max(1, msg.Height-reservedHeight)
		m.input.Width = max(10, msg.Width-8)
		return m, nil

	case savedMsg, deletedMsg:
		return m, m.settle()

	case saveErrMsg:
		m.err = msg.err
		return m, m.settle()

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, Keys.Quit):
			return m, m.quit()

		case key.Matches(msg, Keys.Up):
			m.cursor--
			return m, nil

		case key.Matches(msg, Keys.Down):
			m.cursor++
			return m, nil

		case key.Matches(msg, Keys.Open):
			fp, ok := m.Highlighted()
			if !ok {
				return m, nil
			}
			m.selected = &fp
			if err := m.copy(fp.URL); err != nil {
				m.err = fmt.Errorf("copy to clipboard: %w", err)
			}
			return m, m.quit()

		case key.Matches(msg, Keys.Delete):
			fp, ok := m.Highlighted()
			if !ok {
				return m, nil
			}
			m.history = footprint.Delete(m.history, fp.URL)
			m.refilter()
			return m, m.deleteFootprint(fp.URL)

		case key.Matches(msg, Keys.ToggleRomaji):
			m.config.EnableRomajiSearch = !m.config.EnableRomajiSearch
			m.cursor = 0
			m.refilter()
			return m, m.saveConfig()

		case key.Matches(msg, Keys.CycleStartup):
			m.config.StartupKeyCombination = nextStartup(m.config.StartupKeyCombination)
			return m, m.saveConfig()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = 0
		m.refilter()
	}
	return m, cmd
}

func (m *Model) refilter() {
	m.results = footprint.Search(m.history, m.input.Value(), m.config.EnableRomajiSearch)
}

func nextStartup(c footprint.StartupKeyCombination) footprint.StartupKeyCombination {
	for i, v := range startupOrder {
		if v == c {
			return startupOrder[(i+1)%len(startupOrder)]
		}
	}
	return footprint.DefaultConfig().StartupKeyCombination
}

// quit exits now, or once every pending write has been acknowledged.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.pending > 0 {
		return nil
	}
	return tea.Quit
}

// settle records the acknowledgement of one write.
func (m *Model) settle() tea.Cmd {
	if m.pending > 0 {
		m.pending--
	}
	if m.quitting && m.pending == 0 {
		return tea.Quit
	}
	return nil
}

// deleteFootprint removes url from the stored history. A footprint that is
// already gone counts as deleted.
func (m *Model) deleteFootprint(url string) tea.Cmd {
	m.pending++
	ctx, store, scope := m.ctx, m.store, m.scope
	return func() tea.Msg {
		if _, err := store.DeleteFootprint(ctx, scope, url); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return saveErrMsg{err: fmt.Errorf("delete footprint: %w", err)}
		}
		return deletedMsg{url: url}
	}
}

func (m *Model) saveConfig() tea.Cmd {
	m.pending++
	rev := m.sync.next(configSyncKey)
	snapshot := m.config
	ctx, store, s := m.ctx, m.store, m.sync
	return func() tea.Msg {
		skipped, err := s.run(configSyncKey, rev, func() error {
			return store.SaveConfig(ctx, snapshot)
		})
		if err != nil {
			return saveErrMsg{err: fmt.Errorf("save config: %w", err)}
		}
		return savedMsg{key: configSyncKey, skipped: skipped}
	}
}

// Highlighted returns the footprint under the cursor. There is none when
// no footprint matches.
func (m *Model) Highlighted() (footprint.Footprint, bool) {
	i, ok := m.highlightedIndex()
	if !ok {
		return footprint.Footprint{}, false
	}
	return m.results[i], true
}

func (m *Model) highlightedIndex() (int, bool) {
	if len(m.results) == 0 {
		return 0, false
	}
	return footprint.Rotate(len(m.results), m.cursor), true
}

// Selected returns the footprint chosen with enter, if any.
func (m *Model) Selected() (footprint.Footprint, bool) {
	if m.selected == nil {
		return footprint.Footprint{}, false
	}
	return *m.selected, true
}

// Results returns the footprints matching the current query.
func (m *Model) Results() []footprint.Footprint {
	return m.results
}

// Config returns the overlay's current search configuration.
func (m *Model) Config() footprint.Config {
	return m.config
}

// Err returns the last persistence or clipboard error.
func (m *Model) Err() error {
	return m.err
}
