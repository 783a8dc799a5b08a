package cli

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db-path" description:"Override the SQLite database path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ScopeFlags select one site/team history. Both may be omitted when only
// one history exists.
type ScopeFlags struct {
	Site string `long:"site" description:"Site ID" choice:"esa" choice:"kibela"`
	Team string `long:"team" description:"Team ID (the site subdomain)"`
}

// StatusCommand: show database stats, stored histories and daemon health.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// SearchCommand: AND-keyword search over one history.
type SearchCommand struct {
	ScopeFlags
	Romaji   bool `long:"romaji" description:"Expand romaji keywords to kana (default: stored setting)"`
	NoRomaji bool `long:"no-romaji" description:"Disable romaji expansion"`
	Limit    int  `long:"limit" description:"Maximum results (0: config default)" default:"0"`

	globals *GlobalFlags
	version string
}

// VisitCommand: record a page visit by hand.
type VisitCommand struct {
	URL         string `long:"url" description:"Page URL (required)"`
	Name        string `long:"name" description:"Document title (required for posts and notes)"`
	Directories string `long:"directories" description:"Category or folder path, slash separated"`

	globals *GlobalFlags
	version string
}

// DeleteCommand: remove one footprint from a history.
type DeleteCommand struct {
	ScopeFlags
	URL string `long:"url" description:"URL of the footprint (required)"`

	globals *GlobalFlags
	version string
}

// RecallCommand: open the interactive recall overlay.
type RecallCommand struct {
	ScopeFlags

	globals *GlobalFlags
	version string
	run     func(tea.Model) (tea.Model, error) // injectable for testing; nil runs a tea.Program
	copy    func(string) error                 // injectable for testing; nil uses the system clipboard
}

// IngestCommand: start the recalldoc daemon (local HTTP service).
type IngestCommand struct {
	Host     string `long:"host" description:"Override daemon host"`
	Port     int    `long:"port" description:"Override daemon port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// MCPCommand: serve the footprint tools over MCP stdio.
type MCPCommand struct {
	globals *GlobalFlags
	version string
}

// SettingsCommand: show or change the stored search settings.
type SettingsCommand struct {
	Romaji  string `long:"romaji" description:"Romaji search" choice:"on" choice:"off"`
	Startup string `long:"startup" description:"Startup keys: 1 (Ctrl+R), 2 (Ctrl|Cmd+Shift+L), 99 (both)" choice:"1" choice:"2" choice:"99"`

	globals *GlobalFlags
	version string
}

// PurgeCommand: delete ALL recalldoc data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	db      *sql.DB // injectable for testing; nil means open the configured DB
}
