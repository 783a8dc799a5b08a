package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status   *StatusCommand
	Search   *SearchCommand
	Visit    *VisitCommand
	Delete   *DeleteCommand
	Recall   *RecallCommand
	Ingest   *IngestCommand
	MCP      *MCPCommand
	Settings *SettingsCommand
	Purge    *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "recalldoc"
	parser.LongDescription = "Recall recently visited esa and Kibela documents with AND keyword and romaji search."

	cmds := &commands{
		Status:   &StatusCommand{globals: &globals, version: version},
		Search:   &SearchCommand{globals: &globals, version: version},
		Visit:    &VisitCommand{globals: &globals, version: version},
		Delete:   &DeleteCommand{globals: &globals, version: version},
		Recall:   &RecallCommand{globals: &globals, version: version},
		Ingest:   &IngestCommand{globals: &globals, version: version},
		MCP:      &MCPCommand{globals: &globals, version: version},
		Settings: &SettingsCommand{globals: &globals, version: version},
		Purge:    &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("status", "Show database statistics and stored histories", "Show database statistics, stored histories, search settings and daemon health.", cmds.Status)
	parser.AddCommand("search", "Search a history", "Search one site/team history. Space separated keywords are ANDed.", cmds.Search)
	parser.AddCommand("visit", "Record a page visit", "Record a visit to an esa or Kibela page by hand.", cmds.Visit)
	parser.AddCommand("delete", "Delete a footprint", "Remove one footprint from a history.", cmds.Delete)
	parser.AddCommand("recall", "Open the recall overlay", "Open the interactive recall overlay; enter copies the URL of the highlighted document.", cmds.Recall)
	parser.AddCommand("ingest", "Start the recalldoc daemon", "Start the recalldoc daemon (local HTTP service the browser extension reports to).", cmds.Ingest)
	parser.AddCommand("mcp", "Serve MCP tools over stdio", "Serve footprint search and recording as MCP tools over stdio.", cmds.MCP)
	parser.AddCommand("settings", "Show or change search settings", "Show or change the romaji search and startup key settings.", cmds.Settings)
	parser.AddCommand("purge", "Delete ALL recalldoc data", "Delete ALL recalldoc data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the recalldoc CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// --version is valid without a subcommand, which go-flags would reject.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("recalldoc %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
