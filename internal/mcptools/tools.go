// Package mcptools exposes footprint search and recording as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/runnerr0/recalldoc/internal/footprint"
	"github.com/runnerr0/recalldoc/internal/storage"
)

// Repository is the storage the tools read and write.
type Repository interface {
	LoadFootprints(ctx context.Context, scope footprint.Scope) ([]footprint.Footprint, error)
	UpdateFootprint(ctx context.Context, scope footprint.Scope, fp footprint.Footprint) ([]footprint.Footprint, error)
	DeleteFootprint(ctx context.Context, scope footprint.Scope, url string) ([]footprint.Footprint, error)
	LoadConfig(ctx context.Context) (footprint.Config, error)
	Scopes(ctx context.Context) ([]footprint.Scope, error)
}

// NewServer creates an MCP server with all footprint tools registered.
func NewServer(repo Repository, defaultLimit int, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"recalldoc",
		version,
		server.WithToolCapabilities(true),
	)
	Register(s, repo, defaultLimit)
	return s
}

// Register adds the footprint tools to s.
func Register(s *server.MCPServer, repo Repository, defaultLimit int) {
	s.AddTool(searchTool(), searchHandler(repo, defaultLimit))
	s.AddTool(recordVisitTool(), recordVisitHandler(repo))
	s.AddTool(deleteTool(), deleteHandler(repo))
	s.AddTool(listScopesTool(), listScopesHandler(repo))
}

// --- search_footprints ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search_footprints",
		mcp.WithDescription("Search recently visited esa/Kibela documents of one team. Space separated keywords are ANDed; romaji keywords also match hiragana and katakana when romaji search is on."),
		mcp.WithString("site",
			mcp.Description("Site ID: esa or kibela"),
			mcp.Required(),
		),
		mcp.WithString("team",
			mcp.Description("Team ID (the subdomain)"),
			mcp.Required(),
		),
		mcp.WithString("query",
			mcp.Description("Keywords. Omit to list the most recent documents."),
		),
		mcp.WithBoolean("romaji",
			mcp.Description("Expand romaji to kana. Defaults to the stored setting."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results"),
		),
	)
}

func searchHandler(repo Repository, defaultLimit int) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := scopeArgs(req)
		if err != nil {
			return toolError(err)
		}

		cfg, err := repo.LoadConfig(ctx)
		if err != nil {
			return toolError(err)
		}
		romaji := req.GetBool("romaji", cfg.EnableRomajiSearch)
		limit := req.GetInt("limit", defaultLimit)
		if limit < 0 {
			return toolError(fmt.Errorf("limit must not be negative"))
		}

		history, err := repo.LoadFootprints(ctx, scope)
		if err != nil {
			return toolError(err)
		}

		matches := footprint.Search(history, req.GetString("query", ""), romaji)
		if len(matches) == 0 {
			return mcp.NewToolResultText("No footprints found."), nil
		}
		total := len(matches)
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%d/%d footprints in %s\n", len(matches), total, scope)
		for i, fp := range matches {
			fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, fp.SearchText(), fp.URL)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- record_visit ---

func recordVisitTool() mcp.Tool {
	return mcp.NewTool("record_visit",
		mcp.WithDescription("Record a visit to an esa or Kibela page. Posts and notes need a name; category and folder pages derive everything from the URL."),
		mcp.WithString("url",
			mcp.Description("Page URL"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Document title without its category path"),
		),
		mcp.WithString("directories",
			mcp.Description("Category or folder path, slash separated (e.g. dev/design)"),
		),
	)
}

func recordVisitHandler(repo Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		visit := footprint.Visit{
			URL:         req.GetString("url", ""),
			Name:        req.GetString("name", ""),
			Directories: footprint.SplitKibelaFolderPath(req.GetString("directories", "")),
		}
		if visit.URL == "" {
			return toolError(fmt.Errorf("url is required"))
		}

		scope, fp, err := footprint.FromVisit(visit)
		if err != nil {
			return toolError(err)
		}
		history, err := repo.UpdateFootprint(ctx, scope, fp)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Recorded %s in %s (%d footprints)", fp.URL, scope, len(history))), nil
	}
}

// --- delete_footprint ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete_footprint",
		mcp.WithDescription("Remove one document from a team's history."),
		mcp.WithString("site",
			mcp.Description("Site ID: esa or kibela"),
			mcp.Required(),
		),
		mcp.WithString("team",
			mcp.Description("Team ID"),
			mcp.Required(),
		),
		mcp.WithString("url",
			mcp.Description("URL of the footprint to delete"),
			mcp.Required(),
		),
	)
}

func deleteHandler(repo Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := scopeArgs(req)
		if err != nil {
			return toolError(err)
		}
		url := req.GetString("url", "")
		if url == "" {
			return toolError(fmt.Errorf("url is required"))
		}

		if _, err := repo.DeleteFootprint(ctx, scope, url); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return toolError(fmt.Errorf("no footprint %s in %s", url, scope))
			}
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted %s from %s", url, scope)), nil
	}
}

// --- list_scopes ---

func listScopesTool() mcp.Tool {
	return mcp.NewTool("list_scopes",
		mcp.WithDescription("List the site/team pairs that have a recorded history."),
	)
}

func listScopesHandler(repo Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scopes, err := repo.Scopes(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(scopes) == 0 {
			return mcp.NewToolResultText("No scopes."), nil
		}
		var sb strings.Builder
		for _, s := range scopes {
			fmt.Fprintf(&sb, "%s\n", s)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func scopeArgs(req mcp.CallToolRequest) (footprint.Scope, error) {
	scope := footprint.Scope{
		SiteID: req.GetString("site", ""),
		TeamID: req.GetString("team", ""),
	}
	return scope, scope.Validate()
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
