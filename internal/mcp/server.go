// Package mcp serves path resolution to MCP clients over stdio.
package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jcdickinson/rsdoclink/internal/config"
	"github.com/jcdickinson/rsdoclink/internal/db"
	"github.com/jcdickinson/rsdoclink/internal/docsurl"
	"github.com/jcdickinson/rsdoclink/internal/index"
	"github.com/jcdickinson/rsdoclink/internal/loader"
	"github.com/jcdickinson/rsdoclink/internal/simplepath"
	"github.com/jcdickinson/rsdoclink/internal/version"
)

//go:embed instructions.md
var instructions string

type Server struct {
	mcpServer *server.MCPServer
	loader    *loader.Loader
	db        *db.DB
}

func NewServer(cfg *config.Config, database *db.DB) *Server {
	s := &Server{
		loader: loader.New(cfg),
		db:     database,
	}

	mcpServer := server.NewMCPServer(
		"rsdoclink",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("resolve_doc_link",
			mcp.WithDescription("Resolve a Rust simple path (e.g. \"anyhow::Context::with_context\") to its documentation URL. The first segment is the crate name; std/core/alloc paths resolve against doc.rust-lang.org."),
			mcp.WithString("path",
				mcp.Description("Simple path to resolve"),
				mcp.Required(),
			),
			mcp.WithString("version",
				mcp.Description("Crate version (default: \"latest\")"),
			),
		),
		s.handleResolve,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_crates",
			mcp.WithDescription("List crate versions with locally stored link mappings."),
		),
		s.handleListCrates,
	)
}

type resolveResult struct {
	Path    string `json:"path"`
	Crate   string `json:"crate"`
	Version string `json:"version"`
	Kind    string `json:"kind,omitempty"`
	URL     string `json:"url,omitempty"`
	Found   bool   `json:"found"`
}

func (s *Server) handleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pathArg, _ := args["path"].(string)
	if pathArg == "" {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	path, err := simplepath.Parse(pathArg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid path: %v", err)), nil
	}

	verArg, _ := args["version"].(string)
	ver, err := version.Parse(verArg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid version: %v", err)), nil
	}

	loaded, err := s.loader.Load(ctx, path.CrateName(), ver)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading crate index: %v", err)), nil
	}

	outcome := index.Resolve(loaded.Crate, path)
	result := resolveResult{
		Path:    path.String(),
		Crate:   path.CrateName(),
		Version: loaded.ID.Version,
		Found:   outcome.Kind != index.OutcomeNotFound,
	}
	if outcome.Kind == index.OutcomeFound {
		result.Kind = outcome.Item.Kind.String()
	}
	if result.Found {
		result.URL = docsurl.Build(loaded.ID, loaded.Crate, outcome)
	}

	resultJSON, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleListCrates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.db == nil {
		return mcp.NewToolResultText("no link database available"), nil
	}
	infos, err := s.db.ListCrates()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing crates: %v", err)), nil
	}
	resultJSON, _ := json.MarshalIndent(infos, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
