// Package rpcserver exposes cocosearch's indexing and search pipelines over
// the Model Context Protocol: a thin pass-through, not a second copy of
// C4/C7's logic.
package rpcserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/types"
	"github.com/cocosearch/cocosearch/internal/version"
)

// Indexer is the indexing.Runner surface the server calls directly.
type Indexer interface {
	Run(ctx context.Context, codebasePath, indexName string, cfg *config.Config) (types.RunSummary, error)
}

// Searcher is the search.Engine surface the server calls directly.
type Searcher interface {
	Search(ctx context.Context, q types.Query) ([]types.SearchResult, error)
}

// Server wires the two MCP tools to their core collaborators.
type Server struct {
	mcp     *mcp.Server
	indexer Indexer
	search  Searcher
	cfg     *config.Config
}

// New builds a Server and registers its tools. cfg supplies the defaults
// (chunk size/overlap, include/exclude patterns) the indexing tool uses
// when a call doesn't override them.
func New(indexer Indexer, searcher Searcher, cfg *config.Config) *Server {
	s := &Server{
		indexer: indexer,
		search:  searcher,
		cfg:     cfg,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "cocosearch-mcp-server",
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Serve runs the server over stdio until the client disconnects or ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "cocosearch_index",
		Description: "Index a local codebase for hybrid code search: chunk, extract symbols, embed, and persist.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"codebase_path": {Type: "string", Description: "Absolute path to the codebase root"},
				"index_name":    {Type: "string", Description: "Index identifier, matching ^[a-z][a-z0-9_]*$"},
				"include":       {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Glob patterns to include"},
				"exclude":       {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Glob patterns to exclude"},
				"no_gitignore":  {Type: "boolean", Description: "Disable .gitignore honoring"},
			},
			Required: []string{"codebase_path", "index_name"},
		},
	}, s.handleIndex)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "cocosearch_search",
		Description: "Hybrid (dense + lexical) code search over a previously indexed codebase.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text":            {Type: "string", Description: "Query text"},
				"index_name":      {Type: "string", Description: "Index identifier to search"},
				"limit":           {Type: "integer", Description: "Maximum results"},
				"min_score":       {Type: "number", Description: "Minimum fused score"},
				"language_filter": {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Restrict to these languages"},
				"symbol_type":     {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Restrict to these symbol types"},
				"symbol_name":     {Type: "string", Description: "Symbol name glob"},
				"use_hybrid":      {Type: "boolean", Description: "Force hybrid on/off; omit to let the query analyzer decide"},
				"smart_context":   {Type: "boolean", Description: "Enable tree-sitter enclosing-definition context expansion"},
				"context_before":  {Type: "integer", Description: "Explicit lines of context before a match"},
				"context_after":   {Type: "integer", Description: "Explicit lines of context after a match"},
				"no_cache":        {Type: "boolean", Description: "Bypass the query cache"},
			},
			Required: []string{"text", "index_name"},
		},
	}, s.handleSearch)
}

type indexArgs struct {
	CodebasePath string   `json:"codebase_path"`
	IndexName    string   `json:"index_name"`
	Include      []string `json:"include"`
	Exclude      []string `json:"exclude"`
	NoGitignore  bool     `json:"no_gitignore"`
}

func (s *Server) handleIndex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args indexArgs
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}

	cfg := *s.cfg
	if len(args.Include) > 0 {
		cfg.Indexing.IncludePatterns = args.Include
	}
	if len(args.Exclude) > 0 {
		cfg.Indexing.ExcludePatterns = args.Exclude
	}
	cfg.Indexing.NoGitignore = args.NoGitignore

	summary, err := s.indexer.Run(ctx, args.CodebasePath, args.IndexName, &cfg)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(summary)
}

type searchArgs struct {
	Text           string   `json:"text"`
	IndexName      string   `json:"index_name"`
	Limit          int      `json:"limit"`
	MinScore       float64  `json:"min_score"`
	LanguageFilter []string `json:"language_filter"`
	SymbolType     []string `json:"symbol_type"`
	SymbolName     string   `json:"symbol_name"`
	UseHybrid      *bool    `json:"use_hybrid"`
	SmartContext   bool     `json:"smart_context"`
	ContextBefore  int      `json:"context_before"`
	ContextAfter   int      `json:"context_after"`
	NoCache        bool     `json:"no_cache"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}

	results, err := s.search.Search(ctx, types.Query{
		Text:           args.Text,
		IndexName:      args.IndexName,
		Limit:          args.Limit,
		MinScore:       args.MinScore,
		LanguageFilter: args.LanguageFilter,
		SymbolType:     args.SymbolType,
		SymbolName:     args.SymbolName,
		UseHybrid:      args.UseHybrid,
		SmartContext:   args.SmartContext,
		ContextBefore:  args.ContextBefore,
		ContextAfter:   args.ContextAfter,
		NoCache:        args.NoCache,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(results)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err), nil
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(data)}}}, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
