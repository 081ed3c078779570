// Package mcp provides an MCP (Model Context Protocol) server for ripple.
// This allows AI agents to run impact and breaking-change analysis through
// MCP tools instead of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ripple/internal/breaking"
	"ripple/internal/config"
	"ripple/internal/depgraph"
	"ripple/internal/impact"
)

// Server wraps the MCP server with ripple-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	builder      *depgraph.Builder
	analyzer     *impact.Analyzer
	detector     *breaking.Detector
	projectRoot  string
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
}

// DefaultTools is the default set of tools to expose
var DefaultTools = []string{"ripple_impact", "ripple_breaking", "ripple_stats"}

// AllTools lists all available tools
var AllTools = []string{"ripple_impact", "ripple_breaking", "ripple_stats"}

// New creates a new MCP server rooted at projectRoot
func New(projectRoot string, cfg Config) (*Server, error) {
	appCfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	builder := depgraph.NewBuilder(projectRoot, appCfg.Scan.ExcludeDirs, appCfg.Scan.Workers)

	mcpServer := server.NewMCPServer(
		"ripple",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		builder:      builder,
		analyzer:     impact.NewAnalyzer(builder),
		detector:     breaking.NewDetector(builder),
		projectRoot:  projectRoot,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = DefaultTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "ripple_impact":
		return s.registerImpactTool()
	case "ripple_breaking":
		return s.registerBreakingTool()
	case "ripple_stats":
		return s.registerStatsTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	// Start timeout checker if timeout is set
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "ripple serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	"ripple_impact": {
		Name:        "ripple_impact",
		Description: "Analyze blast radius of changes to one or more files. Shows affected dependents, impact level, and suggestions.",
		Parameters: []ParameterSchema{
			{Name: "targets", Type: "string", Description: "Comma-separated file paths to analyze", Required: true},
			{Name: "depth", Type: "number", Description: "Transitive depth (default: 10)"},
			{Name: "include_tests", Type: "boolean", Description: "Keep test files in the affected set"},
			{Name: "exclude", Type: "string", Description: "Comma-separated glob patterns to exclude from dependents"},
		},
	},
	"ripple_breaking": {
		Name:        "ripple_breaking",
		Description: "Compare two versions of a file's content and report breaking changes to its exported symbols.",
		Parameters: []ParameterSchema{
			{Name: "file", Type: "string", Description: "Path of the file being changed", Required: true},
			{Name: "old_content", Type: "string", Description: "Previous file content", Required: true},
			{Name: "new_content", Type: "string", Description: "New file content", Required: true},
		},
	},
	"ripple_stats": {
		Name:        "ripple_stats",
		Description: "Summarize the dependency graph: file count, import and export totals, last build time.",
		Parameters: []ParameterSchema{
			{Name: "rebuild", Type: "boolean", Description: "Force a graph rebuild before reporting"},
		},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schemas := make([]ToolSchema, 0, len(s.tools))
	for name := range s.tools {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the JSON result string or an error.
func (s *Server) CallTool(name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	switch name {
	case "ripple_impact":
		targets, _ := args["targets"].(string)
		if targets == "" {
			return "", fmt.Errorf("targets parameter is required")
		}
		depth := impact.DefaultMaxDepth
		if d, ok := args["depth"].(float64); ok {
			depth = int(d)
		}
		includeTests, _ := args["include_tests"].(bool)
		exclude, _ := args["exclude"].(string)
		return s.executeImpact(splitList(targets), depth, includeTests, splitList(exclude))

	case "ripple_breaking":
		file, _ := args["file"].(string)
		if file == "" {
			return "", fmt.Errorf("file parameter is required")
		}
		oldContent, _ := args["old_content"].(string)
		newContent, _ := args["new_content"].(string)
		return s.executeBreaking(file, oldContent, newContent)

	case "ripple_stats":
		rebuild, _ := args["rebuild"].(bool)
		return s.executeStats(rebuild)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// registerImpactTool registers the ripple_impact tool
func (s *Server) registerImpactTool() error {
	tool := mcp.NewTool("ripple_impact",
		mcp.WithDescription("Analyze blast radius of changes to one or more files. Shows affected dependents, impact level, and suggestions."),
		mcp.WithString("targets",
			mcp.Required(),
			mcp.Description("Comma-separated file paths to analyze"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Transitive depth (default: 10)"),
		),
		mcp.WithBoolean("include_tests",
			mcp.Description("Keep test files in the affected set"),
		),
		mcp.WithString("exclude",
			mcp.Description("Comma-separated glob patterns to exclude from dependents"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleImpact)
	return nil
}

// registerBreakingTool registers the ripple_breaking tool
func (s *Server) registerBreakingTool() error {
	tool := mcp.NewTool("ripple_breaking",
		mcp.WithDescription("Compare two versions of a file's content and report breaking changes to its exported symbols."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the file being changed"),
		),
		mcp.WithString("old_content",
			mcp.Required(),
			mcp.Description("Previous file content"),
		),
		mcp.WithString("new_content",
			mcp.Required(),
			mcp.Description("New file content"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleBreaking)
	return nil
}

// registerStatsTool registers the ripple_stats tool
func (s *Server) registerStatsTool() error {
	tool := mcp.NewTool("ripple_stats",
		mcp.WithDescription("Summarize the dependency graph: file count, import and export totals, last build time."),
		mcp.WithBoolean("rebuild",
			mcp.Description("Force a graph rebuild before reporting"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleStats)
	return nil
}

func (s *Server) handleImpact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	targets, ok := args["targets"].(string)
	if !ok || targets == "" {
		return mcp.NewToolResultError("targets parameter is required"), nil
	}

	depth := impact.DefaultMaxDepth
	if d, ok := args["depth"].(float64); ok {
		depth = int(d)
	}

	includeTests, _ := args["include_tests"].(bool)
	exclude, _ := args["exclude"].(string)

	result, err := s.executeImpact(splitList(targets), depth, includeTests, splitList(exclude))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleBreaking(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	file, ok := args["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file parameter is required"), nil
	}

	oldContent, _ := args["old_content"].(string)
	newContent, _ := args["new_content"].(string)

	result, err := s.executeBreaking(file, oldContent, newContent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	rebuild, _ := args["rebuild"].(bool)

	result, err := s.executeStats(rebuild)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) executeImpact(targets []string, depth int, includeTests bool, excludePatterns []string) (string, error) {
	opts := impact.Options{
		IncludeTests:    includeTests,
		MaxDepth:        depth,
		ExcludePatterns: excludePatterns,
	}

	result, err := s.analyzer.AnalyzeImpact(targets, opts)
	if err != nil {
		return "", err
	}

	return toJSON(result)
}

func (s *Server) executeBreaking(file, oldContent, newContent string) (string, error) {
	changes, err := s.detector.DetectBreakingChanges(file, oldContent, newContent)
	if err != nil {
		return "", err
	}

	return toJSON(map[string]interface{}{
		"file":             s.builder.NormalizePath(file),
		"breaking_changes": changes,
	})
}

func (s *Server) executeStats(rebuild bool) (string, error) {
	if rebuild {
		if _, err := s.builder.BuildGraph(true); err != nil {
			return "", err
		}
	}

	stats, err := s.builder.Stats()
	if err != nil {
		return "", err
	}

	return toJSON(stats)
}

// splitList splits a comma-separated parameter into trimmed values.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	return string(b), nil
}
