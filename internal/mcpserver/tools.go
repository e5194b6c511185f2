package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/phishdedup/internal/action"
	"github.com/davetashner/phishdedup/internal/config"
	"github.com/davetashner/phishdedup/internal/dedup"
	"github.com/davetashner/phishdedup/internal/normalize"
	"github.com/davetashner/phishdedup/internal/output"
	"github.com/davetashner/phishdedup/internal/similarity"
	"github.com/davetashner/phishdedup/internal/store"
)

// CheckDuplicateInput is the input schema for the check_duplicate MCP tool.
type CheckDuplicateInput struct {
	IncidentPath string   `json:"incident_path" jsonschema:"JSON file holding the new incident"`
	StorePath    string   `json:"store_path" jsonschema:"JSON array or JSONL file of historical incidents"`
	SinkPath     string   `json:"sink_path,omitempty" jsonschema:"JSONL file receiving the close-as-duplicate command (default: dry run, nothing written)"`
	FromPolicy   string   `json:"from_policy,omitempty" jsonschema:"Sender policy: TextOnly, Exact or Domain"`
	Threshold    *float64 `json:"threshold,omitempty" jsonschema:"Similarity threshold between 0.0 and 1.0 (default 0.99)"`
	ConfigDir    string   `json:"config_dir,omitempty" jsonschema:"Directory holding .phishdedup.yaml (default: current directory)"`
}

// ScoreTextsInput is the input schema for the score_texts MCP tool.
type ScoreTextsInput struct {
	A string `json:"a" jsonschema:"First text"`
	B string `json:"b" jsonschema:"Second text"`
}

// ScoreTextsOutput is the JSON document returned by score_texts.
type ScoreTextsOutput struct {
	Similarity float64 `json:"similarity"`
	// Comparable is false when either text has no terms: no word of two or
	// more characters and none of ! ? " '. Similarity is then 0.
	Comparable bool `json:"comparable"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all phishdedup tools to the MCP server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_duplicate",
		Description: "Decide whether a new phishing incident duplicates an earlier one using TF-IDF cosine similarity. Without sink_path the close command is only logged.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    false,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleCheckDuplicate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_texts",
		Description: "Score the similarity of two texts (0.0 to 1.0) with a TF-IDF model fit on just the pair, after URL canonicalization.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleScoreTexts)
}

func handleCheckDuplicate(ctx context.Context, _ *mcp.CallToolRequest, input CheckDuplicateInput) (*mcp.CallToolResult, any, error) {
	incidentPath, err := ResolveInput(input.IncidentPath)
	if err != nil {
		return nil, nil, fmt.Errorf("incident_path: %w", err)
	}
	storePath, err := ResolveInput(input.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("store_path: %w", err)
	}

	var sink action.Sink = action.LogSink{}
	if input.SinkPath != "" {
		sinkPath, err := ResolveOutput(input.SinkPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sink_path: %w", err)
		}
		sink = action.NewFileSink(sinkPath)
	}

	// Load and merge config; tool arguments win.
	dir := input.ConfigDir
	if dir == "" {
		dir = "."
	}
	fileCfg, err := config.LoadLayered(dir, os.LookupEnv)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Merge(fileCfg, &config.Config{
		FromPolicy: input.FromPolicy,
		Threshold:  input.Threshold,
	})
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}
	settings, err := config.Resolve(cfg)
	if err != nil {
		return nil, nil, err
	}

	checker := &dedup.Checker{
		Settings: settings,
		Store:    store.NewFileStore(storePath),
		Sink:     sink,
	}
	res, err := checker.Run(ctx, dedup.FileSource{Path: incidentPath})
	if err != nil {
		return nil, nil, fmt.Errorf("check failed: %w", err)
	}

	formatter, err := output.GetFormatter("json")
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := formatter.Format(res, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

func handleScoreTexts(_ context.Context, _ *mcp.CallToolRequest, input ScoreTextsInput) (*mcp.CallToolResult, any, error) {
	sim, ok, err := similarity.Pair(
		normalize.CanonicalizeURLs(input.A),
		normalize.CanonicalizeURLs(input.B),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("scoring failed: %w", err)
	}

	data, err := json.Marshal(ScoreTextsOutput{Similarity: sim, Comparable: ok})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
