package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameReport    = "trackfang_report"
	ToolNameCorrelate = "trackfang_correlate"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyBundlePath indicates the bundle_path parameter is empty.
	ErrEmptyBundlePath = errors.New("bundle_path parameter is required and must not be empty")
	// ErrUnsupportedFormat indicates the requested render format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Input types (auto-generate JSON schemas via struct tags).

// ReportInput is the input schema for the trackfang_report tool.
type ReportInput struct {
	BundlePath  string `json:"bundle_path"            jsonschema:"absolute path to a JSON data bundle with issues commits and pull requests"`
	Format      string `json:"format,omitempty"       jsonschema:"output format: text markdown or json (default: json)"`
	IdentityMap string `json:"identity_map,omitempty" jsonschema:"optional path to a YAML identity map for merging developer aliases"`
}

// CorrelateInput is the input schema for the trackfang_correlate tool.
type CorrelateInput struct {
	BundlePath string `json:"bundle_path" jsonschema:"absolute path to a JSON data bundle with issues commits and pull requests"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// textResult builds a CallToolResult with plain text content.
func textResult(text string, value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}, ToolOutput{Data: value}, nil
}
