package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/trackfang/pkg/engine"
	"github.com/Sumatoshi-tech/trackfang/pkg/identity"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
	"github.com/Sumatoshi-tech/trackfang/pkg/render"
)

// handleReport generates a delivery report from a data bundle and renders it
// in the requested format.
func handleReport(ctx context.Context, _ *mcpsdk.CallToolRequest, input ReportInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.BundlePath == "" {
		return errorResult(ErrEmptyBundlePath)
	}

	format := render.FormatJSON
	if input.Format != "" {
		format = render.Format(input.Format)
	}

	switch format {
	case render.FormatText, render.FormatMarkdown, render.FormatJSON:
	default:
		return errorResult(fmt.Errorf("%w: %q", ErrUnsupportedFormat, input.Format))
	}

	bundle, err := records.LoadBundle(input.BundlePath)
	if err != nil {
		return errorResult(fmt.Errorf("load bundle: %w", err))
	}

	var identities *identity.Map

	if input.IdentityMap != "" {
		identities, err = identity.LoadMap(input.IdentityMap)
		if err != nil {
			return errorResult(fmt.Errorf("load identity map: %w", err))
		}
	}

	eng, err := engine.New()
	if err != nil {
		return errorResult(err)
	}

	rep, err := eng.Run(ctx, engine.Inputs{
		Period:       bundle.Period,
		Issues:       bundle.Issues,
		Commits:      bundle.Commits,
		PullRequests: bundle.PullRequests,
		Identities:   identities,
	})
	if err != nil {
		return errorResult(fmt.Errorf("generate report: %w", err))
	}

	if format == render.FormatJSON {
		return jsonResult(rep)
	}

	var buf strings.Builder

	renderErr := render.Render(rep, format, &buf)
	if renderErr != nil {
		return errorResult(renderErr)
	}

	return textResult(buf.String(), rep)
}

// handleCorrelate runs only the issue-to-commit correlation and returns the
// link summary without the full report.
func handleCorrelate(ctx context.Context, _ *mcpsdk.CallToolRequest, input CorrelateInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.BundlePath == "" {
		return errorResult(ErrEmptyBundlePath)
	}

	bundle, err := records.LoadBundle(input.BundlePath)
	if err != nil {
		return errorResult(fmt.Errorf("load bundle: %w", err))
	}

	eng, err := engine.New()
	if err != nil {
		return errorResult(err)
	}

	rep, err := eng.Run(ctx, engine.Inputs{
		Period:       bundle.Period,
		Issues:       bundle.Issues,
		Commits:      bundle.Commits,
		PullRequests: bundle.PullRequests,
	})
	if err != nil {
		return errorResult(fmt.Errorf("correlate: %w", err))
	}

	return jsonResult(rep.Analytics.Correlation)
}
