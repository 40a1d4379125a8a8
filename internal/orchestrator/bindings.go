package orchestrator

import (
	"fmt"

	"argus/internal/workspace"
)

// Payload is the default data handed to a spawned panel when a binding
// has no transform: the raw tool result plus the arguments that produced
// it. The workspace never inspects this shape.
type Payload struct {
	Result any            `json:"result"`
	Args   map[string]any `json:"args"`
}

// binding maps a tool name to a panel spawn: the panel type, a title
// computed from the tool args, and an optional transform of the result.
type binding struct {
	panelType workspace.PanelType
	title     func(args map[string]any) string
	transform func(result any, args map[string]any) any
}

// builtinBindings is the static table of recognized backend tools. Tool
// names not present here (and without a registered custom handler) are
// ignored without error.
var builtinBindings = map[string]binding{
	"run_tests": {
		panelType: workspace.PanelTestResults,
		title: func(args map[string]any) string {
			return "Test Results - " + argString(args, "suite", "All Suites")
		},
	},
	"analyze_quality": {
		panelType: workspace.PanelQualityReport,
		title: func(args map[string]any) string {
			return "Quality Report - " + argString(args, "target", "Project")
		},
	},
	"visual_diff": {
		panelType: workspace.PanelVisualDiff,
		title: func(args map[string]any) string {
			return "Visual Diff - " + argString(args, "page", argString(args, "url", "Baseline"))
		},
	},
	"view_test_code": {
		panelType: workspace.PanelCodeViewer,
		title: func(args map[string]any) string {
			return argString(args, "file", "Generated Test")
		},
		// Code viewers want the source text directly when the tool
		// returns a {code, language} object.
		transform: func(result any, args map[string]any) any {
			if m, ok := result.(map[string]any); ok {
				if code, ok := m["code"].(string); ok {
					return map[string]any{
						"code":     code,
						"language": argString(m, "language", "typescript"),
						"file":     argString(args, "file", ""),
					}
				}
			}
			return Payload{Result: result, Args: args}
		},
	},
	"pipeline_status": {
		panelType: workspace.PanelPipeline,
		title: func(args map[string]any) string {
			return "Pipeline - " + argString(args, "branch", "main")
		},
	},
	"fetch_logs": {
		panelType: workspace.PanelLogs,
		title: func(args map[string]any) string {
			return "Logs - " + argString(args, "run_id", argString(args, "source", "latest"))
		},
	},
	"coverage_report": {
		panelType: workspace.PanelCoverage,
		title: func(args map[string]any) string {
			return "Coverage - " + argString(args, "suite", "Project")
		},
	},
	"usage_analytics": {
		panelType: workspace.PanelAnalytics,
		title: func(args map[string]any) string {
			return "Analytics - " + argString(args, "period", "30d")
		},
	},
}

// argString pulls a non-empty string arg, with a fallback. Non-string
// values are stringified rather than dropped so numeric ids still title
// panels usefully.
func argString(args map[string]any, key, fallback string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprintf("%v", v)
}
