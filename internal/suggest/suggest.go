// Package suggest derives a conversational context from recent messages
// and offers canned follow-up prompts for it. Classification is a pure
// function over the message list: same input, same output, no state.
package suggest

import (
	"regexp"

	"argus/internal/stream"
)

// Context labels where the conversation currently is.
type Context string

const (
	ContextEmpty   Context = "empty"
	AfterTest      Context = "afterTest"
	AfterError     Context = "afterError"
	AfterReport    Context = "afterReport"
	AfterAnalysis  Context = "afterAnalysis"
	AfterDiscovery Context = "afterDiscovery"
	AfterHealing   Context = "afterHealing"
	ContextGeneral Context = "general"
)

// Suggestion is one offered follow-up.
type Suggestion struct {
	ID       string
	Text     string
	Prompt   string
	Icon     string
	Category string
}

// lookback is how many trailing messages classification inspects.
const lookback = 3

// trivialLength is the content length at or below which a trailing
// assistant message is not enough to leave the empty context.
const trivialLength = 10

// contextRule matches a context by content patterns or by the name of the
// message's most recent tool invocation. Rules are ordered: the first
// match on the newest matching message wins, and error outranks success
// wording so "3 tests failed" never reads as a pass.
type contextRule struct {
	context  Context
	patterns []*regexp.Regexp
	tools    []string
}

var rules = []contextRule{
	{
		context: AfterError,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(fail(ed|ure|ing)?|error|broken|flaky|timed? ?out)\b`),
		},
	},
	{
		context: AfterHealing,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(healed|self-heal|selector (updated|repaired))\b`),
		},
		tools: []string{"heal_selector"},
	},
	{
		context: AfterTest,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(tests? (passed|completed|finished)|test run|all \d+ tests)\b`),
		},
		tools: []string{"run_tests", "view_test_code"},
	},
	{
		context: AfterReport,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(quality report|coverage report|report (is )?ready)\b`),
		},
		tools: []string{"analyze_quality", "coverage_report"},
	},
	{
		context: AfterAnalysis,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(analytics|analy[sz]ed|usage (trends|data))\b`),
		},
		tools: []string{"usage_analytics"},
	},
	{
		context: AfterDiscovery,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(discovered|crawled|mapped (the )?(site|pages|flows))\b`),
		},
		tools: []string{"discover_pages"},
	},
}

// Detect classifies the conversation from its trailing messages,
// newest-first. Tool names outrank content patterns within a message.
func Detect(msgs []stream.Message) Context {
	start := len(msgs) - lookback
	if start < 0 {
		start = 0
	}
	recent := msgs[start:]

	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		if ctx, ok := classify(m); ok {
			return ctx
		}
	}

	// Nothing matched: a non-trivial assistant reply still means the
	// conversation is underway.
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == stream.RoleAssistant {
			if len(msgs[i].Content) > trivialLength {
				return ContextGeneral
			}
			break
		}
	}
	return ContextEmpty
}

func classify(m stream.Message) (Context, bool) {
	if inv, ok := m.LastToolInvocation(); ok {
		for _, r := range rules {
			for _, tool := range r.tools {
				if inv.ToolName == tool {
					return r.context, true
				}
			}
		}
	}
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(m.Content) {
				return r.context, true
			}
		}
	}
	return "", false
}

// For returns the canned suggestions for a context. The returned slice is
// a copy; callers may reorder or truncate it freely.
func For(ctx Context) []Suggestion {
	base := table[ctx]
	out := make([]Suggestion, len(base))
	copy(out, base)
	return out
}

// Suggest classifies the conversation and returns the resolved context
// with its suggestions. Custom suggestions are prepended; the combined
// list is truncated to max when max is positive.
func Suggest(msgs []stream.Message, custom []Suggestion, max int) (Context, []Suggestion) {
	ctx := Detect(msgs)
	out := make([]Suggestion, 0, len(custom)+len(table[ctx]))
	out = append(out, custom...)
	out = append(out, table[ctx]...)
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return ctx, out
}
