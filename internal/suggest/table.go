package suggest

// table is the static suggestion catalog. Entries are ordered by how
// often users reach for them; truncation keeps the front of the list.
var table = map[Context][]Suggestion{
	ContextEmpty: {
		{ID: "run-smoke", Text: "Run the smoke suite", Prompt: "Run the smoke test suite and summarize the results", Icon: "play", Category: "testing"},
		{ID: "discover", Text: "Discover my site", Prompt: "Crawl the site and map the critical user flows", Icon: "compass", Category: "discovery"},
		{ID: "write-test", Text: "Write a new test", Prompt: "Help me write an end-to-end test for a user flow", Icon: "pencil", Category: "authoring"},
		{ID: "quality", Text: "Check overall quality", Prompt: "Generate a quality report for the project", Icon: "gauge", Category: "reporting"},
	},
	AfterTest: {
		{ID: "show-coverage", Text: "Show coverage", Prompt: "Show the coverage report for this run", Icon: "chart", Category: "reporting"},
		{ID: "rerun-failed", Text: "Re-run failures", Prompt: "Re-run only the failed tests from the last run", Icon: "repeat", Category: "testing"},
		{ID: "view-code", Text: "View the test code", Prompt: "Show me the generated test code", Icon: "code", Category: "authoring"},
		{ID: "run-full", Text: "Run the full suite", Prompt: "Run every test suite and compare with the last run", Icon: "play", Category: "testing"},
	},
	AfterError: {
		{ID: "explain-failure", Text: "Explain the failure", Prompt: "Explain why the last test failed and what changed", Icon: "help", Category: "debugging"},
		{ID: "heal", Text: "Try self-healing", Prompt: "Attempt to self-heal the broken selectors and re-run", Icon: "wrench", Category: "healing"},
		{ID: "show-logs", Text: "Show the logs", Prompt: "Fetch the execution logs for the failed run", Icon: "scroll", Category: "debugging"},
		{ID: "visual-check", Text: "Compare screenshots", Prompt: "Run a visual diff against the last passing baseline", Icon: "image", Category: "debugging"},
	},
	AfterReport: {
		{ID: "drill-down", Text: "Drill into weak areas", Prompt: "Which areas of the report need attention first?", Icon: "target", Category: "reporting"},
		{ID: "trend", Text: "Show the trend", Prompt: "How has quality trended over the last 30 days?", Icon: "chart", Category: "analytics"},
		{ID: "export", Text: "Summarize for the team", Prompt: "Write a short summary of this report for my team", Icon: "share", Category: "reporting"},
	},
	AfterAnalysis: {
		{ID: "flaky", Text: "Find flaky tests", Prompt: "Which tests are flakiest and why?", Icon: "zap", Category: "analytics"},
		{ID: "slowest", Text: "Find slow tests", Prompt: "List the slowest tests and suggest optimizations", Icon: "clock", Category: "analytics"},
		{ID: "quality", Text: "Check overall quality", Prompt: "Generate a quality report for the project", Icon: "gauge", Category: "reporting"},
	},
	AfterDiscovery: {
		{ID: "generate-tests", Text: "Generate tests", Prompt: "Generate tests for the flows you discovered", Icon: "sparkles", Category: "authoring"},
		{ID: "prioritize", Text: "Prioritize flows", Prompt: "Which discovered flows are most critical to cover?", Icon: "list", Category: "discovery"},
	},
	AfterHealing: {
		{ID: "verify-heal", Text: "Verify the fix", Prompt: "Re-run the healed tests to confirm they pass", Icon: "check", Category: "healing"},
		{ID: "review-heal", Text: "Review the changes", Prompt: "Show me exactly what the healer changed", Icon: "diff", Category: "healing"},
	},
	ContextGeneral: {
		{ID: "run-tests", Text: "Run tests", Prompt: "Run the test suite", Icon: "play", Category: "testing"},
		{ID: "status", Text: "Pipeline status", Prompt: "What is the current pipeline status?", Icon: "activity", Category: "pipeline"},
		{ID: "help", Text: "What can you do?", Prompt: "What can you help me with?", Icon: "help", Category: "general"},
	},
}
