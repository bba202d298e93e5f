package errors

import "sort"

// docBase is the error reference page; codes are its anchors.
const docBase = "https://github.com/vango-dev/datastar/blob/main/docs/errors.md#"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (DS100-DS199)
	// ============================================

	"DS101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No datastar.json, datastar.yaml, datastar.yml or datastar.toml was found.",
		DocURL:   docBase + "ds101",
	},
	"DS102": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be parsed",
		Detail:   "The configuration file is not valid for its format.",
		DocURL:   docBase + "ds102",
	},
	"DS103": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or not recognized.",
		DocURL:   docBase + "ds103",
	},
	"DS104": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml, .yml or .toml.",
		DocURL:   docBase + "ds104",
	},

	// ============================================
	// CLI and Server Errors (DS200-DS299)
	// ============================================

	"DS201": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
		DocURL:   docBase + "ds201",
	},
	"DS202": {
		Category: CategoryCLI,
		Message:  "Unknown example",
		Detail:   "The available examples are hello, activity-feed and live-reload.",
		DocURL:   docBase + "ds202",
	},
	"DS203": {
		Category: CategoryCLI,
		Message:  "Input could not be read",
		Detail:   "The input file does not exist or is not readable.",
		DocURL:   docBase + "ds203",
	},
	"DS204": {
		Category: CategoryServer,
		Message:  "File watcher failed",
		Detail:   "A watched path could not be added to the file watcher.",
		DocURL:   docBase + "ds204",
	},

	// ============================================
	// Test-Suite Errors (DS300-DS399)
	// ============================================

	"DS301": {
		Category: CategoryTestSuite,
		Message:  "Invalid test case",
		Detail:   "The test case document is not valid JSON or does not match the schema.",
		DocURL:   docBase + "ds301",
	},
	"DS302": {
		Category: CategoryTestSuite,
		Message:  "Unknown event type",
		Detail:   "Event types must be executeScript, patchElements or patchSignals.",
		DocURL:   docBase + "ds302",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
