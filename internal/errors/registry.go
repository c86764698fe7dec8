package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime diagnostics (R001-R099)
	// ============================================

	"R001": {
		Category:   CategoryRuntime,
		Message:    "value cannot be made reactive",
		Detail:     "Only records, arrays, maps, sets, weak maps and weak sets can be wrapped. Other values are returned unchanged.",
		Suggestion: "Store the value inside a reactive record or array instead.",
	},
	"R002": {
		Category: CategoryRuntime,
		Message:  "set operation failed: target is readonly",
		Detail:   "A readonly facade never changes. The write was ignored and no effect was notified.",
	},
	"R003": {
		Category: CategoryRuntime,
		Message:  "delete operation failed: target is readonly",
		Detail:   "A readonly facade never changes. The delete was ignored and no effect was notified.",
	},
	"R004": {
		Category:   CategoryRuntime,
		Message:    "collection contains both the raw and reactive versions of the same key",
		Detail:     "Lookups try the key as given and then its raw form, so mixing both forms can hide entries.",
		Suggestion: "Use only raw values or only reactive values as keys.",
	},
	"R005": {
		Category: CategoryRuntime,
		Message:  "mutation ignored: target is frozen",
		Detail:   "Frozen targets reject every write and are never wrapped.",
	},

	// ============================================
	// Configuration errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "failed to read config file",
	},
	"C002": {
		Category:   CategoryConfig,
		Message:    "invalid configuration",
		Suggestion: "Run `reactive config` to print the resolved configuration.",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "unsupported config file format",
		Detail:   "Configuration files must end in .yaml, .yml or .toml.",
	},

	// ============================================
	// Devtools errors (D001-D099)
	// ============================================

	"D001": {
		Category:   CategoryDevtools,
		Message:    "trace archive is not configured",
		Suggestion: "Set archive.bucket in reactive.yaml to enable uploads.",
	},
	"D002": {
		Category: CategoryDevtools,
		Message:  "trace archive upload failed",
	},
	"D003": {
		Category: CategoryDevtools,
		Message:  "devtools server failed",
	},
}
