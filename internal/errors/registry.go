package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconcile Errors (R001-R009)
	// ============================================

	"R001": {
		Category: CategoryReconcile,
		Message:  "Descriptor has no host node",
		Detail:   "A previous descriptor was patched but was never rendered or patched itself, so it carries no host reference. The render/patch pairing is broken.",
	},
	"R002": {
		Category: CategoryReconcile,
		Message:  "Invalid patch target",
		Detail:   "Patch expects either a previous descriptor or a live host node as its first argument, and a non-nil descriptor as its second.",
	},

	// ============================================
	// Reactive Errors (R003-R009)
	// ============================================

	"R003": {
		Category: CategoryReactive,
		Message:  "Runtime used from a foreign goroutine",
		Detail:   "The runtime is bound to a single goroutine. Post work to its event loop instead of touching observed state directly.",
	},
	"R004": {
		Category: CategoryReactive,
		Message:  "Active computation stack underflow",
		Detail:   "A pop was issued with no computation on the stack. Push and pop calls are unbalanced.",
	},

	// ============================================
	// Config Errors (R010-R019)
	// ============================================

	"R010": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file failed validation.",
	},
	"R011": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml, .yml or .toml.",
	},

	// ============================================
	// Export Errors (R020-R029)
	// ============================================

	"R020": {
		Category: CategoryExport,
		Message:  "Snapshot export failed",
		Detail:   "The rendered snapshot could not be written to the configured store.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
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
