package logging

// Structured field names.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldFiles   = "files"
	FieldJobs    = "jobs"
	FieldTokens  = "tokens"
	FieldDiags   = "diagnostics"
	FieldCached  = "cached"
	FieldKey     = "key"
	FieldConfig  = "config"
	FieldAlloc   = "allocator"
	FieldElapsed = "elapsed"
)
