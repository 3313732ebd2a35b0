package logging

// Structured log field names shared by the runner and the CLI.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"
	FieldStatus     = "status"

	// Configuration.
	FieldConfig     = "config"
	FieldSource     = "source"
	FieldKey        = "key"
	FieldMode       = "mode"
	FieldJobs       = "jobs"
	FieldMaxLine    = "max_line_length"
	FieldIndent     = "indent_width"
	FieldBackupPath = "backup"

	// Statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"
	FieldBlocks          = "blocks"

	// Version.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
