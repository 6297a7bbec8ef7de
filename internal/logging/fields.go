// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldLanguage = "language"
	FieldSchema   = "schema"
	FieldStrict   = "strict"
	FieldJobs     = "jobs"
	FieldWrite    = "write"

	// Editor fields.
	FieldLines   = "lines"
	FieldCommand = "command"
	FieldStage   = "stage"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldErrors          = "errors"
	FieldWarnings        = "warnings"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
