package main

// Exit codes for tagbot commands
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing token, unreadable config)
	ExitDataError   = 3 // Tags file is corrupt
	ExitTagError    = 4 // Tag not found, already exists, or has no content
)
