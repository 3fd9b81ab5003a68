package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/tagbot/internal/tag"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithStoreError maps a tag store error to an exit code and exits.
func exitWithStoreError(name string, err error) {
	code, msg := storeErrorCode(name, err)
	exitWithError(code, "%s", msg)
}

func storeErrorCode(name string, err error) (int, string) {
	switch {
	case errors.Is(err, tag.ErrNotFound):
		return ExitTagError, fmt.Sprintf("tag %q doesn't exist", name)
	case errors.Is(err, tag.ErrDuplicateTag):
		return ExitTagError, fmt.Sprintf("a tag named %q already exists", name)
	case errors.Is(err, tag.ErrInvalidTag):
		return ExitTagError, "provide --content or --attachment"
	case tag.IsCorrupt(err):
		return ExitDataError, err.Error()
	default:
		return ExitError, err.Error()
	}
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Name   string `json:"name,omitempty"`
	Path   string `json:"path,omitempty"`
	Tags   *int   `json:"tags,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// formatTagHuman renders a tag's content followed by its attachment URLs.
func formatTagHuman(t tag.Tag) string {
	var sb strings.Builder
	if t.Content != "" {
		sb.WriteString(t.Content)
		sb.WriteString("\n")
	}
	for _, url := range t.Attachments {
		sb.WriteString(url)
		sb.WriteString("\n")
	}
	return sb.String()
}
