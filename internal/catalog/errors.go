package catalog

import (
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes reported by Load.
const (
	ErrCodeNotFound    = "E005" // File not found or unreadable
	ErrCodeFormat      = "E008" // Unsupported file extension
	ErrCodeParse       = "E004" // YAML or CUE syntax error
	ErrCodeSchema      = "E006" // Content does not satisfy #Catalog
	ErrCodeInvalidData = "E009" // Content valid but not a legal snapshot
)

// LoadError reports why a catalog file could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
}

// cueError converts a CUE error, keeping the position of its first entry.
func cueError(code, path string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Path: path, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Path: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
