package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool             = errors.New("external tool error")
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	ErrValidation               = errors.New("validation error")
	ErrConfiguration            = errors.New("configuration error")
	ErrLocked                   = errors.New("locked")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error to the process exit status used by the CLI.
// Data contract violations are distinguished from tool failures so a
// supervisor can decide whether resubmitting the same document is pointless.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnsupportedConfiguration), errors.Is(err, ErrValidation):
		return 2
	case errors.Is(err, ErrLocked):
		return 3
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "production failure"
	}
	return strings.Join(parts, ": ")
}
