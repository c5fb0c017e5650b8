package validation

import (
	"errors"
	"fmt"
	"strings"
)

// MaxPathLength bounds configured file paths.
const MaxPathLength = 4096

var ErrInvalidPath = errors.New("invalid path")

// CheckPath rejects file paths the store or logger must never open: empty,
// overlong, or carrying NUL or control characters.
func CheckPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}

	if len(path) > MaxPathLength {
		return fmt.Errorf("%w: path too long (max %d characters)", ErrInvalidPath, MaxPathLength)
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null bytes", ErrInvalidPath)
	}

	for _, char := range path {
		if char < 32 && char != '\t' {
			return fmt.Errorf("%w: path contains control characters", ErrInvalidPath)
		}
	}

	return nil
}
