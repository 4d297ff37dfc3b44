package provider

import (
	"errors"
	"strings"
)

// CompileError reports that the compiler rejected the submitted source.
// It is a user error, as opposed to the compiler being unavailable.
type CompileError struct {
	Detail string
}

func (e *CompileError) Error() string {
	detail := strings.TrimSpace(e.Detail)

	if detail == "" {
		return "compile failed"
	}

	return "compile failed: " + detail
}

func IsCompileError(err error) bool {
	var compileErr *CompileError
	return errors.As(err, &compileErr)
}
