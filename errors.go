package traitgen

import (
	"errors"
	"strings"

	"github.com/reoring/traitgen/i18n"
)

// Generation error codes (exported consts for IDE completion and type safety
// by convention). Generation either fully succeeds or raises one of these;
// there is no partial output and no silent fallback.
const (
	CodeUnresolvedReference  = "unresolved_reference"
	CodeUnsupportedReference = "unsupported_reference"
	CodeCyclicReference      = "cyclic_reference"
	CodeNoMatchingExtractor  = "no_matching_extractor"
	CodeUnsupportedConstruct = "unsupported_construct"
)

// GenerationError is a single generation-time failure with a stable code, the
// JSON Pointer of the offending schema node, and the $ref text when relevant.
type GenerationError struct {
	Code   string
	Path   string
	Ref    string
	Detail string
}

func (e *GenerationError) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Code)
	b.WriteString(" at ")
	b.WriteString(e.Path)
	b.WriteString(": ")
	b.WriteString(i18n.T(e.Code, nil))
	if e.Ref != "" {
		b.WriteString(" (ref ")
		b.WriteString(e.Ref)
		b.WriteString(")")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// AsGenerationError extracts a GenerationError using errors.As internally.
func AsGenerationError(err error) (*GenerationError, bool) {
	if err == nil {
		return nil, false
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// HasCode reports whether err is a GenerationError carrying the given code.
func HasCode(err error, code string) bool {
	ge, ok := AsGenerationError(err)
	return ok && ge.Code == code
}

func errUnresolved(path, ref, detail string) error {
	return &GenerationError{Code: CodeUnresolvedReference, Path: path, Ref: ref, Detail: detail}
}

func errUnsupportedRef(path, ref string) error {
	return &GenerationError{Code: CodeUnsupportedReference, Path: path, Ref: ref}
}

func errCyclic(path, ref string) error {
	return &GenerationError{Code: CodeCyclicReference, Path: path, Ref: ref}
}

func errNoMatch(path string) error {
	return &GenerationError{Code: CodeNoMatchingExtractor, Path: path}
}

func errUnsupported(path, detail string) error {
	return &GenerationError{Code: CodeUnsupportedConstruct, Path: path, Detail: detail}
}
