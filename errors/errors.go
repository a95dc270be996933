package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which lowering step produced the error
type Phase string

const (
	PhaseNormalize Phase = "normalize" // raw body -> flat body
	PhaseTranslate Phase = "translate" // flat statement -> tree statement
	PhaseFold      Phase = "fold"      // operand wrapping
	PhaseRelink    Phase = "relink"    // target and trap remapping
	PhaseAggregate Phase = "aggregate" // aggregation pipeline
	PhaseClone     Phase = "clone"     // tree body copy
	PhaseConfig    Phase = "config"    // option parsing
	PhaseParse     Phase = "parse"     // source format decoding
	PhaseLoad      Phase = "load"      // file loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported      Kind = "unsupported"
	KindInvalidStatement Kind = "invalid_statement"
	KindInvalidValue     Kind = "invalid_value"
	KindUnresolvedTarget Kind = "unresolved_target"
	KindInternal         Kind = "internal"
	KindInvalidData      Kind = "invalid_data"
	KindInvalidInput     Kind = "invalid_input"
	KindInvalidOption    Kind = "invalid_option"
	KindNotFound         Kind = "not_found"
	KindDuplicate        Kind = "duplicate"
	KindPass             Kind = "pass"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Method string
	Stmt   string
	Detail string
	Path   []string
	Index  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Method != "" {
		b.WriteString(" in ")
		b.WriteString(e.Method)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Stmt != "" {
		fmt.Fprintf(&b, ": statement #%d %q", e.Index, e.Stmt)
	}

	if e.Detail != "" {
		if e.Stmt != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the source path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Method sets the signature of the method being lowered
func (b *Builder) Method(sig string) *Builder {
	b.err.Method = sig
	return b
}

// Stmt sets the offending statement and its index within the body
func (b *Builder) Stmt(index int, text string) *Builder {
	b.err.Index = index
	b.err.Stmt = text
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// WithMethod returns err annotated with the method signature when err is an *Error
// that does not carry one yet. Other errors are returned unchanged.
func WithMethod(err error, sig string) error {
	if e, ok := err.(*Error); ok && e.Method == "" {
		c := *e
		c.Method = sig
		return &c
	}
	return err
}

// Convenience constructors for common error patterns

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// UnsupportedShape creates an error for a body representation the lowering cannot accept
func UnsupportedShape(v any) *Error {
	return &Error{
		Phase:  PhaseTranslate,
		Kind:   KindUnsupported,
		Detail: fmt.Sprintf("can only construct tree bodies from raw, flat or tree bodies, got %T", v),
		Value:  v,
	}
}

// InvalidStatement creates an error for a statement with no counterpart in the target form
func InvalidStatement(phase Phase, index int, stmt string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidStatement,
		Index:  index,
		Stmt:   stmt,
		Detail: "unrecognized statement kind",
	}
}

// InvalidValue creates an error for an operand that cannot be represented
func InvalidValue(phase Phase, v any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidValue,
		Detail: fmt.Sprintf("unrecognized operand %T", v),
		Value:  v,
	}
}

// UnresolvedTarget creates an error for a statement reference outside the body being lowered
func UnresolvedTarget(phase Phase, ref string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnresolvedTarget,
		Detail: fmt.Sprintf("reference to %q does not resolve to a statement of this body", ref),
		Value:  ref,
	}
}

// Internal creates an invariant-violation error
func Internal(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, path []string, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   path,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Duplicate creates a duplicate definition error
func Duplicate(phase Phase, path []string, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Path:   path,
		Detail: fmt.Sprintf("%s %q defined more than once", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidOption creates an error for a malformed configuration option
func InvalidOption(name, value string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidOption,
		Detail: fmt.Sprintf("option %q has invalid value %q", name, value),
		Value:  value,
		Cause:  cause,
	}
}

// PassFailed wraps an error returned by a named pipeline pass
func PassFailed(pass string, cause error) *Error {
	return &Error{
		Phase:  PhaseAggregate,
		Kind:   KindPass,
		Detail: fmt.Sprintf("pass %s failed", pass),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a file loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
