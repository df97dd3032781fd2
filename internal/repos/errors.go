package repos

import "fmt"

// Kind classifies a failed repository operation.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindPermission
	KindRateLimit
	KindValidation
	KindNameConflict
	KindNotFound
	KindFormat
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindRateLimit:
		return "rate_limit"
	case KindValidation:
		return "validation"
	case KindNameConflict:
		return "name_conflict"
	case KindNotFound:
		return "not_found"
	case KindFormat:
		return "format"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is returned by every Service operation. Message is meant to be shown
// to the user as-is.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string

	// Suggestion is an alternate repository name offered on a name conflict
	Suggestion string

	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind. A name conflict also matches ErrValidation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind == e.Kind {
		return true
	}

	return t.Kind == KindValidation && e.Kind == KindNameConflict
}

// Sentinels for errors.Is.
var (
	ErrAuth         = &Error{Kind: KindAuth, Message: "authentication failed"}
	ErrPermission   = &Error{Kind: KindPermission, Message: "permission denied"}
	ErrRateLimit    = &Error{Kind: KindRateLimit, Message: "rate limit exceeded"}
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNameConflict = &Error{Kind: KindNameConflict, Message: "repository name already exists"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "repository not found"}
	ErrFormat       = &Error{Kind: KindFormat, Message: "unexpected response format"}
	ErrTransport    = &Error{Kind: KindTransport, Message: "network error"}
)

func newError(kind Kind, op string, status int, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
