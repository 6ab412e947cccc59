package service

import "fmt"

// Kind classifies a failed operation so the transport layer can map it to
// a response code without inspecting messages.
type Kind int

const (
	// KindValidation: bad input shape or amount.
	KindValidation Kind = iota
	// KindAuthorization: the actor lacks the required relationship.
	KindAuthorization
	// KindNotFound: unknown group, expense, payment or request.
	KindNotFound
	// KindConflict: already processed, cooldown active, or stale write.
	KindConflict
	// KindInvariant: a stored-state invariant would be violated.
	KindInvariant
)

// Error is the typed result every failed service operation returns. The
// group state is unchanged whenever one of these comes back.
type Error struct {
	Kind Kind
	Err  error

	// RetryAfterMinutes is set on cooldown conflicts so the caller can
	// render the remaining wait.
	RetryAfterMinutes int
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func validationErr(err error) *Error    { return &Error{Kind: KindValidation, Err: err} }
func authorizationErr(err error) *Error { return &Error{Kind: KindAuthorization, Err: err} }
func notFoundErr(err error) *Error      { return &Error{Kind: KindNotFound, Err: err} }
func conflictErr(err error) *Error      { return &Error{Kind: KindConflict, Err: err} }
func invariantErr(err error) *Error     { return &Error{Kind: KindInvariant, Err: err} }

func notFoundf(format string, args ...any) *Error {
	return notFoundErr(fmt.Errorf(format, args...))
}
