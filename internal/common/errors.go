// Package common defines the error taxonomy shared by repositories, services
// and the HTTP layer. Callers should use errors.Is to match these values.
package common

import "errors"

// Repository-level errors.
var (
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	// ErrorReferenced covers foreign key failures in either direction:
	// a missing parent on insert or a remaining child on delete.
	ErrorReferenced = errors.New("referential integrity violation")
)

// Kind identifies a class of service-level failure. The set is closed: the
// HTTP layer maps every kind to a status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindAlreadyRegistered
	KindInvalidOrExpiredCode
	KindContactNotFound
	KindTaskNotFound
	KindPendingContactNotFound
	KindMissingContact
	KindContactInUse
)

var kindMessages = map[Kind]string{
	KindInternal:               "internal server error",
	KindInvalidInput:           "invalid input",
	KindAlreadyRegistered:      "email is already registered",
	KindInvalidOrExpiredCode:   "invalid or expired verification code",
	KindContactNotFound:        "contact not found",
	KindTaskNotFound:           "task not found",
	KindPendingContactNotFound: "pending contact not found",
	KindMissingContact:         "contact email is required, assign the task to a registered contact",
	KindContactInUse:           "contact still has assigned tasks",
}

// String returns the human-readable message of the kind.
func (k Kind) String() string {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return kindMessages[KindInternal]
}

// Error is a service-level failure. Detail refines the message for the
// caller; it is never parsed back into a kind.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, common.ErrInvalidInput) matches any detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels, one per kind.
var (
	ErrInternal               = &Error{Kind: KindInternal}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
	ErrAlreadyRegistered      = &Error{Kind: KindAlreadyRegistered}
	ErrInvalidOrExpiredCode   = &Error{Kind: KindInvalidOrExpiredCode}
	ErrContactNotFound        = &Error{Kind: KindContactNotFound}
	ErrTaskNotFound           = &Error{Kind: KindTaskNotFound}
	ErrPendingContactNotFound = &Error{Kind: KindPendingContactNotFound}
	ErrMissingContact         = &Error{Kind: KindMissingContact}
	ErrContactInUse           = &Error{Kind: KindContactInUse}
)

// NewError builds an *Error of the given kind with a detail message.
func NewError(kind Kind, detail string) error {
	return &Error{Kind: kind, Detail: detail}
}

// InvalidInput is a shorthand for NewError(KindInvalidInput, detail).
func InvalidInput(detail string) error {
	return NewError(KindInvalidInput, detail)
}

// KindOf extracts the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
