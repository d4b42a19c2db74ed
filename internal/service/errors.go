package service

import "errors"

// ErrorKind classifies an expected failure so the HTTP layer can pick a status code.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindUnauthorized
	KindNotFound
)

// Error is an expected rejection carrying the message shown to the client.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func validation(msg string) *Error   { return &Error{Kind: KindValidation, Msg: msg} }
func unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func notFound(msg string) *Error     { return &Error{Kind: KindNotFound, Msg: msg} }

var (
	ErrUserAlreadyExists  = validation("User already exists")
	ErrInvalidCredentials = validation("Invalid credentials")
	ErrUserNotFound       = notFound("User not found")

	ErrPropertyNotFound      = notFound("Property not found")
	ErrNotAuthorizedToList   = unauthorized("Not authorized to list properties")
	ErrNotAuthorizedToUpdate = unauthorized("Not authorized to update this property")
	ErrNotAuthorizedToDelete = unauthorized("Not authorized to delete this property")

	ErrOnlyBuyersCanInitiate    = unauthorized("Only buyers can initiate transactions")
	ErrPropertyNotAvailable     = notFound("Property not found or not verified")
	ErrPropertyAlreadySold      = validation("Property already sold")
	ErrPendingTransactionExists = validation("There is already a pending transaction for this property")
	ErrTransactionInProgress    = validation("There is already a transaction in progress for this property")
	ErrCannotBuyOwnProperty     = validation("You cannot buy your own property")
	ErrOnlyAgentsCanVerify      = unauthorized("Only verification agents can verify transactions")
	ErrOnlyAgentsCanComplete    = unauthorized("Only verification agents can complete transactions")
	ErrTransactionNotFound      = notFound("Transaction not found")
	ErrOnlyPendingVerifiable    = validation("Only pending transactions can be verified")
	ErrOnlyVerifiedCompletable  = validation("Only verified transactions can be completed")
	ErrNotTransactionParty      = unauthorized("Not authorized to view this transaction")
)

// AsError returns the *Error inside err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
