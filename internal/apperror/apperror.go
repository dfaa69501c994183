// Package apperror defines the closed set of failure kinds that cross the
// service boundary. Handlers map a Kind to a transport status; nothing below
// the boundary deals in status codes.
package apperror

import (
	"errors"
)

type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Unauthorized
	Forbidden
	Unavailable
	CartEmpty
	CartItemNotFound
	OrderNotFound
	OrderAlreadyPaid
	PaymentNotFound
	PaymentNotCompleted
	InvoiceAlreadyExists
	InvoiceNotFound
)

var kindCodes = map[Kind]string{
	Internal:             "INTERNAL",
	InvalidInput:         "INVALID_INPUT",
	Unauthorized:         "UNAUTHORIZED",
	Forbidden:            "FORBIDDEN",
	Unavailable:          "UNAVAILABLE",
	CartEmpty:            "CART_EMPTY",
	CartItemNotFound:     "CART_ITEM_NOT_FOUND",
	OrderNotFound:        "ORDER_NOT_FOUND",
	OrderAlreadyPaid:     "ORDER_ALREADY_PAID",
	PaymentNotFound:      "PAYMENT_NOT_FOUND",
	PaymentNotCompleted:  "PAYMENT_NOT_COMPLETED",
	InvoiceAlreadyExists: "INVOICE_ALREADY_EXISTS",
	InvoiceNotFound:      "INVOICE_NOT_FOUND",
}

func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[Internal]
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a kinded error. Package-level sentinels are declared with it and
// compared with errors.Is.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// MessageOf returns the client-safe message for err. Errors without a kind
// never leak their text.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != Internal {
		return appErr.Message
	}
	return "internal server error"
}
