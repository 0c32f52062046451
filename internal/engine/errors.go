package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorises workflow errors.
type ErrorCode string

const (
	// CodeUnauthorized: a non-admin invoked an admin action.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeProductNotFound: the product id is not in the catalog.
	CodeProductNotFound ErrorCode = "PRODUCT_NOT_FOUND"

	// CodeProductExists: add-product on an id already in the catalog.
	CodeProductExists ErrorCode = "PRODUCT_EXISTS"

	// CodePendingNotFound: no pending request matches (user, product).
	CodePendingNotFound ErrorCode = "PENDING_NOT_FOUND"

	// CodeNotPurchased: the caller is not in the product's buyer set.
	CodeNotPurchased ErrorCode = "NOT_PURCHASED"

	// CodeNoSecretConfigured: the product has no OTP seed.
	CodeNoSecretConfigured ErrorCode = "NO_SECRET_CONFIGURED"

	// CodeInvalidSecret: the OTP seed could not produce a code.
	CodeInvalidSecret ErrorCode = "INVALID_SECRET"

	// CodeInvalidField: edit of a field outside the editable set.
	CodeInvalidField ErrorCode = "INVALID_FIELD"

	// CodeInvalidUserID: a user id argument is not an integer.
	CodeInvalidUserID ErrorCode = "INVALID_USER_ID"

	// CodeBuyerNotFound: the user is not in the product's buyer set.
	CodeBuyerNotFound ErrorCode = "BUYER_NOT_FOUND"

	// CodeInvalidInput: a required value is empty or a product id is too long.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeStorageIO: the document could not be read, written or decrypted.
	CodeStorageIO ErrorCode = "STORAGE_IO"
)

// Error is a workflow error. Every code except CodeStorageIO is an
// expected user-input outcome, reported to the actor and never escalated.
type Error struct {
	Code      ErrorCode
	Message   string
	ProductID string
	UserID    int64
	Err       error
}

// Sentinels for errors.Is. Matching compares codes only.
var (
	ErrUnauthorized       = &Error{Code: CodeUnauthorized}
	ErrProductNotFound    = &Error{Code: CodeProductNotFound}
	ErrProductExists      = &Error{Code: CodeProductExists}
	ErrPendingNotFound    = &Error{Code: CodePendingNotFound}
	ErrNotPurchased       = &Error{Code: CodeNotPurchased}
	ErrNoSecretConfigured = &Error{Code: CodeNoSecretConfigured}
	ErrInvalidSecret      = &Error{Code: CodeInvalidSecret}
	ErrInvalidField       = &Error{Code: CodeInvalidField}
	ErrInvalidUserID      = &Error{Code: CodeInvalidUserID}
	ErrBuyerNotFound      = &Error{Code: CodeBuyerNotFound}
	ErrInvalidInput       = &Error{Code: CodeInvalidInput}
	ErrStorageIO          = &Error{Code: CodeStorageIO}
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessages[e.Code]
	}
	switch {
	case e.ProductID != "" && e.UserID != 0:
		msg = fmt.Sprintf("%s (product=%s, user=%d)", msg, e.ProductID, e.UserID)
	case e.ProductID != "":
		msg = fmt.Sprintf("%s (product=%s)", msg, e.ProductID)
	case e.UserID != 0:
		msg = fmt.Sprintf("%s (user=%d)", msg, e.UserID)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of a workflow error, or "" for other errors.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsExpected reports whether err is a user-input outcome rather than a
// system failure.
func IsExpected(err error) bool {
	code := CodeOf(err)
	return code != "" && code != CodeStorageIO
}

var defaultMessages = map[ErrorCode]string{
	CodeUnauthorized:       "admin action requires the admin identity",
	CodeProductNotFound:    "product not found",
	CodeProductExists:      "product already exists",
	CodePendingNotFound:    "pending purchase not found",
	CodeNotPurchased:       "product not purchased",
	CodeNoSecretConfigured: "no OTP secret configured",
	CodeInvalidSecret:      "OTP secret is not usable",
	CodeInvalidField:       "field is not editable",
	CodeInvalidUserID:      "invalid user id",
	CodeBuyerNotFound:      "buyer not found",
	CodeInvalidInput:       "invalid input",
	CodeStorageIO:          "storage I/O failure",
}

func newError(code ErrorCode, productID string, userID int64) *Error {
	return &Error{Code: code, ProductID: productID, UserID: userID}
}
