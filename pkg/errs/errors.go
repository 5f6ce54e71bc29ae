package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer   = http.StatusInternalServerError
	ErrStatusClient           = http.StatusBadRequest
	ErrStatusUnauthorized     = http.StatusUnauthorized
	ErrStatusNotFound         = http.StatusNotFound
	ErrStatusEmailAlreadyUsed = http.StatusBadRequest
)

var (
	ErrInternalServer       = errors.New("Internal server error")
	ErrClient               = errors.New("Please enter all fields")
	ErrPasswordMismatch     = errors.New("Passwords must match")
	ErrEmailAlreadyUsed     = errors.New("Email already exists")
	ErrEmailNotFound        = errors.New("Email not found")
	ErrWrongPassword        = errors.New("Incorrect password")
	ErrNotLoggedIn          = errors.New("Unauthorized access")
	ErrProductNotFound      = errors.New("Product not found")
	ErrNoPendingTransaction = errors.New("No transaction in process for this user")
	ErrTransactionNotFound  = errors.New("Transaction not found")
)

var errorMap = map[error]int{
	ErrInternalServer:       ErrStatusInternalServer,
	ErrClient:               ErrStatusClient,
	ErrPasswordMismatch:     ErrStatusClient,
	ErrEmailAlreadyUsed:     ErrStatusEmailAlreadyUsed,
	ErrEmailNotFound:        ErrStatusNotFound,
	ErrWrongPassword:        ErrStatusUnauthorized,
	ErrNotLoggedIn:          ErrStatusUnauthorized,
	ErrProductNotFound:      ErrStatusNotFound,
	ErrNoPendingTransaction: ErrStatusNotFound,
	ErrTransactionNotFound:  ErrStatusNotFound,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
