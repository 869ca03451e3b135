package domain

import "errors"

var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrInvalidCredential = errors.New("invalid credentials")
var ErrDuplicateAccount = errors.New("account with this name or PIN already exists")
var ErrStorageFailure = errors.New("storage operation failed")
var ErrInvalidInput = errors.New("invalid input")
var ErrCapacityExceeded = errors.New("maximum account limit reached")
var ErrNoActiveSession = errors.New("no active session")
