package accounts

import "errors"

var (
	ErrUserNotFound       = errors.New("accounts: user not found")
	ErrDuplicateUser      = errors.New("accounts: username or email already taken")
	ErrInvalidUser        = errors.New("accounts: invalid user")
	ErrInvalidCredentials = errors.New("accounts: invalid credentials")
)
