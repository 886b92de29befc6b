package service

import "errors"

// The error classes the HTTP layer maps onto user-facing messages: auth
// problems ("please sign in"), validation failures, and everything else as
// generic retryable store failures.
var (
	ErrNotSignedIn        = errors.New("please sign in")
	ErrPermissionDenied   = errors.New("permission denied, please sign in again")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNameEmpty          = errors.New("display name cannot be empty")
	ErrNameTaken          = errors.New("this username is already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotYourRequest     = errors.New("request is not addressed to you")
	ErrAlreadyLinked      = errors.New("friend request already exists")
	ErrSelfFriend         = errors.New("cannot befriend yourself")
)
