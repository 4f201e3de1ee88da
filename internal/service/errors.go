package service

import "errors"

var (
	ErrDuplicateName      = errors.New("a menu group with this name already exists")
	ErrDuplicateID        = errors.New("a menu group with this id already exists")
	ErrAlreadyInitialized = errors.New("menu groups already initialized")
	ErrGroupNameRequired  = errors.New("menu group name is required")
	ErrGroupNotFound      = errors.New("menu group not found")
	ErrGroupInUse         = errors.New("menu group is still referenced")
	ErrItemNotFound       = errors.New("menu item not found")

	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUser        = errors.New("username, email and password are required")

	ErrInvalidGreeting = errors.New("greeting must be between 1 and 2000 characters")
)
