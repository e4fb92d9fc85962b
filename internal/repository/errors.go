// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrUsernameExists signals that registration cannot proceed
// because the chosen name is taken, while ErrNotFriends indicates an
// attempt to remove a friendship edge that does not exist.
package repository

import "errors"

// ErrUserNotFound is returned when no user matches the given id,
// username or email. Handlers should translate this into an HTTP 404
// response.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when an insert or update would violate
// the unique constraint on users.username. Handlers should translate
// this into an HTTP 409 response.
var ErrUsernameExists = errors.New("username already used")

// ErrEmailExists is returned when an insert or update would violate
// the unique constraint on users.email.
var ErrEmailExists = errors.New("email already used")

// ErrAlreadyActive is returned when activating an account whose
// activation flag is already set. Activation is one-way and happens
// exactly once.
var ErrAlreadyActive = errors.New("user account is already activated")

// ErrSelfFriendship is returned when a user attempts to befriend
// themselves.
var ErrSelfFriendship = errors.New("user cannot be friend with itself")

// ErrAlreadyFriends is returned when adding a friendship edge that is
// already present. The graph holds at most one edge per unordered pair.
var ErrAlreadyFriends = errors.New("user is already friend with other user")

// ErrNotFriends is returned when removing a friendship edge that does
// not exist.
var ErrNotFriends = errors.New("user is not friend with other user")
