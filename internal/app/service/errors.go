package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("user already exists")
	ErrCreationFailed = errors.New("creation failed")
	ErrUpdateFailed   = errors.New("update failed")
	ErrDeletionFailed = errors.New("deletion failed")
	ErrCoupleFull     = errors.New("couple already has two members")
	ErrInvalidMembers = errors.New("a couple needs one or two distinct users")
)

const (
	EntityUser   = "user"
	EntityCouple = "couple"
	EntityWish   = "wish"
)

// NotFoundError names the record that was missing. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func userNotFound(id int64) error {
	return &NotFoundError{Entity: EntityUser, ID: id}
}

func coupleNotFound(id uint) error {
	return &NotFoundError{Entity: EntityCouple, ID: id}
}

func wishNotFound(id uint) error {
	return &NotFoundError{Entity: EntityWish, ID: id}
}

// isDomainError reports errors raised by validation rather than by the datastore.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrCoupleFull) ||
		errors.Is(err, ErrInvalidMembers)
}
