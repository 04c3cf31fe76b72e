package repository

import "errors"

var (
	// ErrStoreRead wraps every failure of Load.
	ErrStoreRead = errors.New("store read failure")

	// ErrStoreWrite wraps every failure of Save.
	ErrStoreWrite = errors.New("store write failure")

	// ErrNotFound is returned (wrapped in ErrStoreRead) when nothing has been saved yet.
	ErrNotFound = errors.New("not found")

	// ErrMalformed is returned (wrapped in ErrStoreRead) when the stored value
	// is not a JSON array of contacts.
	ErrMalformed = errors.New("malformed contacts")
)
