package storage

import "errors"

// ErrNotFound is returned when a group, member, friend entry or expense does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a group or friendship that already exists.
var ErrAlreadyExists = errors.New("already exists")

// ErrConflict is returned when a commit lost an optimistic-concurrency race: at least one
// record it read has been modified since. Nothing was written.
var ErrConflict = errors.New("concurrent modification detected")

// ErrMalformedRecord is returned when a stored record cannot be decoded, e.g. a
// non-numeric balance.
var ErrMalformedRecord = errors.New("malformed record")

// ErrTooManyItems is returned when a commit touches more records than the backend can
// write in a single transaction.
var ErrTooManyItems = errors.New("too many items for a single transaction")
