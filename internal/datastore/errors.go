package datastore

import "errors"

// Error kinds surfaced by the datastore. Calls wrap these with the failing
// key or database name; match with errors.Is.
var (
	// ErrMalformedKey marks a stored flat key without a leading separator
	// or with no segments.
	ErrMalformedKey = errors.New("malformed key")

	// ErrUnknownNode marks a tree or key node that no schema node resolves.
	ErrUnknownNode = errors.New("node not in schema")

	// ErrMissingKey marks a list instance lacking one of its declared key
	// leaf children.
	ErrMissingKey = errors.New("list instance missing key leaf")

	// ErrExists marks a Create against a key already present.
	ErrExists = errors.New("already exists")

	// ErrNotFound marks a Delete against an absent key.
	ErrNotFound = errors.New("not found")

	// ErrUnknownDatabase marks a name outside the fixed database set.
	ErrUnknownDatabase = errors.New("no such database")
)
