package domain

import "errors"

var (
	// ErrCaseNotFound is returned by case stores when no row matches a customer key.
	ErrCaseNotFound = errors.New("case not found")
	// ErrNotPersisted is returned when an update targets a row that does not exist.
	ErrNotPersisted = errors.New("case not persisted")
)
