package ingestion

import "errors"

var (
	// ErrInvalidFile wraps every error caused by the content of an uploaded
	// file rather than by storage.
	ErrInvalidFile = errors.New("invalid file")
	// ErrMissingColumns means a required column could not be found in the
	// file's header row.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrEmptySchedule means a schedule file held no usable rows.
	ErrEmptySchedule = errors.New("no valid payment rows found")
	// ErrUnsupportedFormat means the requested import format is unknown.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrDuplicateTransaction means a ledger entry with the same ID exists.
	ErrDuplicateTransaction = errors.New("transaction already exists")
)
