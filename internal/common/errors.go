// Package common defines shared constants and sentinel errors used across
// the document sync core, the storage backends and the HTTP layer. Callers
// should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrorNotFound = errors.New("not found")

	// Setup errors. Not retried; surfaced to the operator as configuration problems.
	ErrSiteNotFound   = errors.New("site not found")
	ErrNotInitialized = errors.New("document sync service not initialized")

	// Remote operation errors.
	ErrFolderCreation = errors.New("folder creation failed")
	ErrUpload         = errors.New("upload failed")

	// Input validation errors.
	ErrInvalidFileName = errors.New("invalid file name")
	ErrInvalidEntityID = errors.New("invalid entity id")
	ErrInvalidKind     = errors.New("invalid attachment kind")
	ErrInvalidItemID   = errors.New("invalid item id")

	// Auth errors (missing, malformed or expired bearer token).
	ErrorUnauthorized = errors.New("unauthorized")
	ErrTokenExpired   = errors.New("token expired")
)

// ErrLedgerDisabled is returned by ledger queries when no database is configured.
var ErrLedgerDisabled = errors.New("attachment ledger disabled")
