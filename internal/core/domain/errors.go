package domain

import "errors"

// Sentinel errors for the core operations. Adapters translate external
// failures into these at the boundary; callers branch with errors.Is instead
// of matching message text.
var (
	// ErrNotFound signals that a profile or shelter row does not exist
	// (or is not publicly visible).
	ErrNotFound = errors.New("not found")

	// ErrUploadFailed signals that writing the document to blob storage
	// failed. No profile mutation has been attempted.
	ErrUploadFailed = errors.New("document upload failed")

	// ErrPersistFailed signals that the profile write after a successful
	// blob write failed. The orphaned blob has been removed best-effort.
	ErrPersistFailed = errors.New("document path persist failed")

	// ErrEmptyUpdate signals a profile update with no fields set.
	ErrEmptyUpdate = errors.New("no fields to update")

	// ErrAddressNotFound signals that the geocoding service returned zero
	// matches for the address.
	ErrAddressNotFound = errors.New("address not found")

	// ErrGeocodingUnavailable signals a transport failure or non-success
	// status from the geocoding service.
	ErrGeocodingUnavailable = errors.New("geocoding service unavailable")
)
