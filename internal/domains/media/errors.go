package media

import "errors"

var (
	ErrNotFound     = errors.New("media not found")
	ErrTooManyFiles = errors.New("media item exceeds the auxiliary file limit")
	ErrImportTooBig = errors.New("import source exceeds the size limit")
	ErrImportFailed = errors.New("import source could not be fetched")
	ErrMissingID    = errors.New("media id is required")

	// ErrBadThumbnailKey rejects thumbnail keys the eligibility
	// predicate does not accept, typically a raw transcoder output.
	ErrBadThumbnailKey = errors.New("key is not thumbnail eligible")
)
