package bookbridge

import "github.com/hupe1980/bookbridge/assets"

// Asset error kinds, re-exported so callers can classify failures with
// errors.Is without importing the assets package.
var (
	// ErrAssetNotFound means a required remote object or prefix has no
	// backing data; retrying without operator intervention will not help.
	ErrAssetNotFound = assets.ErrNotFound

	// ErrTransferFailed means a network or I/O failure occurred while
	// checking or downloading an artifact; the caller may retry.
	ErrTransferFailed = assets.ErrTransferFailed

	// ErrMalformedArtifact means a local artifact exists but failed to
	// parse; a forced refresh is required before retrying.
	ErrMalformedArtifact = assets.ErrMalformed
)
