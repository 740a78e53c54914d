package docs

import "errors"

var (
	// ErrNotFound: the backend does not know the document id. Not retried.
	ErrNotFound = errors.New("document not found")
	// ErrStructureNotFound: structure a prior successful edit must have
	// produced is missing from a fresh snapshot. Fatal for the request;
	// usually a concurrent edit by another actor.
	ErrStructureNotFound = errors.New("expected document structure not found")
	// ErrValidation: the request or a built operation is malformed. Not retried.
	ErrValidation = errors.New("invalid request")
	// ErrTransient: network or backend hiccup. The caller may retry the
	// whole logical operation from the start.
	ErrTransient = errors.New("backend temporarily unavailable")
	// ErrAuth: no usable credential. Fatal until credentials are refreshed.
	ErrAuth = errors.New("authorization required")
)
