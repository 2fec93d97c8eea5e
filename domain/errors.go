package domain

import "errors"

var (
	// ErrNetwork indicates the request never produced a usable response:
	// the host was unreachable, the transport failed, or the server
	// answered with a non-2xx status.
	ErrNetwork = errors.New("network error")

	// ErrDecode indicates a response body that is malformed or does not
	// match the expected post shape.
	ErrDecode = errors.New("decode error")

	// ErrInvalidPost indicates a post that cannot be sent, e.g. one
	// without a server-assigned identifier.
	ErrInvalidPost = errors.New("invalid post")
)
