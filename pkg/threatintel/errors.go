package threatintel

import "errors"

var (
	// ErrNetwork covers unreachable hosts, timeouts and non-success statuses.
	ErrNetwork = errors.New("network error")
	// ErrArchive covers corrupt archives and unreadable members.
	ErrArchive = errors.New("archive error")
)
