package market

import "fmt"

// ErrorKind classifies a FetchError.
type ErrorKind int

const (
	// KindNetwork covers transport failures: DNS, refused connections, timeouts.
	KindNetwork ErrorKind = iota
	// KindUpstream covers non-2xx statuses and non-zero result codes.
	KindUpstream
	// KindMalformed covers bodies that could not be decoded.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUpstream:
		return "upstream"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// FetchError is returned by every Client call that fails. All kinds are safe to retry.
type FetchError struct {
	Kind   ErrorKind
	Op     string
	Status int // HTTP status, 0 if no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("market %s: %s error (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("market %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
