package insight

import "fmt"

// BackendErrorKind distinguishes the ways a generation call can fail
type BackendErrorKind int

const (
	// BackendTransport covers network errors, timeouts and 5xx responses
	BackendTransport BackendErrorKind = iota
	// BackendRefused means the service declined to generate
	BackendRefused
	// BackendMalformed means the service answered but the envelope was unreadable
	BackendMalformed
)

func (k BackendErrorKind) String() string {
	switch k {
	case BackendTransport:
		return "transport"
	case BackendRefused:
		return "refused"
	case BackendMalformed:
		return "malformed"
	}
	return "unknown"
}

// BackendError is the typed failure returned by Backend implementations
type BackendError struct {
	Kind   BackendErrorKind
	Reason string
	Err    error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("backend %s: %s", e.Kind, e.Reason)
}

func (e *BackendError) Unwrap() error { return e.Err }

// DecodeError marks a generation whose output could not be decoded into
// the type's payload schema. Nothing is persisted for such a run.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s payload: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PersistError marks a store write failure after a successful generation.
// The generated result is lost, so hosts should log these prominently.
type PersistError struct {
	Type string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting %s record: %v", e.Type, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
