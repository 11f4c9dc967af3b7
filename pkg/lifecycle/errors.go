package lifecycle

// Code is a stable error classification carried by every error returned
// from this package. Callers that need more than errors.Is can switch on it.
type Code int

const (
	// CodeInvalidArgument covers rejected inputs: a non-positive epoch, or a
	// transition not permitted from the current state. The latter also covers
	// losing a race to a concurrent transition; callers cannot distinguish
	// the two without re-reading the current state.
	CodeInvalidArgument Code = iota + 1

	// CodeFault covers environment failures, such as the time source
	// returning an unusable reading.
	CodeFault
)

// Error is the error type returned by fallible operations in this package.
// The exported sentinels below are the only values ever returned; they can
// be checked with errors.Is.
type Error struct {
	code Code
	msg  string
}

// Error implements the error interface.
func (e *Error) Error() string { return "lifecycle: " + e.msg }

// Code returns the stable classification of the error.
func (e *Error) Code() Code { return e.code }

var (
	// ErrInvalidEpoch is returned when a transition is requested with a
	// non-positive epoch.
	ErrInvalidEpoch = &Error{code: CodeInvalidArgument, msg: "epoch must be positive"}

	// ErrInvalidTransition is returned when the requested target is not
	// reachable from the current state. This includes the benign case where
	// a concurrent transition has already advanced the machine past the
	// caller's target.
	ErrInvalidTransition = &Error{code: CodeInvalidArgument, msg: "transition not permitted from current state"}

	// ErrFault is returned when the time source yields a non-positive epoch.
	ErrFault = &Error{code: CodeFault, msg: "time source failed"}
)
