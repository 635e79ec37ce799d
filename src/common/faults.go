package common

import "fmt"

// FaultType classifies the problems a node can run into while processing
// records.
type FaultType uint32

const (
	// DecodeFault is a malformed or unrecognised inbound record.
	DecodeFault FaultType = iota
	// SequenceFault is a well-formed message that arrived at the wrong time,
	// like a workload message before init, or a second init.
	SequenceFault
	// TransportFault is a failure to write to the output stream. It is the
	// only fatal kind.
	TransportFault
	// LogicFault is a payload that the active workload has no handler for.
	LogicFault
)

// String ...
func (t FaultType) String() string {
	switch t {
	case DecodeFault:
		return "Decode"
	case SequenceFault:
		return "Sequence"
	case TransportFault:
		return "Transport"
	case LogicFault:
		return "Logic"
	default:
		return "Unknown"
	}
}

// Fault is the error type returned by the codec, the dispatcher and the
// transport. It wraps an optional cause.
type Fault struct {
	faultType FaultType
	msg       string
	cause     error
}

// NewFault creates a Fault with a formatted message.
func NewFault(t FaultType, format string, args ...interface{}) Fault {
	return Fault{
		faultType: t,
		msg:       fmt.Sprintf(format, args...),
	}
}

// WrapFault creates a Fault wrapping err.
func WrapFault(t FaultType, err error, format string, args ...interface{}) Fault {
	f := NewFault(t, format, args...)
	f.cause = err
	return f
}

// Type returns the FaultType
func (f Fault) Type() FaultType {
	return f.faultType
}

// Error implements the error interface.
func (f Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s fault: %s: %v", f.faultType, f.msg, f.cause)
	}
	return fmt.Sprintf("%s fault: %s", f.faultType, f.msg)
}

// Unwrap returns the wrapped cause, if any.
func (f Fault) Unwrap() error {
	return f.cause
}

// IsFault checks that an error is a Fault and that its type matches t.
func IsFault(err error, t FaultType) bool {
	fault, ok := err.(Fault)
	return ok && fault.faultType == t
}
