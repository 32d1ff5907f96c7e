package authcore

import (
	"io"

	"github.com/MrEthical07/authcore/internal/audit"
)

// AuditEvent is an exported constant or variable used by the authentication engine.
type AuditEvent = audit.Event

// AuditSink is an exported constant or variable used by the authentication engine.
type AuditSink = audit.Sink

// NoOpSink is an exported constant or variable used by the authentication engine.
type NoOpSink = audit.NoOpSink

// ChannelSink is an exported constant or variable used by the authentication engine.
type ChannelSink = audit.ChannelSink

// JSONWriterSink is an exported constant or variable used by the authentication engine.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink describes the newchannelsink operation and its observable behavior.
//
// NewChannelSink may return an error when input validation, dependency calls, or security checks fail.
// NewChannelSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
//
// NewJSONWriterSink may return an error when input validation, dependency calls, or security checks fail.
// NewJSONWriterSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
