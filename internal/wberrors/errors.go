// Package wberrors provides the error taxonomy shared by the queue, actor,
// and router packages.
package wberrors

import (
	"errors"
	"fmt"
)

// Code identifies a taxonomy entry from spec section 7.
type Code string

const (
	CodeQueueFull           Code = "QUEUE_FULL"
	CodeQueueConnected      Code = "QUEUE_CONNECTED"
	CodeTTLExpired          Code = "TTL_EXPIRED"
	CodeInvalidData         Code = "INVALID_DATA"
	CodeInvalidEventFormat  Code = "INVALID_EVENT_FORMAT"
	CodeProtocolError       Code = "PROTOCOL_ERROR"
	CodeNoSuchComponent     Code = "NO_SUCH_COMPONENT"
	CodeInvalidComponent    Code = "INVALID_COMPONENT"
	CodeModuleInitFailure   Code = "MODULE_INIT_FAILURE"
	CodeProtocolInitFailure Code = "PROTOCOL_INIT_FAILURE"
	CodeBulkFull            Code = "BULK_FULL"
)

// Fault is a structured error carrying a taxonomy code, a human message, an
// optional wrapped cause, and free-form details for logging.
type Fault struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("[%s] %s", f.Code, f.Message)
}

func (f *Fault) Unwrap() error { return f.Err }

// WithDetail attaches a key/value pair and returns the receiver for chaining.
func (f *Fault) WithDetail(key string, value any) *Fault {
	if f.Details == nil {
		f.Details = make(map[string]any)
	}
	f.Details[key] = value
	return f
}

func newFault(code Code, message string) *Fault {
	return &Fault{Code: code, Message: message}
}

func wrapFault(code Code, message string, err error) *Fault {
	return &Fault{Code: code, Message: message, Err: err}
}

// Transient, per-event errors.

func QueueFull(queueName string) *Fault {
	return newFault(CodeQueueFull, "queue is full").WithDetail("queue", queueName)
}

func TTLExpired(eventUUID string) *Fault {
	return newFault(CodeTTLExpired, "event ttl expired").WithDetail("uuid", eventUUID)
}

func InvalidData(reason string) *Fault {
	return newFault(CodeInvalidData, reason)
}

func InvalidEventFormat(reason string) *Fault {
	return newFault(CodeInvalidEventFormat, reason)
}

func ProtocolError(op string, err error) *Fault {
	return wrapFault(CodeProtocolError, "protocol operation failed", err).WithDetail("operation", op)
}

func BulkFull(capacity int) *Fault {
	return newFault(CodeBulkFull, "bulk is full").WithDetail("capacity", capacity)
}

// Configuration/wiring-time, fatal errors.

func QueueConnected(module, queue string) *Fault {
	return newFault(CodeQueueConnected, "queue endpoint already connected").
		WithDetail("module", module).WithDetail("queue", queue)
}

func NoSuchComponent(qualifiedName string) *Fault {
	return newFault(CodeNoSuchComponent, "no such component").WithDetail("name", qualifiedName)
}

func InvalidComponent(qualifiedName, reason string) *Fault {
	return newFault(CodeInvalidComponent, reason).WithDetail("name", qualifiedName)
}

func ModuleInitFailure(module, reason string) *Fault {
	return newFault(CodeModuleInitFailure, reason).WithDetail("module", module)
}

func ProtocolInitFailure(protocol, reason string) *Fault {
	return newFault(CodeProtocolInitFailure, reason).WithDetail("protocol", protocol)
}

// IsCode reports whether err is a *Fault with the given code.
func IsCode(err error, code Code) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code == code
	}
	return false
}
