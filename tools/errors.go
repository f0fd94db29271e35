package tools

import "fmt"

// NotFoundError reports a call naming a tool that is not registered
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// ExecError wraps a failure raised while a tool was running
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Name, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// CoercionError reports an argument that could not be converted to its declared type.
// The original value is kept when this happens.
type CoercionError struct {
	Arg   string
	Type  Type
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("argument %q: cannot convert %T to %s: %v", e.Arg, e.Value, e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }
