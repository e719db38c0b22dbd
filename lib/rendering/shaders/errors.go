package shaders

import "fmt"

// CompileError carries the driver's compiler log verbatim.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the driver's linker log verbatim.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// IOError is returned when shader source could not be read from disk.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("could not read shader source %s: %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// StatusQueryError means the driver did not answer a compile or link
// status query, so the outcome of the operation is unknown.
type StatusQueryError struct {
	Object string
	ID     uint32
	Code   uint32
}

func (e *StatusQueryError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("status query for %s %d failed with GL error 0x%04x", e.Object, e.ID, e.Code)
	}
	return fmt.Sprintf("status query for %s %d returned no value", e.Object, e.ID)
}

// DriverError is a GL error raised by the compile or link call itself.
type DriverError struct {
	Op     string
	Object string
	ID     uint32
	Code   uint32
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s of %s %d failed with GL error 0x%04x", e.Op, e.Object, e.ID, e.Code)
}
