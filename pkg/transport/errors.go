package transport

import "fmt"

// Code is a negative transport result code. The values follow libusb.
type Code int

const (
	CodeIO           Code = -1
	CodeInvalidParam Code = -2
	CodeAccess       Code = -3
	CodeNoDevice     Code = -4
	CodeNotFound     Code = -5
	CodeBusy         Code = -6
	CodeTimeout      Code = -7
	CodeOverflow     Code = -8
	CodePipe         Code = -9
	CodeInterrupted  Code = -10
	CodeNoMem        Code = -11
	CodeNotSupported Code = -12
	CodeOther        Code = -99
)

var codeNames = map[Code]string{
	CodeIO:           "input/output error",
	CodeInvalidParam: "invalid parameter",
	CodeAccess:       "access denied",
	CodeNoDevice:     "no such device",
	CodeNotFound:     "entity not found",
	CodeBusy:         "resource busy",
	CodeTimeout:      "operation timed out",
	CodeOverflow:     "overflow",
	CodePipe:         "pipe error",
	CodeInterrupted:  "system call interrupted",
	CodeNoMem:        "insufficient memory",
	CodeNotSupported: "operation not supported",
	CodeOther:        "other error",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code %d", int(c))
}

// Error is a failed transport operation.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Code == e.Code
}

var (
	ErrTimeout  = &Error{Code: CodeTimeout}
	ErrPipe     = &Error{Code: CodePipe}
	ErrNoDevice = &Error{Code: CodeNoDevice}
	ErrBusy     = &Error{Code: CodeBusy}
)
