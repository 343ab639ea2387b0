package unifi

import "fmt"

// AuthError indicates the controller rejected the login credentials.
// This is an operational or configuration problem, not a user error.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("controller login failed: %s", e.Msg)
}

// CommandError indicates an authorize/unauthorize command was rejected
// by the controller. May be transient.
type CommandError struct {
	Cmd string
	Msg string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("controller command %s failed: %s", e.Cmd, e.Msg)
}

// UnreachableError indicates a transport failure or timeout talking to
// the controller.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("controller unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
