package core

import (
	"errors"
	"log"
)

// Sentinel errors for the failure kinds named by the editor's error model.
var (
	ErrOutOfBounds       = errors.New("out of bounds")
	ErrBadPattern        = errors.New("bad search pattern")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrNoChangesToSave   = errors.New("no changes to save")
	ErrNothingToUndo     = errors.New("already at oldest change")
	ErrNothingToRedo     = errors.New("already at newest change")
	ErrEmptyRegister     = errors.New("register is empty")
	ErrInvalidMode       = errors.New("invalid mode")
	ErrNoPendingOperator = errors.New("no pending operator")
)

// ErrorId tags a failure with a stable identity so observers can react to a
// kind of error without string-matching the message.
type ErrorId int

const (
	ErrOutOfBoundsId ErrorId = iota
	ErrBadPatternId
	ErrUnknownCommandId
	ErrNoChangesToSaveId
	ErrNothingToUndoId
	ErrNothingToRedoId
	ErrEmptyRegisterId
	ErrInvalidModeId
	ErrNoPendingOperatorId
	ErrIoId
	ErrProgrammingId
)

// Error wraps a failure with its ErrorId so HandleKey callers and signal
// observers can distinguish recoverable editing errors (OutOfBounds,
// BadPattern, UnknownCommand) from the rest without inspecting err.Error().
type Error struct {
	Id  ErrorId
	Err error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(id ErrorId, err error) *Error {
	return &Error{Id: id, Err: err}
}

// debugAssertions gates whether a broken invariant panics (debug builds,
// when set to true) or merely logs (release, the default), per the spec's Programming
// error recovery rule.
var debugAssertions = false

func assertInvariant(cond bool, msg string) {
	if cond {
		return
	}
	if debugAssertions {
		panic("tabedit: broken invariant: " + msg)
	}
	log.Println("tabedit: broken invariant:", msg)
}
