package helpers

import (
	"strings"

	"github.com/ztrue/tracerr"
)

type Error struct {
	errs []tracerr.Error
}

func (e Error) IsNil() bool {
	return IsNil(e)
}

func (e Error) HasError() bool {
	return !IsNil(e)
}

type ErrorRef struct {
	// only hold a single value so the internal accumulated value isn't copied
	// when ErrorRef is passed by value
	reference []Error
}

func (errRef *ErrorRef) NumErrors() int {
	if errRef.IsNil() {
		return 0
	}
	return errRef.reference[0].NumErrors()
}

func (e *ErrorRef) Add(err Error) {
	if e.reference == nil {
		e.reference = []Error{err}
	} else {
		e.reference[0] = Join(e.reference[0], err)
	}
}

func (e *ErrorRef) IsNil() bool {
	return e.reference == nil || IsNil(e.reference[0])
}

func (e *ErrorRef) HasError() bool {
	return !e.IsNil()
}

func (e *ErrorRef) Error() Error {
	if e.reference == nil {
		return NilError
	} else {
		return e.reference[0]
	}
}

var NilError = Error{nil}

func IsNil(err error) bool {
	if traceableErr, ok := err.(Error); ok {
		return traceableErr.First() == nil
	}
	if traceableErr, ok := err.(*Error); ok {
		return traceableErr == nil || traceableErr.First() == nil
	}
	return err == nil
}

func (e Error) Error() string {
	result := []string{}
	for _, err := range e.errs {
		if err == nil {
			continue
		}
		result = append(result, Indent(tracerr.Sprint(err), ".  "))
	}
	return strings.Join(result, "\n")
}

// Message is the error text without stack traces.
func (e Error) Message() string {
	result := []string{}
	for _, err := range e.errs {
		if err == nil {
			continue
		}
		result = append(result, err.Error())
	}
	return strings.Join(result, "; ")
}

func (e Error) String() string {
	result := ""
	for _, err := range e.errs {
		if err == nil {
			continue
		}
		result += "-------------------------------------------------------------------------------\n"
		result += tracerr.SprintSourceColor(err, 3) + "\n"
	}
	return result
}

// Unwrap exposes the original errors so errors.Is and errors.As see through
// the stack traces.
func (e Error) Unwrap() []error {
	result := []error{}
	for _, err := range e.errs {
		if err != nil {
			result = append(result, tracerr.Unwrap(err))
		}
	}
	return result
}

func (e Error) First() tracerr.Error {
	if e.errs == nil {
		return nil
	} else {
		return e.errs[0]
	}
}

func Wrap(err error) Error {
	if err == nil {
		return NilError
	}
	if traceableErr, ok := err.(Error); ok {
		return traceableErr
	}
	return Error{[]tracerr.Error{tracerr.Wrap(err)}}
}

func WrapReturn[T any](x T, err error) (T, Error) {
	return x, Wrap(err)
}

func Join(others ...Error) Error {
	others = FilterSlice(others, func(err Error) bool {
		return !IsNil(err)
	})
	if len(others) == 0 {
		return NilError
	}
	if len(others) == 1 {
		return others[0]
	}

	result := Error{}
	for _, o := range others {
		result.errs = append(result.errs, o.errs...)
	}
	return result
}

func (err Error) NumErrors() int {
	if IsNil(err) {
		return 0
	}

	num := 0
	for _, e := range err.errs {
		if e != nil {
			num++
		}
	}
	return num
}

func Errorf(format string, args ...interface{}) Error {
	return Error{[]tracerr.Error{tracerr.Errorf(format, args...)}}
}
