package fieldmap

import (
	"fmt"
	"reflect"
)

type (
	//ParseError represents unsupported accessor expression
	ParseError struct {
		Expr    string
		Message string
	}

	//StateError represents an operation invoked on a binding in a wrong state
	StateError struct {
		Message string
	}

	//TypeMismatchError represents a target path requiring an implicit conversion
	TypeMismatchError struct {
		Expr     string
		Expected reflect.Type
		Actual   reflect.Type
		Message  string
	}

	//ConfigError represents definition misconfiguration
	ConfigError struct {
		Message string
	}

	//ApplyError represents a failure while applying a field mapping
	ApplyError struct {
		Field string
		Err   error
	}
)

func (e *ParseError) Error() string {
	if e.Expr == "" {
		return "parse error: " + e.Message
	}
	return fmt.Sprintf("parse error: %v: %s", e.Expr, e.Message)
}

func (e *StateError) Error() string {
	return "state error: " + e.Message
}

func (e *TypeMismatchError) Error() string {
	if e.Expected != nil && e.Actual != nil {
		return fmt.Sprintf("type mismatch: %v: expected %v, but had %v: %s", e.Expr, e.Expected, e.Actual, e.Message)
	}
	return fmt.Sprintf("type mismatch: %v: %s", e.Expr, e.Message)
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Message
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply %v: %v", e.Field, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

func parseErrorf(expr string, format string, args ...interface{}) error {
	return &ParseError{Expr: expr, Message: fmt.Sprintf(format, args...)}
}
