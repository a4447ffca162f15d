package models

import (
	"errors"
	"fmt"
)

// TransientError — сбой I/O внешнего источника (маркет-дата, движок, телеграм).
// Ретраится по политике стадии, тик не валит дальше своей стадии.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

func Transient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// SkipError — один элемент батча отброшен (кривой снапшот, мусорный ответ
// движка). Не ошибка батча.
type SkipError struct {
	Symbol string
	Reason string
}

func (e *SkipError) Error() string { return fmt.Sprintf("skip %s: %s", e.Symbol, e.Reason) }

func Skip(symbol, reason string) *SkipError {
	return &SkipError{Symbol: symbol, Reason: reason}
}

func IsSkip(err error) bool {
	var se *SkipError
	return errors.As(err, &se)
}

// InvariantViolation — попытка нарушить инвариант стора (вторая открытая
// позиция по символу, закрытие ниже порога тейка без причины). Фатально для
// операции, стор не трогается.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return e.Msg }

func Invariant(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}

func IsInvariant(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
