package internal

import "errors"

var (
	ErrNotFound     = errors.New("patient not found")
	ErrDuplicateID  = errors.New("patient id already exists")
	ErrInvalidInput = errors.New("invalid input")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
