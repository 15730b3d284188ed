package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSortField     = errors.New("invalid sort field")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	ErrInvalidFilterValue   = errors.New("invalid filter value")
	ErrInvalidRecord        = errors.New("invalid log record")
	ErrDuplicateRecord      = errors.New("duplicate log record")
	ErrInvalidInterval      = errors.New("invalid interval")
	ErrInvalidFormat        = errors.New("invalid export format")
	ErrInvalidExpression    = errors.New("invalid expression")
	ErrInvalidPreference    = errors.New("invalid preference")
	ErrFileNotFound         = errors.New("file not found")
	ErrConfigNotFound       = errors.New("config not found")
	ErrConfigInvalid        = errors.New("invalid configuration")
)

func NewSortFieldError(field string) error {
	return fmt.Errorf("%w: %q", ErrInvalidSortField, field)
}

func NewSortDirectionError(dir string) error {
	return fmt.Errorf("%w: %q", ErrInvalidSortDirection, dir)
}

func NewFilterValueError(field, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidFilterValue, field, value)
}

func NewRecordError(id string, reason string) error {
	return fmt.Errorf("%w: id=%s: %s", ErrInvalidRecord, id, reason)
}

func NewDuplicateError(id string) error {
	return fmt.Errorf("%w: id=%s", ErrDuplicateRecord, id)
}

func NewExpressionError(src string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidExpression, src, err)
}

func NewFileError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, reason)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}
