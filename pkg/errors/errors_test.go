package errors

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	sentinelErrors := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrInvalidSortField", ErrInvalidSortField, "invalid sort field"},
		{"ErrInvalidSortDirection", ErrInvalidSortDirection, "invalid sort direction"},
		{"ErrInvalidFilterValue", ErrInvalidFilterValue, "invalid filter value"},
		{"ErrInvalidRecord", ErrInvalidRecord, "invalid log record"},
		{"ErrDuplicateRecord", ErrDuplicateRecord, "duplicate log record"},
		{"ErrInvalidInterval", ErrInvalidInterval, "invalid interval"},
		{"ErrInvalidFormat", ErrInvalidFormat, "invalid export format"},
		{"ErrInvalidExpression", ErrInvalidExpression, "invalid expression"},
		{"ErrInvalidPreference", ErrInvalidPreference, "invalid preference"},
		{"ErrFileNotFound", ErrFileNotFound, "file not found"},
		{"ErrConfigNotFound", ErrConfigNotFound, "config not found"},
		{"ErrConfigInvalid", ErrConfigInvalid, "invalid configuration"},
	}

	for _, tc := range sentinelErrors {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err == nil {
				t.Errorf("%s is nil", tc.name)
				return
			}
			if tc.err.Error() != tc.msg {
				t.Errorf("%s: got %q, want %q", tc.name, tc.err.Error(), tc.msg)
			}
		})
	}
}

func TestNewSortFieldError(t *testing.T) {
	err := NewSortFieldError("nonexistent")
	if !errors.Is(err, ErrInvalidSortField) {
		t.Errorf("NewSortFieldError should wrap ErrInvalidSortField")
	}
	want := `invalid sort field: "nonexistent"`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestNewFilterValueError(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"severity", "severity", "urgent", `invalid filter value: severity="urgent"`},
		{"status", "status", "quarantined", `invalid filter value: status="quarantined"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewFilterValueError(tc.field, tc.value)
			if !errors.Is(err, ErrInvalidFilterValue) {
				t.Errorf("error should wrap ErrInvalidFilterValue")
			}
			if err.Error() != tc.want {
				t.Errorf("got %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestWrappedConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"direction", NewSortDirectionError("up"), ErrInvalidSortDirection},
		{"record", NewRecordError("log-1", "missing timestamp"), ErrInvalidRecord},
		{"duplicate", NewDuplicateError("log-1"), ErrDuplicateRecord},
		{"expression", NewExpressionError("Severity ==", cause), ErrInvalidExpression},
		{"file", NewFileError("/tmp/x", cause), ErrFileNotFound},
		{"config", NewConfigError("web.port", -1), ErrConfigInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Errorf("%v should wrap %v", tc.err, tc.sentinel)
			}
		})
	}
}
