package eventlog

import (
	"slices"
	"strings"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Field names a sortable LogRecord attribute.
type Field string

const (
	FieldID        Field = "id"
	FieldTimestamp Field = "timestamp"
	FieldEvent     Field = "event"
	FieldSeverity  Field = "severity"
	FieldSource    Field = "source"
	FieldDetails   Field = "details"
	FieldStatus    Field = "status"
)

// Fields lists every sortable field.
var Fields = []Field{FieldID, FieldTimestamp, FieldEvent, FieldSeverity, FieldSource, FieldDetails, FieldStatus}

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec is a field plus a direction.
type SortSpec struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort shows the newest events first.
var DefaultSort = SortSpec{Field: FieldTimestamp, Direction: Descending}

// ParseSortSpec parses user-supplied field and direction names.
// An empty direction defaults to descending.
func ParseSortSpec(field, dir string) (SortSpec, error) {
	spec := SortSpec{
		Field:     Field(strings.ToLower(strings.TrimSpace(field))),
		Direction: Direction(strings.ToLower(strings.TrimSpace(dir))),
	}
	if spec.Field == "" {
		spec.Field = DefaultSort.Field
	}
	if spec.Direction == "" {
		spec.Direction = Descending
	}
	return spec, spec.Validate()
}

// Validate rejects unknown fields and directions.
func (s SortSpec) Validate() error {
	if compareFunc(s.Field) == nil {
		return cgerrors.NewSortFieldError(string(s.Field))
	}
	if s.Direction != Ascending && s.Direction != Descending {
		return cgerrors.NewSortDirectionError(string(s.Direction))
	}
	return nil
}

// Toggle returns the spec after a click on field's column header:
// the same field flips direction, a new field starts descending.
func (s SortSpec) Toggle(field Field) SortSpec {
	if s.Field == field {
		return SortSpec{Field: field, Direction: s.Direction.Opposite()}
	}
	return SortSpec{Field: field, Direction: Descending}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

func compareFunc(f Field) func(a, b *LogRecord) int {
	switch f {
	case FieldID:
		return func(a, b *LogRecord) int { return strings.Compare(a.ID, b.ID) }
	case FieldTimestamp:
		return func(a, b *LogRecord) int { return a.Timestamp.Compare(b.Timestamp) }
	case FieldEvent:
		return func(a, b *LogRecord) int { return strings.Compare(a.Event, b.Event) }
	case FieldSeverity:
		return func(a, b *LogRecord) int { return a.Severity.Rank() - b.Severity.Rank() }
	case FieldSource:
		return func(a, b *LogRecord) int { return strings.Compare(a.Source, b.Source) }
	case FieldDetails:
		return func(a, b *LogRecord) int { return strings.Compare(a.Details, b.Details) }
	case FieldStatus:
		return func(a, b *LogRecord) int { return strings.Compare(string(a.Status), string(b.Status)) }
	}
	return nil
}

// Sort returns a new slice ordered by spec. Ties keep their input order in
// both directions.
func Sort(records []LogRecord, spec SortSpec) ([]LogRecord, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	cmp := compareFunc(spec.Field)
	sign := 1
	if spec.Direction == Descending {
		sign = -1
	}

	out := slices.Clone(records)
	if out == nil {
		out = []LogRecord{}
	}
	slices.SortStableFunc(out, func(a, b LogRecord) int {
		return sign * cmp(&a, &b)
	})
	return out, nil
}
