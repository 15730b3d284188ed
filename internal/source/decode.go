package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

const maxLineSize = 1 << 20

// Decoder turns JSON documents into validated records. It is safe for
// concurrent use.
type Decoder struct {
	parsers fastjson.ParserPool
}

// Decode parses a single JSON object, or an array of objects.
func (d *Decoder) Decode(data []byte) ([]eventlog.LogRecord, error) {
	p := d.parsers.Get()
	defer d.parsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cgerrors.ErrInvalidRecord, err)
	}

	if v.Type() != fastjson.TypeArray {
		r, err := recordFromValue(v)
		if err != nil {
			return nil, err
		}
		return []eventlog.LogRecord{r}, nil
	}

	items, _ := v.Array()
	out := make([]eventlog.LogRecord, 0, len(items))
	for i, item := range items {
		r, err := recordFromValue(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// DecodeLines reads JSON lines. Blank lines are skipped; the first bad line
// aborts with its line number.
func (d *Decoder) DecodeLines(r io.Reader) ([]eventlog.LogRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	var out []eventlog.LogRecord
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		recs, err := d.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, recs...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func recordFromValue(v *fastjson.Value) (eventlog.LogRecord, error) {
	if v.Type() != fastjson.TypeObject {
		return eventlog.LogRecord{}, fmt.Errorf("%w: expected object, got %s", cgerrors.ErrInvalidRecord, v.Type())
	}

	r := eventlog.LogRecord{
		ID:       string(v.GetStringBytes("id")),
		Event:    string(v.GetStringBytes("event")),
		Severity: eventlog.Severity(strings.ToLower(string(v.GetStringBytes("severity")))),
		Source:   string(v.GetStringBytes("source")),
		Details:  string(v.GetStringBytes("details")),
		Status:   eventlog.Status(strings.ToLower(string(v.GetStringBytes("status")))),
	}

	ts, err := parseTimestamp(v.Get("timestamp"))
	if err != nil {
		return eventlog.LogRecord{}, cgerrors.NewRecordError(r.ID, err.Error())
	}
	r.Timestamp = ts

	if err := r.Validate(); err != nil {
		return eventlog.LogRecord{}, err
	}
	return r, nil
}

// parseTimestamp accepts RFC 3339 strings or epoch milliseconds.
func parseTimestamp(v *fastjson.Value) (time.Time, error) {
	if v == nil {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	switch v.Type() {
	case fastjson.TypeString:
		s, _ := v.StringBytes()
		t, err := time.Parse(time.RFC3339Nano, string(s))
		if err != nil {
			return time.Time{}, fmt.Errorf("bad timestamp %q", s)
		}
		return t.UTC(), nil
	case fastjson.TypeNumber:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("bad timestamp %s", v)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad timestamp type %s", v.Type())
}
