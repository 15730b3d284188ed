package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/eventlog"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

const sampleLines = `{"id":"log-1","timestamp":"2024-06-01T10:00:00Z","event":"Camera access request","severity":"critical","source":"extension-123","details":"d1","status":"blocked"}

{"id":"log-2","timestamp":1717236000000,"event":"Clipboard read attempt","severity":"LOW","source":"api-789","details":"d2","status":"allowed"}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestMockSource_Deterministic(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC) }
	a, err := (&MockSource{Count: 50, Seed: 42, Now: now}).Load(context.Background())
	require.NoError(t, err)
	b, err := (&MockSource{Count: 50, Seed: 42, Now: now}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	require.Len(t, a, 50)
	for i, r := range a {
		require.NoError(t, r.Validate())
		assert.True(t, strings.HasPrefix(r.ID, "log-"))
		assert.False(t, r.Timestamp.After(now()), "record %d in the future", i)
		assert.True(t, r.Timestamp.After(now().Add(-mockWindow)), "record %d too old", i)
		assert.Contains(t, mockSources, r.Source)
		assert.Contains(t, mockEvents, r.Event)
	}
	assert.Equal(t, "log-50", a[49].ID)

	// Records load cleanly into a store (unique ids)
	_, err = eventlog.NewStore(a...)
	require.NoError(t, err)
}

func TestMockSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&MockSource{Count: 10, Seed: 1}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestFileSource_JSONLines tests loading JSON lines with mixed timestamp formats
// TestFileSource_JSONLines 测试加载混合时间戳格式的 JSON lines
func TestFileSource_JSONLines(t *testing.T) {
	path := writeFile(t, "events.jsonl", sampleLines)

	records, err := (&FileSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, eventlog.SeverityCritical, records[0].Severity)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, eventlog.SeverityLow, records[1].Severity)
	assert.Equal(t, time.UnixMilli(1717236000000).UTC(), records[1].Timestamp)
}

func TestFileSource_Array(t *testing.T) {
	content := `  [{"id":"a","timestamp":"2024-06-01T10:00:00Z","event":"e","severity":"high","source":"s","details":"d","status":"active"}]`
	records, err := (&FileSource{Path: writeFile(t, "events.json", content)}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestFileSource_Zstd(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(sampleLines))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	path := filepath.Join(t.TempDir(), "events.jsonl.zst")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	records, err := (&FileSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "missing.jsonl")}).Load(context.Background())
	assert.ErrorIs(t, err, cgerrors.ErrFileNotFound)

	bad := `{"id":"x","timestamp":"2024-06-01T10:00:00Z","event":"e","severity":"urgent","source":"s","details":"d","status":"active"}`
	_, err = (&FileSource{Path: writeFile(t, "bad.jsonl", sampleLines+bad)}).Load(context.Background())
	assert.ErrorIs(t, err, cgerrors.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "line 4")

	_, err = (&FileSource{Path: writeFile(t, "garbage.jsonl", "{not json")}).Load(context.Background())
	assert.ErrorIs(t, err, cgerrors.ErrInvalidRecord)

	noTS := `{"id":"x","event":"e","severity":"low","source":"s","details":"d","status":"active"}`
	_, err = (&FileSource{Path: writeFile(t, "nots.jsonl", noTS)}).Load(context.Background())
	assert.ErrorIs(t, err, cgerrors.ErrInvalidRecord)

	records, err := (&FileSource{Path: writeFile(t, "empty.jsonl", "\n  \n")}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNew(t *testing.T) {
	src, err := New(config.SourceConfig{Type: config.SourceMock, Count: 3, Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, "mock", src.Name())

	store, err := LoadStore(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	src, err = New(config.SourceConfig{Type: config.SourceFile, Path: "/tmp/x.jsonl"})
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/x.jsonl", src.Name())

	_, err = New(config.SourceConfig{Type: config.SourceFile})
	assert.ErrorIs(t, err, cgerrors.ErrConfigInvalid)
	_, err = New(config.SourceConfig{Type: "kafka"})
	assert.ErrorIs(t, err, cgerrors.ErrConfigInvalid)
}
