package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/eventlog"
)

func line(id string) string {
	return fmt.Sprintf(`{"id":"%s","timestamp":"2024-06-01T10:00:00Z","event":"Cookie manipulation detected","severity":"medium","source":"webapp-456","details":"x","status":"active"}`+"\n", id)
}

// TestTailer_AppendsRecords tests following a file from the start
// TestTailer_AppendsRecords 测试从头追踪文件
func TestTailer_AppendsRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(line("t-1")+"not json\n"), 0600))

	store, err := eventlog.NewStore()
	require.NoError(t, err)
	cp := NewCheckpointManager(filepath.Join(dir, "offsets.json"))

	var appended atomic.Int64
	tl := &Tailer{
		Path:       path,
		Position:   config.TailStart,
		Store:      store,
		Checkpoint: cp,
		Poll:       true,
		OnAppend:   func(eventlog.LogRecord) { appended.Add(1) },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tl.Run(ctx) }()

	require.Eventually(t, func() bool { return store.Len() == 1 }, 5*time.Second, 20*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString(line("t-2") + line("t-1"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool { return store.Len() == 2 }, 5*time.Second, 20*time.Millisecond)
	// duplicate t-1 is rejected, so the count settles at 2
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, int64(2), appended.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tailer did not stop")
	}

	off, ok := cp.Offset(path)
	assert.True(t, ok)
	assert.Greater(t, off, int64(0))
}

func TestCheckpointManager(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "events.jsonl")
	require.NoError(t, os.WriteFile(logPath, []byte(line("a")), 0600))
	size := int64(len(line("a")))

	cpFile := filepath.Join(dir, "state", "offsets.json")
	cm := NewCheckpointManager(cpFile)
	require.NoError(t, cm.Load())

	// No saved offset: offset mode starts at the end
	assert.Equal(t, 2, cm.SeekInfo(logPath, config.TailOffset).Whence)
	assert.Equal(t, 0, cm.SeekInfo(logPath, config.TailStart).Whence)
	assert.Equal(t, 2, cm.SeekInfo(logPath, config.TailEnd).Whence)

	cm.UpdateOffset(logPath, size)
	require.NoError(t, cm.Save())

	reloaded := NewCheckpointManager(cpFile)
	require.NoError(t, reloaded.Load())
	info := reloaded.SeekInfo(logPath, config.TailOffset)
	assert.Equal(t, size, info.Offset)
	assert.Equal(t, 0, info.Whence)

	// Rotation: saved offset beyond the file size restarts at 0
	reloaded.UpdateOffset(logPath, size*10)
	info = reloaded.SeekInfo(logPath, config.TailOffset)
	assert.Equal(t, int64(0), info.Offset)
	assert.Equal(t, 0, info.Whence)
}

func TestCheckpointManager_RunSavesOnCancel(t *testing.T) {
	cpFile := filepath.Join(t.TempDir(), "offsets.json")
	cm := NewCheckpointManager(cpFile)
	cm.UpdateOffset("/var/log/x", 42)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cm.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	again := NewCheckpointManager(cpFile)
	require.NoError(t, again.Load())
	off, ok := again.Offset("/var/log/x")
	assert.True(t, ok)
	assert.Equal(t, int64(42), off)
}
