package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nxadm/tail"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/utils/fileutil"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
)

// CheckpointManager handles persistence of tail offsets.
// CheckpointManager 负责持久化文件读取偏移量。
type CheckpointManager struct {
	mu      sync.Mutex
	offsets map[string]int64
	file    string
}

// NewCheckpointManager creates a manager backed by file. An empty file keeps
// offsets in memory only.
func NewCheckpointManager(file string) *CheckpointManager {
	return &CheckpointManager{
		offsets: make(map[string]int64),
		file:    file,
	}
}

// Load reads offsets from disk. A missing file is not an error.
func (cm *CheckpointManager) Load() error {
	if cm.file == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Clean(cm.file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	return json.Unmarshal(data, &cm.offsets)
}

// Save writes offsets to disk.
func (cm *CheckpointManager) Save() error {
	if cm.file == "" {
		return nil
	}
	cm.mu.Lock()
	data, err := json.MarshalIndent(cm.offsets, "", "  ")
	cm.mu.Unlock()
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(cm.file, data, 0644)
}

// Run saves offsets every interval until ctx is cancelled, then saves once more.
func (cm *CheckpointManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := cm.Save(); err != nil {
				logger.Get(ctx).Warnf("[WARN]  Failed to save tail checkpoints: %v", err)
			}
			return
		case <-ticker.C:
			if err := cm.Save(); err != nil {
				logger.Get(ctx).Warnf("[WARN]  Failed to save tail checkpoints: %v", err)
			}
		}
	}
}

// UpdateOffset records the read position for a file.
func (cm *CheckpointManager) UpdateOffset(file string, offset int64) {
	cm.mu.Lock()
	cm.offsets[file] = offset
	cm.mu.Unlock()
}

// Offset returns the saved position for a file.
func (cm *CheckpointManager) Offset(file string) (int64, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	off, ok := cm.offsets[file]
	return off, ok
}

// SeekInfo returns where tailing should begin for position start, end or offset.
// A saved offset beyond the current file size means the file was rotated, so
// reading restarts from the beginning.
func (cm *CheckpointManager) SeekInfo(file, position string) *tail.SeekInfo {
	switch position {
	case config.TailStart:
		return &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	case config.TailOffset:
		saved, ok := cm.Offset(file)
		if !ok {
			return &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
		}
		info, err := os.Stat(file)
		if err != nil || info.Size() < saved {
			return &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
		}
		return &tail.SeekInfo{Offset: saved, Whence: io.SeekStart}
	default:
		return &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
}
