package source

import (
	"context"
	"fmt"

	"github.com/nxadm/tail"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
)

// Tailer follows a JSON lines file and appends each record to a Store.
// Tailer 追踪 JSON lines 文件并将每条记录追加到 Store。
type Tailer struct {
	Path       string
	Position   string // start, end, offset
	Store      *eventlog.Store
	Checkpoint *CheckpointManager
	// OnAppend is called after each record is stored.
	OnAppend func(eventlog.LogRecord)
	// Poll disables inotify; used where file events are unreliable.
	Poll bool

	decoder Decoder
}

// Run blocks until ctx is cancelled or the file cannot be opened.
// Bad lines are logged and skipped.
func (t *Tailer) Run(ctx context.Context) error {
	log := logger.Get(ctx)
	if t.Checkpoint == nil {
		t.Checkpoint = NewCheckpointManager("")
	}

	tf, err := tail.TailFile(t.Path, tail.Config{
		Location:  t.Checkpoint.SeekInfo(t.Path, t.Position),
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      t.Poll,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail %s: %w", t.Path, err)
	}
	defer tf.Cleanup()

	log.Infof("[TAIL] Following %s (position: %s)", t.Path, t.Position)
	for {
		select {
		case <-ctx.Done():
			_ = tf.Stop()
			return nil
		case line, ok := <-tf.Lines:
			if !ok {
				return tf.Err()
			}
			if line.Err != nil {
				log.Warnf("[TAIL] Error reading %s: %v", t.Path, line.Err)
				continue
			}
			t.handle(ctx, line.Text)
			if pos, err := tf.Tell(); err == nil {
				t.Checkpoint.UpdateOffset(t.Path, pos)
			}
		}
	}
}

func (t *Tailer) handle(ctx context.Context, text string) {
	if text == "" {
		return
	}
	records, err := t.decoder.Decode([]byte(text))
	if err != nil {
		logger.Get(ctx).Warnf("[TAIL] Skipping bad line in %s: %v", t.Path, err)
		return
	}
	if err := t.Store.Append(records...); err != nil {
		logger.Get(ctx).Warnf("[TAIL] Rejected record from %s: %v", t.Path, err)
		return
	}
	if t.OnAppend != nil {
		for _, r := range records {
			t.OnAppend(r)
		}
	}
}
