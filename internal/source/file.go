package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// FileSource reads a JSON array or JSON lines file. A .zst suffix is
// decompressed on the fly.
type FileSource struct {
	Path    string
	decoder Decoder
}

func (f *FileSource) Name() string { return "file:" + f.Path }

// Load reads and validates every record in the file.
func (f *FileSource) Load(ctx context.Context) ([]eventlog.LogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(filepath.Clean(f.Path))
	if err != nil {
		return nil, cgerrors.NewFileError(f.Path, err)
	}
	defer fh.Close()

	var r io.Reader = fh
	if strings.HasSuffix(f.Path, ".zst") {
		zr, err := zstd.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream %s: %w", f.Path, err)
		}
		defer zr.Close()
		r = zr
	}

	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return []eventlog.LogRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []eventlog.LogRecord
	if first == '[' {
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, err
		}
		records, err = f.decoder.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
	} else {
		records, err = f.decoder.DecodeLines(br)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
	}
	if records == nil {
		records = []eventlog.LogRecord{}
	}
	return records, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
