package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// ArchiveRecord is one line of a resolution archive.
type ArchiveRecord struct {
	GameID     uuid.UUID             `json:"game_id"`
	RecordedAt time.Time             `json:"recorded_at"`
	Resolution resolution.Resolution `json:"resolution"`
}

// JSONLArchive appends resolutions to hourly zstd-compressed JSONL files
// named <prefix>-YYYY-MM-DD-HH.jsonl.zst under baseDir.
type JSONLArchive struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLArchive(baseDir, prefix string) *JSONLArchive {
	if prefix == "" {
		prefix = "resolutions"
	}
	return &JSONLArchive{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (a *JSONLArchive) Append(ctx context.Context, gameID uuid.UUID, res resolution.Resolution) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now().UTC()
	hour := now.Format("2006-01-02-15")
	if hour != a.curHour {
		if err := a.rotateLocked(hour); err != nil {
			return fmt.Errorf("failed to rotate archive: %w", err)
		}
	}

	b, err := json.Marshal(ArchiveRecord{GameID: gameID, RecordedAt: now, Resolution: res})
	if err != nil {
		return fmt.Errorf("failed to marshal archive record: %w", err)
	}
	if _, err := a.w.Write(b); err != nil {
		return fmt.Errorf("failed to write archive record: %w", err)
	}
	if err := a.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write archive record: %w", err)
	}
	return a.w.Flush()
}

func (a *JSONLArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeLocked()
}

func (a *JSONLArchive) rotateLocked(hour string) error {
	if err := a.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(a.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	a.f = f
	a.enc = enc
	a.w = bufio.NewWriterSize(enc, 128*1024)
	a.curHour = hour
	return nil
}

// closeLocked flushes and closes the current hour's file. It returns the
// first error seen; later steps still run so the file handle is released.
func (a *JSONLArchive) closeLocked() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.w != nil {
		keep(a.w.Flush())
	}
	if a.enc != nil {
		keep(a.enc.Close())
		a.enc = nil
	}
	if a.f != nil {
		keep(a.f.Close())
		a.f = nil
	}
	a.w = nil
	a.curHour = ""
	if firstErr != nil {
		return fmt.Errorf("failed to close archive file: %w", firstErr)
	}
	return nil
}

func (a *JSONLArchive) pathForHour(hour string) string {
	return filepath.Join(a.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", a.prefix, hour))
}

// ReadArchive decodes every record in one archive file.
func ReadArchive(path string) ([]ArchiveRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer dec.Close()

	var out []ArchiveRecord
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		var rec ArchiveRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode archive record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return out, nil
}
