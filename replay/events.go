// Package replay holds the bot's observational sinks: a compressed marker log
// for replay viewers and a SQLite table of per-turn stats. Nothing written
// here is ever read back into a decision.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/prospector/model"
)

// Marker colours used by the agent.
const (
	ColorTarget  = "green"
	ColorDropoff = "red"
	ColorThreat  = "orange"
)

// Marker highlights one cell on one turn.
type Marker struct {
	Turn  int    `json:"t"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

// EventLog writes markers as zstd-compressed JSON lines.
type EventLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// OpenEventLog creates (or truncates) the log at path.
func OpenEventLog(path string) (*EventLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &EventLog{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Mark appends a marker for p on turn.
func (l *EventLog) Mark(turn int, p model.Position, color string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return fmt.Errorf("event log closed")
	}
	b, err := json.Marshal(Marker{Turn: turn, X: p.X, Y: p.Y, Color: color})
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// Close flushes and closes the log.
func (l *EventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var err1 error
	if l.w != nil {
		err1 = l.w.Flush()
		l.w = nil
	}
	if l.enc != nil {
		if err := l.enc.Close(); err1 == nil {
			err1 = err
		}
		l.enc = nil
	}
	if l.f != nil {
		if err := l.f.Close(); err1 == nil {
			err1 = err
		}
		l.f = nil
	}
	return err1
}

// ReadMarkers decodes a marker log.
func ReadMarkers(r io.Reader) ([]Marker, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Marker
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var m Marker
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			return out, fmt.Errorf("marker %d: %w", len(out)+1, err)
		}
		out = append(out, m)
	}
	return out, sc.Err()
}
