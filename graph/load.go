package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyInput is returned when a snapshot source contains no data at all.
var ErrEmptyInput = errors.New("empty snapshot input")

// Decode reads a JSON snapshot. Only syntax errors are reported; semantic problems
// such as dangling edges are left for validation.Sanitize.
func Decode(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes a snapshot from raw JSON bytes.
func Parse(data []byte) (Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Snapshot{}, ErrEmptyInput
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line, col := position(data, syntaxErr.Offset)
			return Snapshot{}, fmt.Errorf("snapshot syntax error at line %d, column %d: %w", line, col, err)
		}
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	s.Index()
	return s, nil
}

// LoadFile reads a snapshot from disk.
func LoadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	lines := bytes.Split(data[:offset], []byte("\n"))
	line = len(lines)
	col = len(lines[line-1]) + 1
	return line, col
}
