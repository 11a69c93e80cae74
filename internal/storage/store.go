package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/despensa/despensa/internal/codec"
)

// Store is the generic repository contract every entity store honors.
//
// Upsert is idempotent per id: a second call with the same id replaces the
// stored record, never duplicates it. Delete of a missing id is a no-op,
// except on append-only stores where Delete fails with ErrUnsupported.
type Store[T any] interface {
	List() ([]T, error)
	Find(id string) (T, bool, error)
	Upsert(v T) error
	Delete(id string) error
}

// ErrUnsupported marks operations an append-only store refuses to perform.
var ErrUnsupported = errors.New("operation not supported by this store")

// IOError wraps an underlying I/O failure with the operation and path.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func readErr(path string, err error) error {
	return &IOError{Op: "read", Path: path, Err: err}
}

func writeErr(path string, err error) error {
	return &IOError{Op: "write", Path: path, Err: err}
}

// initFile makes sure the parent directory exists and the file carries its
// header row. Idempotent; an existing file is left untouched.
func initFile(path, header string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return writeErr(path, err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return readErr(path, err)
	}
	if err := os.WriteFile(path, []byte(header+"\n"), 0o644); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// readRecords reads every data row of a store file as unescaped fields,
// discarding the header row and blank lines.
func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, readErr(path, err)
	}
	defer f.Close()

	var rows [][]string
	sc := bufio.NewScanner(f)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, codec.Split(line))
	}
	if err := sc.Err(); err != nil {
		return nil, readErr(path, err)
	}
	return rows, nil
}

// writeAll rewrites a store file with its header and the given record
// lines. Not atomic: a failure mid-write leaves a partial file.
func writeAll(path, header string, lines []string) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// appendLines appends record lines to a store file.
func appendLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return writeErr(path, err)
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := f.WriteString(l + "\n"); err != nil {
			return writeErr(path, err)
		}
	}
	return nil
}
