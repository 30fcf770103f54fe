// Package formulas provides a streaming reader for formula-list files, the
// batch input format of the pattern-library pipeline.
package formulas

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Entry is one parsed input line: a formula with optional generation
// parameters.
type Entry struct {
	Formula string
	Charge  int
	NPeaks  int
	Line    int
}

// Reader provides streaming access to a formula-list file. Each non-blank,
// non-comment line holds a whitespace-separated record:
//
//	FORMULA [CHARGE] [NPEAKS]
//
// Missing charge defaults to 0 (neutral) and missing peak count to 0
// (auto-estimate). Lines starting with '#' are comments.
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
	current *Entry
	err     error
}

// NewReader creates a new formula-list reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next advances to the next entry. Returns false when no more entries or on
// error.
func (r *Reader) Next() bool {
	r.current = nil

	entry, err := r.readEntry()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = entry
	return true
}

// Entry returns the current entry.
func (r *Reader) Entry() *Entry {
	return r.current
}

// Err returns any error encountered during reading.
func (r *Reader) Err() error {
	return r.err
}

// readEntry reads lines until it finds the next record.
func (r *Reader) readEntry() (*Entry, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		// Skip blank lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := r.parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
		}
		return entry, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// parseLine splits one record into its formula and optional numeric fields.
func (r *Reader) parseLine(line string) (*Entry, error) {
	fields := strings.Fields(line)
	if len(fields) > 3 {
		return nil, fmt.Errorf("expected at most 3 fields, got %d", len(fields))
	}

	entry := &Entry{Formula: fields[0], Line: r.lineNum}

	if len(fields) > 1 {
		charge, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid charge %q: %w", fields[1], err)
		}
		entry.Charge = charge
	}

	if len(fields) > 2 {
		npeaks, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid peak count %q: %w", fields[2], err)
		}
		if npeaks < 0 {
			return nil, fmt.Errorf("peak count must not be negative, got %d", npeaks)
		}
		entry.NPeaks = npeaks
	}

	return entry, nil
}
