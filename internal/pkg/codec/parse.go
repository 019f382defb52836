// Package codec converts between the lh2mqtt INI file and a store.Store.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

// maxLineSize bounds a single line; longer lines are skipped.
const maxLineSize = 1024 * 1024

const utf8BOM = "\ufeff"

// Parse reads INI text into a fresh store.
//
// Comment lines start with ';' or '#'. A "[Section]" line sets the current
// section and "Key=Value" lines assign into it. Keys and values are trimmed
// of surrounding whitespace; there is no quoting or escaping. Unknown
// sections and keys, lines outside any section, lines without '=' and lines
// longer than maxLineSize are skipped. Only read errors are returned. The
// returned store is not dirty.
func Parse(r io.Reader) (*store.Store, error) {
	s := store.New()
	br := bufio.NewReader(r)

	section := ""
	first := true
	for {
		line, oversized, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
		if oversized {
			first = false
			continue
		}
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			end := strings.IndexByte(line, ']')
			if end < 0 {
				// unmatched header: drop the section context
				section = ""
				continue
			}
			section = strings.TrimSpace(line[1:end])
			continue
		}

		if section == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		// Unknown keys are tolerated here; the store rejects them.
		_, _ = s.Set(section, strings.TrimSpace(key), strings.TrimSpace(value))
	}
	s.MarkClean()
	return s, nil
}

// readLine returns the next line without its line ending. The content of a
// line longer than maxLineSize is dropped while the rest of it is drained.
func readLine(br *bufio.Reader) (line string, oversized bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", oversized, err
		}
		if !oversized {
			if len(buf)+len(chunk) > maxLineSize {
				oversized = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), oversized, nil
		}
	}
}

// ParseFile parses the file at path. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func ParseFile(path string) (*store.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
