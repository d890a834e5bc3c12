package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// ReadFrom ingests records from r in input order. Blank lines are skipped.
// When limit is positive, reading stops after that many records. It returns
// the number of records added.
//
// Format errors carry the 1-based input line. Records ingested before a
// failing line remain in the aggregate, but the run is expected to abort.
func (agg *Aggregate) ReadFrom(r io.Reader, limit int) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	added := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := agg.Ingest(line); err != nil {
			var formatErr *FormatError
			if errors.As(err, &formatErr) {
				formatErr.Line = lineNo
			}
			return added, err
		}
		added++
		if limit > 0 && added >= limit {
			return added, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}
	return added, nil
}
