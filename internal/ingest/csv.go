package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ── CSV source ─────────────────────────────────────────────
// Streams header-keyed rows from the dataset CSV file. The row
// sequence is finite, single-pass and not restartable.

// Row is one raw row from the source. A malformed row carries Err and
// no Cells; the stream continues past it, leaving the failure policy
// to the consumer.
type Row struct {
	Line  int
	Cells map[string]string
	Err   error
}

// CSVSource reads dataset rows from a local CSV file.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a source reading from path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Read streams rows into a channel as header-keyed string maps.
// The row channel is closed when the file is exhausted or ctx is
// cancelled. A fatal error (unreadable file, missing header) arrives
// on the error channel (buffered size 1).
func (s *CSVSource) Read(ctx context.Context) (<-chan Row, <-chan error) {
	out := make(chan Row, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		f, err := os.Open(s.Path)
		if err != nil {
			errCh <- fmt.Errorf("open csv: %w", err)
			return
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = true
		// Ragged rows are surfaced per-row below rather than aborting the file.
		reader.FieldsPerRecord = -1

		header, err := reader.Read()
		if err != nil {
			errCh <- fmt.Errorf("read csv header: %w", err)
			return
		}

		line := 1
		for {
			cells, err := reader.Read()
			if err == io.EOF {
				return
			}
			line++

			var row Row
			switch {
			case err != nil:
				row = Row{Line: line, Err: err}
			case len(cells) != len(header):
				row = Row{Line: line, Err: fmt.Errorf("got %d cells, want %d", len(cells), len(header))}
			default:
				data := make(map[string]string, len(header))
				for i, h := range header {
					data[h] = cells[i]
				}
				row = Row{Line: line, Cells: data}
			}

			select {
			case out <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errCh
}
