package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"covidapi/internal/record"
	"covidapi/internal/runlog"
)

// ── Ingestion pipeline ─────────────────────────────────────
// One-shot loader: CSV source → coercion → bulk insert.
//
// The pipeline performs no emptiness check of its own. The caller must
// only run it against an empty store; running it twice duplicates data.

// Inserter is the slice of the record store the pipeline writes to.
type Inserter interface {
	InsertMany(ctx context.Context, recs []record.Record) (int64, error)
}

// RowSource streams raw rows from the tabular source.
type RowSource interface {
	Read(ctx context.Context) (<-chan Row, <-chan error)
}

// Result summarizes one pipeline run.
type Result struct {
	RowsRead     int
	RowsSkipped  int
	RowsInserted int64
	Duration     time.Duration
}

// Pipeline loads the dataset into the record store.
type Pipeline struct {
	source RowSource
	store  Inserter
	runs   *runlog.Store // optional; nil disables run history
	logger *zap.SugaredLogger
}

// New creates a Pipeline. runs may be nil.
func New(source RowSource, store Inserter, runs *runlog.Store, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{source: source, store: store, runs: runs, logger: logger}
}

// Run reads the complete source, coerces every row into a Record,
// drops the first accumulated record, and bulk-inserts the remainder
// in a single write.
//
// The leading drop is deliberate: the source's header/sentinel artifact
// yields one malformed leading record that must be discarded. Malformed
// rows mid-stream are logged and skipped; source and insert failures
// are returned to the caller.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	result, err := p.run(ctx)
	result.Duration = time.Since(started)

	if p.runs != nil {
		run := &runlog.Run{
			Source:       p.sourceName(),
			Status:       "success",
			RowsRead:     result.RowsRead,
			RowsSkipped:  result.RowsSkipped,
			RowsInserted: result.RowsInserted,
			StartedAt:    started,
			FinishedAt:   time.Now(),
		}
		if err != nil {
			run.Status = "error"
			run.Error = err.Error()
		}
		if logErr := p.runs.Record(ctx, run); logErr != nil {
			p.logger.Warnw("failed to record ingest run", "error", logErr)
		}
	}

	if err != nil {
		return result, err
	}
	p.logger.Infow("ingestion complete",
		"rowsRead", result.RowsRead,
		"rowsSkipped", result.RowsSkipped,
		"rowsInserted", result.RowsInserted,
		"duration", result.Duration)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	result := &Result{}

	rows, errCh := p.source.Read(ctx)

	var recs []record.Record
	for row := range rows {
		if row.Err != nil {
			result.RowsSkipped++
			p.logger.Warnw("skipping malformed row", "line", row.Line, "error", row.Err)
			continue
		}
		result.RowsRead++
		recs = append(recs, record.FromRow(row.Cells))
	}
	if err := <-errCh; err != nil {
		return result, fmt.Errorf("read source: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// The first accumulated record is the source's header artifact.
	if len(recs) > 0 {
		recs = recs[1:]
	}
	if len(recs) == 0 {
		return result, nil
	}

	inserted, err := p.store.InsertMany(ctx, recs)
	if err != nil {
		return result, fmt.Errorf("bulk insert: %w", err)
	}
	result.RowsInserted = inserted
	return result, nil
}

func (p *Pipeline) sourceName() string {
	if src, ok := p.source.(*CSVSource); ok {
		return src.Path
	}
	return "unknown"
}
