// Package pipeline runs ordered statement lists against the warehouse:
// the schema reset (drop, create) and the load (copy, transform).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/sparkify-dwh/internal/core/storage"
	"github.com/aevon-lab/sparkify-dwh/internal/metrics"
	"github.com/aevon-lab/sparkify-dwh/internal/schema"
	"github.com/aevon-lab/sparkify-dwh/internal/transform"
)

// Stage labels used in logs and metrics.
const (
	StageDrop      = "drop"
	StageCreate    = "create"
	StageCopy      = "copy"
	StageTransform = "transform"
)

// Warehouse is what the runner needs from the storage adapter.
type Warehouse interface {
	storage.StatementExecutor
	storage.TableInspector
}

// Runner executes statements one at a time, committing each before the next.
// The first failure stops the run; statements already committed stay in effect.
type Runner struct {
	warehouse Warehouse
	recorder  *metrics.Recorder
	now       func() time.Time
}

// NewRunner creates a Runner. recorder may be nil.
func NewRunner(warehouse Warehouse, recorder *metrics.Recorder) *Runner {
	return &Runner{
		warehouse: warehouse,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Run executes stmts in order under the given stage label.
func (r *Runner) Run(ctx context.Context, stage string, stmts []storage.Statement) error {
	for i, stmt := range stmts {
		start := r.now()
		rows, err := r.warehouse.Exec(ctx, stmt)
		elapsed := r.now().Sub(start)
		r.recorder.ObserveStatement(stage, stmt.Name, elapsed, rows, err)

		if err != nil {
			slog.Error("[Pipeline] Statement failed",
				"stage", stage,
				"statement", stmt.Name,
				"position", i+1,
				"of", len(stmts),
				"error", err)
			return fmt.Errorf("%s stage aborted at statement %d/%d: %w", stage, i+1, len(stmts), err)
		}

		slog.Info("[Pipeline] Statement committed",
			"stage", stage,
			"statement", stmt.Name,
			"rows_affected", rows,
			"duration", elapsed)
	}
	return nil
}

// ResetSchema drops then recreates all seven tables, leaving them empty.
func (r *Runner) ResetSchema(ctx context.Context, dialect schema.Dialect) error {
	creates, err := schema.CreateAll(dialect)
	if err != nil {
		return err
	}

	slog.Info("[Pipeline] Resetting schema", "dialect", dialect, "tables", len(creates))

	if err := r.Run(ctx, StageDrop, schema.DropAll()); err != nil {
		return err
	}
	if err := r.Run(ctx, StageCreate, creates); err != nil {
		return err
	}

	r.recorder.MarkSuccess("reset", r.now())
	slog.Info("[Pipeline] Schema reset complete")
	return nil
}

// Load bulk-copies the staging tables with the given COPY statements, then
// runs the six transforms. It refuses to start when any table is missing.
func (r *Runner) Load(ctx context.Context, copies []storage.Statement) error {
	if err := r.requireSchema(ctx); err != nil {
		return err
	}
	if err := r.Run(ctx, StageCopy, copies); err != nil {
		return err
	}
	if err := r.Run(ctx, StageTransform, transform.Statements()); err != nil {
		return err
	}

	r.recorder.MarkSuccess("load", r.now())
	slog.Info("[Pipeline] Load complete")
	return nil
}

// Transform runs only the six transforms against already populated staging tables.
func (r *Runner) Transform(ctx context.Context) error {
	if err := r.requireSchema(ctx); err != nil {
		return err
	}
	return r.Run(ctx, StageTransform, transform.Statements())
}

// TableCount is the row count of one table.
type TableCount struct {
	Table string
	Rows  int64
}

// Stats returns the row count of each table in schema order.
func (r *Runner) Stats(ctx context.Context) ([]TableCount, error) {
	if err := r.requireSchema(ctx); err != nil {
		return nil, err
	}

	names := schema.TableNames()
	counts := make([]TableCount, 0, len(names))
	for _, name := range names {
		rows, err := r.warehouse.CountRows(ctx, name)
		if err != nil {
			return nil, err
		}
		counts = append(counts, TableCount{Table: name, Rows: rows})
	}
	return counts, nil
}

func (r *Runner) requireSchema(ctx context.Context) error {
	missing, err := r.warehouse.MissingTables(ctx, schema.TableNames())
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s (run the schema reset first)",
			storage.ErrSchemaNotInitialized, strings.Join(missing, ", "))
	}
	return nil
}
