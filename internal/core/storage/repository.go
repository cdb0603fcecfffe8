package storage

import (
	"context"
	"errors"
)

// ErrSchemaNotInitialized is returned when the warehouse is missing one of the
// star-schema tables (the schema reset has not been run).
var ErrSchemaNotInitialized = errors.New("warehouse schema not initialized")

// Statement is one named SQL statement submitted to the warehouse.
// Args are passed to the driver as bind parameters. The reset, copy and
// transform statements carry none: their SQL is fixed, and COPY cannot be
// parameterized so it is built from validated, quoted literals.
type Statement struct {
	Name  string
	Query string
	Args  []interface{}
}

// StatementExecutor executes a single statement and commits it before returning.
type StatementExecutor interface {
	// Exec runs stmt in its own transaction and returns the rows affected.
	// A failed statement is rolled back and the driver error is returned wrapped.
	Exec(ctx context.Context, stmt Statement) (int64, error)
}

// TableInspector reports on the presence and size of warehouse tables.
type TableInspector interface {
	MissingTables(ctx context.Context, tables []string) ([]string, error)
	CountRows(ctx context.Context, table string) (int64, error)
}
