package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/sparkify-dwh/internal/core/storage"
	"github.com/lib/pq"
)

const defaultConnectTimeout = 10 * time.Second

// Adapter implements storage.StatementExecutor and storage.TableInspector for
// Redshift and PostgreSQL over lib/pq.
//
// The pipeline is strictly sequential, so the pool is pinned to a single
// connection: every statement of a run goes through the same session.
type Adapter struct {
	db *sql.DB
}

// NewAdapter opens a connection to the warehouse and verifies it with a ping.
//
// Example DSN: "host=example.redshift.amazonaws.com dbname=dev user=awsuser password=secret port=5439"
func NewAdapter(dsn string, connectTimeout time.Duration) (*Adapter, error) {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	slog.Info("[Warehouse] Connection established", "connect_timeout", connectTimeout)

	return &Adapter{db: db}, nil
}

// NewAdapterWithDB wraps an already opened *sql.DB.
func NewAdapterWithDB(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Exec runs one statement in its own transaction and commits it.
// On failure the transaction is rolled back and the driver error is wrapped
// with the statement name; *pq.Error stays reachable through errors.As.
func (a *Adapter) Exec(ctx context.Context, stmt storage.Statement) (int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", stmt.Name, err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", stmt.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", stmt.Name, err)
	}

	// COPY and DDL do not always report a row count.
	rows, err := res.RowsAffected()
	if err != nil {
		rows = 0
	}

	slog.Debug("[Warehouse] Statement committed", "statement", stmt.Name, "rows_affected", rows)
	return rows, nil
}

// MissingTables returns the subset of tables not present in the current schema,
// preserving input order.
func (a *Adapter) MissingTables(ctx context.Context, tables []string) ([]string, error) {
	var missing []string
	for _, table := range tables {
		var exists bool
		if err := a.db.QueryRowContext(ctx, queryTableExists, table).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// CountRows returns the number of rows in table.
func (a *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	query := queryCountRowsPrefix + pq.QuoteIdentifier(table)
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// DB returns the underlying *sql.DB.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// Close closes the warehouse connection.
func (a *Adapter) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close warehouse connection: %w", err)
	}
	slog.Info("[Warehouse] Connection closed")
	return nil
}
