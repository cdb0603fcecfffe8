package postgres

// SQL queries used by the adapter itself. Pipeline statements live with the
// packages that own them (schema, staging, transform).

const (
	// queryTableExists checks the catalog for one table in the current search path.
	// information_schema is available on both Redshift and Postgres.
	queryTableExists = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema()
			  AND table_name = $1
		)
	`

	// queryCountRowsPrefix is completed with a quoted table identifier.
	queryCountRowsPrefix = `SELECT COUNT(*) FROM `
)
