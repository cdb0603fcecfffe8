package schema

import (
	"fmt"
	"strings"
)

// Dialect selects how table definitions are rendered to DDL.
type Dialect string

const (
	// DialectRedshift renders distribution styles, sort/dist keys and IDENTITY columns.
	DialectRedshift Dialect = "redshift"
	// DialectPostgres renders plain PostgreSQL DDL for local runs and integration tests.
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configuration value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case DialectRedshift, "":
		return DialectRedshift, nil
	case DialectPostgres:
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, s)
	}
}

// DistStyle is a Redshift table distribution style. Empty means the table
// declares a DISTKEY column instead (or the warehouse default).
type DistStyle string

const (
	DistAuto DistStyle = "AUTO"
	DistEven DistStyle = "EVEN"
	DistAll  DistStyle = "ALL"
)

// Column is one table column in declaration order.
type Column struct {
	Name    string
	Type    string
	NotNull bool

	// Identity marks an auto-incrementing surrogate key starting at 0.
	Identity bool
	SortKey  bool
	DistKey  bool
}

// Table is a warehouse relation definition.
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
	DistStyle  DistStyle
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
