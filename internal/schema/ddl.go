package schema

import (
	"fmt"
	"strings"

	"github.com/aevon-lab/sparkify-dwh/internal/core/storage"
)

// CreateSQL renders CREATE TABLE IF NOT EXISTS for the given dialect.
func (t Table) CreateSQL(d Dialect) (string, error) {
	if d != DialectRedshift && d != DialectPostgres {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, d)
	}

	lines := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		lines = append(lines, "\t"+renderColumn(c, d))
	}
	if len(t.PrimaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("\tPRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	if d == DialectRedshift && t.DistStyle != "" {
		fmt.Fprintf(&b, " DISTSTYLE %s", t.DistStyle)
	}
	return b.String(), nil
}

// DropSQL renders DROP TABLE IF EXISTS.
func (t Table) DropSQL() string {
	return "DROP TABLE IF EXISTS " + t.Name
}

func renderColumn(c Column, d Dialect) string {
	parts := []string{c.Name, c.Type}
	if c.Identity {
		if d == DialectRedshift {
			parts = append(parts, "IDENTITY(0,1)")
		} else {
			parts = append(parts, "GENERATED BY DEFAULT AS IDENTITY (START WITH 0 MINVALUE 0)")
		}
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if d == DialectRedshift {
		if c.DistKey {
			parts = append(parts, "DISTKEY")
		}
		if c.SortKey {
			parts = append(parts, "SORTKEY")
		}
	}
	return strings.Join(parts, " ")
}

// DropAll returns one DROP TABLE IF EXISTS statement per table.
// There are no foreign keys, so order does not matter.
func DropAll() []storage.Statement {
	tables := Tables()
	stmts := make([]storage.Statement, len(tables))
	for i, t := range tables {
		stmts[i] = storage.Statement{
			Name:  "drop_" + t.Name,
			Query: t.DropSQL(),
		}
	}
	return stmts
}

// CreateAll returns one CREATE TABLE IF NOT EXISTS statement per table.
// Re-running it against an existing schema is a no-op; it never migrates
// a table whose columns differ.
func CreateAll(d Dialect) ([]storage.Statement, error) {
	tables := Tables()
	stmts := make([]storage.Statement, 0, len(tables))
	for _, t := range tables {
		query, err := t.CreateSQL(d)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, storage.Statement{
			Name:  "create_" + t.Name,
			Query: query,
		})
	}
	return stmts, nil
}
