package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"tablegen/internal/schema"
	"tablegen/internal/source"
)

// nameColumn is the primary key column holding the entry name.
const nameColumn = schema.NameKey

// WriteSQLite writes every table of reg into a new SQLite database at path.
// An existing file at path is replaced. Tables are created in dependency
// order and filled in a single transaction; reg must have passed
// schema.Validate.
func WriteSQLite(ctx context.Context, path string, reg *schema.Registry) error {
	tables, err := schema.Order(reg)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	for _, t := range tables {
		if err := writeTable(ctx, tx, reg, t); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exporting %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, reg *schema.Registry, t *schema.Table) error {
	if _, err := tx.ExecContext(ctx, createTableSQL(reg, t)); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	cols := append([]string{nameColumn}, t.Fields.Keys()...)
	cols = append(cols, t.RefFieldNames.Keys()...)

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(t.Name),
		strings.Join(quoted, ", "),
		strings.TrimRight(strings.Repeat("?,", len(cols)), ","),
	))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range t.OrderedEntries() {
		vals, err := rowValues(t, e)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.Name, err)
		}

		if _, err := stmt.ExecContext(ctx, vals...); err != nil {
			return fmt.Errorf("inserting %s: %w", e.Name, err)
		}
	}

	return nil
}

// createTableSQL returns the CREATE TABLE statement of t.
func createTableSQL(reg *schema.Registry, t *schema.Table) string {
	defs := []string{quoteIdent(nameColumn) + " TEXT PRIMARY KEY"}

	for _, f := range t.Fields.Keys() {
		ft, _ := t.Fields.Get(f)
		defs = append(defs, quoteIdent(f)+" "+columnType(ft))
	}

	for _, local := range t.RefFieldNames.Keys() {
		target, _ := t.RefFieldNames.Get(local)

		def := quoteIdent(local) + " TEXT"
		if _, ok := reg.Get(target); ok {
			def += fmt.Sprintf(" REFERENCES %s(%s)", quoteIdent(target), quoteIdent(nameColumn))
		}

		defs = append(defs, def)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(t.Name), strings.Join(defs, ",\n\t"))
}

func columnType(t schema.FieldType) string {
	switch t.(type) {
	case schema.Integer:
		return "INTEGER"
	case schema.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

// rowValues returns the column values of one entry, matching the column
// order of writeTable. Unset fields are NULL.
func rowValues(t *schema.Table, e *schema.Entry) ([]any, error) {
	vals := []any{e.Name}

	for _, f := range t.Fields.Keys() {
		v, ok := e.Values.Get(f)
		if !ok {
			vals = append(vals, nil)
			continue
		}

		cv, err := columnValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f, err)
		}

		vals = append(vals, cv)
	}

	for _, local := range t.RefFieldNames.Keys() {
		if name, ok := e.Refs.Get(local); ok {
			vals = append(vals, name)
		} else {
			vals = append(vals, nil)
		}
	}

	return vals, nil
}

func columnValue(v source.Value) (any, error) {
	switch v := v.(type) {
	case source.Int:
		return int64(v), nil
	case source.Float:
		f := float64(v)
		if math.IsNaN(f) {
			return nil, nil
		}

		return f, nil
	case source.String:
		return string(v), nil
	case source.List, *source.Map:
		var buf bytes.Buffer
		if err := writeJSON(&buf, v); err != nil {
			return nil, err
		}

		return buf.String(), nil
	default:
		return nil, fmt.Errorf("cannot store %s value", v.Kind())
	}
}

// writeJSON encodes v keeping object members in authored order. Non-finite
// floats have no JSON form and are written as null.
func writeJSON(buf *bytes.Buffer, v source.Value) error {
	switch v := v.(type) {
	case source.List:
		buf.WriteByte('[')

		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case *source.Map:
		buf.WriteByte('{')

		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeScalar(buf, m.Key); err != nil {
				return err
			}

			buf.WriteByte(':')

			if err := writeJSON(buf, m.Value); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	case source.Float:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			buf.WriteString("null")
			return nil
		}

		return writeScalar(buf, float64(v))
	case source.Int:
		return writeScalar(buf, int64(v))
	case source.String:
		return writeScalar(buf, string(v))
	default:
		return fmt.Errorf("cannot encode %s value as JSON", v.Kind())
	}

	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	buf.Write(b)

	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
