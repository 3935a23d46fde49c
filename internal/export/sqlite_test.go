package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablegen/internal/diagnostic"
	"tablegen/internal/schema"
	"tablegen/internal/source"
)

func registry(t *testing.T, units map[string]string, order ...string) *schema.Registry {
	t.Helper()

	reg := schema.NewRegistry()

	for _, origin := range order {
		u, err := source.Parse(origin, []byte(units[origin]))
		require.NoError(t, err)

		tbl, err := schema.Parse(u)
		require.NoError(t, err)
		require.NoError(t, reg.Add(tbl))
	}

	return reg
}

var garden = map[string]string{
	"plants.yaml": `
plants:
  - Name: Marigold
    GrowthTimeSecs: 45
  - Name: Rose
    GrowthTimeSecs: 60
    Yield: 2.5
    Tags: [red, thorny]
    Origin: {Y: 2, X: 1}
`,
	"units.yaml": `
units:
  - Name: Scout
    Ref-plants-FavoredPlant: Rose
  - Name: Tank
`,
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestWriteSQLite(t *testing.T) {
	reg := registry(t, garden, "units.yaml", "plants.yaml")
	path := filepath.Join(t.TempDir(), "garden.db")

	require.NoError(t, WriteSQLite(context.Background(), path, reg))

	db := openDB(t, path)

	var (
		growth int64
		yield  sql.NullFloat64
		tags   sql.NullString
		origin sql.NullString
	)

	row := db.QueryRow(`SELECT "GrowthTimeSecs", "Yield", "Tags", "Origin" FROM "plants" WHERE "Name" = ?`, "Rose")
	require.NoError(t, row.Scan(&growth, &yield, &tags, &origin))
	assert.Equal(t, int64(60), growth)
	assert.Equal(t, 2.5, yield.Float64)
	assert.Equal(t, `["red","thorny"]`, tags.String)
	assert.Equal(t, `{"Y":2,"X":1}`, origin.String)

	row = db.QueryRow(`SELECT "Yield", "Tags" FROM "plants" WHERE "Name" = ?`, "Marigold")
	require.NoError(t, row.Scan(&yield, &tags))
	assert.False(t, yield.Valid)
	assert.False(t, tags.Valid)

	rows, err := db.Query(`SELECT "Name" FROM "plants" ORDER BY rowid`)
	require.NoError(t, err)

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}

	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"Marigold", "Rose"}, names)

	var favored string
	row = db.QueryRow(`SELECT p."Name" FROM "units" u JOIN "plants" p ON u."FavoredPlant" = p."Name" WHERE u."Name" = 'Scout'`)
	require.NoError(t, row.Scan(&favored))
	assert.Equal(t, "Rose", favored)

	var fav sql.NullString
	require.NoError(t, db.QueryRow(`SELECT "FavoredPlant" FROM "units" WHERE "Name" = 'Tank'`).Scan(&fav))
	assert.False(t, fav.Valid)
}

func TestWriteSQLite_ForeignKeys(t *testing.T) {
	reg := registry(t, garden, "plants.yaml", "units.yaml")
	path := filepath.Join(t.TempDir(), "garden.db")

	require.NoError(t, WriteSQLite(context.Background(), path, reg))

	db := openDB(t, path+"?_foreign_keys=on")

	_, err := db.Exec(`INSERT INTO "units" ("Name", "FavoredPlant") VALUES ('Ghost', 'Cactus')`)
	assert.Error(t, err)
}

func TestWriteSQLite_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))

	reg := registry(t, garden, "plants.yaml")
	require.NoError(t, WriteSQLite(context.Background(), path, reg))

	var n int
	require.NoError(t, openDB(t, path).QueryRow(`SELECT count(*) FROM "plants"`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestWriteSQLite_RejectsCycles(t *testing.T) {
	reg := registry(t, map[string]string{
		"a.yaml": "a:\n  - Name: One\n    Ref-a-Next: One\n",
	}, "a.yaml")

	err := WriteSQLite(context.Background(), filepath.Join(t.TempDir(), "a.db"), reg)
	require.Error(t, err)
	assert.True(t, diagnostic.IsKind(err, diagnostic.KindReference))
}

func TestWriteJSON(t *testing.T) {
	u, err := source.Parse("v.yaml", []byte(`v: [1, 2.5, .nan, "x\"y", {b: [], a: -.inf}]`))
	require.NoError(t, err)

	v, _ := u.Root.(*source.Map).Get("v")

	got, err := columnValue(v)
	require.NoError(t, err)
	assert.Equal(t, `[1,2.5,null,"x\"y",{"b":[],"a":null}]`, got)
}

func TestCreateTableSQL(t *testing.T) {
	reg := registry(t, garden, "plants.yaml", "units.yaml")

	units, _ := reg.Get("units")
	assert.Equal(t, "CREATE TABLE \"units\" (\n"+
		"\t\"Name\" TEXT PRIMARY KEY,\n"+
		"\t\"FavoredPlant\" TEXT REFERENCES \"plants\"(\"Name\")\n"+
		")", createTableSQL(reg, units))

	plants, _ := reg.Get("plants")
	assert.Contains(t, createTableSQL(reg, plants), "\"GrowthTimeSecs\" INTEGER")
	assert.Contains(t, createTableSQL(reg, plants), "\"Yield\" REAL")
	assert.Contains(t, createTableSQL(reg, plants), "\"Tags\" TEXT")
}
