package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr string
	}{
		{
			name: "empty file keeps defaults",
			yaml: "",
			want: Config{Package: "tables", Output: "./tables", Report: ReportFirst, dir: "."},
		},
		{
			name: "all keys",
			yaml: `
package: data
output: gen/data
sources: ["tables/*.yaml", "extra.json"]
sqlite: out/data.db
report: all
`,
			want: Config{
				Package:        "data",
				Output:         "gen/data",
				SourcePatterns: []string{"tables/*.yaml", "extra.json"},
				SQLite:         "out/data.db",
				Report:         ReportAll,
				dir:            ".",
			},
		},
		{
			name:    "unknown key",
			yaml:    "pkg: data\n",
			wantErr: "field pkg not found",
		},
		{
			name:    "malformed",
			yaml:    "package: [\n",
			wantErr: "failed to parse config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "empty package", mutate: func(c *Config) { c.Package = "" }, wantErr: "package must not be empty"},
		{name: "keyword package", mutate: func(c *Config) { c.Package = "func" }, wantErr: "not a valid Go package name"},
		{name: "empty output", mutate: func(c *Config) { c.Output = "" }, wantErr: "output must not be empty"},
		{name: "bad report", mutate: func(c *Config) { c.Report = "some" }, wantErr: `report must be "first" or "all"`},
		{name: "bad pattern", mutate: func(c *Config) { c.SourcePatterns = []string{"[a"} }, wantErr: "bad source pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ResolvesAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))

	for _, name := range []string{"b.yaml", "a.yaml", "c.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "data", name), nil, 0o644), name)
	}

	cfgPath := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
output: gen
sources: ["data/*.yaml", "data/*.json", "data/a.yaml"]
`), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(dir, "gen"), cfg.Resolve(cfg.Output))
	assert.Equal(t, "/abs/out", cfg.Resolve("/abs/out"))
	assert.Empty(t, cfg.Resolve(cfg.SQLite))

	sources, err := cfg.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "data", "a.yaml"),
		filepath.Join(dir, "data", "b.yaml"),
		filepath.Join(dir, "data", "c.json"),
	}, sources)
}

func TestSources_UnmatchedPattern(t *testing.T) {
	cfg := Default()
	cfg.dir = t.TempDir()
	cfg.SourcePatterns = []string{"*.yaml"}

	_, err := cfg.Sources()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"*.yaml" matches no files`)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
