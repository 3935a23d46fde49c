// Package main provides the CLI entrypoint for tablegen.
//
// tablegen compiles table source units (YAML or JSON documents holding one
// named table of records each) into a Go package:
//   - every table becomes an ID enum, a record struct and an array of records
//   - references between tables become pointers into the target's array
//   - the dataset can also be exported to a SQLite database
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"

	"tablegen/internal/compiler"
	"tablegen/internal/config"
	"tablegen/internal/diagnostic"
	"tablegen/internal/export"
	"tablegen/internal/gen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)

	stop()
	os.Exit(code)
}

// options are the parsed command line flags.
type options struct {
	configPath string
	out        string
	pkg        string
	sqlite     string
	report     string
	check      bool
	dump       bool
	verbose    bool
	sources    []string
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("tablegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: tablegen [flags] [source files...]")
		fs.PrintDefaults()
	}

	o := &options{set: make(map[string]bool)}
	fs.StringVar(&o.configPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	fs.StringVar(&o.out, "out", "", "output directory for generated Go files")
	fs.StringVar(&o.pkg, "pkg", "", "generated package name")
	fs.StringVar(&o.sqlite, "sqlite", "", "also export the dataset to this SQLite file")
	fs.StringVar(&o.report, "report", "", "error reporting: first or all")
	fs.BoolVar(&o.check, "check", false, "validate sources without writing anything")
	fs.BoolVar(&o.dump, "dump", false, "dump the parsed tables to stderr")
	fs.BoolVar(&o.verbose, "v", false, "log info diagnostics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	o.sources = fs.Args()

	return o, nil
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(o *options) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}

	cfg := config.Default()

	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}

		cfg.Output = cfg.Resolve(cfg.Output)
		cfg.SQLite = cfg.Resolve(cfg.SQLite)
	}

	if o.set["out"] {
		cfg.Output = o.out
	}

	if o.set["pkg"] {
		cfg.Package = o.pkg
	}

	if o.set["sqlite"] {
		cfg.SQLite = o.sqlite
	}

	if o.set["report"] {
		cfg.Report = o.report
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(o)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	paths, err := cfg.Sources()
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	paths = append(paths, o.sources...)
	if len(paths) == 0 {
		logger.Error("no source files given")
		return 1
	}

	opts := compilerOptions(cfg, o.check)
	res := compiler.CompileFiles(paths, opts)

	if o.dump {
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		dumper.Fdump(stderr, res.Registry.Tables())
	}

	logDiagnostics(ctx, logger, res.Diagnostics)

	if res.Diagnostics.HasErrors() {
		logger.Error("generation failed", "errors", len(res.Diagnostics.Errors))
		return 1
	}

	if o.check {
		logger.Info("sources are valid", "tables", res.Registry.Len())
		return 0
	}

	if err := gen.WriteFiles(res.Files, cfg.Output); err != nil {
		logger.Error(err.Error())
		return 1
	}

	logger.Info("wrote generated files", "dir", cfg.Output, "files", len(res.Files))

	if cfg.SQLite != "" {
		if err := export.WriteSQLite(ctx, cfg.SQLite, res.Registry); err != nil {
			logger.Error("sqlite export failed", "path", cfg.SQLite, "error", err)
			return 1
		}

		logger.Info("exported dataset", "path", cfg.SQLite)
	}

	return 0
}

// compilerOptions builds the pass options. A check run writes nothing, not
// even debug output for code that fails to format.
func compilerOptions(cfg *config.Config, check bool) compiler.Options {
	opts := compiler.Options{
		Generator: gen.GeneratorConfig{
			PackageName:      cfg.Package,
			OutputDir:        cfg.Output,
			GenerateComments: true,
		},
	}

	if cfg.Report == config.ReportAll {
		opts.Report = compiler.ReportAll
	}

	if check {
		opts.Generator.OutputDir = ""
	}

	return opts
}

func logDiagnostics(ctx context.Context, logger *slog.Logger, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		var level slog.Level

		switch d.Severity {
		case diagnostic.SeverityError:
			level = slog.LevelError
		case diagnostic.SeverityWarning:
			level = slog.LevelWarn
		default:
			level = slog.LevelInfo
		}

		attrs := []any{"code", d.Code}
		if d.Origin != "" {
			attrs = append(attrs, "origin", d.Origin)
		}

		if d.Location != "" {
			attrs = append(attrs, "location", d.Location)
		}

		logger.Log(ctx, level, d.Message, attrs...)
	}
}
