// Package compiler runs a whole generation pass: it parses source units,
// registers and validates their tables and generates Go code for them.
package compiler

import (
	"errors"
	"fmt"
	"runtime/debug"

	"tablegen/internal/diagnostic"
	"tablegen/internal/gen"
	"tablegen/internal/schema"
	"tablegen/internal/source"
)

// ReportMode selects how many errors a pass collects.
type ReportMode int

const (
	// ReportFirst stops at the first error.
	ReportFirst ReportMode = iota
	// ReportAll parses every unit and validates every reference before
	// stopping, collecting all errors found.
	ReportAll
)

// Options configures a pass.
type Options struct {
	Generator gen.GeneratorConfig
	Report    ReportMode
}

// DefaultOptions returns fail-fast options with the default generator
// configuration.
func DefaultOptions() Options {
	return Options{Generator: gen.DefaultGeneratorConfig()}
}

// Result is the outcome of a pass.
type Result struct {
	// Registry holds every table parsed successfully, even when the pass
	// failed later.
	Registry *schema.Registry
	// Files is nil unless the pass succeeded.
	Files []gen.GeneratedFile
	// Diagnostics holds the errors of the pass together with its warnings
	// and info traces.
	Diagnostics diagnostic.Diagnostics
}

// Err returns the errors of the pass as one error, or nil on success.
func (r *Result) Err() error {
	return r.Diagnostics.Error()
}

// Compile runs a pass over units. It never panics: an unexpected failure is
// reported as an InternalError with the stack trace attached as an info
// diagnostic.
func Compile(units []*source.Unit, opts Options) (res *Result) {
	res = &Result{Registry: schema.NewRegistry()}

	defer func() {
		if r := recover(); r != nil {
			res.Files = nil
			res.Diagnostics.AddError(diagnostic.KindInternal.String(),
				fmt.Sprintf("unexpected failure: %v", r), "", "")
			res.Diagnostics.AddInfo("stack_trace", string(debug.Stack()), "", "")
		}
	}()

	c := &pass{res: res, opts: opts}
	c.run(units)

	return res
}

// CompileFiles loads the units at paths and compiles them.
func CompileFiles(paths []string, opts Options) *Result {
	units := make([]*source.Unit, 0, len(paths))

	var loadDiags diagnostic.Diagnostics

	for _, p := range paths {
		u, err := source.LoadFile(p)
		if err != nil {
			var de *diagnostic.Error
			if errors.As(err, &de) {
				loadDiags.AddErr(err)
			} else {
				loadDiags.AddError("read", err.Error(), p, "")
			}

			if opts.Report == ReportFirst {
				break
			}

			continue
		}

		units = append(units, u)
	}

	if loadDiags.HasErrors() {
		return &Result{Registry: schema.NewRegistry(), Diagnostics: loadDiags}
	}

	return Compile(units, opts)
}

type pass struct {
	res  *Result
	opts Options
}

// fail records err and reports whether the pass must stop right away.
func (c *pass) fail(err error) bool {
	c.res.Diagnostics.AddErr(err)
	return c.opts.Report == ReportFirst
}

func (c *pass) run(units []*source.Unit) {
	d := &c.res.Diagnostics

	for _, u := range units {
		t, err := schema.Parse(u)
		if err != nil {
			if c.fail(err) {
				return
			}

			continue
		}

		if err := c.res.Registry.Add(t); err != nil {
			if c.fail(err) {
				return
			}

			continue
		}

		d.AddInfo("parsed",
			fmt.Sprintf("parsed table %s with %d entries and %d fields",
				t.Name, t.EntryNames.Len(), t.Fields.Len()+t.RefFieldNames.Len()),
			t.Origin, t.Name)
	}

	if d.HasErrors() {
		return
	}

	if c.opts.Report == ReportAll {
		for _, err := range schema.ValidateAll(c.res.Registry) {
			d.AddErr(err)
		}
	} else {
		d.AddErr(schema.Validate(c.res.Registry))
	}

	if d.HasErrors() {
		return
	}

	g := gen.NewGenerator(c.opts.Generator)

	files, err := g.Generate(c.res.Registry)
	d.Merge(g.Diagnostics())

	if err != nil {
		d.AddErr(err)
		return
	}

	c.res.Files = files
}
