package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "StructuralError", KindStructural.String())
	assert.Equal(t, "NamingError", KindNaming.String())
	assert.Equal(t, "TypeError", KindType.String())
	assert.Equal(t, "ReferenceError", KindReference.String())
	assert.Equal(t, "InternalError", KindInternal.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestError_Format(t *testing.T) {
	err := Newf(KindType, "conflicting type %s vs %s", "Integer", "String").
		InTable("plants").InEntry("Rose").AtField("GrowthTimeSecs").From("plants.yaml")

	assert.Equal(t,
		"plants.yaml plants[Rose].GrowthTimeSecs: TypeError: conflicting type Integer vs String",
		err.Error())
	assert.Equal(t, "TypeError: boom", Newf(KindType, "boom").Error())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("parsing: %w", Newf(KindNaming, "duplicated name"))

	assert.Equal(t, KindNaming, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNaming))
	assert.False(t, IsKind(wrapped, KindType))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestDiagnostics_AddErr(t *testing.T) {
	var d Diagnostics
	assert.False(t, d.HasErrors())
	require.NoError(t, d.Error())

	d.AddErr(nil)
	assert.False(t, d.HasErrors())

	d.AddErr(Newf(KindReference, "no such table %q", "plants").InTable("units").From("units.yaml"))
	d.AddErr(errors.New("disk on fire"))
	d.AddInfo("parsed", "parsed table plants", "plants.yaml", "plants")
	d.AddWarning("untyped_array", "empty", "", "plants.Tags")

	require.Len(t, d.Errors, 2)
	assert.Equal(t, "ReferenceError", d.Errors[0].Code)
	assert.Equal(t, "units", d.Errors[0].Location)
	assert.Equal(t, "units.yaml", d.Errors[0].Origin)
	assert.Equal(t, "InternalError", d.Errors[1].Code)

	all := d.All()
	require.Len(t, all, 4)
	assert.Equal(t, SeverityInfo, all[0].Severity)
	assert.Equal(t, SeverityWarning, all[1].Severity)
	assert.Equal(t, SeverityError, all[3].Severity)

	err := d.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `units.yaml units: [ReferenceError] no such table "plants"`)
	assert.Contains(t, err.Error(), "[InternalError] disk on fire")
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddInfo("x", "one", "", "")
	b.AddError("y", "two", "", "")
	a.Merge(b)

	assert.True(t, a.HasErrors())
	assert.Len(t, a.Infos, 1)
	assert.Equal(t, "error", a.Errors[0].Severity.String())
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{"message only", Diagnostic{Message: "boom"}, "boom"},
		{"code", Diagnostic{Code: "parsed", Message: "ok"}, "[parsed] ok"},
		{"location", Diagnostic{Location: "t[a].F", Message: "m"}, "t[a].F: m"},
		{"full", Diagnostic{Origin: "t.yaml", Location: "t", Code: "TypeError", Message: "m"}, "t.yaml t: [TypeError] m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}

	assert.Equal(t, "unknown", Severity(7).String())
	assert.Equal(t, "warning", SeverityWarning.String())
}
