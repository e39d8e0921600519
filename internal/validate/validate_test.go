package validate

import (
	"testing"

	"github.com/objedit/jsonshape/internal/models"
	"github.com/objedit/jsonshape/internal/parser"
	"github.com/objedit/jsonshape/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, jsonInput string) models.JSONValue {
	t.Helper()
	doc, err := parser.ParseString(jsonInput)
	require.NoError(t, err)
	return doc.Root
}

func numberField(required bool) template.FieldSchema {
	return template.FieldSchema{Type: template.TagNumber, Required: required}
}

func TestAgainst_NonArrayPassesTrivially(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	for _, input := range []string{`42`, `"text"`, `{"a": "not a number"}`, `null`} {
		result := Against(mustParse(t, input), tmpl)
		assert.True(t, result.IsValid, "non-array input %s should trivially pass", input)
		assert.Empty(t, result.Violations)
	}
}

func TestAgainst_CleanArray(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{
		"a": numberField(true),
		"b": {Type: template.TagString, Required: false},
	}}

	result := Against(mustParse(t, `[{"a": 1, "b": "x"}, {"a": 2}]`), tmpl)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Violations)
	assert.Equal(t, 0, result.ErrorCount())
	assert.Equal(t, 0, result.WarningCount())
}

func TestAgainst_MissingRequiredField(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	result := Against(mustParse(t, `[{}]`), tmpl)
	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)

	v := result.Violations[0]
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, "a", v.Path)
	assert.Equal(t, SeverityError, v.Severity)
	assert.Contains(t, v.Message, `Missing required field "a"`)
}

func TestAgainst_MissingOptionalFieldIsFine(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(false)}}

	result := Against(mustParse(t, `[{}]`), tmpl)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Violations)
}

func TestAgainst_TypeMismatch(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	result := Against(mustParse(t, `[{"a": "x"}]`), tmpl)
	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)

	v := result.Violations[0]
	assert.Equal(t, "a", v.Path)
	assert.Equal(t, SeverityError, v.Severity)
	assert.Contains(t, v.Message, "string")
	assert.Contains(t, v.Message, "number")
}

func TestAgainst_MissingFieldIsNotAlsoTypeChecked(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	result := Against(mustParse(t, `[{}]`), tmpl)
	require.Len(t, result.Violations, 1, "absence produces exactly one violation, never a type mismatch on top")
	assert.Contains(t, result.Violations[0].Message, "Missing required field")
}

func TestAgainst_UnexpectedFieldIsWarning(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	result := Against(mustParse(t, `[{"a": 1, "b": 2}]`), tmpl)
	require.Len(t, result.Violations, 1)

	v := result.Violations[0]
	assert.Equal(t, "b", v.Path)
	assert.Equal(t, SeverityWarning, v.Severity)
	assert.Contains(t, v.Message, `Unexpected field "b" not in template`)

	// A warning still makes the result invalid; severity is advisory for
	// display, not for the validity flag.
	assert.False(t, result.IsValid)
	assert.Equal(t, 0, result.ErrorCount())
	assert.Equal(t, 1, result.WarningCount())
}

func TestAgainst_NonObjectEntry(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	result := Against(mustParse(t, `[1, {"a": 1}]`), tmpl)
	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)

	v := result.Violations[0]
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, "", v.Path, "entry-level violations carry an empty path")
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, "Entry 0 is not an object", v.Message)
}

func TestAgainst_NonObjectEntrySkipsFieldChecks(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	// The string entry must yield only the entry-level error, not a
	// missing-field error as well. The following object is still checked.
	result := Against(mustParse(t, `["noise", {}]`), tmpl)
	require.Len(t, result.Violations, 2)
	assert.Equal(t, "Entry 0 is not an object", result.Violations[0].Message)
	assert.Equal(t, 1, result.Violations[1].Index)
	assert.Contains(t, result.Violations[1].Message, "Missing required field")
}

func TestAgainst_ViolationOrdering(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{
		"a": numberField(true),
		"b": {Type: template.TagString, Required: true},
	}}

	// Entry 0: missing "a", type-mismatched "b", unexpected "z".
	// Entry 1: clean. Entry 2: unexpected "y".
	result := Against(mustParse(t, `[
		{"b": 5, "z": true},
		{"a": 1, "b": "ok"},
		{"a": 2, "b": "ok", "y": null}
	]`), tmpl)

	require.Len(t, result.Violations, 4)

	// Index order first; within an entry, field checks precede
	// unexpected-field warnings.
	assert.Equal(t, []int{0, 0, 0, 2}, []int{
		result.Violations[0].Index,
		result.Violations[1].Index,
		result.Violations[2].Index,
		result.Violations[3].Index,
	})
	assert.Contains(t, result.Violations[0].Message, `Missing required field "a"`)
	assert.Contains(t, result.Violations[1].Message, `Field "b" has type number, expected string`)
	assert.Equal(t, SeverityWarning, result.Violations[2].Severity)
	assert.Equal(t, "z", result.Violations[2].Path)
	assert.Equal(t, "y", result.Violations[3].Path)
}

func TestAgainst_NullValueTypeChecks(t *testing.T) {
	tmpl := &template.Template{Fields: map[string]template.FieldSchema{"a": numberField(true)}}

	// null is present, so it type-checks as "null" against "number".
	result := Against(mustParse(t, `[{"a": null}]`), tmpl)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, `Field "a" has type null, expected number`)
}

// A template's own source sample must always validate clean against
// itself. This is the round-trip invariant tying inference and validation
// together.
func TestDetectThenValidate_RoundTripInvariant(t *testing.T) {
	// The invariant covers arrays of objects with consistently typed
	// fields. A mixed-type field would be dropped at inference and then
	// resurface as an unexpected-field warning, and a non-object entry is
	// excluded leniently at inference but flagged at validation.
	samples := []string{
		`[{"a": 1, "b": "x"}]`,
		`[{"a": 1, "b": 2}, {"a": 3}]`,
		`[{"n": null}, {"n": null}]`,
		`[{"deep": {"x": 1}}, {"deep": {"y": 2}}, {"deep": {}}]`,
		`[{"tags": ["a"]}, {"tags": []}, {"extra": false, "tags": ["b"]}]`,
		`[{"id": 1, "name": "a", "active": true}, {"id": 2, "name": "b", "active": false}]`,
	}

	for _, sample := range samples {
		data := mustParse(t, sample)
		tmpl := template.Detect(data)
		require.NotNil(t, tmpl, "sample %s should infer a template", sample)
		result := Against(data, tmpl)
		assert.True(t, result.IsValid, "sample %s must validate clean against its own template, got %v", sample, result.Violations)
	}
}

// Mixed-type fields are dropped from the template, so they are never
// validated — even against wildly differing values.
func TestAgainst_DroppedFieldIsNeverChecked(t *testing.T) {
	data := mustParse(t, `[{"a": 1, "keep": true}, {"a": "x", "keep": false}]`)
	tmpl := template.Detect(data)
	require.NotNil(t, tmpl)
	_, hasA := tmpl.Fields["a"]
	require.False(t, hasA)

	// "a" shows up as unexpected (warning) since it is not a template
	// field, but it produces no type error.
	result := Against(data, tmpl)
	for _, v := range result.Violations {
		assert.Equal(t, SeverityWarning, v.Severity)
		assert.Equal(t, "a", v.Path)
	}
}
