// Package validate checks JSON arrays against an inferred or hand-written
// template and reports each deviation as a Violation value. Data-shape
// findings are never Go errors; the checker is a total function over any
// well-formed JSON value.
package validate

import (
	"fmt"
	"sort"

	"github.com/objedit/jsonshape/internal/models"
	"github.com/objedit/jsonshape/internal/template"
)

// Severity classifies a violation for display and gating purposes.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is a single detected deviation of a data entry from a
// template. Index is the entry's position in the validated array; Path is
// the offending field name, empty when the violation concerns the whole
// entry. Violations are immutable once produced.
type Violation struct {
	Index    int      `json:"index"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationResult collects the violations found in one pass over an
// array. IsValid holds iff no violation exists; a warning still makes the
// result invalid. Severity is advisory for display, not for this flag —
// the save gate in block mode depends on that exact definition.
type ValidationResult struct {
	IsValid    bool        `json:"isValid"`
	Violations []Violation `json:"violations"`
}

// ErrorCount returns the number of error-severity violations.
func (r *ValidationResult) ErrorCount() int {
	return r.countBySeverity(SeverityError)
}

// WarningCount returns the number of warning-severity violations.
func (r *ValidationResult) WarningCount() int {
	return r.countBySeverity(SeverityWarning)
}

func (r *ValidationResult) countBySeverity(s Severity) int {
	count := 0
	for _, v := range r.Violations {
		if v.Severity == s {
			count++
		}
	}
	return count
}

// CleanResult returns the result an unchecked or violation-free document
// produces: valid with no violations.
func CleanResult() ValidationResult {
	return ValidationResult{IsValid: true, Violations: []Violation{}}
}

// Against validates a JSON value against a template.
//
// Only arrays are checked; any other shape trivially passes, it is simply
// not flagged. Entries are checked in array order. A non-object entry
// produces one error and no field-level checks. For object entries, the
// template's fields are checked first (missing required, then type
// mismatch — a missing field is never also type-checked), followed by a
// warning for every entry key the template does not know about.
func Against(data models.JSONValue, t *template.Template) ValidationResult {
	result := CleanResult()

	arr, ok := data.(models.JSONArray)
	if !ok {
		return result
	}

	fieldNames := t.FieldNames()

	for i, entry := range arr {
		obj, ok := entry.(models.JSONObject)
		if !ok {
			result.Violations = append(result.Violations, Violation{
				Index:    i,
				Path:     "",
				Message:  fmt.Sprintf("Entry %d is not an object", i),
				Severity: SeverityError,
			})
			continue
		}

		for _, name := range fieldNames {
			fs := t.Fields[name]
			val, present := obj[name]
			if !present {
				if fs.Required {
					result.Violations = append(result.Violations, Violation{
						Index:    i,
						Path:     name,
						Message:  fmt.Sprintf("Missing required field %q", name),
						Severity: SeverityError,
					})
				}
				continue
			}
			if actual := template.TagOf(val); actual != fs.Type {
				result.Violations = append(result.Violations, Violation{
					Index:    i,
					Path:     name,
					Message:  fmt.Sprintf("Field %q has type %s, expected %s", name, actual, fs.Type),
					Severity: SeverityError,
				})
			}
		}

		// Keys the template does not model are advisory only. Sorted for a
		// deterministic report; Go maps have no enumeration order to follow.
		for _, key := range sortedKeys(obj) {
			if _, known := t.Fields[key]; !known {
				result.Violations = append(result.Violations, Violation{
					Index:    i,
					Path:     key,
					Message:  fmt.Sprintf("Unexpected field %q not in template", key),
					Severity: SeverityWarning,
				})
			}
		}
	}

	result.IsValid = len(result.Violations) == 0
	return result
}

func sortedKeys(obj models.JSONObject) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
