package template

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/objedit/jsonshape/internal/models"
)

// TypeTag is the runtime classification of a JSON value. The six-way tag
// set mirrors what JSON itself can express; there is no finer split (e.g.
// integers and floats both classify as "number").
type TypeTag string

const (
	TagString  TypeTag = "string"
	TagNumber  TypeTag = "number"
	TagBoolean TypeTag = "boolean"
	TagNull    TypeTag = "null"
	TagObject  TypeTag = "object"
	TagArray   TypeTag = "array"
)

// ValidTag reports whether s is one of the six recognized type tags.
func ValidTag(s TypeTag) bool {
	switch s {
	case TagString, TagNumber, TagBoolean, TagNull, TagObject, TagArray:
		return true
	}
	return false
}

// TagOf classifies a JSON value into its TypeTag. Raw container types from
// a decoder that did not go through the parser's normalization are
// classified the same as their model counterparts.
func TagOf(v models.JSONValue) TypeTag {
	switch v.(type) {
	case nil:
		return TagNull
	case models.JSONArray, []interface{}:
		return TagArray
	case models.JSONObject, map[string]interface{}:
		return TagObject
	case string:
		return TagString
	case bool:
		return TagBoolean
	case json.Number:
		return TagNumber
	default:
		// Native numerics a caller may have built by hand instead of
		// going through the parser.
		return TagNumber
	}
}

// FieldSchema describes the inferred shape of a single field across a
// sample of sibling objects.
type FieldSchema struct {
	Type     TypeTag `json:"type"`
	Required bool    `json:"required"`
}

// Template is the inferred structural schema for a JSON array of objects.
// SampleSize records how many object entries contributed to inference; it
// is diagnostic only and plays no part in validation.
type Template struct {
	Fields     map[string]FieldSchema `json:"fields"`
	SampleSize int                    `json:"sampleSize"`
}

// FieldNames returns the template's field names sorted alphabetically.
// Map iteration order is undefined, so every consumer that needs a stable
// field order goes through this.
func (t *Template) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect infers a Template from a JSON value. It returns nil when no
// usable schema exists: the value is not an array, the array holds no
// objects, or no fields survive inference (the sampled objects are empty,
// or every observed field was dropped for mixed types).
//
// Inference is lenient: non-object array elements are excluded from the
// sample without complaint, and a field whose values disagree on type
// across the sample is dropped from the template entirely rather than
// reported. A field is required iff its key is present in every sampled
// object; a null value still counts as present (with type "null").
func Detect(v models.JSONValue) *Template {
	arr, ok := v.(models.JSONArray)
	if !ok {
		return nil
	}

	objects := make([]models.JSONObject, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(models.JSONObject); ok {
			objects = append(objects, obj)
		}
	}
	if len(objects) == 0 {
		return nil
	}

	fields := make(map[string]FieldSchema)

	if len(objects) == 1 {
		// Single-sample schema: every key is required with its value's type.
		for key, val := range objects[0] {
			fields[key] = FieldSchema{Type: TagOf(val), Required: true}
		}
		if len(fields) == 0 {
			return nil
		}
		return &Template{Fields: fields, SampleSize: 1}
	}

	// Union of keys across the whole sample.
	allKeys := make(map[string]struct{})
	for _, obj := range objects {
		for key := range obj {
			allKeys[key] = struct{}{}
		}
	}

	for key := range allKeys {
		values := make([]models.JSONValue, 0, len(objects))
		presentInAll := true
		for _, obj := range objects {
			val, present := obj[key]
			if !present {
				presentInAll = false
				continue
			}
			values = append(values, val)
		}
		if len(values) == 0 {
			// Cannot happen for a key taken from the union; kept as a guard.
			continue
		}

		tags := make(map[TypeTag]struct{})
		for _, val := range values {
			tags[TagOf(val)] = struct{}{}
		}
		if len(tags) > 1 {
			// Heterogeneous field: dropped, not modeled, never validated.
			continue
		}

		var tag TypeTag
		for t := range tags {
			tag = t
		}
		fields[key] = FieldSchema{Type: tag, Required: presentInAll}
	}

	if len(fields) == 0 {
		return nil
	}
	return &Template{Fields: fields, SampleSize: len(objects)}
}
