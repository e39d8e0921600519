package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Document holds a parsed JSON document in a form the template and
// validation engines can work with. Root is the normalized value tree;
// RootIsArray records whether the document root is a JSON array, the
// only shape templates are inferred from.
type Document struct {
	Root        JSONValue
	RootIsArray bool
}
