package model

import (
	"github.com/goccy/go-json"
)

// Fields is the schemaless body of a stored document.
type Fields = map[string]interface{}

// EncodeFields converts a typed document into its Fields form.
func EncodeFields(v interface{}) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// DecodeFields converts Fields into a typed document. Unknown keys are ignored.
func DecodeFields(fields Fields, out interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
