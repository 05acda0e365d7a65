package model

import "encoding/json"

// Optional distinguishes a JSON field that was omitted from one explicitly
// set to null. UnmarshalJSON only runs for keys present in the payload, so
// Set is true exactly when the client supplied the field, and Value is nil
// when the client sent null. Patch updates use this to tell "leave the
// column alone" apart from "clear the column".
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}
