package metadata

import "encoding/json"

// Value holds an overflow metadata entry: a plain string unless the source
// reported more than one value for the key, in which case the full list is
// kept. Marshals as a JSON string or array accordingly.
type Value struct {
	text string
	list []string
}

func Text(s string) Value {
	return Value{text: s}
}

func List(vals []string) Value {
	if len(vals) == 0 {
		return Value{}
	}
	if len(vals) == 1 {
		return Value{text: vals[0]}
	}
	copied := make([]string, len(vals))
	copy(copied, vals)
	return Value{list: copied}
}

// IsList reports whether the value carries multiple entries.
func (v Value) IsList() bool {
	return v.list != nil
}

// String returns the scalar value, or the first list entry for multi-valued
// entries.
func (v Value) String() string {
	if v.list != nil {
		return v.list[0]
	}
	return v.text
}

// Strings returns every entry of the value.
func (v Value) Strings() []string {
	if v.list != nil {
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	}
	return []string{v.text}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.list != nil {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value{text: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*v = List(list)
	return nil
}
