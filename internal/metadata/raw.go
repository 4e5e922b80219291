package metadata

// RawMetadata is the multi-valued property bag produced by content
// extraction. Keys keep their insertion order and may carry more than one
// value, mirroring how document formats report repeated properties.
type RawMetadata struct {
	keys   []string
	values map[string][]string
}

func NewRawMetadata() *RawMetadata {
	return &RawMetadata{
		values: make(map[string][]string),
	}
}

// Add appends a value under key, preserving earlier values.
func (m *RawMetadata) Add(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Set replaces all values under key.
func (m *RawMetadata) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = []string{value}
}

// Get returns the first value for key, or "" when the key is absent.
func (m *RawMetadata) Get(key string) string {
	vals := m.values[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// Values returns all values recorded under key, nil when absent.
func (m *RawMetadata) Values(key string) []string {
	return m.values[key]
}

// Has reports whether key carries at least one value.
func (m *RawMetadata) Has(key string) bool {
	return len(m.values[key]) > 0
}

// Keys returns the keys in insertion order.
func (m *RawMetadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of distinct keys.
func (m *RawMetadata) Len() int {
	return len(m.keys)
}
