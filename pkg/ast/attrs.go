package ast

// AttributeValue is either a reference into the source or an owned string
// computed from several source fragments.
type AttributeValue struct {
	value string

	// Span is set for referenced values only.
	Span Span

	ref bool
}

// Ref returns a value borrowed from the source at span.
func Ref(value string, span Span) AttributeValue {
	return AttributeValue{value: value, Span: span, ref: true}
}

// Owned returns a computed value that does not map to a single source range.
func Owned(value string) AttributeValue {
	return AttributeValue{value: value}
}

// String returns the value text.
func (v AttributeValue) String() string {
	return v.value
}

// IsRef reports whether the value references the source.
func (v AttributeValue) IsRef() bool {
	return v.ref
}

// Attribute is a key/value pair.
type Attribute struct {
	Key   string
	Value AttributeValue
}

// Attributes is an ordered attribute sequence. It is not a map: keys may
// repeat and lookups return the first match.
type Attributes []Attribute

// Get returns the first value stored under key.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value.String(), true
		}
	}
	return "", false
}

// GetAll returns every value stored under key in insertion order.
func (a Attributes) GetAll(key string) []string {
	var values []string
	for _, attr := range a {
		if attr.Key == key {
			values = append(values, attr.Value.String())
		}
	}
	return values
}

// Count returns how many attributes use key.
func (a Attributes) Count(key string) int {
	count := 0
	for _, attr := range a {
		if attr.Key == key {
			count++
		}
	}
	return count
}
