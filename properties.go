package tetradae

import "sort"

// Properties is an unordered set of property names to values, carrying data on Nodes. The COLLADA loader stores
// each node's document id, sid, and type under "dae.id", "dae.sid", and "dae.type".
type Properties struct {
	props map[string]*Property
}

// NewProperties returns a new Properties object.
func NewProperties() *Properties {
	return &Properties{props: map[string]*Property{}}
}

// Clone returns a copy of the Properties; the values themselves are copied shallowly.
func (props *Properties) Clone() *Properties {
	newProps := NewProperties()
	for name, prop := range props.props {
		newProps.props[name] = &Property{Value: prop.Value}
	}
	return newProps
}

// Set sets the property of the given name to value, creating the property if necessary.
func (props *Properties) Set(propName string, value any) {
	props.Get(propName).Set(value)
}

// Get returns the property with the specified name, adding an empty one first if it doesn't exist.
func (props *Properties) Get(propName string) *Property {
	if _, ok := props.props[propName]; !ok {
		props.props[propName] = &Property{}
	}
	return props.props[propName]
}

// Has returns true if the Properties object has properties by all of the names specified, and false otherwise.
func (props *Properties) Has(propNames ...string) bool {
	for _, name := range propNames {
		if _, exists := props.props[name]; !exists {
			return false
		}
	}
	return true
}

// Remove removes the property specified.
func (props *Properties) Remove(propName string) {
	delete(props.props, propName)
}

// Names returns the names of all properties, sorted.
func (props *Properties) Names() []string {
	names := make([]string, 0, len(props.props))
	for name := range props.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Property represents a single value in a Properties set.
type Property struct {
	Value any
}

// Set sets the property's value to the given value.
func (prop *Property) Set(value any) {
	prop.Value = value
}

// AsString returns the value as a string, and whether it is one.
func (prop *Property) AsString() (string, bool) {
	s, ok := prop.Value.(string)
	return s, ok
}

// AsFloat returns the value as a float32, and whether it is one.
func (prop *Property) AsFloat() (float32, bool) {
	f, ok := prop.Value.(float32)
	return f, ok
}

// AsInt returns the value as an int, and whether it is one.
func (prop *Property) AsInt() (int, bool) {
	i, ok := prop.Value.(int)
	return i, ok
}

// AsColor returns the value as a Color, and whether it is one.
func (prop *Property) AsColor() (Color, bool) {
	c, ok := prop.Value.(Color)
	return c, ok
}

// AsVector returns the value as a Vector3, and whether it is one.
func (prop *Property) AsVector() (Vector3, bool) {
	v, ok := prop.Value.(Vector3)
	return v, ok
}
