package template

import "fmt"

// ResolveField maps a symbolic field key to its concrete value. An unresolved
// key never fails the render; it produces a visible placeholder instead so a
// designer can spot the gap on the printed page.
func ResolveField(key string, values map[string]string) string {
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return fmt.Sprintf("[unresolved: %s]", key)
}

// ResolveElements returns a copy of the elements with every field element's
// payload replaced by its resolved text. Non-field elements pass through
// untouched.
func ResolveElements(elements []Element, values map[string]string) []Element {
	out := make([]Element, len(elements))
	copy(out, elements)
	for i := range out {
		if out[i].Type == ElementField {
			out[i].Type = ElementText
			out[i].Text = ResolveField(out[i].FieldKey, values)
			out[i].FieldKey = ""
		}
	}
	return out
}
