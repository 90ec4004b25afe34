package template

import "testing"

func TestResolveField_Known(t *testing.T) {
	values := map[string]string{"hospital_name": "City General"}
	if got := ResolveField("hospital_name", values); got != "City General" {
		t.Errorf("expected City General, got %q", got)
	}
}

func TestResolveField_MissingRendersPlaceholder(t *testing.T) {
	got := ResolveField("hospital_tax_id", map[string]string{})
	if got != "[unresolved: hospital_tax_id]" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestResolveField_EmptyValueRendersPlaceholder(t *testing.T) {
	got := ResolveField("hospital_phone", map[string]string{"hospital_phone": ""})
	if got != "[unresolved: hospital_phone]" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestResolveElements(t *testing.T) {
	elements := []Element{
		{ID: "e1", Type: ElementText, Text: "Laboratory Report"},
		{ID: "e2", Type: ElementField, FieldKey: "hospital_name"},
		{ID: "e3", Type: ElementField, FieldKey: "hospital_email"},
	}
	values := map[string]string{"hospital_name": "City General"}

	resolved := ResolveElements(elements, values)

	if resolved[0].Text != "Laboratory Report" {
		t.Errorf("non-field element changed: %+v", resolved[0])
	}
	if resolved[1].Type != ElementText || resolved[1].Text != "City General" {
		t.Errorf("field element not resolved: %+v", resolved[1])
	}
	if resolved[2].Text != "[unresolved: hospital_email]" {
		t.Errorf("missing value should render placeholder: %+v", resolved[2])
	}

	// Source slice must be untouched.
	if elements[1].Type != ElementField {
		t.Error("ResolveElements mutated its input")
	}
}
