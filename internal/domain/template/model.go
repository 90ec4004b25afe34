package template

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Element type discriminators. The union is closed: the renderer switches
// exhaustively over these and anything else is rejected at decode time.
const (
	ElementText  = "text"
	ElementHTML  = "html"
	ElementLogo  = "logo"
	ElementLine  = "line"
	ElementField = "field"
)

// FieldKeys is the closed set of symbolic field references a template may
// carry. An element with a key outside this set is rejected when the template
// is stored; a stored key with no resolved value still renders, as a visible
// placeholder.
var FieldKeys = map[string]bool{
	"hospital_name":    true,
	"hospital_address": true,
	"hospital_phone":   true,
	"hospital_email":   true,
	"hospital_tax_id":  true,
	"hospital_reg_no":  true,
}

// Position is an absolute position on the page, in points.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an optional explicit element size, in points.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Style carries the optional per-element text styling.
type Style struct {
	Color      string  `json:"color,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontWeight string  `json:"font_weight,omitempty"`
	TextAlign  string  `json:"text_align,omitempty"`
}

// Element is one positioned visual element of a letterhead template. Exactly
// one of the payload fields (Text, HTML, Src, Line, FieldKey) is meaningful,
// selected by Type.
type Element struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Size     *Size    `json:"size,omitempty"`
	Style    *Style   `json:"style,omitempty"`

	// Payload, by Type.
	Text      string  `json:"text,omitempty"`       // ElementText
	HTML      string  `json:"html,omitempty"`       // ElementHTML
	Src       string  `json:"src,omitempty"`        // ElementLogo
	Thickness float64 `json:"thickness,omitempty"`  // ElementLine
	LineColor string  `json:"line_color,omitempty"` // ElementLine
	FieldKey  string  `json:"field_key,omitempty"`  // ElementField
}

// Validate checks the discriminator and its payload.
func (e *Element) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("element id is required")
	}
	switch e.Type {
	case ElementText:
		if e.Text == "" {
			return fmt.Errorf("element %s: text payload is required", e.ID)
		}
	case ElementHTML:
		if e.HTML == "" {
			return fmt.Errorf("element %s: html payload is required", e.ID)
		}
	case ElementLogo:
		if e.Src == "" {
			return fmt.Errorf("element %s: logo src is required", e.ID)
		}
	case ElementLine:
		if e.Thickness <= 0 {
			return fmt.Errorf("element %s: line thickness must be positive", e.ID)
		}
	case ElementField:
		if !FieldKeys[e.FieldKey] {
			return fmt.Errorf("element %s: unknown field key %q", e.ID, e.FieldKey)
		}
	default:
		return fmt.Errorf("element %s: unknown element type %q", e.ID, e.Type)
	}
	return nil
}

// UnmarshalJSON decodes and validates an element, keeping the union closed at
// the storage boundary.
func (e *Element) UnmarshalJSON(data []byte) error {
	type alias Element
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Element(a)
	return e.Validate()
}

// Settings holds template-wide rendering options.
type Settings struct {
	PrimaryColor    string `json:"primary_color,omitempty"`
	FontFamily      string `json:"font_family,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	Watermark       string `json:"watermark,omitempty"`
}

// Template is a named letterhead layout. Elements keep insertion order, which
// is also the paint order: later elements draw on top of earlier ones.
type Template struct {
	ID          uuid.UUID `db:"id" json:"id"`
	HospitalID  uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Elements    []Element `db:"elements" json:"elements"`
	Settings    Settings  `db:"settings" json:"settings"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Validate checks the template and every element in it.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	seen := make(map[string]bool, len(t.Elements))
	for i := range t.Elements {
		e := &t.Elements[i]
		if err := e.Validate(); err != nil {
			return err
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate element id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}
