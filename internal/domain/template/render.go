package template

import "github.com/labdesk/labdesk/internal/render"

// RenderElements resolves field elements against the hospital's values and
// converts the template into the renderer's flat element form.
func RenderElements(elements []Element, values map[string]string) []render.Element {
	resolved := ResolveElements(elements, values)
	out := make([]render.Element, 0, len(resolved))
	for _, e := range resolved {
		re := render.Element{
			Type:      e.Type,
			X:         e.Position.X,
			Y:         e.Position.Y,
			Text:      e.Text,
			HTML:      e.HTML,
			Src:       e.Src,
			Thickness: e.Thickness,
		}
		if e.Size != nil {
			re.W, re.H = e.Size.W, e.Size.H
		}
		if e.Style != nil {
			re.Color = e.Style.Color
			re.FontSize = e.Style.FontSize
			re.Bold = e.Style.FontWeight == "bold"
			re.Align = e.Style.TextAlign
		}
		if e.Type == ElementLine && e.LineColor != "" {
			re.Color = e.LineColor
		}
		out = append(out, re)
	}
	return out
}
