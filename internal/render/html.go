package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	htmltemplate "html/template"
	"strings"
)

type htmlRow struct {
	Label    string
	Value    string
	Unit     string
	RefRange string
	Abnormal bool
	Arrow    string
}

type htmlElement struct {
	Type     string
	Style    htmltemplate.CSS
	Text     string
	HTML     htmltemplate.HTML
	Src      string
	LineCSS  htmltemplate.CSS
}

type htmlData struct {
	ReportID    string
	Patient     Patient
	TestName    string
	ReferredBy  string
	CollectedAt string
	ReportedAt  string

	Rows          []htmlRow
	NoResults     bool
	NoResultsText string

	QRDataURI htmltemplate.URL

	DefaultHeader bool
	HospitalName  string
	HospitalLines []string
	Elements      []htmlElement

	Watermark string
	PageW     float64
	PageH     float64
	Margin    float64
}

// RenderHTML produces the on-screen/print view of a report. The page is sized
// to A4 in points so the browser print preview matches the PDF artifact.
func (r *Renderer) RenderHTML(in Input) (string, error) {
	rows := FilterRows(in.Rows)
	data := htmlData{
		ReportID:      in.ReportID,
		Patient:       in.Patient,
		TestName:      in.TestName,
		ReferredBy:    in.ReferredBy,
		CollectedAt:   formatDate(in.CollectedAt),
		ReportedAt:    formatDate(in.ReportedAt),
		NoResults:     len(rows) == 0,
		NoResultsText: noResultsText,
		Watermark:     in.Watermark,
		PageW:         PageWidthPt,
		PageH:         PageHeightPt,
		Margin:        MarginPt,
	}

	for _, row := range rows {
		hr := htmlRow{Label: row.Label, Value: row.Value, Unit: row.Unit, RefRange: row.RefRange}
		switch EvaluateRange(row.Value, row.RefRange) {
		case AboveRange:
			hr.Abnormal = true
			hr.Arrow = "↑"
		case BelowRange:
			hr.Abnormal = true
			hr.Arrow = "↓"
		}
		data.Rows = append(data.Rows, hr)
	}

	if png := r.qrPNG(in); png != nil {
		data.QRDataURI = htmltemplate.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	if len(in.Header) > 0 {
		data.Elements = toHTMLElements(in.Header)
	} else {
		data.DefaultHeader = true
		data.HospitalName = in.Hospital["hospital_name"]
		data.HospitalLines = defaultHeaderLines(in.Hospital)
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// defaultHeaderLines composes the fallback header band from whichever hospital
// fields are present.
func defaultHeaderLines(hospital map[string]string) []string {
	var lines []string
	if v := hospital["hospital_address"]; v != "" {
		lines = append(lines, v)
	}
	var contact []string
	if v := hospital["hospital_phone"]; v != "" {
		contact = append(contact, "Phone: "+v)
	}
	if v := hospital["hospital_email"]; v != "" {
		contact = append(contact, "Email: "+v)
	}
	if len(contact) > 0 {
		lines = append(lines, strings.Join(contact, "  |  "))
	}
	var reg []string
	if v := hospital["hospital_reg_no"]; v != "" {
		reg = append(reg, "Reg. No: "+v)
	}
	if v := hospital["hospital_tax_id"]; v != "" {
		reg = append(reg, "Tax ID: "+v)
	}
	if len(reg) > 0 {
		lines = append(lines, strings.Join(reg, "  |  "))
	}
	return lines
}

func toHTMLElements(elements []Element) []htmlElement {
	out := make([]htmlElement, 0, len(elements))
	for _, e := range elements {
		he := htmlElement{Type: e.Type}
		css := fmt.Sprintf("position:absolute;left:%.2fpt;top:%.2fpt;", e.X, e.Y)
		if e.W > 0 {
			css += fmt.Sprintf("width:%.2fpt;", e.W)
		}
		if e.H > 0 {
			css += fmt.Sprintf("height:%.2fpt;", e.H)
		}
		if e.FontSize > 0 {
			css += fmt.Sprintf("font-size:%.1fpt;", e.FontSize)
		}
		if e.Bold {
			css += "font-weight:bold;"
		}
		if e.Color != "" {
			css += "color:" + sanitizeColor(e.Color) + ";"
		}
		if e.Align != "" {
			css += "text-align:" + e.Align + ";"
		}
		he.Style = htmltemplate.CSS(css)

		switch e.Type {
		case "text":
			he.Text = e.Text
		case "html":
			// Template HTML is authored by hospital admins and stored
			// server-side; it is trusted markup by the time it gets here.
			he.HTML = htmltemplate.HTML(e.HTML)
		case "logo":
			he.Src = e.Src
		case "line":
			he.LineCSS = htmltemplate.CSS(fmt.Sprintf(
				"border-top:%.2fpt solid %s;", e.Thickness, sanitizeColor(e.Color)))
		}
		out = append(out, he)
	}
	return out
}

// sanitizeColor keeps only hex colors and simple names; anything else falls
// back to black so stored styles cannot smuggle CSS.
func sanitizeColor(c string) string {
	if c == "" {
		return "#000"
	}
	for _, r := range c {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '#':
		default:
			return "#000"
		}
	}
	return c
}

var reportTmpl = htmltemplate.Must(htmltemplate.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Lab Report {{.ReportID}}</title>
<style>
  @page { size: A4; margin: 0; }
  body { margin: 0; font-family: Helvetica, Arial, sans-serif; font-size: 10pt; color: #111; }
  .page { position: relative; width: {{.PageW}}pt; min-height: {{.PageH}}pt; margin: 0 auto; background: #fff; overflow: hidden; }
  .band { padding: 0 {{.Margin}}pt; }
  .header { padding-top: 24pt; text-align: center; }
  .header h1 { margin: 0; font-size: 18pt; }
  .header p { margin: 2pt 0; font-size: 9pt; color: #333; }
  .rule { border: none; border-top: 1.5pt solid #222; margin: 8pt {{.Margin}}pt; }
  .meta { display: flex; justify-content: space-between; font-size: 9.5pt; margin-top: 8pt; }
  .meta div p { margin: 2pt 0; }
  .test-name { text-align: center; font-size: 13pt; font-weight: bold; margin: 12pt 0 6pt; text-transform: uppercase; }
  table.results { width: 100%; border-collapse: collapse; font-size: 10pt; }
  table.results th { text-align: left; border-top: 1pt solid #222; border-bottom: 1pt solid #222; padding: 5pt 4pt; }
  table.results td { padding: 5pt 4pt; border-bottom: 0.5pt solid #ddd; }
  tr.abnormal td { font-weight: bold; color: #c41e1e; }
  .no-results { text-align: center; color: #666; padding: 24pt 0; font-style: italic; }
  .footer { position: absolute; bottom: 0; left: 0; right: 0; padding: 8pt {{.Margin}}pt 16pt; font-size: 8pt; color: #555; border-top: 0.75pt solid #bbb; display: flex; justify-content: space-between; align-items: flex-end; }
  .qr { text-align: center; }
  .qr img { width: 72pt; height: 72pt; }
  .qr span { display: block; font-size: 7pt; }
  .watermark { position: absolute; top: 40%; left: 0; right: 0; text-align: center; font-size: 56pt; color: rgba(0,0,0,0.07); transform: rotate(-30deg); pointer-events: none; }
  @media print { body { background: #fff; } }
</style>
</head>
<body>
<div class="page">
{{if .Watermark}}<div class="watermark">{{.Watermark}}</div>{{end}}
{{if .DefaultHeader}}
  <div class="band header">
    <h1>{{.HospitalName}}</h1>
    {{range .HospitalLines}}<p>{{.}}</p>{{end}}
  </div>
  <hr class="rule">
{{else}}
  <div style="position:relative;height:110pt;">
  {{range .Elements}}
    {{if eq .Type "text"}}<div style="{{.Style}}">{{.Text}}</div>{{end}}
    {{if eq .Type "html"}}<div style="{{.Style}}">{{.HTML}}</div>{{end}}
    {{if eq .Type "logo"}}<img style="{{.Style}}" src="{{.Src}}" alt="">{{end}}
    {{if eq .Type "line"}}<div style="{{.Style}}{{.LineCSS}}"></div>{{end}}
  {{end}}
  </div>
{{end}}
  <div class="band">
    <div class="meta">
      <div>
        <p><strong>Patient:</strong> {{.Patient.Name}}</p>
        <p><strong>Age / Gender:</strong> {{.Patient.Age}} / {{.Patient.Gender}}</p>
        <p><strong>Referred By:</strong> {{.ReferredBy}}</p>
      </div>
      <div>
        <p><strong>Report ID:</strong> {{.ReportID}}</p>
        <p><strong>Collected:</strong> {{.CollectedAt}}</p>
        <p><strong>Reported:</strong> {{.ReportedAt}}</p>
      </div>
    </div>
    <div class="test-name">{{.TestName}}</div>
{{if .NoResults}}
    <div class="no-results">{{.NoResultsText}}</div>
{{else}}
    <table class="results">
      <thead>
        <tr><th>Parameter</th><th>Result</th><th>Unit</th><th>Reference Range</th></tr>
      </thead>
      <tbody>
{{range .Rows}}
        <tr{{if .Abnormal}} class="abnormal"{{end}}><td>{{.Label}}</td><td>{{.Value}} {{.Arrow}}</td><td>{{.Unit}}</td><td>{{.RefRange}}</td></tr>
{{end}}
      </tbody>
    </table>
{{end}}
  </div>
  <div class="footer">
    <div>
      <p>This report is electronically generated and verified.</p>
      <p>Report ID: {{.ReportID}}</p>
    </div>
{{if .QRDataURI}}
    <div class="qr"><img src="{{.QRDataURI}}" alt="verification qr"><span>Scan to verify</span></div>
{{end}}
  </div>
</div>
</body>
</html>
`))
